// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
	"strings"
)

// 認証失敗のサーバー内部向け理由。
// クライアントへのレスポンスは理由に関わらず一律401 "Access Denied"とし、
// 登録済みメールアドレスの存在を外部から判別できないようにする。
const (
	AuthReasonNoCredentials = "auth header not found"
	AuthReasonUserNotFound  = "user not found"
	AuthReasonBadPassword   = "password mismatch"
)

// AuthError は認証失敗を表す。
// Reasonはサーバー側の診断ログ専用であり、レスポンスボディには含めない。
type AuthError struct {
	Reason string
	// Email は認証を試行したメールアドレス。診断ログ専用。
	Email string
}

// Error はerrorインターフェースを実装する。
func (e *AuthError) Error() string {
	if e.Email != "" {
		return fmt.Sprintf("authentication failed: %s: %s", e.Reason, e.Email)
	}
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// NewAuthError は認証失敗エラーを生成する。
func NewAuthError(reason, email string) *AuthError {
	return &AuthError{Reason: reason, Email: email}
}

// ValidationError は入力検証違反の集合を表す。
// Messagesは評価順（フィールド宣言順）を保持する。
type ValidationError struct {
	Messages []string
}

// Error はerrorインターフェースを実装する。
func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// NewValidationError は検証違反エラーを生成する。
func NewValidationError(messages []string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// ErrCourseNotFound は指定IDのコースが存在しないことを表す。
var ErrCourseNotFound = errors.New("course not found")

// ErrNotCourseOwner は認証済みユーザーがコースの所有者でないことを表す。
// 403 Forbidden（ボディなし）にマッピングされる。
var ErrNotCourseOwner = errors.New("not the course owner")
