// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hitoshi/courseman/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userContextKey はリクエストコンテキストに認証済みユーザーを格納するためのキー。
var userContextKey = contextKey("current_user")

// Authenticator は認証判定のインターフェース。
// auth.Serviceが実装する。
type Authenticator interface {
	Authenticate(ctx context.Context, authHeader string) (*model.User, error)
}

// AuthFailureRecorder は認証失敗メトリクスの記録インターフェース。
type AuthFailureRecorder interface {
	RecordAuthFailure(reason string)
}

// accessDeniedBody は認証失敗時の統一レスポンスボディ。
// 失敗理由（ヘッダーなし・ユーザー不在・パスワード不一致）を問わず同一の
// ボディを返し、メールアドレスの登録有無を外部から判別できないようにする。
type accessDeniedBody struct {
	Message string `json:"message"`
}

// NewBasicAuthMiddleware はAuthorizationヘッダーのBasicクレデンシャルを
// 毎リクエスト検証するミドルウェアを返す。
// 認証成功時はユーザーをリクエストコンテキストに注入する。
// 認証失敗時は理由を診断ログにのみ記録し、401 {"message":"Access Denied"}を返す。
// ユーザー検索自体の失敗（ストア障害）は500を返す。
func NewBasicAuthMiddleware(authn Authenticator, failures AuthFailureRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authn.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				var authErr *model.AuthError
				if errors.As(err, &authErr) {
					slog.Warn("authentication failed",
						slog.String("reason", authErr.Reason),
						slog.String("email", authErr.Email),
						slog.String("path", r.URL.Path),
					)
					if failures != nil {
						failures.RecordAuthFailure(authErr.Reason)
					}
					writeAccessDenied(w)
					return
				}

				slog.Error("authentication lookup failed",
					slog.String("error", err.Error()),
				)
				writeInternalError(w)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext はリクエストコンテキストから認証済みユーザーを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func UserFromContext(ctx context.Context) (*model.User, error) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	if !ok || user == nil {
		return nil, fmt.Errorf("authenticated user not found in context")
	}
	return user, nil
}

// ContextWithUser はコンテキストに認証済みユーザーを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// writeAccessDenied は認証失敗の統一401レスポンスを書き込む。
func writeAccessDenied(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(accessDeniedBody{Message: "Access Denied"})
}

// writeInternalError は詳細を含まない一般的な500レスポンスを書き込む。
func writeInternalError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(accessDeniedBody{Message: "Internal Server Error"})
}
