// Package handler はHTTPハンドラーとルーティングを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/courseman/internal/model"
)

// messageResponse は単一メッセージのレスポンスボディ。
type messageResponse struct {
	Message string `json:"message"`
}

// validationErrorsResponse は検証違反メッセージの一覧を返すレスポンスボディ。
// メッセージは評価順（フィールド宣言順）を保持する。
type validationErrorsResponse struct {
	Errors []string `json:"errors"`
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// handleServiceError はサービス層から返されたエラーを
// クライアント向けの統一エラーレスポンスに変換する終端ステージ。
//
//	検証違反               → 400 {"errors":[...]}
//	コース不在             → 404 {"message":"Course Not Found"}
//	所有者不一致           → 403 ボディなし
//	その他（ストア障害等） → 500 一般メッセージ、詳細はログのみ
//
// スタックトレース・内部ID・ハッシュはどのレスポンスにも含めない。
func handleServiceError(w http.ResponseWriter, err error) {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, validationErrorsResponse{Errors: validationErr.Messages})
		return
	}

	if errors.Is(err, model.ErrCourseNotFound) {
		writeJSON(w, http.StatusNotFound, messageResponse{Message: "Course Not Found"})
		return
	}

	if errors.Is(err, model.ErrNotCourseOwner) {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	slog.Error("internal server error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Internal Server Error"})
}

// writeAccessDenied は認証失敗の統一401レスポンスを書き込む。
// 認証ミドルウェアと同一のボディを返す。
func writeAccessDenied(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "Access Denied"})
}

// writeInvalidJSON はリクエストボディの解析失敗を検証違反として報告する。
func writeInvalidJSON(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, validationErrorsResponse{
		Errors: []string{"Please provide a valid JSON request body"},
	})
}
