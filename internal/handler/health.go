package handler

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker はヘルスチェックで使用するDB疎通確認のインターフェース。
// *sql.DBが実装する。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// NewHealthHandler はヘルスチェックのHTTPハンドラーを返す。
// DBへの疎通が確認できれば200、できなければ503を返す。
// GET /health
func NewHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if checker != nil {
			if err := checker.PingContext(ctx); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, messageResponse{Message: "unhealthy"})
				return
			}
		}

		writeJSON(w, http.StatusOK, messageResponse{Message: "ok"})
	}
}
