package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/courseman/internal/middleware"
	"github.com/hitoshi/courseman/internal/model"
	"github.com/hitoshi/courseman/internal/user"
)

// maxBodyBytes は更新系エンドポイントのリクエストボディ上限（1MiB）。
const maxBodyBytes = 1 << 20

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// Register はユーザーを登録する。検証違反時は*model.ValidationErrorを返す。
	Register(ctx context.Context, input user.RegistrationInput) (*model.User, error)
}

// RegistrationRecorder はユーザー登録メトリクスの記録インターフェース。
type RegistrationRecorder interface {
	RecordRegistration()
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
	metrics RegistrationRecorder
}

// NewUserHandler はUserHandlerを生成する。metricsはnilでもよい。
func NewUserHandler(service UserServiceInterface, metrics RegistrationRecorder) *UserHandler {
	return &UserHandler{
		service: service,
		metrics: metrics,
	}
}

// registerRequest はユーザー登録リクエストのボディ。
type registerRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
	Password     string `json:"password"`
}

// publicUser はAPIレスポンスに含めるユーザーの公開フィールド。
// パスワードハッシュは含めない。
type publicUser struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
}

// currentUserResponse はGET /usersのレスポンスボディ。
type currentUserResponse struct {
	CurrentUser publicUser `json:"currentUser"`
}

// toPublicUser はmodel.Userから公開フィールドのみを抽出する。
func toPublicUser(u *model.User) publicUser {
	return publicUser{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		EmailAddress: u.EmailAddress,
	}
}

// GetCurrent は認証済みユーザー自身の情報を返す。
// GET /users
func (h *UserHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	current, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAccessDenied(w)
		return
	}

	writeJSON(w, http.StatusOK, currentUserResponse{CurrentUser: toPublicUser(current)})
}

// Register はユーザー登録を処理する。
// POST /users
// 成功時は201を返し、Locationヘッダーに"/"を設定する。ボディは返さない。
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidJSON(w)
		return
	}

	_, err := h.service.Register(r.Context(), user.RegistrationInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		EmailAddress: req.EmailAddress,
		Password:     req.Password,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordRegistration()
	}

	w.Header().Set("Location", "/")
	w.WriteHeader(http.StatusCreated)
}
