package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/courseman/internal/course"
	"github.com/hitoshi/courseman/internal/middleware"
	"github.com/hitoshi/courseman/internal/model"
)

// CourseServiceInterface はコースハンドラーが必要とするサービスインターフェース。
type CourseServiceInterface interface {
	// List は全コースを所有者情報付きで返す。
	List(ctx context.Context) ([]model.CourseWithOwner, error)
	// Get は指定IDのコースを返す。不在時はmodel.ErrCourseNotFoundを返す。
	Get(ctx context.Context, id string) (*model.CourseWithOwner, error)
	// Create はコースを作成する。所有者はactorで固定される。
	Create(ctx context.Context, actor *model.User, input course.Input) (*model.Course, error)
	// Update は所有者チェックの上でコースを更新する。
	Update(ctx context.Context, actor *model.User, id string, input course.Input) error
	// Delete は所有者チェックの上でコースを削除する。
	Delete(ctx context.Context, actor *model.User, id string) error
}

// CourseCreatedRecorder はコース作成メトリクスの記録インターフェース。
type CourseCreatedRecorder interface {
	RecordCourseCreated()
}

// CourseHandler はコース管理のHTTPハンドラー。
type CourseHandler struct {
	service CourseServiceInterface
	metrics CourseCreatedRecorder
}

// NewCourseHandler はCourseHandlerを生成する。metricsはnilでもよい。
func NewCourseHandler(service CourseServiceInterface, metrics CourseCreatedRecorder) *CourseHandler {
	return &CourseHandler{
		service: service,
		metrics: metrics,
	}
}

// courseRequest はコースの作成・更新リクエストのボディ。
// userIdフィールドを送信しても無視され、所有者は常に認証済みユーザーになる。
type courseRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	EstimatedTime   string `json:"estimatedTime"`
	MaterialsNeeded string `json:"materialsNeeded"`
}

// courseResponse はコース情報のAPIレスポンス。所有者の公開フィールドをネストする。
type courseResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	EstimatedTime   string     `json:"estimatedTime"`
	MaterialsNeeded string     `json:"materialsNeeded"`
	UserID          string     `json:"userId"`
	User            publicUser `json:"user"`
}

// coursesListResponse はGET /coursesのレスポンスボディ。
type coursesListResponse struct {
	Courses []courseResponse `json:"courses"`
}

// singleCourseResponse はGET /courses/{id}のレスポンスボディ。
type singleCourseResponse struct {
	Course courseResponse `json:"course"`
}

// toCourseResponse はmodel.CourseWithOwnerからAPIレスポンスに変換する。
func toCourseResponse(cw *model.CourseWithOwner) courseResponse {
	return courseResponse{
		ID:              cw.ID,
		Title:           cw.Title,
		Description:     cw.Description,
		EstimatedTime:   cw.EstimatedTime,
		MaterialsNeeded: cw.MaterialsNeeded,
		UserID:          cw.UserID,
		User:            toPublicUser(&cw.Owner),
	}
}

// List は全コースの一覧を返す。認証不要。
// GET /courses
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]courseResponse, 0, len(courses))
	for i := range courses {
		responses = append(responses, toCourseResponse(&courses[i]))
	}

	writeJSON(w, http.StatusOK, coursesListResponse{Courses: responses})
}

// Get は指定IDのコースを返す。認証不要。
// GET /courses/{id}
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "id")

	cw, err := h.service.Get(r.Context(), courseID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, singleCourseResponse{Course: toCourseResponse(cw)})
}

// Create はコースを作成する。
// POST /courses
// 成功時は201を返し、Locationヘッダーに"/courses/{id}"を設定する。ボディは返さない。
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAccessDenied(w)
		return
	}

	var req courseRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidJSON(w)
		return
	}

	created, err := h.service.Create(r.Context(), actor, course.Input{
		Title:           req.Title,
		Description:     req.Description,
		EstimatedTime:   req.EstimatedTime,
		MaterialsNeeded: req.MaterialsNeeded,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordCourseCreated()
	}

	w.Header().Set("Location", "/courses/"+created.ID)
	w.WriteHeader(http.StatusCreated)
}

// Update は指定IDのコースを更新する。所有者のみ実行できる。
// PUT /courses/{id}
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAccessDenied(w)
		return
	}

	courseID := chi.URLParam(r, "id")

	var req courseRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidJSON(w)
		return
	}

	err = h.service.Update(r.Context(), actor, courseID, course.Input{
		Title:           req.Title,
		Description:     req.Description,
		EstimatedTime:   req.EstimatedTime,
		MaterialsNeeded: req.MaterialsNeeded,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete は指定IDのコースを削除する。所有者のみ実行できる。
// DELETE /courses/{id}
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.UserFromContext(r.Context())
	if err != nil {
		writeAccessDenied(w)
		return
	}

	courseID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), actor, courseID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
