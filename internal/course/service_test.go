package course

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/courseman/internal/model"
)

// --- モック定義 ---

// mockCourseRepo はrepository.CourseRepositoryのモック実装。
type mockCourseRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.CourseWithOwner, error)
	findAllFn  func(ctx context.Context) ([]model.CourseWithOwner, error)
	createFn   func(ctx context.Context, course *model.Course) error
	updateFn   func(ctx context.Context, course *model.Course) error
	deleteFn   func(ctx context.Context, id string) error
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*model.CourseWithOwner, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockCourseRepo) FindAll(ctx context.Context) ([]model.CourseWithOwner, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx)
	}
	return nil, nil
}

func (m *mockCourseRepo) Create(ctx context.Context, course *model.Course) error {
	if m.createFn != nil {
		return m.createFn(ctx, course)
	}
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *model.Course) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, course)
	}
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// storedCourse はテスト用の保存済みコースを生成する。
func storedCourse(id, ownerID string) *model.CourseWithOwner {
	return &model.CourseWithOwner{
		Course: model.Course{
			ID:          id,
			Title:       "Go入門",
			Description: "basics",
			UserID:      ownerID,
		},
		Owner: model.User{ID: ownerID},
	}
}

// actor はテスト用の認証済みユーザー。
func actor(id string) *model.User {
	return &model.User{ID: id, EmailAddress: "joe@x.com"}
}

// コース作成時に所有者が常にactorとなり、IDが採番されることを検証
func TestService_Create(t *testing.T) {
	var saved *model.Course
	repo := &mockCourseRepo{
		createFn: func(ctx context.Context, course *model.Course) error {
			saved = course
			return nil
		},
	}
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), actor("user-1"), Input{
		Title:       "Go入門",
		Description: "basics",
	})
	if err != nil {
		t.Fatalf("Create returned unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Error("expected generated course ID")
	}
	if created.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", created.UserID, "user-1")
	}
	if saved == nil || saved.ID != created.ID {
		t.Error("expected course to be persisted")
	}
}

// 検証違反時はValidationErrorが返り、ストアへ書き込まれないことを検証
func TestService_Create_ValidationErrors(t *testing.T) {
	repo := &mockCourseRepo{
		createFn: func(ctx context.Context, course *model.Course) error {
			t.Error("Create must not be called on validation failure")
			return nil
		},
	}
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), actor("user-1"), Input{})

	var vErr *model.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *model.ValidationError, got %T", err)
	}
	want := []string{
		`Please provide a value for "title"`,
		`Please provide a value for "description"`,
	}
	if len(vErr.Messages) != 2 || vErr.Messages[0] != want[0] || vErr.Messages[1] != want[1] {
		t.Errorf("Messages = %v, want %v", vErr.Messages, want)
	}
}

// 存在しないコースの取得はErrCourseNotFoundとなることを検証
func TestService_Get_NotFound(t *testing.T) {
	svc := NewService(&mockCourseRepo{})

	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, model.ErrCourseNotFound) {
		t.Errorf("err = %v, want ErrCourseNotFound", err)
	}
}

// 所有者による更新が成功し、フィールドが差し替わることを検証
func TestService_Update_ByOwner(t *testing.T) {
	var saved *model.Course
	repo := &mockCourseRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.CourseWithOwner, error) {
			return storedCourse(id, "user-1"), nil
		},
		updateFn: func(ctx context.Context, course *model.Course) error {
			saved = course
			return nil
		},
	}
	svc := NewService(repo)

	err := svc.Update(context.Background(), actor("user-1"), "course-1", Input{
		Title:       "改訂版",
		Description: "updated",
	})
	if err != nil {
		t.Fatalf("Update returned unexpected error: %v", err)
	}
	if saved == nil || saved.Title != "改訂版" {
		t.Errorf("saved = %+v, want updated title", saved)
	}
	// 所有者は更新で変わらない
	if saved.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", saved.UserID, "user-1")
	}
}

// 所有者以外による更新はErrNotCourseOwnerとなり、ストアへ書き込まれないことを検証
func TestService_Update_NotOwner(t *testing.T) {
	repo := &mockCourseRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.CourseWithOwner, error) {
			return storedCourse(id, "user-1"), nil
		},
		updateFn: func(ctx context.Context, course *model.Course) error {
			t.Error("Update must not be called for non-owner")
			return nil
		},
	}
	svc := NewService(repo)

	err := svc.Update(context.Background(), actor("user-2"), "course-1", Input{
		Title:       "乗っ取り",
		Description: "x",
	})
	if !errors.Is(err, model.ErrNotCourseOwner) {
		t.Errorf("err = %v, want ErrNotCourseOwner", err)
	}
}

// 更新のゲート順序を検証: 検証違反があれば存在確認より先に報告される
func TestService_Update_ValidationBeforeLookup(t *testing.T) {
	repo := &mockCourseRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.CourseWithOwner, error) {
			t.Error("FindByID must not be called before validation passes")
			return nil, nil
		},
	}
	svc := NewService(repo)

	err := svc.Update(context.Background(), actor("user-1"), "course-1", Input{})

	var vErr *model.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *model.ValidationError, got %T", err)
	}
}

// 存在しないコースの更新はErrCourseNotFoundとなることを検証
func TestService_Update_NotFound(t *testing.T) {
	svc := NewService(&mockCourseRepo{})

	err := svc.Update(context.Background(), actor("user-1"), "missing", Input{
		Title:       "x",
		Description: "y",
	})
	if !errors.Is(err, model.ErrCourseNotFound) {
		t.Errorf("err = %v, want ErrCourseNotFound", err)
	}
}

// 所有者による削除が成功することを検証
func TestService_Delete_ByOwner(t *testing.T) {
	var deletedID string
	repo := &mockCourseRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.CourseWithOwner, error) {
			return storedCourse(id, "user-1"), nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	svc := NewService(repo)

	if err := svc.Delete(context.Background(), actor("user-1"), "course-1"); err != nil {
		t.Fatalf("Delete returned unexpected error: %v", err)
	}
	if deletedID != "course-1" {
		t.Errorf("deleted ID = %q, want %q", deletedID, "course-1")
	}
}

// 所有者以外による削除はErrNotCourseOwnerとなり、削除されないことを検証
func TestService_Delete_NotOwner(t *testing.T) {
	repo := &mockCourseRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.CourseWithOwner, error) {
			return storedCourse(id, "user-1"), nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			t.Error("Delete must not be called for non-owner")
			return nil
		},
	}
	svc := NewService(repo)

	err := svc.Delete(context.Background(), actor("user-2"), "course-1")
	if !errors.Is(err, model.ErrNotCourseOwner) {
		t.Errorf("err = %v, want ErrNotCourseOwner", err)
	}
}

// ストア障害はドメインエラーではなく通常のエラーとして伝播することを検証
func TestService_List_StoreFailure(t *testing.T) {
	repo := &mockCourseRepo{
		findAllFn: func(ctx context.Context) ([]model.CourseWithOwner, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := NewService(repo)

	_, err := svc.List(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, model.ErrCourseNotFound) || errors.Is(err, model.ErrNotCourseOwner) {
		t.Errorf("store failure must not map to a domain error: %v", err)
	}
}
