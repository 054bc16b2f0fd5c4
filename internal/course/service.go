// Package course はコース管理のドメインロジックを提供する。
// 更新・削除では所有者チェックを毎回実行し、結果はキャッシュしない。
package course

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/courseman/internal/model"
	"github.com/hitoshi/courseman/internal/repository"
	"github.com/hitoshi/courseman/internal/validation"
)

// Input はコースの作成・更新リクエストの入力値。
// 所有者はリクエストボディからは受け取らず、常に認証済みユーザーとする。
type Input struct {
	Title           string
	Description     string
	EstimatedTime   string
	MaterialsNeeded string
}

// Service はコース管理のサービス層。
type Service struct {
	courses   repository.CourseRepository
	validator *validation.Validator
}

// NewService はServiceを生成する。
func NewService(courses repository.CourseRepository) *Service {
	return &Service{
		courses: courses,
		validator: validation.New(nil,
			validation.Rule{Field: "title", Kind: validation.Required},
			validation.Rule{Field: "description", Kind: validation.Required},
		),
	}
}

// List は全コースを所有者情報付きで返す。
func (s *Service) List(ctx context.Context) ([]model.CourseWithOwner, error) {
	courses, err := s.courses.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// Get は指定IDのコースを所有者情報付きで返す。
// 存在しない場合はmodel.ErrCourseNotFoundを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.CourseWithOwner, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, model.ErrCourseNotFound
	}
	return course, nil
}

// Create はコースを作成する。所有者はactorで固定される。
// 検証違反がある場合は*model.ValidationErrorを返し、ストアへの書き込みは行わない。
func (s *Service) Create(ctx context.Context, actor *model.User, input Input) (*model.Course, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	newCourse := &model.Course{
		ID:              uuid.New().String(),
		Title:           input.Title,
		Description:     input.Description,
		EstimatedTime:   input.EstimatedTime,
		MaterialsNeeded: input.MaterialsNeeded,
		UserID:          actor.ID,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := s.courses.Create(ctx, newCourse); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	slog.Info("course created",
		slog.String("course_id", newCourse.ID),
		slog.String("user_id", actor.ID),
	)

	return newCourse, nil
}

// Update は指定IDのコースを更新する。
// ゲートの評価順序: 入力検証 → 存在確認 → 所有者チェック → 更新。
// actorが所有者でない場合はmodel.ErrNotCourseOwnerを返し、コースは変更しない。
func (s *Service) Update(ctx context.Context, actor *model.User, id string, input Input) error {
	if err := s.validate(ctx, input); err != nil {
		return err
	}

	existing, err := s.authorizeOwner(ctx, actor, id)
	if err != nil {
		return err
	}

	existing.Title = input.Title
	existing.Description = input.Description
	existing.EstimatedTime = input.EstimatedTime
	existing.MaterialsNeeded = input.MaterialsNeeded

	if err := s.courses.Update(ctx, &existing.Course); err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	return nil
}

// Delete は指定IDのコースを削除する。
// actorが所有者でない場合はmodel.ErrNotCourseOwnerを返し、コースは変更しない。
func (s *Service) Delete(ctx context.Context, actor *model.User, id string) error {
	if _, err := s.authorizeOwner(ctx, actor, id); err != nil {
		return err
	}

	if err := s.courses.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	slog.Info("course deleted",
		slog.String("course_id", id),
		slog.String("user_id", actor.ID),
	)

	return nil
}

// authorizeOwner はコースをロードし、actorが所有者であることを確認する。
// 存在しない場合はmodel.ErrCourseNotFound、所有者不一致の場合は
// model.ErrNotCourseOwnerを返す。判定はリクエストごとに毎回行う。
func (s *Service) authorizeOwner(ctx context.Context, actor *model.User, id string) (*model.CourseWithOwner, error) {
	existing, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load course for authorization: %w", err)
	}
	if existing == nil {
		return nil, model.ErrCourseNotFound
	}
	if existing.UserID != actor.ID {
		slog.Warn("course ownership denied",
			slog.String("course_id", id),
			slog.String("owner_id", existing.UserID),
			slog.String("actor_id", actor.ID),
		)
		return nil, model.ErrNotCourseOwner
	}
	return existing, nil
}

// validate はコース入力の検証を行い、違反があれば*model.ValidationErrorを返す。
func (s *Service) validate(ctx context.Context, input Input) error {
	messages, err := s.validator.Validate(ctx, map[string]string{
		"title":       input.Title,
		"description": input.Description,
	})
	if err != nil {
		return fmt.Errorf("failed to validate course input: %w", err)
	}
	if len(messages) > 0 {
		return model.NewValidationError(messages)
	}
	return nil
}
