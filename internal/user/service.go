// Package user はユーザー登録のドメインロジックを提供する。
package user

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

// PasswordHasher はパスワードのハッシュ化インターフェース。
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

// RegistrationInput はユーザー登録リクエストの入力値。
type RegistrationInput struct {
	FirstName    string
	LastName     string
	EmailAddress string
	Password     string
}

// Service はユーザー登録のサービス層。
type Service struct {
	users     repository.UserRepository
	hasher    PasswordHasher
	validator *validation.Validator
}

// NewService はServiceを生成する。
// 登録時の検証ルールはフィールド宣言順に評価される。
func NewService(users repository.UserRepository, hasher PasswordHasher) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		validator: validation.New(users,
			validation.Rule{Field: "firstName", Kind: validation.Required},
			validation.Rule{Field: "lastName", Kind: validation.Required},
			validation.Rule{Field: "emailAddress", Kind: validation.Required},
			validation.Rule{Field: "emailAddress", Kind: validation.Email},
			validation.Rule{Field: "emailAddress", Kind: validation.UniqueEmail},
			validation.Rule{Field: "password", Kind: validation.Required},
		),
	}
}

// Register はユーザーを登録する。
// 検証違反がある場合は*model.ValidationErrorを返し、ストアへの書き込みは行わない。
// パスワードは保存前にハッシュ化し、平文は保持もログ出力もしない。
func (s *Service) Register(ctx context.Context, input RegistrationInput) (*model.User, error) {
	messages, err := s.validator.Validate(ctx, map[string]string{
		"firstName":    input.FirstName,
		"lastName":     input.LastName,
		"emailAddress": input.EmailAddress,
		"password":     input.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to validate registration: %w", err)
	}
	if len(messages) > 0 {
		return nil, model.NewValidationError(messages)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser := &model.User{
		ID:           uuid.New().String(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		EmailAddress: input.EmailAddress,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered",
		slog.String("user_id", newUser.ID),
	)

	return newUser, nil
}
