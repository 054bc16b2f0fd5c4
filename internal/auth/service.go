package auth

import (
	"context"
	"fmt"

	"github.com/hitoshi/courseman/internal/model"
)

// UserFinder はメールアドレスによるユーザー検索のインターフェース。
// repository.UserRepositoryの部分集合として定義する。
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// PasswordVerifier はパスワード検証のインターフェース。
type PasswordVerifier interface {
	Verify(plaintext, hash string) bool
}

// Service はリクエストごとの認証判定を提供する。
// セッションやトークンは発行せず、毎リクエストでクレデンシャルを再検証する。
type Service struct {
	users    UserFinder
	verifier PasswordVerifier
}

// NewService はServiceを生成する。
func NewService(users UserFinder, verifier PasswordVerifier) *Service {
	return &Service{
		users:    users,
		verifier: verifier,
	}
}

// Authenticate はAuthorizationヘッダーの値を検証し、認証済みユーザーを返す。
// 失敗時は*model.AuthErrorを返す。失敗理由（ヘッダーなし・ユーザー不在・
// パスワード不一致）は診断ログ専用であり、クライアントには一律の401を返すこと。
// 検索系の障害（ストア接続不能など）はAuthErrorではなく通常のエラーとして返す。
func (s *Service) Authenticate(ctx context.Context, authHeader string) (*model.User, error) {
	creds, ok := ParseBasicAuth(authHeader)
	if !ok {
		return nil, model.NewAuthError(model.AuthReasonNoCredentials, "")
	}

	user, err := s.users.FindByEmail(ctx, creds.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user for authentication: %w", err)
	}
	if user == nil {
		return nil, model.NewAuthError(model.AuthReasonUserNotFound, creds.Name)
	}

	if !s.verifier.Verify(creds.Secret, user.PasswordHash) {
		return nil, model.NewAuthError(model.AuthReasonBadPassword, creds.Name)
	}

	return user, nil
}
