// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/courseman/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	// 認証と登録時の一意性チェックの両方で使用する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error
}

// CourseRepository はコースデータの永続化インターフェース。
type CourseRepository interface {
	// FindByID は指定IDのコースを所有者情報付きで取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.CourseWithOwner, error)

	// FindAll は全コースを所有者情報付きで作成日時の昇順で返す。
	FindAll(ctx context.Context) ([]model.CourseWithOwner, error)

	// Create はコースを作成する。
	Create(ctx context.Context, course *model.Course) error

	// Update は指定IDのコースのタイトル・説明・任意フィールドを更新する。
	Update(ctx context.Context, course *model.Course) error

	// Delete は指定IDのコースを削除する。
	Delete(ctx context.Context, id string) error
}
