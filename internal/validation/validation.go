// Package validation はエンドポイントごとの宣言的な入力検証を提供する。
// フィールドとルールのペアを宣言順に列挙し、単一のインタープリタが
// すべてのルールを評価して違反メッセージを収集する。
package validation

import (
	"context"
	"fmt"
	"strings"

	v10 "github.com/go-playground/validator/v10"

	"github.com/hitoshi/courseman/internal/model"
)

// Kind は検証ルールの種別を表す。
type Kind string

const (
	// Required はフィールドが存在し空白のみでないことを要求する。
	Required Kind = "required"
	// Email はフィールドがメールアドレス形式であることを要求する。
	// 空値にはRequiredが違反を報告するため、非空値のみ評価する。
	Email Kind = "email"
	// UniqueEmail はメールアドレスが未登録であることをストア照会で要求する。
	// 非空値のみ評価する。照会自体の失敗は検証違反ではなくエラーとして返す。
	UniqueEmail Kind = "unique_email"
)

// Rule は1フィールドに対する検証ルールの記述子。
type Rule struct {
	Field string
	Kind  Kind
}

// EmailLookup は一意性チェックのためのユーザー検索インターフェース。
// repository.UserRepositoryの部分集合として定義する。
type EmailLookup interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// formatChecker はメールアドレス形式の判定に使用する共有バリデータ。
var formatChecker = v10.New()

// Validator はルール記述子の列を解釈して入力を検証する。
type Validator struct {
	rules []Rule
	users EmailLookup
}

// New はValidatorを生成する。
// UniqueEmailルールを含まない場合、usersはnilでよい。
func New(users EmailLookup, rules ...Rule) *Validator {
	return &Validator{
		rules: rules,
		users: users,
	}
}

// Validate は全ルールを宣言順に評価し、違反メッセージの列を返す。
// 途中で違反が見つかっても残りのルールを評価し続ける（短絡しない）。
// 空のスライスは「違反なし」を意味する。
// 一意性チェックのストア照会が失敗した場合は違反ではなくエラーとして返す。
func (v *Validator) Validate(ctx context.Context, fields map[string]string) ([]string, error) {
	messages := []string{}

	for _, rule := range v.rules {
		value := fields[rule.Field]

		switch rule.Kind {
		case Required:
			if strings.TrimSpace(value) == "" {
				messages = append(messages, fmt.Sprintf("Please provide a value for %q", rule.Field))
			}

		case Email:
			if value == "" {
				continue
			}
			if err := formatChecker.VarCtx(ctx, value, "email"); err != nil {
				messages = append(messages, fmt.Sprintf("Please provide a valid email address for %q", rule.Field))
			}

		case UniqueEmail:
			if value == "" {
				continue
			}
			existing, err := v.users.FindByEmail(ctx, value)
			if err != nil {
				return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
			}
			if existing != nil {
				messages = append(messages, fmt.Sprintf("The email address %q is already in use", value))
			}
		}
	}

	return messages, nil
}
