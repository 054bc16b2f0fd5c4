package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/courseman/internal/model"
)

// --- モック定義 ---

// mockAuthenticator はAuthenticatorのモック実装。
type mockAuthenticator struct {
	authenticateFn func(ctx context.Context, authHeader string) (*model.User, error)
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, authHeader string) (*model.User, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, authHeader)
	}
	return nil, model.NewAuthError(model.AuthReasonNoCredentials, "")
}

// okHandler はコンテキストのユーザーIDを確認するテスト用の最終ハンドラー。
func okHandler(t *testing.T, wantUserID string, called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		user, err := UserFromContext(r.Context())
		if err != nil {
			t.Errorf("UserFromContext returned error: %v", err)
			return
		}
		if user.ID != wantUserID {
			t.Errorf("user ID = %q, want %q", user.ID, wantUserID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

// 認証成功時にユーザーがコンテキストへ注入され、後続ハンドラーが実行されることを検証
func TestBasicAuthMiddleware_Success(t *testing.T) {
	authn := &mockAuthenticator{
		authenticateFn: func(ctx context.Context, authHeader string) (*model.User, error) {
			if authHeader != "Basic abc" {
				t.Errorf("authHeader = %q, want %q", authHeader, "Basic abc")
			}
			return &model.User{ID: "user-1"}, nil
		},
	}

	called := false
	mw := NewBasicAuthMiddleware(authn, nil)
	handler := mw(okHandler(t, "user-1", &called))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Basic abc")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !called {
		t.Error("expected next handler to be called")
	}
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

// 認証失敗の理由に関わらず、同一の401レスポンスが返ることを検証
// （メールアドレスの登録有無を外部から判別できてはならない）
func TestBasicAuthMiddleware_UniformAccessDenied(t *testing.T) {
	reasons := []struct {
		name string
		err  error
	}{
		{"ヘッダーなし", model.NewAuthError(model.AuthReasonNoCredentials, "")},
		{"ユーザー不在", model.NewAuthError(model.AuthReasonUserNotFound, "nobody@x.com")},
		{"パスワード不一致", model.NewAuthError(model.AuthReasonBadPassword, "joe@x.com")},
	}

	var bodies []string
	for _, tt := range reasons {
		t.Run(tt.name, func(t *testing.T) {
			authn := &mockAuthenticator{
				authenticateFn: func(ctx context.Context, authHeader string) (*model.User, error) {
					return nil, tt.err
				},
			}

			called := false
			mw := NewBasicAuthMiddleware(authn, nil)
			handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			resp := w.Result()
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
			}
			if called {
				t.Error("next handler must not be called")
			}

			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body["message"] != "Access Denied" {
				t.Errorf(`message = %q, want "Access Denied"`, body["message"])
			}
			bodies = append(bodies, w.Body.String())
		})
	}

	// 3種類の失敗理由すべてでボディが完全に一致すること
	for i := 1; i < len(bodies); i++ {
		if bodies[i] != bodies[0] {
			t.Errorf("response bodies differ between failure reasons: %q vs %q", bodies[0], bodies[i])
		}
	}
}

// 認証失敗時にメトリクスへ内部理由が記録されることを検証
func TestBasicAuthMiddleware_RecordsFailureReason(t *testing.T) {
	authn := &mockAuthenticator{
		authenticateFn: func(ctx context.Context, authHeader string) (*model.User, error) {
			return nil, model.NewAuthError(model.AuthReasonBadPassword, "joe@x.com")
		},
	}

	var recorded string
	recorder := authFailureRecorderFunc(func(reason string) { recorded = reason })

	mw := NewBasicAuthMiddleware(authn, recorder)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if recorded != model.AuthReasonBadPassword {
		t.Errorf("recorded reason = %q, want %q", recorded, model.AuthReasonBadPassword)
	}
}

// authFailureRecorderFunc は関数をAuthFailureRecorderとして扱うアダプタ。
type authFailureRecorderFunc func(reason string)

func (f authFailureRecorderFunc) RecordAuthFailure(reason string) { f(reason) }

// ストア障害（AuthError以外のエラー）は401ではなく500になることを検証
func TestBasicAuthMiddleware_LookupFailureReturns500(t *testing.T) {
	authn := &mockAuthenticator{
		authenticateFn: func(ctx context.Context, authHeader string) (*model.User, error) {
			return nil, errors.New("connection refused")
		},
	}

	mw := NewBasicAuthMiddleware(authn, nil)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusInternalServerError)
	}
}

// UserFromContextは未認証コンテキストでエラーを返すことを検証
func TestUserFromContext_MissingUser(t *testing.T) {
	if _, err := UserFromContext(context.Background()); err == nil {
		t.Error("expected error for context without user")
	}
}

// ContextWithUserで注入したユーザーがUserFromContextで取得できることを検証
func TestContextWithUser_RoundTrip(t *testing.T) {
	ctx := ContextWithUser(context.Background(), &model.User{ID: "user-1"})

	user, err := UserFromContext(ctx)
	if err != nil {
		t.Fatalf("UserFromContext returned error: %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("user ID = %q, want %q", user.ID, "user-1")
	}
}
