package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/courseman/internal/middleware"
)

// MetricsRecorder はルーターが必要とするメトリクス記録インターフェースの集合。
// metrics.Collectorが実装する。nilの場合はメトリクス収集を行わない。
type MetricsRecorder interface {
	middleware.HTTPMetricsRecorder
	middleware.AuthFailureRecorder
	RegistrationRecorder
	CourseCreatedRecorder
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Authenticator     middleware.Authenticator
	RateLimiter       *middleware.RateLimiter
	CORSAllowedOrigin string
	Logger            *slog.Logger

	// 可観測性（いずれもnil可）
	Metrics        MetricsRecorder
	MetricsHandler http.Handler
	HealthChecker  HealthChecker

	// サービス
	UserService   UserServiceInterface
	CourseService CourseServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics
//
// 認証ミドルウェアは認証が必要なルートグループにのみ適用し、
// その後段にユーザーごとのレート制限を配置する。
// コースの参照系（GET /courses, GET /courses/{id}）とユーザー登録は認証不要。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(logger))
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}

	userHandler := NewUserHandler(deps.UserService, registrationRecorder(deps.Metrics))
	courseHandler := NewCourseHandler(deps.CourseService, courseCreatedRecorder(deps.Metrics))

	// --- 認証不要のルート ---

	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// ユーザー登録（IPごとの登録専用レート制限を追加）
	if deps.RateLimiter != nil {
		r.With(deps.RateLimiter.RegistrationMiddleware()).Post("/users", userHandler.Register)
	} else {
		r.Post("/users", userHandler.Register)
	}

	// コースの参照系
	r.Get("/courses", courseHandler.List)
	r.Get("/courses/{id}", courseHandler.Get)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: BasicAuth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewBasicAuthMiddleware(deps.Authenticator, authFailureRecorder(deps.Metrics)))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		r.Get("/users", userHandler.GetCurrent)

		r.Post("/courses", courseHandler.Create)
		r.Put("/courses/{id}", courseHandler.Update)
		r.Delete("/courses/{id}", courseHandler.Delete)
	})

	return r
}

// registrationRecorder はnil安全にRegistrationRecorderへ変換する。
func registrationRecorder(m MetricsRecorder) RegistrationRecorder {
	if m == nil {
		return nil
	}
	return m
}

// courseCreatedRecorder はnil安全にCourseCreatedRecorderへ変換する。
func courseCreatedRecorder(m MetricsRecorder) CourseCreatedRecorder {
	if m == nil {
		return nil
	}
	return m
}

// authFailureRecorder はnil安全にmiddleware.AuthFailureRecorderへ変換する。
func authFailureRecorder(m MetricsRecorder) middleware.AuthFailureRecorder {
	if m == nil {
		return nil
	}
	return m
}
