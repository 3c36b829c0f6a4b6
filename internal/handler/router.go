package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/famnote/internal/metrics"
	"github.com/hitoshi/famnote/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// メトリクス
	Metrics  metrics.MetricsCollector
	Gatherer prometheus.Gatherer

	// サービス
	AuthService     AuthServiceInterface
	UserService     UserServiceInterface
	GroupService    GroupServiceInterface
	QnaService      QnaServiceInterface
	JournalService  JournalServiceInterface
	EmotionService  EmotionServiceInterface
	IntimacyService IntimacyServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Logging → Metrics → Recovery
//	（/api配下はさらに Auth → RateLimit(General)、書き込み系は RateLimit(Write) を追加）
//
// /health、/metrics、/auth/* は認証の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	r.Use(middleware.NewRecoveryMiddleware())

	authHandler := NewAuthHandler(deps.AuthService, deps.Metrics)
	userHandler := NewUserHandler(deps.UserService)
	groupHandler := NewGroupHandler(deps.GroupService)
	qnaHandler := NewQnaHandler(deps.QnaService, deps.Metrics)
	journalHandler := NewJournalHandler(deps.JournalService, deps.Metrics)
	emotionHandler := NewEmotionHandler(deps.EmotionService)
	intimacyHandler := NewIntimacyHandler(deps.IntimacyService)

	// --- 認証不要のルート ---

	r.Get("/health", healthCheck)
	r.Handle("/metrics", metrics.Handler(deps.Gatherer))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)
		r.Get("/email-availability", userHandler.CheckEmail)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		write := deps.RateLimiter.WriteMiddleware()

		// ユーザー管理
		r.Route("/api/users", func(r chi.Router) {
			r.Get("/me", userHandler.Me)
			r.Put("/me/nickname", userHandler.UpdateNickname)
			r.Delete("/me", userHandler.Withdraw)
		})

		// 家族グループ管理
		r.Route("/api/groups", func(r chi.Router) {
			r.With(write).Post("/", groupHandler.CreateGroup)
			r.Get("/me", groupHandler.MyGroup)
			r.Put("/name", groupHandler.RenameGroup)

			r.Route("/join-requests", func(r chi.Router) {
				r.With(write).Post("/", groupHandler.RequestJoin)
				r.Get("/", groupHandler.ListPendingRequests)
				r.Get("/me", groupHandler.MyJoinStatus)
				r.Put("/{id}", groupHandler.DecideJoinRequest)
			})
		})

		// 日替わり質問
		r.Route("/api/questions", func(r chi.Router) {
			r.Get("/", qnaHandler.Monthly)
			r.Get("/today", qnaHandler.Today)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", qnaHandler.Detail)
				r.With(write).Post("/answers", qnaHandler.SubmitAnswer)
				r.With(write).Put("/answers", qnaHandler.EditAnswer)
				r.Delete("/answers", qnaHandler.DeleteAnswer)
			})
		})

		// 日記
		r.Route("/api/dailies", func(r chi.Router) {
			r.With(write).Post("/", journalHandler.CreateDaily)
			r.Get("/weekly", journalHandler.Weekly)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", journalHandler.Detail)
				r.With(write).Put("/", journalHandler.UpdateDaily)
				r.Delete("/", journalHandler.DeleteDaily)
				r.Put("/like", journalHandler.ToggleLike)

				r.With(write).Post("/comments", journalHandler.AddComment)
				r.With(write).Put("/comments/{commentID}", journalHandler.UpdateComment)
				r.Delete("/comments/{commentID}", journalHandler.DeleteComment)
			})
		})

		// 感情状態
		r.Route("/api/emotions", func(r chi.Router) {
			r.With(write).Post("/", emotionHandler.Create)
			r.Get("/", emotionHandler.ListGroup)
			r.Put("/me", emotionHandler.UpdateMine)
			r.Get("/members/{userID}", emotionHandler.GetMember)
			r.Put("/members/{userID}/nickname", emotionHandler.UpdateMemberNickname)
		})

		// 親密度テスト
		r.Route("/api/intimacy", func(r chi.Router) {
			r.With(write).Post("/tests", intimacyHandler.SubmitTest)
			r.Get("/me", intimacyHandler.MyScore)
			r.Get("/family", intimacyHandler.FamilyAverage)
		})
	})

	return r
}

// healthCheck は死活監視エンドポイント。
// GET /health
func healthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
