package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/mind-engage/certprep/internal/attempt"
	"github.com/mind-engage/certprep/internal/auth"
	authmw "github.com/mind-engage/certprep/internal/auth/middleware"
	"github.com/mind-engage/certprep/internal/bank"
	"github.com/mind-engage/certprep/internal/logging"
	"github.com/mind-engage/certprep/internal/rbac"
	"github.com/mind-engage/certprep/internal/storage"
)

// Pinger reports backend readiness; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Deps struct {
	Log         *zap.Logger
	Registry    *bank.Registry
	Attempts    *attempt.Service
	Events      EventSource
	Sessions    *auth.Sessions
	Auth        *authmw.AuthService
	Admin       authmw.Admin
	LocalAuth   bool
	Blobs       storage.BlobStore
	CORSOrigins []string
	Ready       Pinger
	Timeout     time.Duration
}

func NewRouter(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Timeout <= 0 {
		d.Timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, logging.Requests(d.Log), middleware.Recoverer)
	r.Use(middleware.Timeout(d.Timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if d.LocalAuth {
		r.Post("/auth/login", authmw.LoginHandler(d.Auth, d.Admin))
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/tracks", ListTracksHandler(d.Registry))
		api.Get("/tracks/{track}/questions", SampleQuestionsHandler(d.Registry))
		api.Get("/tracks/{track}/exam", DrawExamHandler(d.Registry))
		api.Get("/acronyms/quiz", AcronymQuizHandler(d.Registry))
		api.Get("/pbqs", ListPBQsHandler(d.Registry))
		api.Get("/pbqs/{kind}/{id}", GetPBQHandler(d.Registry))
		api.Post("/pbqs/{kind}/{id}/grade", GradePBQHandler(d.Registry))

		api.Post("/pbq-attempts", RecordAttemptHandler(d.Attempts, d.Sessions, d.Log))
		api.Get("/session/attempts", SessionAttemptsHandler(d.Attempts, d.Sessions))

		// Operator API (JWT → role in context → RBAC)
		api.Route("/admin", func(ar chi.Router) {
			ar.Use(authmw.JWTMiddleware(d.Auth))
			ar.With(rbac.Require(rbac.PermAttemptsView)).Get("/attempts", AdminListAttemptsHandler(d.Attempts))
			ar.With(rbac.Require(rbac.PermStatsView)).Get("/stats", AdminStatsHandler(d.Attempts))
			if d.Events != nil {
				ar.With(rbac.Require(rbac.PermEventsView)).Get("/events", AdminEventsHandler(d.Events))
			}
			if d.Blobs != nil {
				ar.Route("/packs", func(pr chi.Router) { MountPacks(pr, d.Blobs, d.Registry) })
			}
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			if err := d.Ready.PingContext(r.Context()); err != nil {
				respondError(w, http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	return r
}
