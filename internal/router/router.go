package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/sahil-chaple/happy-street-godhani/internal/auth"
	"github.com/sahil-chaple/happy-street-godhani/internal/handler"
	"github.com/sahil-chaple/happy-street-godhani/internal/metrics"
	mw "github.com/sahil-chaple/happy-street-godhani/internal/middleware"
)

// Handlers bundles everything the routes dispatch to.
type Handlers struct {
	Auth       *handler.AuthHandler
	Submission *handler.SubmissionHandler
	Dashboard  *handler.DashboardHandler
	Health     *handler.HealthHandler
	Pages      *handler.PageHandler
}

type Options struct {
	Logger         zerolog.Logger
	AllowedOrigins []string
}

func New(tokens *auth.JWTManager, h Handlers, opts Options) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RealIP)
	r.Use(mw.RequestID(opts.Logger))
	r.Use(mw.Tracing)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	r.Use(mw.CORS(opts.AllowedOrigins, opts.Logger))

	r.Get("/healthz", h.Health.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// Pages
	r.Get("/", h.Pages.Index)
	r.Get("/admin", h.Pages.Admin)
	r.Get("/*", h.Pages.Static)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/submit", h.Submission.Submit)
		r.Post("/admin/login", h.Auth.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokens, func(req *http.Request, o auth.Outcome) {
				metrics.AuthRejections.WithLabelValues(o.String()).Inc()
				zerolog.Ctx(req.Context()).Warn().Str("reason", o.String()).Str("path", req.URL.Path).Msg("request rejected by token guard")
			}))

			r.Get("/submissions", h.Submission.List)
			r.Put("/submissions/{id}", h.Submission.UpdateStatus)
			r.Delete("/submissions/{id}", h.Submission.Delete)
			r.Get("/export/csv", h.Submission.ExportCSV)
			r.Get("/stats", h.Dashboard.Stats)
		})
	})

	return r
}
