// Package web serves the FitHub pages: the landing page, the auth screens,
// the trainer and admin shells and the member dashboard.
package web

import (
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
	sloghttp "github.com/samber/slog-http"

	"fithub/internal/adapters/content"
	"fithub/internal/adapters/credential"
	"fithub/internal/adapters/email"
	"fithub/internal/adapters/http/middleware"
	"fithub/internal/adapters/http/perf"
	accountStore "fithub/internal/adapters/storage/account"
	"fithub/internal/domain/identity"
)

// Deps holds everything the handlers need.
type Deps struct {
	Accounts    accountStore.Store
	Credentials credential.Registry
	Catalog     *content.Catalog
	Collector   *perf.Collector

	Sessions   sessions.Store
	CookieName string

	// CSRFKey is the 32-byte gorilla/csrf authentication key.
	CSRFKey        []byte
	SecureCookies  bool
	TrustedOrigins []string

	// RateLimiter is applied to every request when non-nil.
	RateLimiter *middleware.RateLimiter
	SlowRequest time.Duration

	Mail     email.Sender
	BaseURL  string
	ReplyTo  string
	Now      func() time.Time
	Template *template.Template
}

// Server owns the parsed templates and the handler dependencies.
type Server struct {
	deps      Deps
	templates *template.Template
}

// NewServer validates deps and parses the templates when none are supplied.
// PRE: Accounts, Credentials, Catalog, Sessions and Mail are non-nil
func NewServer(deps Deps) (*Server, error) {
	switch {
	case deps.Accounts == nil:
		return nil, errors.New("web: account store is required")
	case deps.Credentials == nil:
		return nil, errors.New("web: credential registry is required")
	case deps.Catalog == nil:
		return nil, errors.New("web: content catalog is required")
	case deps.Sessions == nil:
		return nil, errors.New("web: session store is required")
	case deps.Mail == nil:
		return nil, errors.New("web: mail sender is required")
	case len(deps.CSRFKey) != 32:
		return nil, errors.Errorf("web: csrf key must be 32 bytes, got %d", len(deps.CSRFKey))
	}
	if deps.CookieName == "" {
		deps.CookieName = "fithub_session"
	}

	tmpl := deps.Template
	if tmpl == nil {
		var err error
		if tmpl, err = Templates(nil); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	return &Server{deps: deps, templates: tmpl}, nil
}

// Handler builds the router.
//
// Middleware order, outermost first: request ID, request log, recoverer,
// timing, security headers, rate limit, CSRF, session gate.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		sloghttp.NewWithConfig(slog.Default(), sloghttp.Config{
			DefaultLevel:     slog.LevelDebug,
			ClientErrorLevel: slog.LevelInfo,
			ServerErrorLevel: slog.LevelError,
			WithRequestID:    false,
		}),
		chimiddleware.Recoverer,
		middleware.Timing(s.deps.Collector, s.deps.SlowRequest),
		middleware.SecurityHeaders,
	)
	if s.deps.RateLimiter != nil {
		r.Use(middleware.RateLimit(s.deps.RateLimiter))
	}

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	if s.deps.Collector != nil {
		r.Handle("/metrics", s.deps.Collector.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(
			middleware.CSRF(s.deps.CSRFKey, s.deps.SecureCookies, s.deps.TrustedOrigins...),
			middleware.Sessions(middleware.SessionConfig{
				Store:       s.deps.Sessions,
				CookieName:  s.deps.CookieName,
				Credentials: s.deps.Credentials,
			}),
		)

		r.Get("/", s.handleLanding)

		r.Get("/login", redirectTo("/auth/login"))
		r.Get("/auth/login", s.handleLoginPage)
		r.Post("/auth/login", s.handleLogin)
		r.Get("/auth/forgot-password", s.handleForgotPasswordPage)
		r.Post("/auth/forgot-password", s.handleForgotPassword)
		r.Post("/auth/logout", s.handleLogout)

		r.Route("/trainer", func(r chi.Router) {
			r.Get("/", redirectTo("/trainer/dashboard"))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(identity.RoleTrainer))
				r.Get("/dashboard", s.handleTrainerDashboard)
				r.Get("/*", s.handleTrainerPage)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/", redirectTo("/admin/dashboard"))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(identity.RoleAdmin))
				r.Get("/dashboard", s.handleAdminDashboard)
				r.Get("/members", s.handleAdminRoster(identity.RoleMember))
				r.Get("/trainers", s.handleAdminRoster(identity.RoleTrainer))
				r.Get("/*", s.handleAdminPage)
			})
		})

		r.Route("/member", func(r chi.Router) {
			r.Get("/", redirectTo("/member/dashboard"))
			r.With(middleware.RequireRole(identity.RoleMember)).Get("/dashboard", s.handleMemberDashboard)
		})
	})

	r.NotFound(redirectTo("/"))

	return r
}

func redirectTo(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, path, http.StatusSeeOther)
	}
}
