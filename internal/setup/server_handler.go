// Package setup turns a loaded configuration into a ready http.Handler.
package setup

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"fithub/internal/adapters/content"
	"fithub/internal/adapters/email"
	web "fithub/internal/adapters/http"
	"fithub/internal/adapters/http/middleware"
	"fithub/internal/adapters/http/perf"
	"fithub/internal/config"
)

// rateLimitIdle is how long a client IP may stay quiet before its limiter is dropped.
const rateLimitIdle = 10 * time.Minute

// NewHandlerFromConfig wires every adapter the web server needs. Background
// sweepers stop when ctx is done; cleanup releases the database and registry.
func NewHandlerFromConfig(ctx context.Context, conf *config.Config) (handler http.Handler, cleanup func(), err error) {
	collector := perf.NewCollector()

	accounts, db, err := NewAccountStoreFromConfig(ctx, conf, collector)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	registry, closeRegistry, err := NewRegistryFromConfig(ctx, conf)
	if err != nil {
		db.Close()
		return nil, nil, errors.WithStack(err)
	}

	release := func() {
		if err := closeRegistry(); err != nil {
			slog.Warn("credential_registry_close_failed", slog.Any("error", err))
		}
		if err := db.Close(); err != nil {
			slog.Warn("store_close_failed", slog.Any("error", err))
		}
	}
	defer func() {
		if err != nil {
			release()
		}
	}()

	catalog, err := content.Default()
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	templates, err := web.TemplatesFromDir(string(conf.HTTP.TemplatesDir))
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	keyPairs, err := sessionKeys(conf)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	cookie := conf.HTTP.Session.Cookie
	sessionStore := middleware.NewCookieStore(int(cookie.MaxAge), string(cookie.Path), bool(cookie.HTTPOnly), bool(cookie.Secure), keyPairs...)

	csrf, err := csrfKey(conf)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	var limiter *middleware.RateLimiter
	if conf.HTTP.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(rate.Limit(conf.HTTP.RateLimit.Rate), int(conf.HTTP.RateLimit.Burst))
		go limiter.RunSweeper(ctx, time.Minute, rateLimitIdle)
	}

	server, err := web.NewServer(web.Deps{
		Accounts:       accounts,
		Credentials:    registry,
		Catalog:        catalog,
		Collector:      collector,
		Sessions:       sessionStore,
		CookieName:     string(cookie.Name),
		CSRFKey:        csrf,
		SecureCookies:  bool(cookie.Secure),
		TrustedOrigins: conf.HTTP.CSRF.TrustedOrigins,
		RateLimiter:    limiter,
		SlowRequest:    time.Duration(conf.HTTP.SlowRequest),
		Mail:           email.NewSender(string(conf.Mail.ResendKey), string(conf.Mail.From)),
		BaseURL:        string(conf.HTTP.BaseURL),
		ReplyTo:        string(conf.Mail.ReplyTo),
		Template:       templates,
	})
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	return server.Handler(), release, nil
}
