package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/pkg/errors"

	"fithub/internal/application/session"
	"fithub/internal/domain/identity"
)

// CookieKV exposes one gorilla session as the gate's key/value store.
// Every write saves the cookie, so writes must happen before the body.
type CookieKV struct {
	sess *sessions.Session
	w    http.ResponseWriter
	r    *http.Request
}

var _ session.BatchStore = (*CookieKV)(nil)

// NewCookieKV wraps sess for the request r answered through w.
func NewCookieKV(sess *sessions.Session, w http.ResponseWriter, r *http.Request) *CookieKV {
	return &CookieKV{sess: sess, w: w, r: r}
}

// Get returns the string stored under key.
func (kv *CookieKV) Get(key string) (string, bool) {
	value, ok := kv.sess.Values[key].(string)
	return value, ok
}

// Set stores value under key and saves the cookie.
func (kv *CookieKV) Set(key, value string) error {
	return kv.SetMany(map[string]string{key: value})
}

// Remove deletes key and saves the cookie.
func (kv *CookieKV) Remove(key string) error {
	return kv.RemoveMany(key)
}

// SetMany stores every pair with a single cookie write.
func (kv *CookieKV) SetMany(values map[string]string) error {
	for key, value := range values {
		kv.sess.Values[key] = value
	}
	return kv.save()
}

// RemoveMany deletes keys with a single cookie write.
// POST: The cookie is expired once the session holds no values
func (kv *CookieKV) RemoveMany(keys ...string) error {
	for _, key := range keys {
		delete(kv.sess.Values, key)
	}
	if len(kv.sess.Values) == 0 && kv.sess.Options != nil {
		opts := *kv.sess.Options
		opts.MaxAge = -1
		kv.sess.Options = &opts
	}
	return kv.save()
}

func (kv *CookieKV) save() error {
	if err := kv.sess.Save(kv.r, kv.w); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// RequestRouter is the gate's router for one request.
type RequestRouter struct {
	w         http.ResponseWriter
	r         *http.Request
	navigated string
}

var _ session.Router = (*RequestRouter)(nil)

// NewRequestRouter returns a router answering r through w.
func NewRequestRouter(w http.ResponseWriter, r *http.Request) *RequestRouter {
	return &RequestRouter{w: w, r: r}
}

// CurrentPath is the request path.
func (rr *RequestRouter) CurrentPath() string {
	return rr.r.URL.Path
}

// Navigate answers with a 303 redirect to path.
// PRE: No body has been written
func (rr *RequestRouter) Navigate(path string) {
	rr.navigated = path
	http.Redirect(rr.w, rr.r, path, http.StatusSeeOther)
}

// Navigated returns the path passed to Navigate, if it was called.
func (rr *RequestRouter) Navigated() (string, bool) {
	return rr.navigated, rr.navigated != ""
}

// SessionConfig wires the Sessions middleware.
type SessionConfig struct {
	Store      sessions.Store
	CookieName string
	// Credentials verifies live tokens and revokes them on logout. Optional.
	Credentials interface {
		session.Verifier
		session.Revoker
	}
}

// Sessions builds a session gate for each request and stores it in the
// request context. An unreadable cookie is treated as an empty session.
func Sessions(conf SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sess, err := conf.Store.Get(r, conf.CookieName)
			if err != nil {
				slog.DebugContext(ctx, "session_cookie_invalid", "error", err)
			}

			var opts []session.Option
			if conf.Credentials != nil {
				opts = append(opts, session.WithVerifier(conf.Credentials), session.WithRevoker(conf.Credentials))
			}

			gate := session.New(NewCookieKV(sess, w, r), NewRequestRouter(w, r), opts...)
			next.ServeHTTP(w, r.WithContext(session.WithGate(ctx, gate)))
		})
	}
}

// RequireRole blocks requests whose identity does not hold role.
// The empty identity is sent to session.LoginPath; other roles get 403.
func RequireRole(role identity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			gate, ok := session.FromContext(ctx)
			if !ok {
				slog.ErrorContext(ctx, "internal_error", "error", "no session gate in context")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			id := gate.GetIdentity(ctx)
			if !id.IsAuthenticated() {
				http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
				return
			}
			if id.Role != role {
				slog.InfoContext(ctx, "auth_event", "event", "forbidden", "role", id.Role, "required", role, "path", r.URL.Path)
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NewCookieStore builds the signed cookie store used by Sessions.
// PRE: keyPairs is non-empty
func NewCookieStore(maxAge int, path string, httpOnly, secure bool, keyPairs ...[]byte) *sessions.CookieStore {
	store := sessions.NewCookieStore(keyPairs...)
	store.MaxAge(maxAge)
	store.Options.Path = path
	store.Options.HttpOnly = httpOnly
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode
	return store
}
