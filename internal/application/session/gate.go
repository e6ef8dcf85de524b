// Package session reads and clears the credential pair persisted in the
// browser session and exposes the current identity.
package session

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"fithub/internal/domain/identity"
)

// Persisted keys.
const (
	KeyCredential = "authToken"
	KeyIdentity   = "user"
)

// LoginPath is where Logout and unauthenticated requests are sent.
const LoginPath = "/auth/login"

// Store is the persisted key/value session storage.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// BatchStore is a Store that can apply several writes as one.
type BatchStore interface {
	Store
	SetMany(values map[string]string) error
	RemoveMany(keys ...string) error
}

// Router is the navigation collaborator.
type Router interface {
	CurrentPath() string
	Navigate(path string)
}

// Verifier checks that a credential is still live.
type Verifier interface {
	Verify(ctx context.Context, token string) (bool, error)
}

// Revoker invalidates a credential on logout.
type Revoker interface {
	Revoke(ctx context.Context, token string) error
}

// Gate is the session gate for one render. It is not safe for concurrent use.
type Gate struct {
	store    Store
	router   Router
	verifier Verifier
	revoker  Revoker

	cached *identity.Identity
}

// Option configures a Gate.
type Option func(*Gate)

// WithVerifier makes GetIdentity reject credentials v does not accept.
func WithVerifier(v Verifier) Option {
	return func(g *Gate) { g.verifier = v }
}

// WithRevoker makes Logout revoke the credential with r.
func WithRevoker(r Revoker) Option {
	return func(g *Gate) { g.revoker = r }
}

// New returns a gate over store and router.
func New(store Store, router Router, opts ...Option) *Gate {
	g := &Gate{store: store, router: router}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GetIdentity returns the current identity.
// POST: Never fails; missing, partial, malformed or rejected sessions yield identity.Empty()
// INVARIANT: Store is not written
func (g *Gate) GetIdentity(ctx context.Context) identity.Identity {
	if g.cached != nil {
		return *g.cached
	}
	id := g.readIdentity(ctx)
	g.cached = &id
	return id
}

func (g *Gate) readIdentity(ctx context.Context) identity.Identity {
	token, hasToken := g.store.Get(KeyCredential)
	blob, hasBlob := g.store.Get(KeyIdentity)
	if !hasToken && !hasBlob {
		return identity.Empty()
	}
	if !hasToken || token == "" || !hasBlob {
		slog.DebugContext(ctx, "session_partial", "has_token", hasToken, "has_identity", hasBlob)
		return identity.Empty()
	}

	id, err := identity.Decode(blob)
	if err != nil {
		slog.DebugContext(ctx, "session_malformed", "error", err)
		return identity.Empty()
	}

	if g.verifier != nil {
		ok, err := g.verifier.Verify(ctx, token)
		if err != nil {
			slog.WarnContext(ctx, "credential_verify_failed", "error", err)
			return identity.Empty()
		}
		if !ok {
			slog.DebugContext(ctx, "credential_rejected")
			return identity.Empty()
		}
	}
	return id
}

// Credential returns the persisted token, if any.
func (g *Gate) Credential() (string, bool) {
	return g.store.Get(KeyCredential)
}

// IsAuthorized reports whether the current identity holds required.
func (g *Gate) IsAuthorized(ctx context.Context, required identity.Role) bool {
	return g.GetIdentity(ctx).Role == required
}

// Establish persists token and id together.
// PRE: token is non-empty
// POST: Both keys are written or an error is returned
func (g *Gate) Establish(token string, id identity.Identity) error {
	if token == "" {
		return errors.New("credential cannot be empty")
	}
	blob, err := id.Encode()
	if err != nil {
		return errors.Wrap(err, "could not encode identity")
	}

	g.cached = nil
	if batch, ok := g.store.(BatchStore); ok {
		if err := batch.SetMany(map[string]string{KeyCredential: token, KeyIdentity: blob}); err != nil {
			return errors.Wrap(err, "could not persist session")
		}
	} else {
		if err := g.store.Set(KeyCredential, token); err != nil {
			return errors.Wrap(err, "could not persist credential")
		}
		if err := g.store.Set(KeyIdentity, blob); err != nil {
			if rmErr := g.store.Remove(KeyCredential); rmErr != nil {
				return errors.Wrapf(err, "could not persist identity (credential rollback failed: %v)", rmErr)
			}
			return errors.Wrap(err, "could not persist identity")
		}
	}
	g.cached = &id
	return nil
}

// Logout clears the persisted pair, revokes the credential and navigates to
// LoginPath. Errors are returned for logging only.
// POST: Neither key is present; Navigate(LoginPath) was called exactly once
// INVARIANT: Idempotent; without a session it only navigates
func (g *Gate) Logout(ctx context.Context) error {
	defer g.router.Navigate(LoginPath)

	token, hasToken := g.store.Get(KeyCredential)
	empty := identity.Empty()
	g.cached = &empty

	var firstErr error
	if batch, ok := g.store.(BatchStore); ok {
		if err := batch.RemoveMany(KeyCredential, KeyIdentity); err != nil {
			firstErr = errors.Wrap(err, "could not clear session")
		}
	} else {
		for _, key := range []string{KeyCredential, KeyIdentity} {
			if err := g.store.Remove(key); err != nil && firstErr == nil {
				firstErr = errors.Wrapf(err, "could not remove '%s'", key)
			}
		}
	}

	if hasToken && token != "" && g.revoker != nil {
		if err := g.revoker.Revoke(ctx, token); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "could not revoke credential")
		}
	}
	return firstErr
}

type contextKey struct{}

// WithGate stores g in ctx.
func WithGate(ctx context.Context, g *Gate) context.Context {
	return context.WithValue(ctx, contextKey{}, g)
}

// FromContext returns the gate stored by WithGate.
func FromContext(ctx context.Context) (*Gate, bool) {
	g, ok := ctx.Value(contextKey{}).(*Gate)
	return g, ok
}
