package credential

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// MemoryRegistry is an in-process Registry. Credentials do not survive a restart.
type MemoryRegistry struct {
	mu     sync.RWMutex
	grants map[string]Grant
	ttl    time.Duration
	now    func() time.Time
}

var _ Registry = (*MemoryRegistry)(nil)

// NewMemoryRegistry creates an empty registry. A zero ttl means DefaultTTL.
func NewMemoryRegistry(ttl time.Duration) *MemoryRegistry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryRegistry{
		grants: make(map[string]Grant),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue stores a new grant and returns its token.
// PRE: accountID is non-empty
// POST: Grant is stored, token is returned
func (m *MemoryRegistry) Issue(ctx context.Context, accountID string) (string, error) {
	if accountID == "" {
		return "", ErrEmptyAccount
	}
	token, err := generateToken()
	if err != nil {
		return "", errors.WithStack(err)
	}
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grants[token] = Grant{AccountID: accountID, IssuedAt: now, ExpiresAt: now.Add(m.ttl)}
	return token, nil
}

// Verify reports whether token names a live grant. Expired grants are dropped.
func (m *MemoryRegistry) Verify(ctx context.Context, token string) (bool, error) {
	m.mu.RLock()
	grant, ok := m.grants[token]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if grant.Expired(m.now()) {
		m.mu.Lock()
		delete(m.grants, token)
		m.mu.Unlock()
		return false, nil
	}
	return true, nil
}

// Revoke removes token.
// POST: Verify(token) is false
func (m *MemoryRegistry) Revoke(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.grants, token)
	return nil
}

// Sweep drops every expired grant and returns how many were removed.
func (m *MemoryRegistry) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for token, g := range m.grants {
		if g.Expired(now) {
			delete(m.grants, token)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *MemoryRegistry) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
