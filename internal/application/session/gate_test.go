package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fithub/internal/domain/identity"
)

// mockStore is an in-memory Store with failure injection.
type mockStore struct {
	values    map[string]string
	removeErr error
	setErr    error
	// failKey makes Set fail for that key only.
	failKey string
	writes  int
}

func newMockStore(values map[string]string) *mockStore {
	if values == nil {
		values = map[string]string{}
	}
	return &mockStore{values: values}
}

func (m *mockStore) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockStore) Set(key, value string) error {
	if m.setErr != nil && (m.failKey == "" || m.failKey == key) {
		return m.setErr
	}
	m.writes++
	m.values[key] = value
	return nil
}

func (m *mockStore) Remove(key string) error {
	m.writes++
	delete(m.values, key)
	return m.removeErr
}

// mockBatchStore records batch calls.
type mockBatchStore struct {
	*mockStore
	batches int
}

func (m *mockBatchStore) SetMany(values map[string]string) error {
	m.batches++
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

func (m *mockBatchStore) RemoveMany(keys ...string) error {
	m.batches++
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

type mockRouter struct {
	path      string
	navigated []string
}

func (m *mockRouter) CurrentPath() string { return m.path }
func (m *mockRouter) Navigate(p string)   { m.navigated = append(m.navigated, p) }

type mockCredentials struct {
	live      map[string]bool
	verifyErr error
	revoked   []string
	verifies  int
}

func (m *mockCredentials) Verify(ctx context.Context, token string) (bool, error) {
	m.verifies++
	if m.verifyErr != nil {
		return false, m.verifyErr
	}
	return m.live[token], nil
}

func (m *mockCredentials) Revoke(ctx context.Context, token string) error {
	m.revoked = append(m.revoked, token)
	delete(m.live, token)
	return nil
}

const adaBlob = `{"firstName":"Ada","lastName":"Lovelace","role":"trainer"}`

// TestGetIdentity_FailsSoft verifies absent or malformed data yields the empty identity.
func TestGetIdentity_FailsSoft(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{"no keys", nil},
		{"token only", map[string]string{KeyCredential: "tok123"}},
		{"identity only", map[string]string{KeyIdentity: adaBlob}},
		{"empty token", map[string]string{KeyCredential: "", KeyIdentity: adaBlob}},
		{"malformed identity", map[string]string{KeyCredential: "tok123", KeyIdentity: "{not json"}},
		{"empty identity", map[string]string{KeyCredential: "tok123", KeyIdentity: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore(tt.values)
			g := New(store, &mockRouter{})

			got := g.GetIdentity(context.Background())
			if got != identity.Empty() {
				t.Errorf("GetIdentity() = %+v, want empty", got)
			}
			if got.Role != identity.RoleUnknown {
				t.Errorf("Role = %q, want unknown", got.Role)
			}
			if store.writes != 0 {
				t.Errorf("GetIdentity() wrote to the store %d times", store.writes)
			}
		})
	}
}

// TestGetIdentity_Trainer covers the Ada Lovelace scenario.
func TestGetIdentity_Trainer(t *testing.T) {
	g := New(newMockStore(map[string]string{KeyCredential: "tok123", KeyIdentity: adaBlob}), &mockRouter{})

	got := g.GetIdentity(context.Background())
	want := identity.Identity{FirstName: "Ada", LastName: "Lovelace", Role: identity.RoleTrainer}
	if got != want {
		t.Fatalf("GetIdentity() = %+v, want %+v", got, want)
	}
	if got.Role.Badge() != "Trainer" {
		t.Errorf("Badge() = %q, want Trainer", got.Role.Badge())
	}
	if !g.IsAuthorized(context.Background(), identity.RoleTrainer) {
		t.Error("IsAuthorized(trainer) = false")
	}
	if g.IsAuthorized(context.Background(), identity.RoleAdmin) {
		t.Error("IsAuthorized(admin) = true")
	}
}

// TestGetIdentity_Verifier verifies rejected or unverifiable credentials degrade to empty.
func TestGetIdentity_Verifier(t *testing.T) {
	values := func() map[string]string {
		return map[string]string{KeyCredential: "tok123", KeyIdentity: adaBlob}
	}

	live := &mockCredentials{live: map[string]bool{"tok123": true}}
	if got := New(newMockStore(values()), &mockRouter{}, WithVerifier(live)).GetIdentity(context.Background()); got.Role != identity.RoleTrainer {
		t.Errorf("live credential: Role = %q, want trainer", got.Role)
	}

	revoked := &mockCredentials{live: map[string]bool{}}
	if got := New(newMockStore(values()), &mockRouter{}, WithVerifier(revoked)).GetIdentity(context.Background()); got != identity.Empty() {
		t.Errorf("revoked credential: GetIdentity() = %+v, want empty", got)
	}

	broken := &mockCredentials{verifyErr: errors.New("redis down")}
	if got := New(newMockStore(values()), &mockRouter{}, WithVerifier(broken)).GetIdentity(context.Background()); got != identity.Empty() {
		t.Errorf("verify error: GetIdentity() = %+v, want empty", got)
	}
}

// TestGetIdentity_CachedPerGate verifies the store and verifier are read once per render.
func TestGetIdentity_CachedPerGate(t *testing.T) {
	creds := &mockCredentials{live: map[string]bool{"tok123": true}}
	g := New(newMockStore(map[string]string{KeyCredential: "tok123", KeyIdentity: adaBlob}), &mockRouter{}, WithVerifier(creds))

	for i := 0; i < 3; i++ {
		g.GetIdentity(context.Background())
	}
	if creds.verifies != 1 {
		t.Errorf("Verify called %d times, want 1", creds.verifies)
	}
}

// TestLogout_ClearsBothAndNavigatesOnce verifies the logout contract from any prior state.
func TestLogout_ClearsBothAndNavigatesOnce(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{"full session", map[string]string{KeyCredential: "tok123", KeyIdentity: adaBlob}},
		{"no session", nil},
		{"token only", map[string]string{KeyCredential: "tok123"}},
		{"identity only", map[string]string{KeyIdentity: adaBlob}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore(tt.values)
			router := &mockRouter{path: "/trainer/dashboard"}
			g := New(store, router)

			if err := g.Logout(context.Background()); err != nil {
				t.Fatalf("Logout() error = %v", err)
			}

			if _, ok := store.Get(KeyCredential); ok {
				t.Error("credential still present")
			}
			if _, ok := store.Get(KeyIdentity); ok {
				t.Error("identity still present")
			}
			if len(router.navigated) != 1 || router.navigated[0] != LoginPath {
				t.Errorf("navigated = %v, want [%s]", router.navigated, LoginPath)
			}
			if g.GetIdentity(context.Background()) != identity.Empty() {
				t.Error("identity after logout is not empty")
			}
		})
	}
}

// TestLogout_Idempotent verifies a second logout repeats the same redirect.
func TestLogout_Idempotent(t *testing.T) {
	store := newMockStore(map[string]string{KeyCredential: "tok123", KeyIdentity: adaBlob})
	router := &mockRouter{}
	g := New(store, router)

	g.Logout(context.Background())
	g.Logout(context.Background())

	if len(router.navigated) != 2 {
		t.Fatalf("navigated = %v, want two redirects", router.navigated)
	}
	if len(store.values) != 0 {
		t.Errorf("store = %v, want empty", store.values)
	}
}

// TestLogout_RemoveErrorStillNavigates verifies storage failures never block the redirect.
func TestLogout_RemoveErrorStillNavigates(t *testing.T) {
	store := newMockStore(map[string]string{KeyCredential: "tok123", KeyIdentity: adaBlob})
	store.removeErr = errors.New("disk full")
	router := &mockRouter{}

	err := New(store, router).Logout(context.Background())
	if err == nil {
		t.Error("Logout() error = nil, want removal error")
	}
	if len(router.navigated) != 1 {
		t.Errorf("navigated = %v, want one redirect", router.navigated)
	}
}

// TestLogout_Batch verifies a BatchStore clears both keys in one write and the credential is revoked.
func TestLogout_Batch(t *testing.T) {
	store := &mockBatchStore{mockStore: newMockStore(map[string]string{KeyCredential: "tok123", KeyIdentity: adaBlob})}
	creds := &mockCredentials{live: map[string]bool{"tok123": true}}
	router := &mockRouter{}

	if err := New(store, router, WithRevoker(creds)).Logout(context.Background()); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if store.batches != 1 || store.writes != 0 {
		t.Errorf("batches = %d, single writes = %d; want 1, 0", store.batches, store.writes)
	}
	if len(creds.revoked) != 1 || creds.revoked[0] != "tok123" {
		t.Errorf("revoked = %v, want [tok123]", creds.revoked)
	}
}

// TestEstablish writes both keys and refreshes the cached identity.
func TestEstablish(t *testing.T) {
	store := &mockBatchStore{mockStore: newMockStore(nil)}
	g := New(store, &mockRouter{})

	if g.GetIdentity(context.Background()) != identity.Empty() {
		t.Fatal("expected empty identity before Establish")
	}

	ada := identity.Identity{FirstName: "Ada", LastName: "Lovelace", Role: identity.RoleTrainer}
	if err := g.Establish("tok123", ada); err != nil {
		t.Fatalf("Establish() error = %v", err)
	}
	if store.batches != 1 {
		t.Errorf("batches = %d, want 1", store.batches)
	}
	if got := g.GetIdentity(context.Background()); got != ada {
		t.Errorf("GetIdentity() = %+v, want %+v", got, ada)
	}

	fresh := New(store, &mockRouter{})
	if got := fresh.GetIdentity(context.Background()); got != ada {
		t.Errorf("fresh gate GetIdentity() = %+v, want %+v", got, ada)
	}
}

// TestEstablish_RollsBackOnPartialWrite keeps the pair consistent on a plain Store.
func TestEstablish_RollsBackOnPartialWrite(t *testing.T) {
	store := newMockStore(nil)
	g := New(store, &mockRouter{})

	if err := g.Establish("", identity.Empty()); err == nil {
		t.Error("Establish with empty token should fail")
	}

	store.setErr = errors.New("quota")
	if err := g.Establish("tok", identity.Identity{FirstName: "Ada", Role: identity.RoleTrainer}); err == nil {
		t.Fatal("Establish() error = nil, want error")
	}
	if len(store.values) != 0 {
		t.Errorf("store = %v, want empty after failed establish", store.values)
	}
}

func TestEstablish_RollbackAfterIdentityWriteFails(t *testing.T) {
	ada := identity.Identity{FirstName: "Ada", Role: identity.RoleTrainer}

	store := newMockStore(nil)
	store.setErr, store.failKey = errors.New("quota"), KeyIdentity
	if err := New(store, &mockRouter{}).Establish("tok", ada); err == nil {
		t.Fatal("Establish() error = nil, want error")
	}
	if _, ok := store.values[KeyCredential]; ok {
		t.Error("credential left behind without an identity")
	}

	store = newMockStore(nil)
	store.setErr, store.failKey = errors.New("quota"), KeyIdentity
	store.removeErr = errors.New("disk full")
	err := New(store, &mockRouter{}).Establish("tok", ada)
	if err == nil || !strings.Contains(err.Error(), "rollback failed: disk full") {
		t.Errorf("Establish() error = %v, want the rollback failure reported", err)
	}
}

func TestFromContext(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("FromContext on bare context ok = true")
	}
	g := New(newMockStore(nil), &mockRouter{})
	got, ok := FromContext(WithGate(context.Background(), g))
	if !ok || got != g {
		t.Error("FromContext did not return the stored gate")
	}
}
