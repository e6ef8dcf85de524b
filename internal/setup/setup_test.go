package setup

import (
	"context"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fithub/internal/adapters/credential"
	accountStore "fithub/internal/adapters/storage/account"
	"fithub/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	conf := config.NewDefaultConfig()
	require.NoError(t, config.Interpolate(conf))
	conf.Store.DSN = ":memory:"
	return conf
}

func TestNewHandlerFromConfig(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler, cleanup, err := NewHandlerFromConfig(ctx, testConfig(t))
	require.NoError(t, err)
	defer cleanup()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "FitHub")

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/trainer/dashboard", nil))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/auth/login", rr.Header().Get("Location"))
}

func TestNewAccountStoreFromConfig_Seeds(t *testing.T) {
	conf := testConfig(t)
	store, db, err := NewAccountStoreFromConfig(context.Background(), conf, nil)
	require.NoError(t, err)
	defer db.Close()

	n, err := store.Count(context.Background(), accountStore.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	trainer, err := store.GetByEmail(context.Background(), "trainer@fithub.local")
	require.NoError(t, err)
	assert.Equal(t, "Ada", trainer.FirstName)
}

func TestNewRegistryFromConfig(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf := testConfig(t)
	registry, closeRegistry, err := NewRegistryFromConfig(ctx, conf)
	require.NoError(t, err)
	defer closeRegistry()
	assert.IsType(t, &credential.MemoryRegistry{}, registry)

	conf.Credentials.Backend = "carrier-pigeon"
	_, _, err = NewRegistryFromConfig(ctx, conf)
	assert.ErrorContains(t, err, "unknown credentials backend")
}

func TestCSRFKey(t *testing.T) {
	conf := testConfig(t)

	key, err := csrfKey(conf)
	require.NoError(t, err)
	assert.Len(t, key, 32)

	want := strings.Repeat("ab", 32)
	conf.HTTP.CSRF.Key = config.InterpolatedString(want)
	key, err = csrfKey(conf)
	require.NoError(t, err)
	assert.Equal(t, want, hex.EncodeToString(key))

	conf.HTTP.CSRF.Key = "abcd"
	_, err = csrfKey(conf)
	assert.Error(t, err)

	conf.HTTP.CSRF.Key = "not hex"
	_, err = csrfKey(conf)
	assert.Error(t, err)
}

func TestSessionKeys(t *testing.T) {
	conf := testConfig(t)

	keys, err := sessionKeys(conf)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Len(t, keys[0], 32)

	conf.HTTP.Session.Keys = config.InterpolatedStringSlice{"hash-key", "", "block-key-0123456789abcdef012345"}
	keys, err = sessionKeys(conf)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("hash-key"), []byte("block-key-0123456789abcdef012345")}, keys)
}
