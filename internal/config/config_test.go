package config

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func withEnv(t *testing.T, env map[string]string) {
	t.Helper()
	previous := getEnv
	getEnv = func(key string) string {
		return env[key]
	}
	t.Cleanup(func() { getEnv = previous })
}

func TestInterpolate_Defaults(t *testing.T) {
	withEnv(t, map[string]string{
		"FITHUB_HTTP_ADDRESS":          ":9090",
		"FITHUB_CREDENTIALS_BACKEND":   "redis",
		"FITHUB_SEED_TRAINER_PASSWORD": "s3cret!",
	})

	conf := NewDefaultConfig()
	if err := Interpolate(conf); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := ":9090", string(conf.HTTP.Address); e != g {
		t.Errorf("conf.HTTP.Address: expected '%v', got '%v'", e, g)
	}
	if e, g := "fithub.db", string(conf.Store.DSN); e != g {
		t.Errorf("conf.Store.DSN: expected '%v', got '%v'", e, g)
	}
	if e, g := CredentialsBackendRedis, CredentialsBackend(conf.Credentials.Backend); e != g {
		t.Errorf("conf.Credentials.Backend: expected '%v', got '%v'", e, g)
	}
	if e, g := 24*time.Hour, time.Duration(conf.Credentials.TTL); e != g {
		t.Errorf("conf.Credentials.TTL: expected '%v', got '%v'", e, g)
	}
	if e, g := 200*time.Millisecond, time.Duration(conf.HTTP.SlowRequest); e != g {
		t.Errorf("conf.HTTP.SlowRequest: expected '%v', got '%v'", e, g)
	}
	if e, g := 86400, int(conf.HTTP.Session.Cookie.MaxAge); e != g {
		t.Errorf("conf.HTTP.Session.Cookie.MaxAge: expected '%v', got '%v'", e, g)
	}
	if !bool(conf.HTTP.Session.Cookie.HTTPOnly) {
		t.Error("conf.HTTP.Session.Cookie.HTTPOnly: expected true")
	}
	if e, g := 3, len(conf.Seed); e != g {
		t.Fatalf("len(conf.Seed): expected '%v', got '%v'", e, g)
	}
	if e, g := "s3cret!", string(conf.Seed[1].Password); e != g {
		t.Errorf("conf.Seed[1].Password: expected '%v', got '%v'", e, g)
	}
	if e, g := "admin123", string(conf.Seed[0].Password); e != g {
		t.Errorf("conf.Seed[0].Password: expected '%v', got '%v'", e, g)
	}
}

func TestLoadFile(t *testing.T) {
	withEnv(t, map[string]string{
		"PORT":           "3000",
		"REDIS_HOST":     "cache",
		"COACH_PASSWORD": "hunter22",
	})

	conf := NewDefaultConfig()
	if err := LoadFile("testdata/config.yml", conf); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	if e, g := int(slog.LevelDebug), int(conf.Logger.Level); e != g {
		t.Errorf("conf.Logger.Level: expected '%v', got '%v'", e, g)
	}
	if e, g := ":3000", string(conf.HTTP.Address); e != g {
		t.Errorf("conf.HTTP.Address: expected '%v', got '%v'", e, g)
	}
	if bool(conf.HTTP.RateLimit.Enabled) {
		t.Error("conf.HTTP.RateLimit.Enabled: expected false")
	}
	if e, g := 2.5, float64(conf.HTTP.RateLimit.Rate); e != g {
		t.Errorf("conf.HTTP.RateLimit.Rate: expected '%v', got '%v'", e, g)
	}
	if e, g := time.Second, time.Duration(conf.HTTP.SlowRequest); e != g {
		t.Errorf("conf.HTTP.SlowRequest: expected '%v', got '%v'", e, g)
	}
	if e, g := 2*time.Hour, time.Duration(conf.Credentials.TTL); e != g {
		t.Errorf("conf.Credentials.TTL: expected '%v', got '%v'", e, g)
	}
	if e, g := "cache:6379", string(conf.Credentials.Redis.Address); e != g {
		t.Errorf("conf.Credentials.Redis.Address: expected '%v', got '%v'", e, g)
	}
	if e, g := 3, int(conf.Credentials.Redis.DB); e != g {
		t.Errorf("conf.Credentials.Redis.DB: expected '%v', got '%v'", e, g)
	}
	if e, g := 1, len(conf.Seed); e != g {
		t.Fatalf("len(conf.Seed): expected '%v', got '%v'", e, g)
	}
	if e, g := "hunter22", string(conf.Seed[0].Password); e != g {
		t.Errorf("conf.Seed[0].Password: expected '%v', got '%v'", e, g)
	}
}

func TestDump_Comments(t *testing.T) {
	var buff bytes.Buffer
	if err := Dump(&buff, NewDefaultConfig()); err != nil {
		t.Fatalf("%+v", errors.WithStack(err))
	}

	dumped := buff.String()
	for _, want := range []string{
		"# Webserver's listening address",
		"# Registry backend (memory or redis)",
		"${FITHUB_HTTP_ADDRESS:-:8080}",
	} {
		if !strings.Contains(dumped, want) {
			t.Errorf("dump is missing %q:\n%s", want, dumped)
		}
	}
}

func TestLoadFile_Missing(t *testing.T) {
	err := LoadFile("testdata/does-not-exist.yml", NewDefaultConfig())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadFile(missing): expected os.ErrNotExist, got %v", err)
	}
}
