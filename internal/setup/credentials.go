package setup

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"fithub/internal/adapters/credential"
	"fithub/internal/config"
)

// NewRegistryFromConfig builds the credential registry for the configured
// backend. The memory backend sweeps expired grants until ctx is done.
func NewRegistryFromConfig(ctx context.Context, conf *config.Config) (credential.Registry, func() error, error) {
	ttl := time.Duration(conf.Credentials.TTL)

	switch backend := config.CredentialsBackend(conf.Credentials.Backend); backend {
	case config.CredentialsBackendMemory, "":
		registry := credential.NewMemoryRegistry(ttl)
		if interval := time.Duration(conf.Credentials.SweepInterval); interval > 0 {
			go registry.RunSweeper(ctx, interval)
		}
		slog.InfoContext(ctx, "credential_registry", slog.String("backend", string(config.CredentialsBackendMemory)))
		return registry, func() error { return nil }, nil

	case config.CredentialsBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     string(conf.Credentials.Redis.Address),
			Password: string(conf.Credentials.Redis.Password),
			DB:       int(conf.Credentials.Redis.DB),
		})
		registry := credential.NewRedisRegistry(client, string(conf.Credentials.Redis.Prefix), ttl)
		if err := registry.Ping(ctx); err != nil {
			client.Close()
			return nil, nil, errors.Wrapf(err, "could not reach redis at '%s'", conf.Credentials.Redis.Address)
		}
		slog.InfoContext(ctx, "credential_registry",
			slog.String("backend", string(backend)),
			slog.String("address", string(conf.Credentials.Redis.Address)),
		)
		return registry, client.Close, nil

	default:
		return nil, nil, errors.Errorf("unknown credentials backend '%s'", backend)
	}
}
