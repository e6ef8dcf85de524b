package setup

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"fithub/internal/adapters/http/perf"
	"fithub/internal/adapters/storage"
	accountStore "fithub/internal/adapters/storage/account"
	"fithub/internal/application/orchestrators"
	"fithub/internal/config"
	"fithub/internal/domain/identity"
)

// NewAccountStoreFromConfig opens and migrates the database, then creates the
// configured seed accounts.
// POST: The returned *sql.DB must be closed by the caller
func NewAccountStoreFromConfig(ctx context.Context, conf *config.Config, collector *perf.Collector) (*accountStore.SQLiteStore, *sql.DB, error) {
	db, err := storage.Open(ctx, string(conf.Store.DSN))
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	if err := storage.MigrateDB(db); err != nil {
		db.Close()
		return nil, nil, errors.WithStack(err)
	}

	timed := storage.NewTimedDB(db, collector, time.Duration(conf.Store.SlowQuery))
	store := accountStore.NewSQLiteStore(timed)

	created, err := orchestrators.ExecuteSeedAccounts(ctx, seedAccounts(conf.Seed), orchestrators.CreateAccountDeps{AccountStore: store})
	if err != nil {
		db.Close()
		return nil, nil, errors.WithStack(err)
	}

	slog.InfoContext(ctx, "store_ready",
		slog.String("dsn", string(conf.Store.DSN)),
		slog.Int("schema", storage.LatestSchemaVersion()),
		slog.Int("seeded", created),
	)

	return store, db, nil
}

func seedAccounts(seeds []config.Seed) []orchestrators.SeedAccount {
	accounts := make([]orchestrators.SeedAccount, 0, len(seeds))
	for _, s := range seeds {
		if s.Email == "" || s.Password == "" {
			continue
		}
		accounts = append(accounts, orchestrators.SeedAccount{
			Email:     string(s.Email),
			Password:  string(s.Password),
			FirstName: string(s.FirstName),
			LastName:  string(s.LastName),
			Role:      identity.ParseRole(string(s.Role)),
		})
	}
	return accounts
}
