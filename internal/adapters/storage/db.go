package storage

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/pkg/errors"

	_ "modernc.org/sqlite"
)

// Open opens the SQLite database at dsn and applies pragmas.
// PRE: dsn is a modernc sqlite DSN (a path or ":memory:")
// POST: Returns an open handle with foreign keys enforced
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open database '%s'", dsn)
	}

	// An in-memory database only lives as long as its single connection.
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "could not reach database")
	}

	pragmas := []string{"PRAGMA foreign_keys=ON", "PRAGMA busy_timeout=5000"}
	if dsn != ":memory:" {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL")
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "could not apply '%s'", p)
		}
	}
	return db, nil
}

type migration struct {
	version     int
	description string
	statements  []string
}

var migrations = []migration{
	{
		version:     1,
		description: "account table",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS account (
				id TEXT PRIMARY KEY,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL DEFAULT '',
				first_name TEXT NOT NULL,
				last_name TEXT NOT NULL DEFAULT '',
				role TEXT NOT NULL,
				created_at TEXT NOT NULL,
				failed_logins INTEGER NOT NULL DEFAULT 0,
				locked_until TEXT
			)`,
			`CREATE INDEX IF NOT EXISTS idx_account_role ON account (role)`,
		},
	},
	{
		version:     2,
		description: "password help requests",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS password_help_request (
				id TEXT PRIMARY KEY,
				email TEXT NOT NULL,
				account_id TEXT,
				requested_at TEXT NOT NULL,
				FOREIGN KEY (account_id) REFERENCES account(id) ON DELETE SET NULL
			)`,
		},
	},
}

// LatestSchemaVersion is the version MigrateDB brings a database to.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the applied schema version, 0 for an untracked database.
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'`).Scan(&exists)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	if exists == 0 {
		return 0, nil
	}

	var version sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&version); err != nil {
		return 0, errors.WithStack(err)
	}
	return int(version.Int64), nil
}

// MigrateDB applies pending migrations, each in its own transaction.
// PRE: db is a valid database connection
// POST: SchemaVersion(db) == LatestSchemaVersion()
// INVARIANT: Running it twice is a no-op
func MigrateDB(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
	)`); err != nil {
		return errors.Wrap(err, "could not create schema_version")
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(db, m); err != nil {
			return errors.Wrapf(err, "migration %d (%s)", m.version, m.description)
		}
		slog.Info("schema_migrated", "version", m.version, "description", m.description)
	}
	return nil
}

func applyMigration(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.WithStack(err)
	}
	defer tx.Rollback()

	for _, stmt := range m.statements {
		if _, err := tx.Exec(stmt); err != nil {
			return errors.WithStack(err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO schema_version (version, description) VALUES (?, ?)`, m.version, m.description); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(tx.Commit())
}
