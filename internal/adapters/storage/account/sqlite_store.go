package account

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"fithub/internal/adapters/storage"
	domain "fithub/internal/domain/account"
	"fithub/internal/domain/identity"
)

const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"

const selectColumns = "SELECT id, email, password_hash, first_name, last_name, role, created_at, failed_logins, locked_until FROM account"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new account store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	ctx = storage.WithOp(ctx, "account.GetByID")
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	return scanOne(row.Scan)
}

// GetByEmail retrieves an Account by email, ignoring case.
// PRE: email is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	ctx = storage.WithOp(ctx, "account.GetByEmail")
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE email = ?", domain.NormalizeEmail(email))
	return scanOne(row.Scan)
}

// Save persists an Account.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update); the email is stored normalized
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Account) error {
	ctx = storage.WithOp(ctx, "account.Save")

	fields := []string{"id", "email", "password_hash", "first_name", "last_name", "role", "created_at", "failed_logins", "locked_until"}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(fields)), ", ")
	updates := []string{
		"email=excluded.email",
		"password_hash=excluded.password_hash",
		"first_name=excluded.first_name",
		"last_name=excluded.last_name",
		"role=excluded.role",
		"failed_logins=excluded.failed_logins",
		"locked_until=excluded.locked_until",
	}

	query := fmt.Sprintf(
		"INSERT INTO account (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		placeholders,
		strings.Join(updates, ", "),
	)

	var lockedUntil any
	if !entity.LockedUntil.IsZero() {
		lockedUntil = entity.LockedUntil.UTC().Format(timeLayout)
	}
	createdAt := entity.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		domain.NormalizeEmail(entity.Email),
		entity.PasswordHash,
		entity.FirstName,
		entity.LastName,
		string(entity.Role),
		createdAt.UTC().Format(timeLayout),
		entity.FailedLogins,
		lockedUntil,
	)
	return errors.Wrapf(err, "could not save account '%s'", entity.ID)
}

// Delete removes an Account.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	ctx = storage.WithOp(ctx, "account.Delete")
	_, err := s.db.ExecContext(ctx, "DELETE FROM account WHERE id = ?", id)
	return errors.WithStack(err)
}

// List retrieves Accounts ordered by name.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Account, error) {
	ctx = storage.WithOp(ctx, "account.List")

	var query strings.Builder
	var args []any

	query.WriteString(selectColumns)
	if filter.Role != "" {
		query.WriteString(" WHERE role = ?")
		args = append(args, string(filter.Role))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}
	query.WriteString(" ORDER BY first_name, last_name LIMIT ? OFFSET ?")
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()

	var results []domain.Account
	for rows.Next() {
		entity, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, errors.WithStack(rows.Err())
}

// Count returns how many accounts match filter. Limit and Offset are ignored.
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	ctx = storage.WithOp(ctx, "account.Count")
	query := "SELECT COUNT(*) FROM account"
	var args []any
	if filter.Role != "" {
		query += " WHERE role = ?"
		args = append(args, string(filter.Role))
	}
	var count int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, errors.WithStack(err)
}

// RecordHelpRequest stores a forgot-password submission.
// POST: Request persisted; AccountID stored as NULL when empty
func (s *SQLiteStore) RecordHelpRequest(ctx context.Context, req HelpRequest) error {
	ctx = storage.WithOp(ctx, "account.RecordHelpRequest")
	var accountID any
	if req.AccountID != "" {
		accountID = req.AccountID
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO password_help_request (id, email, account_id, requested_at) VALUES (?, ?, ?, ?)",
		req.ID, domain.NormalizeEmail(req.Email), accountID, req.RequestedAt.UTC().Format(timeLayout),
	)
	return errors.WithStack(err)
}

func scanOne(scan func(dest ...any) error) (domain.Account, error) {
	entity, err := scanAccount(scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, ErrNotFound
	}
	return entity, err
}

// scanAccount extracts an Account from a row scanner function.
func scanAccount(scan func(dest ...any) error) (domain.Account, error) {
	var entity domain.Account
	var role, createdAt string
	var lockedUntil sql.NullString
	err := scan(
		&entity.ID,
		&entity.Email,
		&entity.PasswordHash,
		&entity.FirstName,
		&entity.LastName,
		&role,
		&createdAt,
		&entity.FailedLogins,
		&lockedUntil,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, err
		}
		return domain.Account{}, errors.WithStack(err)
	}
	entity.Role = identity.ParseRole(role)
	entity.CreatedAt, _ = parseTime(createdAt)
	if lockedUntil.Valid && lockedUntil.String != "" {
		entity.LockedUntil, _ = parseTime(lockedUntil.String)
	}
	return entity, nil
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("cannot parse time: %s", s)
}
