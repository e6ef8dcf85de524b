package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"fithub/internal/domain/identity"
)

// SeedAccount describes an account created on startup when its email is unused.
type SeedAccount struct {
	Email     string        `yaml:"email"`
	Password  string        `yaml:"password"`
	FirstName string        `yaml:"firstName"`
	LastName  string        `yaml:"lastName"`
	Role      identity.Role `yaml:"role"`
}

// ExecuteSeedAccounts creates the given accounts if they don't already exist.
// It is idempotent and skips accounts that already exist (checked by email).
// PRE: Database is migrated
// POST: Every seed email has an account; returns how many were created
func ExecuteSeedAccounts(ctx context.Context, seeds []SeedAccount, deps CreateAccountDeps) (int, error) {
	created := 0
	for _, s := range seeds {
		if _, err := deps.AccountStore.GetByEmail(ctx, s.Email); err == nil {
			continue
		}
		_, err := ExecuteCreateAccount(ctx, CreateAccountInput{
			Email:     s.Email,
			Password:  s.Password,
			FirstName: s.FirstName,
			LastName:  s.LastName,
			Role:      identity.ParseRole(string(s.Role)),
		}, deps)
		if err != nil {
			return created, fmt.Errorf("seed account %s: %w", s.Email, err)
		}
		created++
		slog.InfoContext(ctx, "seed_event", "event", "account_seeded", "email", s.Email, "role", s.Role)
	}
	if created > 0 {
		slog.InfoContext(ctx, "seed_event", "event", "accounts_seeded", "created", created)
	}
	return created, nil
}
