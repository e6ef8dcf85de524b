package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fithub/internal/domain/account"
	"fithub/internal/domain/identity"
)

// AccountStoreForCreate defines the store interface needed by CreateAccount.
type AccountStoreForCreate interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// CreateAccountInput carries input for the orchestrator.
type CreateAccountInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      identity.Role
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	AccountStore AccountStoreForCreate
}

var ErrEmailAlreadyExists = errors.New("an account with this email already exists")

// ExecuteCreateAccount coordinates account creation.
// PRE: Valid email, password >= 6 chars, valid role
// POST: Account created with hashed password
// INVARIANT: Email must be unique
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (string, error) {
	if _, err := deps.AccountStore.GetByEmail(ctx, input.Email); err == nil {
		return "", ErrEmailAlreadyExists
	}

	acct := account.Account{
		ID:        uuid.NewString(),
		Email:     account.NormalizeEmail(input.Email),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      input.Role,
		CreatedAt: time.Now(),
	}
	if err := acct.Validate(); err != nil {
		return "", err
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return "", err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "auth_event", "event", "account_created", "email", acct.Email, "role", acct.Role)
	return acct.ID, nil
}
