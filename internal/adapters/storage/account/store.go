package account

import (
	"context"
	"errors"
	"time"

	domain "fithub/internal/domain/account"
	"fithub/internal/domain/identity"
)

// ErrNotFound is returned when no account matches.
var ErrNotFound = errors.New("account not found")

// Store persists Account state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Save(ctx context.Context, value domain.Account) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Account, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	RecordHelpRequest(ctx context.Context, req HelpRequest) error
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit  int
	Offset int
	Role   identity.Role
}

// HelpRequest is one forgot-password submission.
type HelpRequest struct {
	ID          string
	Email       string
	AccountID   string // empty when the address matched no account
	RequestedAt time.Time
}
