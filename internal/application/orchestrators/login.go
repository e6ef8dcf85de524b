package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"fithub/internal/domain/account"
	"fithub/internal/domain/identity"
)

// AccountStoreForLogin defines the store interface needed by Login.
type AccountStoreForLogin interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// CredentialIssuer mints the opaque token persisted next to the identity.
type CredentialIssuer interface {
	Issue(ctx context.Context, accountID string) (string, error)
}

// AuthEventRecorder counts authentication events.
type AuthEventRecorder interface {
	AuthEvent(event string)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	AccountID string
	Identity  identity.Identity
	Token     string
	HomePath  string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	AccountStore AccountStoreForLogin
	Credentials  CredentialIssuer
	Events       AuthEventRecorder
	Now          func() time.Time
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked due to too many failed attempts")
)

// FieldErrors maps a form field to its validation message.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for field, msg := range f {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// ValidateEmailField returns the form message for an email field, or "".
func ValidateEmailField(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "Email is required"
	}
	if !emailPattern.MatchString(email) {
		return "Email is invalid"
	}
	return ""
}

// ValidateLoginInput checks the form before any lookup happens.
// POST: Returns nil when both fields are acceptable
func ValidateLoginInput(input LoginInput) FieldErrors {
	errs := FieldErrors{}
	if msg := ValidateEmailField(input.Email); msg != "" {
		errs["email"] = msg
	}
	switch {
	case input.Password == "":
		errs["password"] = "Password is required"
	case len(input.Password) < account.MinPasswordLength:
		errs["password"] = "Password must be at least 6 characters"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// HomePath is the landing route for a role after login.
func HomePath(role identity.Role) string {
	switch role {
	case identity.RoleAdmin:
		return "/admin/dashboard"
	case identity.RoleTrainer:
		return "/trainer/dashboard"
	case identity.RoleMember:
		return "/member/dashboard"
	default:
		return "/"
	}
}

// ExecuteLogin validates credentials and issues a credential for the session.
// PRE: input passes ValidateLoginInput
// POST: Returns identity, token and home path on success; records failed login on failure
// INVARIANT: A locked account never receives a credential
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if errs := ValidateLoginInput(input); errs != nil {
		return LoginResult{}, errs
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	record := func(event string) {
		if deps.Events != nil {
			deps.Events.AuthEvent(event)
		}
	}

	acct, err := deps.AccountStore.GetByEmail(ctx, account.NormalizeEmail(input.Email))
	if err != nil {
		slog.InfoContext(ctx, "auth_event", "event", "login_failed", "email", input.Email, "reason", "not_found")
		record("login_failed")
		return LoginResult{}, ErrInvalidCredentials
	}

	if acct.IsLocked(now()) {
		slog.InfoContext(ctx, "auth_event", "event", "login_blocked", "email", input.Email, "reason", "locked")
		record("login_blocked")
		return LoginResult{}, ErrAccountLocked
	}

	if err := acct.CheckPassword(input.Password); err != nil {
		acct.RecordFailedLogin(now())
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			slog.ErrorContext(ctx, "auth_event", "event", "failed_login_not_saved", "email", input.Email, "error", err)
		}
		slog.InfoContext(ctx, "auth_event", "event", "login_failed", "email", input.Email, "reason", "wrong_password", "failed_logins", acct.FailedLogins)
		record("login_failed")
		return LoginResult{}, ErrInvalidCredentials
	}

	if !acct.Role.IsValid() {
		slog.WarnContext(ctx, "auth_event", "event", "login_blocked", "email", input.Email, "reason", "unknown_role")
		record("login_blocked")
		return LoginResult{}, ErrInvalidCredentials
	}

	if acct.FailedLogins > 0 || !acct.LockedUntil.IsZero() {
		acct.ResetFailedLogins()
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			return LoginResult{}, err
		}
	}

	token, err := deps.Credentials.Issue(ctx, acct.ID)
	if err != nil {
		return LoginResult{}, err
	}

	slog.InfoContext(ctx, "auth_event", "event", "login_success", "email", acct.Email, "role", acct.Role)
	record("login_success")

	return LoginResult{
		AccountID: acct.ID,
		Identity:  acct.Identity(),
		Token:     token,
		HomePath:  HomePath(acct.Role),
	}, nil
}
