package account

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fithub/internal/domain/identity"
)

// Field limits.
const (
	MaxEmailLength    = 254
	MaxNameLength     = 100
	MinPasswordLength = 6
	MaxFailedLogins   = 5
	LockoutDuration   = 15 * time.Minute
	bcryptCost        = 12
)

// Domain errors
var (
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidEmail     = errors.New("email must contain '@'")
	ErrEmailTooLong     = errors.New("email cannot exceed 254 characters")
	ErrEmptyFirstName   = errors.New("first name cannot be empty")
	ErrNameTooLong      = errors.New("name cannot exceed 100 characters")
	ErrInvalidRole      = errors.New("role must be one of: trainer, member, admin")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrWrongPassword    = errors.New("incorrect password")
)

// Account is a person who can sign in to FitHub.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         identity.Role
	CreatedAt    time.Time
	FailedLogins int
	LockedUntil  time.Time
}

// NormalizeEmail lower-cases and trims an address for lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the shape of an address.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmptyEmail
	}
	if len(email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword checks a plaintext password before it is hashed or compared.
func ValidatePassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// Validate checks if the Account has valid data.
// PRE: Account struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Account) Validate() error {
	if err := ValidateEmail(a.Email); err != nil {
		return err
	}
	if strings.TrimSpace(a.FirstName) == "" {
		return ErrEmptyFirstName
	}
	if len(a.FirstName) > MaxNameLength || len(a.LastName) > MaxNameLength {
		return ErrNameTooLong
	}
	if !a.Role.IsValid() {
		return ErrInvalidRole
	}
	return nil
}

// SetPassword hashes and stores a password using bcrypt.
// PRE: plaintext passes ValidatePassword
// POST: PasswordHash is set to bcrypt hash
func (a *Account) SetPassword(plaintext string) error {
	if err := ValidatePassword(plaintext); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// INVARIANT: Account fields are not mutated
func (a *Account) CheckPassword(plaintext string) error {
	if a.PasswordHash == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// IsLocked reports whether the account is locked out at now.
// INVARIANT: Account fields are not mutated
func (a *Account) IsLocked(now time.Time) bool {
	if a.LockedUntil.IsZero() {
		return false
	}
	return now.Before(a.LockedUntil)
}

// RecordFailedLogin increments the failed login counter and locks the account
// after MaxFailedLogins failures.
// POST: FailedLogins incremented; LockedUntil set if the limit is reached
func (a *Account) RecordFailedLogin(now time.Time) {
	a.FailedLogins++
	if a.FailedLogins >= MaxFailedLogins {
		a.LockedUntil = now.Add(LockoutDuration)
	}
}

// ResetFailedLogins clears the failed login counter and lock.
// POST: FailedLogins is 0, LockedUntil is zero
func (a *Account) ResetFailedLogins() {
	a.FailedLogins = 0
	a.LockedUntil = time.Time{}
}

// Identity is the display identity persisted in the browser session.
func (a *Account) Identity() identity.Identity {
	return identity.Identity{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Role:      a.Role,
	}
}
