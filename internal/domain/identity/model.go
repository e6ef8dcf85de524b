package identity

import (
	"encoding/json"
	"errors"
	"strings"
)

// Role is the coarse access level of a signed-in user.
type Role string

// Role constants
const (
	RoleTrainer Role = "trainer"
	RoleMember  Role = "member"
	RoleAdmin   Role = "admin"
	RoleUnknown Role = "unknown"
)

// ValidRoles contains every role an account may hold.
var ValidRoles = []Role{RoleTrainer, RoleMember, RoleAdmin}

// Domain errors
var (
	ErrEmptyBlob = errors.New("identity blob is empty")
)

// Identity is the display name and role of the current user.
type Identity struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
}

// Empty returns the identity used when no usable session exists.
func Empty() Identity {
	return Identity{Role: RoleUnknown}
}

// ParseRole maps a stored role string to a Role.
// Matching ignores case and surrounding space; anything unrecognised is RoleUnknown.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleTrainer:
		return RoleTrainer
	case RoleMember:
		return RoleMember
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUnknown
	}
}

// IsValid reports whether r is one of ValidRoles.
func (r Role) IsValid() bool {
	for _, v := range ValidRoles {
		if v == r {
			return true
		}
	}
	return false
}

// Badge returns the label shown next to the user's name ("Trainer", "Admin", "Member").
// The unknown role has no badge.
func (r Role) Badge() string {
	switch r {
	case RoleTrainer:
		return "Trainer"
	case RoleAdmin:
		return "Admin"
	case RoleMember:
		return "Member"
	default:
		return ""
	}
}

// IsEmpty reports whether the identity carries no usable information.
// INVARIANT: Identity fields are not mutated
func (i Identity) IsEmpty() bool {
	return i.Role == RoleUnknown && i.FirstName == "" && i.LastName == ""
}

// IsAuthenticated reports whether the identity belongs to a known role.
func (i Identity) IsAuthenticated() bool {
	return i.Role.IsValid()
}

// DisplayName joins first and last name, skipping empty parts.
func (i Identity) DisplayName() string {
	return strings.TrimSpace(strings.Join([]string{i.FirstName, i.LastName}, " "))
}

// Decode parses a persisted identity blob.
// PRE: none
// POST: Returns the identity on success; on any failure returns Empty() and the cause
func Decode(blob string) (Identity, error) {
	if strings.TrimSpace(blob) == "" {
		return Empty(), ErrEmptyBlob
	}

	var raw struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Role      string `json:"role"`
	}
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		return Empty(), err
	}

	return Identity{
		FirstName: raw.FirstName,
		LastName:  raw.LastName,
		Role:      ParseRole(raw.Role),
	}, nil
}

// Encode serializes the identity for persistence.
// POST: Decode(Encode(i)) == i for identities with a valid or unknown role
func (i Identity) Encode() (string, error) {
	data, err := json.Marshal(i)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
