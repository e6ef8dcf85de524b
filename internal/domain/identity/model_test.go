package identity_test

import (
	"testing"

	"fithub/internal/domain/identity"
)

// TestDecode_FailsSoft verifies malformed or absent blobs yield the empty identity.
func TestDecode_FailsSoft(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"empty string", ""},
		{"whitespace", "   "},
		{"not json", "not-json"},
		{"truncated json", `{"firstName":"Ada"`},
		{"json array", `["Ada"]`},
		{"wrong field type", `{"firstName":42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := identity.Decode(tt.blob)
			if err == nil {
				t.Fatalf("Decode(%q) error = nil, want error", tt.blob)
			}
			if got != identity.Empty() {
				t.Errorf("Decode(%q) = %+v, want empty identity", tt.blob, got)
			}
			if got.Role != identity.RoleUnknown {
				t.Errorf("Role = %q, want unknown", got.Role)
			}
		})
	}
}

// TestDecode_Trainer verifies the canonical trainer blob decodes.
func TestDecode_Trainer(t *testing.T) {
	got, err := identity.Decode(`{"firstName":"Ada","lastName":"Lovelace","role":"trainer"}`)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := identity.Identity{FirstName: "Ada", LastName: "Lovelace", Role: identity.RoleTrainer}
	if got != want {
		t.Errorf("Decode() = %+v, want %+v", got, want)
	}
	if got.Role.Badge() != "Trainer" {
		t.Errorf("Badge() = %q, want Trainer", got.Role.Badge())
	}
}

// TestParseRole tests role normalisation.
func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want identity.Role
	}{
		{"trainer", identity.RoleTrainer},
		{"TRAINER", identity.RoleTrainer},
		{" Admin ", identity.RoleAdmin},
		{"member", identity.RoleMember},
		{"coach", identity.RoleUnknown},
		{"", identity.RoleUnknown},
	}
	for _, tt := range tests {
		if got := identity.ParseRole(tt.in); got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	in := identity.Identity{FirstName: "Grace", LastName: "Hopper", Role: identity.RoleAdmin}
	blob, err := in.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out, err := identity.Decode(blob)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestIdentity_DisplayName(t *testing.T) {
	tests := []struct {
		id   identity.Identity
		want string
	}{
		{identity.Identity{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{identity.Identity{FirstName: "Ada"}, "Ada"},
		{identity.Identity{LastName: "Lovelace"}, "Lovelace"},
		{identity.Empty(), ""},
	}
	for _, tt := range tests {
		if got := tt.id.DisplayName(); got != tt.want {
			t.Errorf("DisplayName() = %q, want %q", got, tt.want)
		}
	}
}

func TestIdentity_IsAuthenticated(t *testing.T) {
	if identity.Empty().IsAuthenticated() {
		t.Error("empty identity should not be authenticated")
	}
	if !identity.Empty().IsEmpty() {
		t.Error("Empty().IsEmpty() = false")
	}
	member := identity.Identity{FirstName: "M", Role: identity.RoleMember}
	if !member.IsAuthenticated() {
		t.Error("member identity should be authenticated")
	}
	if identity.RoleUnknown.Badge() != "" {
		t.Errorf("unknown badge = %q, want empty", identity.RoleUnknown.Badge())
	}
}
