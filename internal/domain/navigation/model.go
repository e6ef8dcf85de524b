// Package navigation composes ordered menu entries into renderable links.
package navigation

import (
	"strings"

	"fithub/internal/domain/identity"
)

// IconRef names an icon; the view layer resolves it to markup.
type IconRef string

// Icons used by the built-in menus.
const (
	IconHome          IconRef = "home"
	IconUsers         IconRef = "users"
	IconUserCheck     IconRef = "user-check"
	IconUserCircle    IconRef = "user-circle"
	IconFileText      IconRef = "file-text"
	IconSalad         IconRef = "salad"
	IconCreditCard    IconRef = "credit-card"
	IconClipboardList IconRef = "clipboard-list"
	IconTreadmill     IconRef = "treadmill"
	IconCheckSquare   IconRef = "check-square"
	IconReceipt       IconRef = "receipt"
)

// Predicate decides whether an entry is visible to an identity.
type Predicate func(identity.Identity) bool

// Entry is one static menu item.
type Entry struct {
	Label       string
	Icon        IconRef
	Destination string
	// VisibleWhen filters the entry; nil means always visible.
	VisibleWhen Predicate
}

// Link is an entry ready for rendering.
type Link struct {
	Label       string
	Icon        IconRef
	Destination string
	Active      bool
}

// Always is a predicate that accepts every identity.
func Always(identity.Identity) bool { return true }

// RoleIs returns a predicate accepting identities with one of roles.
func RoleIs(roles ...identity.Role) Predicate {
	return func(id identity.Identity) bool {
		for _, r := range roles {
			if id.Role == r {
				return true
			}
		}
		return false
	}
}

// Compose maps entries to links for id at currentPath.
// PRE: entries is in render order
// POST: Output preserves input order; hidden entries are dropped; Active is set by IsActive
func Compose(entries []Entry, id identity.Identity, currentPath string) []Link {
	links := make([]Link, 0, len(entries))
	for _, e := range entries {
		if e.VisibleWhen != nil && !e.VisibleWhen(id) {
			continue
		}
		links = append(links, Link{
			Label:       e.Label,
			Icon:        e.Icon,
			Destination: e.Destination,
			Active:      IsActive(e.Destination, currentPath),
		})
	}
	return links
}

// IsActive reports whether currentPath equals destination or is nested under it.
// Nesting is checked on path-segment boundaries and trailing slashes are ignored.
// Destinations carrying a fragment ("#features", "/#pricing") are never active.
func IsActive(destination, currentPath string) bool {
	if destination == "" || strings.Contains(destination, "#") {
		return false
	}
	if i := strings.IndexByte(destination, '?'); i >= 0 {
		destination = destination[:i]
	}
	dest := trimSlash(destination)
	cur := trimSlash(currentPath)
	if dest == "/" {
		return true
	}
	if cur == dest {
		return true
	}
	return strings.HasPrefix(cur, dest+"/")
}

func trimSlash(p string) string {
	if p == "" {
		return "/"
	}
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}
