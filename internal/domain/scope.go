package domain

import (
	"sort"
	"strings"
)

// Scope is the set of branch ids one request may act on, resolved once by
// the auth layer and immutable afterwards.
type Scope []string

// NewScope builds a scope from branch ids, dropping empties and duplicates.
func NewScope(branchIDs ...string) Scope {
	seen := make(map[string]struct{}, len(branchIDs))
	s := make(Scope, 0, len(branchIDs))
	for _, id := range branchIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		s = append(s, id)
	}
	return s
}

func (s Scope) IsEmpty() bool { return len(s) == 0 }

func (s Scope) Contains(branchID string) bool {
	for _, id := range s {
		if id == branchID {
			return true
		}
	}
	return false
}

// Canonical renders the scope sorted and comma-joined. Cache keys are built
// from this form only, so {"b1","b2"} and {"b2","b1"} share keys while
// {"b1"} and {"b1","b2"} never do.
func (s Scope) Canonical() string {
	sorted := make([]string, len(s))
	copy(sorted, s)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
