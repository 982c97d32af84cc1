// Package match resolves a name/company fragment against a user's active
// leads. Matching is deliberately dumb: case-insensitive substring
// containment, no ranking, no fuzzy distance. Ambiguity is the caller's
// problem to surface, never this package's to resolve.
package match

import (
	"strings"

	storex "leadline/assistant/store"
)

// Leads returns every candidate whose name or company contains the fragment,
// case-insensitively, preserving input order. Callers must not pass an empty
// fragment.
func Leads(fragment string, candidates []storex.Lead) []storex.Lead {
	needle := strings.ToLower(fragment)

	var matched []storex.Lead
	for _, lead := range candidates {
		if strings.Contains(strings.ToLower(lead.Name), needle) ||
			strings.Contains(strings.ToLower(lead.Company), needle) {
			matched = append(matched, lead)
		}
	}
	return matched
}
