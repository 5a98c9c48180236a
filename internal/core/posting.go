// Package core defines the essential interfaces and data structures shared by
// the dispatch engine and its collaborators. Implementations of the interfaces
// live in their own packages (hh, storage, reauth) so the engine stays
// independent of the remote service.
package core

import (
	"maps"
	"strings"
)

// Posting is a single job posting as returned by a PostingSource.
type Posting struct {
	ID    string
	Title string
}

// Filters are forwarded to the PostingSource untouched.
type Filters struct {
	// Experience holds the remote service's experience filter values,
	// e.g. "between1And3". Empty means no experience filter.
	Experience []string
}

// Resume is a search query plus the terms whose presence in a posting title
// excludes the posting. A Resume never changes after it is created.
type Resume struct {
	Hash       string
	Query      string
	Exclusions []string
}

// Excludes reports whether title contains any exclusion term, ignoring case.
func (r Resume) Excludes(title string) bool {
	return ContainsAnyFold(title, r.Exclusions)
}

// ContainsAnyFold reports whether s contains any of terms as a case-insensitive
// substring. Empty terms never match.
func ContainsAnyFold(s string, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	lower := strings.ToLower(s)
	for _, term := range terms {
		if term == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// Material is the named authentication material of an account (session cookies).
type Material map[string]string

// Clone returns a copy that can be handed to another goroutine.
func (m Material) Clone() Material {
	if m == nil {
		return Material{}
	}
	return maps.Clone(m)
}
