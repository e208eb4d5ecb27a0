package workstream

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize folds a project or person name into its comparison key. Surrounding
// whitespace is ignored.
func Normalize(name string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(name))
}

// NamesMatch is the loose identity predicate used to tie free-text task assignees to
// directory personnel: a and b match when either one, lowercased, contains the other.
// It is intentionally permissive ("Aniket" matches "Aniket Baral") and must not be
// tightened to equality, since that changes which tasks count toward availability.
func NamesMatch(a, b string) bool {
	la := cases.Lower(language.Und).String(a)
	lb := cases.Lower(language.Und).String(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

// SameName reports whether two names are equal after normalization.
func SameName(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
