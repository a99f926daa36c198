// Package resolver reduces a set of named candidates to the best match for a
// typed prefix. The same rules serve bestiary lookups and roster lookups.
package resolver

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// SuggestionCount is the number of matches shown in diagnostics.
const SuggestionCount = 3

// Result holds every candidate whose name starts with the query, ordered by
// name length with ties kept in candidate order.
type Result[T any] struct {
	Query   string
	Matches []T
}

// Best returns the shortest matching candidate.
//
// Postcondition: ok is false iff there were no matches.
func (r Result[T]) Best() (best T, ok bool) {
	if len(r.Matches) == 0 {
		return best, false
	}
	return r.Matches[0], true
}

// Top returns at most n leading matches.
func (r Result[T]) Top(n int) []T {
	if n > len(r.Matches) {
		n = len(r.Matches)
	}
	return r.Matches[:n]
}

// Empty reports whether nothing matched.
func (r Result[T]) Empty() bool { return len(r.Matches) == 0 }

// Resolve collects every candidate whose name, compared case-insensitively,
// starts with query.
//
// Precondition: nameOf must be non-nil.
// Postcondition: Matches is stably sorted by name length; an empty query
// matches nothing.
func Resolve[T any](query string, candidates []T, nameOf func(T) string) Result[T] {
	res := Result[T]{Query: query}
	if query == "" {
		return res
	}
	fold := cases.Fold()
	prefix := fold.String(query)

	for _, c := range candidates {
		if strings.HasPrefix(fold.String(nameOf(c)), prefix) {
			res.Matches = append(res.Matches, c)
		}
	}
	sort.SliceStable(res.Matches, func(i, j int) bool {
		return len(nameOf(res.Matches[i])) < len(nameOf(res.Matches[j]))
	})
	return res
}

// Exact returns the best match only when its name equals query under case folding.
func Exact[T any](query string, candidates []T, nameOf func(T) string) (T, Result[T], bool) {
	res := Resolve(query, candidates, nameOf)
	best, ok := res.Best()
	if ok && EqualFold(nameOf(best), query) {
		return best, res, true
	}
	var zero T
	return zero, res, false
}

// HasPrefixFold reports whether s starts with prefix under Unicode case folding.
func HasPrefixFold(s, prefix string) bool {
	fold := cases.Fold()
	return strings.HasPrefix(fold.String(s), fold.String(prefix))
}

// EqualFold reports whether a and b are equal under Unicode case folding.
func EqualFold(a, b string) bool {
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}

// Names maps a slice of candidates to their names.
func Names[T any](items []T, nameOf func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = nameOf(it)
	}
	return out
}
