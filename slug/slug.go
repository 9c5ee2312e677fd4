// Package slug turns titles into URL-safe identifiers.
package slug

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultMaxAttempts bounds EnsureUnique when the caller passes a non-positive limit.
const DefaultMaxAttempts = 100

// ErrExhausted is returned by EnsureUnique when every candidate collided.
var ErrExhausted = errors.New("slug: unable to generate unique slug")

var pattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Make converts arbitrary text to a lowercase, hyphen-delimited slug.
// Accented letters are folded to their base letter, other punctuation is
// dropped, and runs of whitespace, underscores and hyphens become a single
// hyphen. The result never starts or ends with a hyphen.
func Make(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if folded, _, err := transform.String(foldMarks(), s); err == nil {
		s = folded
	}

	var b strings.Builder
	sep := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if sep && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			sep = false
		case r == '_', r == '-', unicode.IsSpace(r):
			sep = true
		}
	}
	return b.String()
}

// foldMarks strips combining marks after canonical decomposition.
// A fresh chain is built per call since transformers keep state.
func foldMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Valid reports whether s is a non-empty string of [a-z0-9-].
func Valid(s string) bool {
	return pattern.MatchString(s)
}

// ExistsFunc reports whether a slug is already taken.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// EnsureUnique returns base if it is free, otherwise the first free candidate
// among base-1, base-2, ... The number of candidates tried is capped at
// maxAttempts; past that ErrExhausted is returned.
func EnsureUnique(ctx context.Context, base string, exists ExistsFunc, maxAttempts int) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	candidate := base
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			candidate = fmt.Sprintf("%s-%d", base, attempt)
		}
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("slug: check %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts (base %q)", ErrExhausted, maxAttempts, base)
}
