package content

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a record referenced by id or slug does not exist.
	ErrNotFound = errors.New("content: not found")

	// ErrSlugConflict is returned when another record already owns the slug.
	ErrSlugConflict = errors.New("content: slug already exists")
)

// ValidationError reports rejected input. Fields maps a JSON field name to
// human readable messages suitable for form display.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func frontmatterError(msgs []string) *ValidationError {
	return &ValidationError{
		Message: "Frontmatter validation failed",
		Fields:  map[string][]string{"frontmatter": msgs},
	}
}
