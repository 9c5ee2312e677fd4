package content

import (
	"context"
	"fmt"

	"github.com/eringen/pubcms/slug"
)

// Kind names a slug namespace. Posts and projects have separate namespaces.
type Kind string

const (
	KindPost    Kind = "posts"
	KindProject Kind = "projects"
)

// SlugLookup finds the id of the record owning a slug.
type SlugLookup interface {
	FindSlug(ctx context.Context, kind Kind, slug string) (id string, found bool, err error)
}

// Checker answers whether a slug is taken. It always consults storage.
type Checker struct {
	lookup SlugLookup
}

// NewChecker returns a Checker over lookup.
func NewChecker(lookup SlugLookup) *Checker {
	return &Checker{lookup: lookup}
}

// Taken reports whether a record other than excludeID owns s.
// Pass an empty excludeID when creating.
func (c *Checker) Taken(ctx context.Context, kind Kind, s, excludeID string) (bool, error) {
	id, found, err := c.lookup.FindSlug(ctx, kind, s)
	if err != nil {
		return false, fmt.Errorf("lookup %s slug %q: %w", kind, s, err)
	}
	return found && id != excludeID, nil
}

// Exists adapts Taken to slug.EnsureUnique.
func (c *Checker) Exists(kind Kind, excludeID string) slug.ExistsFunc {
	return func(ctx context.Context, s string) (bool, error) {
		return c.Taken(ctx, kind, s, excludeID)
	}
}
