package pubcms

import (
	"context"
	"sync"
	"time"
)

// PublicCache is an in-memory cache of everything published, with TTL. It
// backs the feed, the sitemap and the public tag list.
type PublicCache struct {
	mu       sync.RWMutex
	posts    []Post
	projects []Project
	tags     []string
	fetched  time.Time
	ttl      time.Duration
	store    *Store
}

// NewPublicCache creates a PublicCache backed by the given Store. A ttl of
// zero or less disables caching.
func NewPublicCache(s *Store, ttl time.Duration) *PublicCache {
	return &PublicCache{store: s, ttl: ttl}
}

func (c *PublicCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PublicCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.projects = nil
	c.tags = nil
	c.mu.Unlock()
}

func (c *PublicCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	posts, err := allPages(func(page int) ([]Post, int, error) {
		return c.store.ListPosts(ctx, PostFilter{Published: ptr(true), Page: page, Limit: maxPageLimit})
	})
	if err != nil {
		return err
	}
	projects, err := allPages(func(page int) ([]Project, int, error) {
		return c.store.ListProjects(ctx, ProjectFilter{Published: ptr(true), Page: page, Limit: maxPageLimit})
	})
	if err != nil {
		return err
	}
	tags, err := c.store.ListPostTags(ctx)
	if err != nil {
		return err
	}
	c.posts = posts
	c.projects = projects
	c.tags = tags
	c.fetched = time.Now()
	return nil
}

// ensureLoaded tries a read lock first and only takes the write lock when a
// reload is needed.
func (c *PublicCache) ensureLoaded(ctx context.Context) ([]Post, []Project, []string, error) {
	c.mu.RLock()
	if c.valid() {
		posts, projects, tags := c.posts, c.projects, c.tags
		c.mu.RUnlock()
		return posts, projects, tags, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, nil, nil, err
	}
	return c.posts, c.projects, c.tags, nil
}

// Published returns all published posts and projects in listing order.
func (c *PublicCache) Published(ctx context.Context) ([]Post, []Project, error) {
	posts, projects, _, err := c.ensureLoaded(ctx)
	return posts, projects, err
}

// Tags returns the distinct tags of published posts.
func (c *PublicCache) Tags(ctx context.Context) ([]string, error) {
	_, _, tags, err := c.ensureLoaded(ctx)
	return tags, err
}

// allPages collects every page returned by list.
func allPages[T any](list func(page int) ([]T, int, error)) ([]T, error) {
	all := []T{}
	for page := 1; ; page++ {
		items, total, err := list(page)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) == 0 || len(all) >= total {
			return all, nil
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}
