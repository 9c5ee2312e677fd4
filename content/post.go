// Package content reconciles create and update requests for posts and
// projects into the canonical field set that gets persisted.
//
// For posts, each field is resolved independently, highest precedence first:
// the explicit request value, the value from the frontmatter block embedded in
// the submitted content, the stored value (update only) and finally a default
// (create only).
package content

import (
	"context"
	"time"

	"github.com/eringen/pubcms/frontmatter"
	"github.com/eringen/pubcms/slug"
)

// PostInput is a post create or update request body.
type PostInput struct {
	Title          Opt[string]    `json:"title"`
	Slug           Opt[string]    `json:"slug"`
	Content        Opt[string]    `json:"content"`
	Excerpt        Opt[string]    `json:"excerpt"`
	Tags           Opt[[]string]  `json:"tags"`
	Published      Opt[bool]      `json:"published"`
	PublishedAt    Opt[time.Time] `json:"publishedAt"`
	SeoTitle       Opt[string]    `json:"seoTitle"`
	SeoDescription Opt[string]    `json:"seoDescription"`
}

// PostFields is the reconciled, validated field set of a post.
// Content keeps the embedded frontmatter block.
type PostFields struct {
	Title          string     `json:"title" validate:"required,max=200"`
	Slug           string     `json:"slug" validate:"required,slug"`
	Content        string     `json:"content" validate:"required"`
	Excerpt        string     `json:"excerpt" validate:"max=300"`
	Tags           []string   `json:"tags"`
	Published      bool       `json:"published"`
	PublishedAt    *time.Time `json:"publishedAt"`
	SeoTitle       string     `json:"seoTitle" validate:"max=60"`
	SeoDescription string     `json:"seoDescription" validate:"max=160"`
}

// postSource holds the post fields a frontmatter block can supply.
type postSource struct {
	Title          Opt[string]
	Excerpt        Opt[string]
	Tags           Opt[[]string]
	Published      Opt[bool]
	PublishedAt    Opt[time.Time]
	SeoTitle       Opt[string]
	SeoDescription Opt[string]
}

func postSourceFrom(data map[string]any) postSource {
	var src postSource
	if v, ok := frontmatter.String(data, "title"); ok {
		src.Title = Some(v)
	}
	if v, ok := frontmatter.String(data, "description"); ok {
		src.Excerpt = Some(v)
	}
	if v, ok := frontmatter.Strings(data, "tags"); ok {
		src.Tags = Some(v)
	}
	if v, ok := frontmatter.Bool(data, "published"); ok {
		src.Published = Some(v)
	}
	if v, ok := frontmatter.Time(data, "date"); ok {
		src.PublishedAt = Some(v)
	}
	if v, ok := frontmatter.String(data, "seoTitle"); ok {
		src.SeoTitle = Some(v)
	}
	if v, ok := frontmatter.String(data, "seoDescription"); ok {
		src.SeoDescription = Some(v)
	}
	return src
}

// Reconciler turns requests into canonical field sets. A failed
// reconciliation returns a *ValidationError or ErrSlugConflict.
type Reconciler struct {
	checker *Checker

	// Now stamps publishedAt. Defaults to time.Now in UTC.
	Now func() time.Time
}

// NewReconciler returns a Reconciler checking slug ownership through lookup.
func NewReconciler(lookup SlugLookup) *Reconciler {
	return &Reconciler{
		checker: NewChecker(lookup),
		Now:     func() time.Time { return time.Now().UTC() },
	}
}

// Checker returns the uniqueness checker used by the reconciler.
func (r *Reconciler) Checker() *Checker {
	return r.checker
}

// ReconcileCreate resolves the fields of a new post.
func (r *Reconciler) ReconcileCreate(ctx context.Context, in PostInput) (PostFields, error) {
	doc := frontmatter.Parse(in.Content.Value)
	if ok, msgs := frontmatter.Validate(doc.Data); !ok {
		return PostFields{}, frontmatterError(msgs)
	}
	fm := postSourceFrom(doc.Data)

	f := PostFields{
		Title:          pick(in.Title, fm.Title).Value,
		Content:        in.Content.Value,
		Excerpt:        pick(in.Excerpt, fm.Excerpt).Value,
		Tags:           pick(in.Tags, fm.Tags).Or([]string{}),
		Published:      pick(in.Published, fm.Published).Value,
		SeoTitle:       pick(in.SeoTitle, fm.SeoTitle).Value,
		SeoDescription: pick(in.SeoDescription, fm.SeoDescription).Value,
	}
	f.PublishedAt = r.publishedAt(f.Published, in.PublishedAt, fm.PublishedAt)

	switch {
	case in.Slug.Set:
		f.Slug = in.Slug.Value
	case fm.Title.Set:
		f.Slug = slug.Make(fm.Title.Value)
	default:
		f.Slug = slug.Make(f.Title)
	}

	if err := Check(f); err != nil {
		return PostFields{}, err
	}
	if err := r.claim(ctx, KindPost, f.Slug, ""); err != nil {
		return PostFields{}, err
	}
	return f, nil
}

// ReconcileUpdate resolves the fields of post id given its stored state.
// Frontmatter is only consulted when the request carries content.
func (r *Reconciler) ReconcileUpdate(ctx context.Context, id string, existing PostFields, in PostInput) (PostFields, error) {
	var fm postSource
	if in.Content.Set {
		doc := frontmatter.Parse(in.Content.Value)
		if ok, msgs := frontmatter.Validate(doc.Data); !ok {
			return PostFields{}, frontmatterError(msgs)
		}
		fm = postSourceFrom(doc.Data)
	}

	f := PostFields{
		Title:          pick(in.Title, fm.Title).Or(existing.Title),
		Content:        in.Content.Or(existing.Content),
		Excerpt:        pick(in.Excerpt, fm.Excerpt).Or(existing.Excerpt),
		Tags:           pick(in.Tags, fm.Tags).Or(existing.Tags),
		Published:      pick(in.Published, fm.Published).Or(existing.Published),
		SeoTitle:       pick(in.SeoTitle, fm.SeoTitle).Or(existing.SeoTitle),
		SeoDescription: pick(in.SeoDescription, fm.SeoDescription).Or(existing.SeoDescription),
	}
	if f.Tags == nil {
		f.Tags = []string{}
	}
	f.PublishedAt = r.publishedAt(f.Published, in.PublishedAt, fm.PublishedAt, ptrOpt(existing.PublishedAt))

	switch {
	case in.Slug.Set:
		f.Slug = in.Slug.Value
	case f.Title != existing.Title:
		f.Slug = slug.Make(f.Title)
	default:
		f.Slug = existing.Slug
	}

	if err := Check(f); err != nil {
		return PostFields{}, err
	}
	if f.Slug != existing.Slug {
		if err := r.claim(ctx, KindPost, f.Slug, id); err != nil {
			return PostFields{}, err
		}
	}
	return f, nil
}

// publishedAt takes the first present source. With none present it stamps the
// current time, but only for a published post.
func (r *Reconciler) publishedAt(published bool, sources ...Opt[time.Time]) *time.Time {
	if t, ok := pick(sources...).Get(); ok {
		t = t.UTC()
		return &t
	}
	if !published {
		return nil
	}
	now := r.Now()
	return &now
}

func (r *Reconciler) claim(ctx context.Context, kind Kind, s, excludeID string) error {
	taken, err := r.checker.Taken(ctx, kind, s, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlugConflict
	}
	return nil
}
