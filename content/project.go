package content

import (
	"context"

	"github.com/eringen/pubcms/slug"
)

// ProjectInput is a project create or update request body.
type ProjectInput struct {
	Title          Opt[string]   `json:"title"`
	Slug           Opt[string]   `json:"slug"`
	Description    Opt[string]   `json:"description"`
	Content        Opt[string]   `json:"content"`
	Images         Opt[[]string] `json:"images"`
	Technologies   Opt[[]string] `json:"technologies"`
	GithubLink     Opt[string]   `json:"githubLink"`
	DemoLink       Opt[string]   `json:"demoLink"`
	Featured       Opt[bool]     `json:"featured"`
	Published      Opt[bool]     `json:"published"`
	SeoTitle       Opt[string]   `json:"seoTitle"`
	SeoDescription Opt[string]   `json:"seoDescription"`
}

// ProjectFields is the reconciled, validated field set of a project.
// Empty links are allowed.
type ProjectFields struct {
	Title          string   `json:"title" validate:"required,max=200"`
	Slug           string   `json:"slug" validate:"required,slug"`
	Description    string   `json:"description" validate:"required,max=500"`
	Content        string   `json:"content"`
	Images         []string `json:"images" validate:"dive,url"`
	Technologies   []string `json:"technologies"`
	GithubLink     string   `json:"githubLink" validate:"omitempty,url"`
	DemoLink       string   `json:"demoLink" validate:"omitempty,url"`
	Featured       bool     `json:"featured"`
	Published      bool     `json:"published"`
	SeoTitle       string   `json:"seoTitle" validate:"max=60"`
	SeoDescription string   `json:"seoDescription" validate:"max=160"`
}

// ReconcileProjectCreate resolves the fields of a new project.
func (r *Reconciler) ReconcileProjectCreate(ctx context.Context, in ProjectInput) (ProjectFields, error) {
	f := ProjectFields{
		Title:          in.Title.Value,
		Description:    in.Description.Value,
		Content:        in.Content.Value,
		Images:         in.Images.Or([]string{}),
		Technologies:   in.Technologies.Or([]string{}),
		GithubLink:     in.GithubLink.Value,
		DemoLink:       in.DemoLink.Value,
		Featured:       in.Featured.Value,
		Published:      in.Published.Value,
		SeoTitle:       in.SeoTitle.Value,
		SeoDescription: in.SeoDescription.Value,
	}
	f.Slug = in.Slug.Or(slug.Make(f.Title))

	if err := Check(f); err != nil {
		return ProjectFields{}, err
	}
	if err := r.claim(ctx, KindProject, f.Slug, ""); err != nil {
		return ProjectFields{}, err
	}
	return f, nil
}

// ReconcileProjectUpdate resolves the fields of project id given its stored state.
func (r *Reconciler) ReconcileProjectUpdate(ctx context.Context, id string, existing ProjectFields, in ProjectInput) (ProjectFields, error) {
	f := ProjectFields{
		Title:          in.Title.Or(existing.Title),
		Description:    in.Description.Or(existing.Description),
		Content:        in.Content.Or(existing.Content),
		Images:         in.Images.Or(existing.Images),
		Technologies:   in.Technologies.Or(existing.Technologies),
		GithubLink:     in.GithubLink.Or(existing.GithubLink),
		DemoLink:       in.DemoLink.Or(existing.DemoLink),
		Featured:       in.Featured.Or(existing.Featured),
		Published:      in.Published.Or(existing.Published),
		SeoTitle:       in.SeoTitle.Or(existing.SeoTitle),
		SeoDescription: in.SeoDescription.Or(existing.SeoDescription),
	}
	if f.Images == nil {
		f.Images = []string{}
	}
	if f.Technologies == nil {
		f.Technologies = []string{}
	}

	switch {
	case in.Slug.Set:
		f.Slug = in.Slug.Value
	case f.Title != existing.Title:
		f.Slug = slug.Make(f.Title)
	default:
		f.Slug = existing.Slug
	}

	if err := Check(f); err != nil {
		return ProjectFields{}, err
	}
	if f.Slug != existing.Slug {
		if err := r.claim(ctx, KindProject, f.Slug, id); err != nil {
			return ProjectFields{}, err
		}
	}
	return f, nil
}
