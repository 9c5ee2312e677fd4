package pubcms

import (
	"github.com/labstack/echo/v4"

	"github.com/eringen/pubcms/visitor"
)

func (a *App) handlePublicPosts(c echo.Context) error {
	f := PostFilter{
		Published: ptr(true),
		Tag:       c.QueryParam("tag"),
		Page:      queryInt(c, "page"),
		Limit:     queryInt(c, "limit"),
	}
	posts, total, err := a.Store.ListPosts(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return paged(c, posts, newPagination(f.Page, f.Limit, total, defaultPageLimit))
}

// handlePublicPost returns a published post and counts the view unless the
// client is a crawler. A failed view update is logged and does not fail the read.
func (a *App) handlePublicPost(c echo.Context) error {
	ctx := c.Request().Context()
	post, err := a.Store.GetPublishedPostBySlug(ctx, c.Param("slug"))
	if err != nil {
		return contentError(c, err, "Post")
	}
	if bot := visitor.BotName(c.Request().UserAgent()); bot != "" {
		c.Logger().Debugf("not counting view of %s by %s", post.Slug, bot)
		return ok(c, post)
	}
	if err := a.Store.IncrementPostViews(ctx, post.ID); err != nil {
		c.Logger().Warnf("count view for %s: %v", post.ID, err)
	}
	return ok(c, post)
}

func (a *App) handlePublicProjects(c echo.Context) error {
	f := ProjectFilter{
		Published: ptr(true),
		Featured:  queryBool(c, "featured"),
		Page:      queryInt(c, "page"),
		Limit:     queryInt(c, "limit"),
	}
	projects, total, err := a.Store.ListProjects(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return paged(c, projects, newPagination(f.Page, f.Limit, total, defaultPageLimit))
}

func (a *App) handlePublicProject(c echo.Context) error {
	project, err := a.Store.GetPublishedProjectBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return contentError(c, err, "Project")
	}
	return ok(c, project)
}

func (a *App) handlePublicTags(c echo.Context) error {
	tags, err := a.Cache.Tags(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, tags)
}
