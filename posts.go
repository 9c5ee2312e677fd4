package pubcms

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubcms/content"
	"github.com/eringen/pubcms/markdown"
)

func (a *App) handleListPosts(c echo.Context) error {
	f := PostFilter{
		Published: queryBool(c, "published"),
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

func (a *App) handleGetPost(c echo.Context) error {
	post, err := a.Store.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return contentError(c, err, "Post")
	}
	return ok(c, post)
}

func (a *App) handleCreatePost(c echo.Context) error {
	var in content.PostInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	ctx := c.Request().Context()
	fields, err := a.Content.ReconcileCreate(ctx, in)
	if err != nil {
		return contentError(c, err, "Post")
	}
	post, err := a.Store.CreatePost(ctx, fields, currentUser(c).ID)
	if err != nil {
		return contentError(c, err, "Post")
	}
	a.Cache.Invalidate()
	return created(c, post)
}

func (a *App) handleUpdatePost(c echo.Context) error {
	var in content.PostInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	ctx := c.Request().Context()
	id := c.Param("id")
	existing, err := a.Store.GetPost(ctx, id)
	if err != nil {
		return contentError(c, err, "Post")
	}
	fields, err := a.Content.ReconcileUpdate(ctx, id, postFields(existing), in)
	if err != nil {
		return contentError(c, err, "Post")
	}
	post, err := a.Store.UpdatePost(ctx, id, fields)
	if err != nil {
		return contentError(c, err, "Post")
	}
	a.Cache.Invalidate()
	return ok(c, post)
}

func (a *App) handleDeletePost(c echo.Context) error {
	if err := a.Store.DeletePost(c.Request().Context(), c.Param("id")); err != nil {
		return contentError(c, err, "Post")
	}
	a.Cache.Invalidate()
	return ok(c, map[string]string{"message": "Post deleted successfully"})
}

// handlePreviewPost renders the stored markdown as sanitized HTML.
func (a *App) handlePreviewPost(c echo.Context) error {
	post, err := a.Store.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return contentError(c, err, "Post")
	}
	return Render(c, previewPage(post.Title, markdown.Markdown(post.Content)))
}

// contentError maps not-found and slug conflicts to messages naming the
// entity. Anything else goes to the central error handler.
func contentError(c echo.Context, err error, entity string) error {
	switch {
	case errors.Is(err, content.ErrNotFound):
		return fail(c, http.StatusNotFound, entity+" not found")
	case errors.Is(err, content.ErrSlugConflict):
		return fail(c, http.StatusConflict, "A "+strings.ToLower(entity)+" with this slug already exists")
	}
	return err
}
