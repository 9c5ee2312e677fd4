package pubcms

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubcms/content"
)

func (a *App) handleListProjects(c echo.Context) error {
	f := ProjectFilter{
		Published: queryBool(c, "published"),
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

func (a *App) handleGetProject(c echo.Context) error {
	project, err := a.Store.GetProject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return contentError(c, err, "Project")
	}
	return ok(c, project)
}

func (a *App) handleCreateProject(c echo.Context) error {
	var in content.ProjectInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	ctx := c.Request().Context()
	fields, err := a.Content.ReconcileProjectCreate(ctx, in)
	if err != nil {
		return contentError(c, err, "Project")
	}
	project, err := a.Store.CreateProject(ctx, fields)
	if err != nil {
		return contentError(c, err, "Project")
	}
	a.Cache.Invalidate()
	return created(c, project)
}

func (a *App) handleUpdateProject(c echo.Context) error {
	var in content.ProjectInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	ctx := c.Request().Context()
	id := c.Param("id")
	existing, err := a.Store.GetProject(ctx, id)
	if err != nil {
		return contentError(c, err, "Project")
	}
	fields, err := a.Content.ReconcileProjectUpdate(ctx, id, projectFields(existing), in)
	if err != nil {
		return contentError(c, err, "Project")
	}
	project, err := a.Store.UpdateProject(ctx, id, fields)
	if err != nil {
		return contentError(c, err, "Project")
	}
	a.Cache.Invalidate()
	return ok(c, project)
}

func (a *App) handleDeleteProject(c echo.Context) error {
	if err := a.Store.DeleteProject(c.Request().Context(), c.Param("id")); err != nil {
		return contentError(c, err, "Project")
	}
	a.Cache.Invalidate()
	return ok(c, map[string]string{"message": "Project deleted successfully"})
}
