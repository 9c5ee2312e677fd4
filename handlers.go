package pubcms

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/pubcms/content"
)

func (a *App) handleHealth(c echo.Context) error {
	if err := a.Store.Ping(c.Request().Context()); err != nil {
		c.Logger().Errorf("health: %v", err)
		return fail(c, http.StatusServiceUnavailable, "Database unavailable")
	}
	return ok(c, map[string]string{"status": "ok"})
}

func (a *App) handleRobots(c echo.Context) error {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /api/\n")
	fmt.Fprintf(&b, "\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, b.String())
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, projects, err := a.Cache.Published(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts, projects)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, _, err := a.Cache.Published(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

// httpErrorHandler turns every error returned by a handler into the JSON
// envelope. Only 5xx details are logged; clients get a generic message.
func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	resp := Response{Error: "An unexpected error occurred"}

	var verr *content.ValidationError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &verr):
		code = http.StatusBadRequest
		resp.Error = verr.Message
		resp.Errors = verr.Fields
	case errors.Is(err, content.ErrNotFound):
		code = http.StatusNotFound
		resp.Error = "Not found"
	case errors.Is(err, content.ErrSlugConflict):
		code = http.StatusConflict
		resp.Error = "Slug already exists"
	case errors.As(err, &he):
		code = he.Code
		if code < 500 {
			resp.Error = fmt.Sprint(he.Message)
		}
	}

	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, resp)
	}
	if err != nil {
		c.Logger().Errorf("write error response: %v", err)
	}
}
