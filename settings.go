package pubcms

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// publicSettings is the part of Settings exposed without login.
type publicSettings struct {
	SiteName        string      `json:"siteName"`
	SiteDescription string      `json:"siteDescription"`
	SiteURL         string      `json:"siteUrl"`
	SocialLinks     SocialLinks `json:"socialLinks"`
	SEO             SEODefaults `json:"seo"`
}

func (a *App) handleGetSettings(c echo.Context) error {
	st, err := a.Store.GetSettings(c.Request().Context(), a.Config.defaultSettings())
	if err != nil {
		return err
	}
	return ok(c, st)
}

// handleUpdateSettings applies a partial update: fields missing from the
// body keep their stored values, nested objects included.
func (a *App) handleUpdateSettings(c echo.Context) error {
	ctx := c.Request().Context()
	st, err := a.Store.GetSettings(ctx, a.Config.defaultSettings())
	if err != nil {
		return err
	}
	if err := c.Bind(&st); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&st); err != nil {
		return err
	}
	st, err = a.Store.UpdateSettings(ctx, st)
	if err != nil {
		return err
	}
	return ok(c, st)
}

func (a *App) handlePublicSettings(c echo.Context) error {
	st, err := a.Store.GetSettings(c.Request().Context(), a.Config.defaultSettings())
	if err != nil {
		return err
	}
	return ok(c, publicSettings{
		SiteName:        st.SiteName,
		SiteDescription: st.SiteDescription,
		SiteURL:         st.SiteURL,
		SocialLinks:     st.SocialLinks,
		SEO:             st.SEO,
	})
}
