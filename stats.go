package pubcms

import (
	"context"

	"github.com/labstack/echo/v4"
)

const recentLimit = 5

// Stats is the dashboard summary.
type Stats struct {
	TotalProjects  int       `json:"totalProjects"`
	TotalPosts     int       `json:"totalPosts"`
	TotalMedia     int       `json:"totalMedia"`
	RecentProjects []Project `json:"recentProjects"`
	RecentPosts    []Post    `json:"recentPosts"`
}

// Stats counts all content and returns the most recent posts and projects.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var err error
	if st.TotalProjects, err = s.CountProjects(ctx, nil); err != nil {
		return Stats{}, err
	}
	if st.TotalPosts, err = s.CountPosts(ctx, nil); err != nil {
		return Stats{}, err
	}
	if st.TotalMedia, err = s.CountMedia(ctx); err != nil {
		return Stats{}, err
	}
	if st.RecentProjects, _, err = s.ListProjects(ctx, ProjectFilter{Limit: recentLimit}); err != nil {
		return Stats{}, err
	}
	if st.RecentPosts, _, err = s.ListPosts(ctx, PostFilter{Limit: recentLimit}); err != nil {
		return Stats{}, err
	}
	return st, nil
}

func (a *App) handleStats(c echo.Context) error {
	st, err := a.Store.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, st)
}
