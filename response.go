package pubcms

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// Response is the JSON envelope every API endpoint answers with.
type Response struct {
	Success    bool                `json:"success"`
	Data       any                 `json:"data,omitempty"`
	Error      string              `json:"error,omitempty"`
	Errors     map[string][]string `json:"errors,omitempty"`
	Pagination *Pagination         `json:"pagination,omitempty"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func newPagination(page, limit, total, defaultLimit int) *Pagination {
	page, limit, _ = pageBounds(page, limit, defaultLimit)
	return &Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func created(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func paged(c echo.Context, data any, p *Pagination) error {
	return c.JSON(http.StatusOK, Response{Success: true, Data: data, Pagination: p})
}

func fail(c echo.Context, code int, msg string) error {
	return c.JSON(code, Response{Success: false, Error: msg})
}

// queryInt parses a positive integer query parameter, returning 0 when it is
// absent or invalid so pageBounds applies the default.
func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// queryBool parses an optional boolean query parameter. Only "true" and
// "false" select a state; anything else means no filter.
func queryBool(c echo.Context, name string) *bool {
	switch strings.ToLower(c.QueryParam(name)) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}
