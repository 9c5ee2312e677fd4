package pubcms

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/eringen/pubcms/content"
	sessions "github.com/eringen/pubcms/session"
)

const (
	userKey  = "user"
	tokenKey = "token"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (a *App) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := a.Store.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, content.ErrNotFound) || (err == nil && !CheckPassword(user.Password, req.Password)) {
		c.Logger().Warnf("failed login for %s from %s", normalizeEmail(req.Email), c.RealIP())
		return fail(c, http.StatusUnauthorized, "Invalid email or password")
	}
	if err != nil {
		return err
	}

	s, err := a.Sessions.Create(ctx, user.ID)
	if err != nil {
		return err
	}
	if err := setAuthCookie(c, s.Token); err != nil {
		return err
	}
	return ok(c, loginResponse{User: user, Token: s.Token})
}

func (a *App) handleLogout(c echo.Context) error {
	if token := authToken(c); token != "" {
		if err := a.Sessions.Delete(c.Request().Context(), token); err != nil {
			c.Logger().Errorf("delete session: %v", err)
		}
	}
	if err := clearAuthCookie(c); err != nil {
		return err
	}
	return ok(c, map[string]string{"message": "Logged out successfully"})
}

func (a *App) handleMe(c echo.Context) error {
	user, err := a.Store.GetUser(c.Request().Context(), currentUser(c).ID)
	if errors.Is(err, content.ErrNotFound) {
		return fail(c, http.StatusNotFound, "User not found")
	}
	if err != nil {
		return err
	}
	return ok(c, user)
}

// requireAuth resolves the login token from the Authorization header or the
// auth cookie and stores the user on the context.
func (a *App) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := authToken(c)
		if token == "" {
			return fail(c, http.StatusUnauthorized, "Unauthorized")
		}
		ctx := c.Request().Context()
		s, err := a.Sessions.Lookup(ctx, token)
		if errors.Is(err, sessions.ErrNotFound) {
			return fail(c, http.StatusUnauthorized, "Unauthorized")
		}
		if err != nil {
			return err
		}
		user, err := a.Store.GetUser(ctx, s.UserID)
		if errors.Is(err, content.ErrNotFound) {
			return fail(c, http.StatusUnauthorized, "Unauthorized")
		}
		if err != nil {
			return err
		}
		c.Set(userKey, user)
		c.Set(tokenKey, token)
		return next(c)
	}
}

// requireAdmin must run after requireAuth.
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !currentUser(c).IsAdmin() {
			return fail(c, http.StatusForbidden, "Forbidden")
		}
		return next(c)
	}
}

// currentUser returns the user set by requireAuth.
func currentUser(c echo.Context) User {
	u, _ := c.Get(userKey).(User)
	return u
}

func authToken(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		if token, found := strings.CutPrefix(h, "Bearer "); found {
			return strings.TrimSpace(token)
		}
	}
	sess, err := session.Get(authCookie, c)
	if err != nil {
		return ""
	}
	token, _ := sess.Values[tokenKey].(string)
	return token
}

func setAuthCookie(c echo.Context, token string) error {
	// A cookie that no longer decodes still yields a fresh session.
	sess, err := session.Get(authCookie, c)
	if sess == nil {
		return err
	}
	sess.Values[tokenKey] = token
	return sess.Save(c.Request(), c.Response())
}

func clearAuthCookie(c echo.Context) error {
	sess, err := session.Get(authCookie, c)
	if sess == nil {
		return err
	}
	delete(sess.Values, tokenKey)
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}
