// Package auth guards routes with a bearer access token. The user record is
// loaded on every request so role changes apply immediately.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/Skotchmaster/marine_shop/internal/store"
	"github.com/Skotchmaster/marine_shop/pkg/logging"
	"github.com/Skotchmaster/marine_shop/pkg/tokens"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	KeyUserID  = "user_id"
	KeyIsAdmin = "is_admin"
	KeyUser    = "user"
)

type UserLookup interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type Gate struct {
	JWTSecret     []byte
	Users         UserLookup
	SecureCookies bool
}

func NewGate(secret []byte, users UserLookup, secureCookies bool) *Gate {
	return &Gate{
		JWTSecret:     secret,
		Users:         users,
		SecureCookies: secureCookies,
	}
}

type ValidatorFunc func(u *models.User) error

func (g *Gate) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return g.requireAuthWithValidator(next, nil)
}

func (g *Gate) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return g.requireAuthWithValidator(next, func(u *models.User) error {
		if !u.IsAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "not authorized as an admin")
		}
		return nil
	})
}

func (g *Gate) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("mw", "auth")

		raw := accessToken(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, no token")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, g.JWTSecret)
		if err != nil {
			g.clearCookie(c)
			if tokens.IsExpired(err) {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, token expired")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, token failed")
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			g.clearCookie(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, token failed")
		}

		u, err := g.Users.GetUser(ctx, userID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			g.clearCookie(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, user not found")
		case err != nil:
			l.Error("auth_user_lookup_error", "status", 503, "user_id", userID, "error", err)
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
		}

		if validator != nil {
			if err := validator(u); err != nil {
				return err
			}
		}

		setUserContext(c, u)
		return next(c)
	}
}

// accessToken prefers the Authorization header over the cookie.
func accessToken(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		scheme, tok, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
	}
	if ck, err := c.Cookie(tokens.AccessCookie); err == nil {
		return ck.Value
	}
	return ""
}

func (g *Gate) clearCookie(c echo.Context) {
	if _, err := c.Cookie(tokens.AccessCookie); err == nil {
		c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/", g.SecureCookies))
	}
}

func setUserContext(c echo.Context, u *models.User) {
	c.Set(KeyUserID, u.ID.String())
	c.Set(KeyIsAdmin, u.IsAdmin)
	c.Set(KeyUser, u)
}

// CurrentUser returns the user stored by the gate, or nil outside it.
func CurrentUser(c echo.Context) *models.User {
	u, _ := c.Get(KeyUser).(*models.User)
	return u
}
