// Package csrf guards cookie-authenticated writes with a double-submit token.
//
// Every response refreshes a readable XSRF-TOKEN cookie. Unsafe requests that
// authenticate with the access cookie must echo that value in the
// X-CSRF-Token header. Bearer-token clients are not affected because
// browsers never attach that header on their own.
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/Skotchmaster/marine_shop/pkg/logging"
	"github.com/Skotchmaster/marine_shop/pkg/tokens"
	"github.com/labstack/echo/v4"
)

type Config struct {
	CookieName string
	HeaderName string
	// AuthCookie is the session cookie whose presence makes a request
	// subject to the check.
	AuthCookie string

	Secure   bool
	SameSite http.SameSite
	MaxAge   time.Duration
}

func DefaultConfig() Config {
	return Config{
		CookieName: "XSRF-TOKEN",
		HeaderName: "X-CSRF-Token",
		AuthCookie: tokens.AccessCookie,
		SameSite:   http.SameSiteLaxMode,
		MaxAge:     24 * time.Hour,
	}
}

func Middleware(cfg Config) echo.MiddlewareFunc {
	def := DefaultConfig()
	if cfg.CookieName == "" {
		cfg.CookieName = def.CookieName
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = def.HeaderName
	}
	if cfg.AuthCookie == "" {
		cfg.AuthCookie = def.AuthCookie
	}
	if cfg.SameSite == 0 {
		cfg.SameSite = def.SameSite
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = def.MaxAge
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			token := readCookie(req, cfg.CookieName)
			if token == "" {
				var err error
				if token, err = newToken(32); err != nil {
					logging.FromContext(req.Context()).Error("csrf_token_error", "error", err)
					return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
				}
			}
			setCookie(c, cfg, token)

			if safeMethod(req.Method) || !cookieAuthenticated(req, cfg.AuthCookie) {
				return next(c)
			}

			if !equal(token, req.Header.Get(cfg.HeaderName)) {
				logging.FromContext(req.Context()).Warn("csrf_rejected", "path", req.URL.Path, "method", req.Method)
				return echo.NewHTTPError(http.StatusForbidden, "invalid CSRF token")
			}
			return next(c)
		}
	}
}

func safeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func cookieAuthenticated(req *http.Request, authCookie string) bool {
	if strings.HasPrefix(req.Header.Get(echo.HeaderAuthorization), "Bearer ") {
		return false
	}
	return readCookie(req, authCookie) != ""
}

func newToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func setCookie(c echo.Context, cfg Config, token string) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		Secure:   cfg.Secure,
		HttpOnly: false,
		MaxAge:   int(cfg.MaxAge.Seconds()),
		SameSite: cfg.SameSite,
	})
}

func readCookie(req *http.Request, name string) string {
	ck, err := req.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}

func equal(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
