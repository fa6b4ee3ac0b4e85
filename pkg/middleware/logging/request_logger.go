// Package loggingmw attaches a request scoped logger and writes one access
// log line per request.
package loggingmw

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/marine_shop/pkg/logging"
)

// userIDKey is the echo context key the auth gate fills in.
const userIDKey = "user_id"

// RequestLogger renders handler errors itself so the logged status is the
// one the client saw.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()

			rid := req.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = res.Header().Get(echo.HeaderXRequestID)
			}
			l := base.With("method", req.Method, "route", c.Path(), "remote_ip", c.RealIP())
			if rid != "" {
				l = l.With("request_id", rid)
				res.Header().Set(echo.HeaderXRequestID, rid)
			}
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}

			attrs := []any{"status", res.Status, "duration_ms", time.Since(start).Milliseconds(), "url", req.URL.Path}
			if uid, ok := c.Get(userIDKey).(string); ok && uid != "" {
				attrs = append(attrs, "user_id", uid)
			}
			switch {
			case res.Status >= 500:
				l.Error("request_completed", append(attrs, "error", errString(err))...)
			case res.Status >= 400:
				l.Warn("request_completed", append(attrs, "error", errString(err))...)
			default:
				l.Info("request_completed", append(attrs, "bytes", res.Size)...)
			}
			return nil
		}
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
