package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Skotchmaster/marine_shop/internal/service"
	"github.com/labstack/echo/v4"
)

// classify maps a service error onto a status code and a client message.
func classify(err error) (int, string) {
	var de *service.Error
	msg := ""
	if errors.As(err, &de) {
		msg = de.Msg
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrUnavailable):
		status = http.StatusServiceUnavailable
	default:
		msg = ""
	}
	if msg == "" {
		msg = defaultMessage(status)
	}
	return status, msg
}

func defaultMessage(status int) string {
	switch status {
	case http.StatusInternalServerError:
		return "internal server error"
	case http.StatusServiceUnavailable:
		return "service unavailable"
	}
	return http.StatusText(status)
}

// fail logs err under "<op>_error" and turns it into an echo.HTTPError that
// keeps err as the internal cause.
func fail(l *slog.Logger, op string, err error) error {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		l.Error(op+"_error", "status", status, "error", err)
	} else {
		l.Warn(op+"_error", "status", status, "reason", msg, "error", err)
	}
	return echo.NewHTTPError(status, msg).SetInternal(err)
}

// ErrorHandler renders {"message": ...}; in development the internal error
// text is added as "detail".
func ErrorHandler(development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var status int
		var msg string
		detail := err

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = defaultMessage(status)
			}
			if he.Internal != nil {
				detail = he.Internal
			}
		} else {
			status, msg = classify(err)
		}

		body := map[string]any{"message": msg}
		if development {
			body["detail"] = detail.Error()
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}
