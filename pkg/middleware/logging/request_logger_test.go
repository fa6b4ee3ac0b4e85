package loggingmw

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/marine_shop/pkg/logging"
)

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &m))
	return m
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		handler   echo.HandlerFunc
		wantCode  int
		wantLevel string
	}{
		{
			name: "ok",
			handler: func(c echo.Context) error {
				logging.FromContext(c.Request().Context()).Info("inside")
				c.Set("user_id", "u-1")
				return c.String(http.StatusOK, "fine")
			},
			wantCode:  http.StatusOK,
			wantLevel: "INFO",
		},
		{
			name:      "client error",
			handler:   func(c echo.Context) error { return echo.NewHTTPError(http.StatusNotFound, "missing") },
			wantCode:  http.StatusNotFound,
			wantLevel: "WARN",
		},
		{
			name:      "server error",
			handler:   func(c echo.Context) error { return echo.NewHTTPError(http.StatusServiceUnavailable, "down") },
			wantCode:  http.StatusServiceUnavailable,
			wantLevel: "ERROR",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			e := echo.New()
			e.Use(RequestLogger(logging.NewWithWriter(&buf, "debug")))
			e.GET("/things/:id", tt.handler)

			req := httptest.NewRequest(http.MethodGet, "/things/7", nil)
			req.Header.Set(echo.HeaderXRequestID, "rid-1")
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "rid-1", rec.Header().Get(echo.HeaderXRequestID))

			m := lastLine(t, &buf)
			assert.Equal(t, "request_completed", m["msg"])
			assert.Equal(t, tt.wantLevel, m["level"])
			assert.Equal(t, "/things/:id", m["route"])
			assert.Equal(t, "/things/7", m["url"])
			assert.Equal(t, "rid-1", m["request_id"])
			assert.EqualValues(t, tt.wantCode, m["status"])
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, "u-1", m["user_id"])
			}
		})
	}
}
