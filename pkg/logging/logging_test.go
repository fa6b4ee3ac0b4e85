package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level   string
		debugOn bool
		infoOn  bool
		warnOn  bool
	}{
		{level: "debug", debugOn: true, infoOn: true, warnOn: true},
		{level: "", debugOn: false, infoOn: true, warnOn: true},
		{level: "WARN", debugOn: false, infoOn: false, warnOn: true},
		{level: "error", debugOn: false, infoOn: false, warnOn: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.level, func(t *testing.T) {
			t.Parallel()

			l := NewWithWriter(&bytes.Buffer{}, tt.level)
			ctx := context.Background()
			assert.Equal(t, tt.debugOn, l.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.infoOn, l.Enabled(ctx, slog.LevelInfo))
			assert.Equal(t, tt.warnOn, l.Enabled(ctx, slog.LevelWarn))
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info").With("request_id", "abc")
	ctx := IntoContext(context.Background(), l)

	FromContext(ctx).Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "abc", line["request_id"])
}

func TestFromContext_DefaultsWhenMissing(t *testing.T) {
	t.Parallel()

	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, ParseLevel(" DEBUG "))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
