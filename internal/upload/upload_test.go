package upload

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

func newStorage(t *testing.T) *Storage {
	t.Helper()
	s := New(memblob.OpenBucket(nil))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStorage_SaveOpenDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newStorage(t)

	url, err := s.Save(ctx, "boat.PNG", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/images/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	key := strings.TrimPrefix(url, URLPrefix)
	r, ct, err := s.Open(ctx, key)
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, pngHeader, got)
	assert.Equal(t, "image/png", ct)

	require.NoError(t, s.Delete(ctx, url))
	_, _, err = s.Open(ctx, key)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(ctx, url))
	require.NoError(t, s.Delete(ctx, "https://cdn.example.com/x.png"))
}

func TestStorage_RejectsNonImages(t *testing.T) {
	t.Parallel()
	s := newStorage(t)

	tests := []struct {
		name     string
		filename string
		data     []byte
	}{
		{"extension", "notes.txt", pngHeader},
		{"content", "fake.png", []byte("hello, this is text")},
		{"no extension", "image", pngHeader},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := s.Save(context.Background(), tt.filename, bytes.NewReader(tt.data))
			require.ErrorIs(t, err, ErrNotImage)
		})
	}
}

func TestStorage_TooLarge(t *testing.T) {
	t.Parallel()
	s := newStorage(t)

	data := append(append([]byte{}, pngHeader...), make([]byte, MaxSize)...)
	_, err := s.Save(context.Background(), "big.png", bytes.NewReader(data))
	require.ErrorIs(t, err, ErrTooLarge)
}
