// Package upload stores catalog images in a gocloud blob bucket and
// serves them back under /uploads.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"
)

const (
	URLPrefix = "/uploads/"
	MaxSize   = 5 << 20
)

var (
	ErrNotImage = errors.New("only jpg, jpeg, png and webp images are allowed")
	ErrTooLarge = errors.New("image is too large")
	ErrNotFound = errors.New("image not found")
)

var allowed = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

type Storage struct {
	bucket *blob.Bucket
}

// Open opens a bucket URL such as file:///var/lib/shop/uploads or mem://.
func Open(ctx context.Context, bucketURL string) (*Storage, error) {
	b, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("upload: open bucket %q: %w", bucketURL, err)
	}
	return &Storage{bucket: b}, nil
}

func New(b *blob.Bucket) *Storage {
	return &Storage{bucket: b}
}

func (s *Storage) Close() error {
	return s.bucket.Close()
}

// SaveFile stores a multipart image and returns its public URL.
func (s *Storage) SaveFile(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if fh.Size > MaxSize {
		return "", ErrTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return s.Save(ctx, fh.Filename, f)
}

func (s *Storage) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	contentType, ok := allowed[ext]
	if !ok {
		return "", ErrNotImage
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return "", err
	}
	if len(data) > MaxSize {
		return "", ErrTooLarge
	}
	if !sniffImage(data) {
		return "", ErrNotImage
	}

	key := "images/" + uuid.NewString() + ext
	if err := s.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("upload: write %s: %w", key, err)
	}
	return URLPrefix + key, nil
}

func sniffImage(data []byte) bool {
	switch http.DetectContentType(data) {
	case "image/jpeg", "image/png", "image/webp":
		return true
	}
	return false
}

// Delete removes the object behind a URL returned by Save. URLs that do not
// point into the bucket are ignored.
func (s *Storage) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, URLPrefix)
	if !ok || key == "" {
		return nil
	}
	err := s.bucket.Delete(ctx, key)
	if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return fmt.Errorf("upload: delete %s: %w", key, err)
	}
	return nil
}

// Open returns a reader for key along with its content type.
func (s *Storage) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	key = strings.TrimPrefix(path.Clean("/"+key), "/")
	if key == "" {
		return nil, "", ErrNotFound
	}
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	return r, r.ContentType(), nil
}
