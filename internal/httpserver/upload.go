package httpserver

import (
	"errors"
	"net/http"

	"github.com/Skotchmaster/marine_shop/internal/service"
	"github.com/Skotchmaster/marine_shop/internal/upload"
	"github.com/Skotchmaster/marine_shop/pkg/logging"
	"github.com/labstack/echo/v4"
)

type UploadHTTP struct {
	Storage *upload.Storage
}

// Upload stores a single "image" form file and returns its URL.
func (h *UploadHTTP) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "upload.image")

	fh, err := c.FormFile("image")
	if err != nil {
		return fail(l, "upload_image", invalidField("image", err))
	}
	url, err := h.Storage.SaveFile(ctx, fh)
	if err != nil {
		return fail(l, "upload_image", uploadErr(err))
	}

	l.Info("upload_image_success", "url", url)
	return c.JSON(http.StatusCreated, map[string]string{"message": "image uploaded", "image": url})
}

func (h *UploadHTTP) Serve(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "upload.serve")

	r, contentType, err := h.Storage.Open(ctx, c.Param("*"))
	if errors.Is(err, upload.ErrNotFound) {
		return fail(l, "serve_image", &service.Error{Kind: service.ErrNotFound, Msg: "image not found"})
	}
	if err != nil {
		return fail(l, "serve_image", err)
	}
	defer r.Close()

	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Stream(http.StatusOK, contentType, r)
}
