package httpserver

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/Skotchmaster/marine_shop/internal/middleware/auth"
	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/Skotchmaster/marine_shop/internal/service"
	"github.com/Skotchmaster/marine_shop/internal/transport"
	"github.com/Skotchmaster/marine_shop/internal/upload"
	"github.com/Skotchmaster/marine_shop/internal/util"
	"github.com/Skotchmaster/marine_shop/pkg/logging"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type ImageStore interface {
	SaveFile(ctx context.Context, fh *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, url string) error
}

// CatalogHTTP serves one catalog kind.
type CatalogHTTP struct {
	Kind    models.Kind
	Svc     *service.CatalogService
	Reviews *service.ReviewService
	Images  ImageStore
}

func (h *CatalogHTTP) op(name string) string {
	return string(h.Kind) + "." + name
}

func (h *CatalogHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", h.op("list"))

	p := service.ListParams{
		Keyword: c.QueryParam("keyword"),
		Page:    util.ParseIntDefault(c.QueryParam("page"), 1),
		Size:    util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize),
	}
	var err error
	if p.CategoryID, err = optionalUUID(c.QueryParam("category")); err != nil {
		return fail(l, "list_items", err)
	}
	if p.MinPrice, err = optionalDecimal(c.QueryParam("minPrice")); err != nil {
		return fail(l, "list_items", err)
	}
	if p.MaxPrice, err = optionalDecimal(c.QueryParam("maxPrice")); err != nil {
		return fail(l, "list_items", err)
	}

	page, err := h.Svc.List(ctx, h.Kind, p)
	if err != nil {
		return fail(l, "list_items", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *CatalogHTTP) Top(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", h.op("top"))

	items, err := h.Svc.Top(ctx, h.Kind, util.ParseIntDefault(c.QueryParam("limit"), service.DefaultTopLimit))
	if err != nil {
		return fail(l, "top_items", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", h.op("search"))

	page, err := h.Svc.Search(ctx, h.Kind,
		c.QueryParam("q"),
		util.ParseIntDefault(c.QueryParam("page"), 1),
		util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize),
	)
	if err != nil {
		return fail(l, "search_items", err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *CatalogHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", h.op("get"))

	id, err := paramID(c, "id")
	if err != nil {
		return fail(l, "get_item", err)
	}
	item, err := h.Svc.Get(ctx, h.Kind, id)
	if err != nil {
		return fail(l, "get_item", err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", h.op("create"))

	userID, err := currentUserID(c)
	if err != nil {
		return fail(l, "create_item", err)
	}

	var req transport.ItemRequest
	if isMultipart(c) {
		fields, err := formItem(c)
		if err != nil {
			return fail(l, "create_item", err)
		}
		req = fields.ItemRequest()
		if err := c.Validate(&req); err != nil {
			return fail(l, "create_item", err)
		}
	} else if err := bind(c, &req); err != nil {
		return fail(l, "create_item", err)
	}

	uploaded, err := h.saveImage(c)
	if err != nil {
		return fail(l, "create_item", err)
	}
	if uploaded != "" {
		req.Image = uploaded
	}

	item, err := h.Svc.Create(ctx, h.Kind, userID, req)
	if err != nil {
		h.discard(ctx, uploaded)
		return fail(l, "create_item", err)
	}

	l.Info("create_item_success", "id", item.ID)
	return c.JSON(http.StatusCreated, item)
}

func (h *CatalogHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", h.op("update"))

	id, err := paramID(c, "id")
	if err != nil {
		return fail(l, "update_item", err)
	}

	var req transport.UpdateItemRequest
	if isMultipart(c) {
		if req, err = formItem(c); err != nil {
			return fail(l, "update_item", err)
		}
		if err := c.Validate(&req); err != nil {
			return fail(l, "update_item", err)
		}
	} else if err := bind(c, &req); err != nil {
		return fail(l, "update_item", err)
	}

	uploaded, err := h.saveImage(c)
	if err != nil {
		return fail(l, "update_item", err)
	}
	if uploaded != "" {
		req.Image = &uploaded
	}

	item, err := h.Svc.Update(ctx, h.Kind, id, req)
	if err != nil {
		h.discard(ctx, uploaded)
		return fail(l, "update_item", err)
	}

	l.Info("update_item_success", "id", item.ID)
	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", h.op("delete"))

	id, err := paramID(c, "id")
	if err != nil {
		return fail(l, "delete_item", err)
	}
	if err := h.Svc.Delete(ctx, h.Kind, id); err != nil {
		return fail(l, "delete_item", err)
	}

	l.Info("delete_item_success", "id", id)
	return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
}

func (h *CatalogHTTP) AddReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", h.op("add_review"))

	user := auth.CurrentUser(c)
	if user == nil {
		return fail(l, "add_review", errNoPrincipal)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(l, "add_review", err)
	}

	var req transport.ReviewRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "add_review", err)
	}

	if _, err := h.Reviews.AddReview(ctx, h.Kind, id, user.ID, user.Name, req.Rating, req.Comment); err != nil {
		return fail(l, "add_review", err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "review added"})
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// formItem reads the item fields present in a multipart form. Absent
// fields stay nil.
func formItem(c echo.Context) (transport.UpdateItemRequest, error) {
	var req transport.UpdateItemRequest

	form, err := c.MultipartForm()
	if err != nil {
		return req, invalidField("form", err)
	}
	value := func(key string) (string, bool) {
		v, ok := form.Value[key]
		if !ok || len(v) == 0 {
			return "", false
		}
		return v[0], true
	}

	if v, ok := value("name"); ok {
		req.Name = &v
	}
	if v, ok := value("description"); ok {
		req.Description = &v
	}
	if v, ok := value("brand"); ok {
		req.Brand = &v
	}
	if v, ok := value("image"); ok {
		req.Image = &v
	}
	if v, ok := value("category"); ok {
		if req.CategoryID, err = optionalUUID(v); err != nil {
			return req, err
		}
	}
	if v, ok := value("price"); ok && v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return req, invalidField("price", err)
		}
		req.Price = &d
	}
	if v, ok := value("stock"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, invalidField("stock", err)
		}
		req.Stock = &n
	}
	return req, nil
}

// saveImage stores the optional "image" file of a multipart request and
// returns its URL, or "" when no file was sent.
func (h *CatalogHTTP) saveImage(c echo.Context) (string, error) {
	if !isMultipart(c) {
		return "", nil
	}
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", invalidField("image", err)
	}
	if h.Images == nil {
		return "", &service.Error{Kind: service.ErrUnavailable, Msg: "image storage is not configured"}
	}

	url, err := h.Images.SaveFile(c.Request().Context(), fh)
	if err != nil {
		return "", uploadErr(err)
	}
	return url, nil
}

func (h *CatalogHTTP) discard(ctx context.Context, url string) {
	if url == "" || h.Images == nil {
		return
	}
	if err := h.Images.Delete(ctx, url); err != nil {
		logging.FromContext(ctx).Warn("discard_image_error", "url", url, "error", err)
	}
}

func uploadErr(err error) error {
	if errors.Is(err, upload.ErrNotImage) || errors.Is(err, upload.ErrTooLarge) {
		return &service.Error{Kind: service.ErrValidation, Msg: err.Error()}
	}
	return err
}

func invalidField(name string, err error) error {
	return &service.Error{Kind: service.ErrValidation, Msg: "invalid " + name, Err: err}
}

func optionalUUID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, invalidField("category", err)
	}
	return &id, nil
}

func optionalDecimal(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, invalidField("price", err)
	}
	return &d, nil
}
