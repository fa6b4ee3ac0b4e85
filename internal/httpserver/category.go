package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/marine_shop/internal/service"
	"github.com/Skotchmaster/marine_shop/internal/transport"
	"github.com/Skotchmaster/marine_shop/pkg/logging"
	"github.com/labstack/echo/v4"
)

type CategoryHTTP struct {
	Svc *service.CategoryService
}

func (h *CategoryHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.list")

	out, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_categories", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CategoryHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get")

	id, err := paramID(c, "id")
	if err != nil {
		return fail(l, "get_category", err)
	}
	cat, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_category", err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create")

	var req transport.CategoryRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "create_category", err)
	}
	cat, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_category", err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.update")

	id, err := paramID(c, "id")
	if err != nil {
		return fail(l, "update_category", err)
	}
	var req transport.CategoryRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "update_category", err)
	}
	cat, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return fail(l, "update_category", err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete")

	id, err := paramID(c, "id")
	if err != nil {
		return fail(l, "delete_category", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_category", err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "category removed"})
}
