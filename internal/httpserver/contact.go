package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/marine_shop/internal/service"
	"github.com/Skotchmaster/marine_shop/internal/transport"
	"github.com/Skotchmaster/marine_shop/pkg/logging"
	"github.com/labstack/echo/v4"
)

type ContactHTTP struct {
	Svc *service.ContactService
}

func (h *ContactHTTP) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contact.submit")

	var req transport.ContactRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "submit_contact", err)
	}
	msg, err := h.Svc.Submit(ctx, req)
	if err != nil {
		return fail(l, "submit_contact", err)
	}
	return c.JSON(http.StatusCreated, msg)
}

func (h *ContactHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contact.list")

	out, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_contacts", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ContactHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contact.delete")

	id, err := paramID(c, "id")
	if err != nil {
		return fail(l, "delete_contact", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_contact", err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "message removed"})
}
