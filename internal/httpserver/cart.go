package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/marine_shop/internal/service"
	"github.com/Skotchmaster/marine_shop/internal/transport"
	"github.com/Skotchmaster/marine_shop/pkg/logging"
	"github.com/labstack/echo/v4"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	userID, err := currentUserID(c)
	if err != nil {
		return fail(l, "get_cart", err)
	}
	view, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		return fail(l, "get_cart", err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	userID, err := currentUserID(c)
	if err != nil {
		return fail(l, "add_to_cart", err)
	}
	var req transport.AddToCartRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "add_to_cart", err)
	}

	view, err := h.Svc.AddItem(ctx, userID, req)
	if err != nil {
		return fail(l, "add_to_cart", err)
	}

	l.Info("add_to_cart_success", "product_id", req.ProductID)
	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) SetQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.set_quantity")

	userID, err := currentUserID(c)
	if err != nil {
		return fail(l, "set_quantity", err)
	}
	productID, err := paramID(c, "productId")
	if err != nil {
		return fail(l, "set_quantity", err)
	}
	var req transport.SetQuantityRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "set_quantity", err)
	}

	view, err := h.Svc.SetQuantity(ctx, userID, productID, req.Qty)
	if err != nil {
		return fail(l, "set_quantity", err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	userID, err := currentUserID(c)
	if err != nil {
		return fail(l, "remove_from_cart", err)
	}
	productID, err := paramID(c, "productId")
	if err != nil {
		return fail(l, "remove_from_cart", err)
	}

	view, err := h.Svc.RemoveItem(ctx, userID, productID)
	if err != nil {
		return fail(l, "remove_from_cart", err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear_cart")

	userID, err := currentUserID(c)
	if err != nil {
		return fail(l, "clear_cart", err)
	}
	if err := h.Svc.ClearCart(ctx, userID); err != nil {
		return fail(l, "clear_cart", err)
	}

	l.Info("clear_cart_success")
	return c.JSON(http.StatusOK, map[string]string{"message": "cart cleared"})
}
