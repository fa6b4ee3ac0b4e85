package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/Skotchmaster/marine_shop/internal/service"
	"github.com/Skotchmaster/marine_shop/internal/transport"
	"github.com/Skotchmaster/marine_shop/pkg/logging"
	"github.com/labstack/echo/v4"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	userID, err := currentUserID(c)
	if err != nil {
		return fail(l, "create_order", err)
	}
	var req transport.CreateOrderRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "create_order", err)
	}

	order, err := h.Svc.CreateOrder(ctx, userID, req)
	if err != nil {
		return fail(l, "create_order", err)
	}

	l.Info("create_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) MyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.my_orders")

	userID, err := currentUserID(c)
	if err != nil {
		return fail(l, "my_orders", err)
	}
	orders, err := h.Svc.ListMine(ctx, userID)
	if err != nil {
		return fail(l, "my_orders", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	userID, err := currentUserID(c)
	if err != nil {
		return fail(l, "get_order", err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return fail(l, "get_order", err)
	}

	order, err := h.Svc.GetByID(ctx, id, userID, isAdmin(c))
	if err != nil {
		return fail(l, "get_order", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) Pay(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.pay")

	id, err := paramID(c, "id")
	if err != nil {
		return fail(l, "pay_order", err)
	}
	var result models.PaymentResult
	if err := bind(c, &result); err != nil {
		return fail(l, "pay_order", err)
	}

	order, err := h.Svc.MarkPaid(ctx, id, result)
	if err != nil {
		return fail(l, "pay_order", err)
	}

	l.Info("pay_order_success", "order_id", order.ID)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) Deliver(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.deliver")

	id, err := paramID(c, "id")
	if err != nil {
		return fail(l, "deliver_order", err)
	}
	order, err := h.Svc.MarkDelivered(ctx, id)
	if err != nil {
		return fail(l, "deliver_order", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) SetStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.set_status")

	id, err := paramID(c, "id")
	if err != nil {
		return fail(l, "set_order_status", err)
	}
	var req transport.SetStatusRequest
	if err := bind(c, &req); err != nil {
		return fail(l, "set_order_status", err)
	}

	order, err := h.Svc.SetStatus(ctx, id, req.Status)
	if err != nil {
		return fail(l, "set_order_status", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) ListAll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_all")

	orders, err := h.Svc.ListAll(ctx)
	if err != nil {
		return fail(l, "list_orders", err)
	}
	return c.JSON(http.StatusOK, orders)
}
