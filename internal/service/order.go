package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/marine_shop/internal/events"
	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/Skotchmaster/marine_shop/internal/store"
	"github.com/Skotchmaster/marine_shop/internal/transport"
	"github.com/Skotchmaster/marine_shop/pkg/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderService struct {
	Orders store.OrderStore
	Events events.Publisher
	Now    func() time.Time
}

// CreateOrder snapshots the submitted lines and derives the totals the
// caller left out. Only a present but empty orderItems list is rejected.
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, req transport.CreateOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order")

	if req.OrderItems != nil && len(req.OrderItems) == 0 {
		return nil, ErrEmptyOrder
	}

	lines := make([]models.OrderLine, 0, len(req.OrderItems))
	sum := decimal.Zero
	for _, it := range req.OrderItems {
		line := models.OrderLine{ProductID: it.ProductID, Name: it.Name, Image: it.Image}
		if it.Price != nil {
			line.Price = *it.Price
		}
		if it.Qty != nil {
			line.Qty = *it.Qty
		}
		sum = sum.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Qty))))
		lines = append(lines, line)
	}

	itemsPrice := orZero(req.ItemsPrice)
	if itemsPrice.IsZero() {
		itemsPrice = sum
	}
	taxPrice := orZero(req.TaxPrice)
	shippingPrice := orZero(req.ShippingPrice)
	totalPrice := orZero(req.TotalPrice)
	if totalPrice.IsZero() {
		// tax is not part of the derived total
		totalPrice = itemsPrice.Add(shippingPrice)
	}

	now := clock(s.Now)
	order := &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		OrderItems:      lines,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		ItemsPrice:      itemsPrice,
		TaxPrice:        taxPrice,
		ShippingPrice:   shippingPrice,
		TotalPrice:      totalPrice,
		Status:          models.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, validationf("invalid status %q", *req.Status)
		}
		applyStatus(order, *req.Status, now)
	}
	if req.IsPaid != nil && *req.IsPaid {
		order.IsPaid = true
		order.PaidAt = &now
	}

	if err := s.Orders.CreateOrder(ctx, order); err != nil {
		return nil, storeErr(err, "order")
	}

	l.Info("order_created", "order_id", order.ID, "user_id", userID, "total", order.TotalPrice.String())
	s.publish(ctx, "order_created", order)
	return order, nil
}

// MarkPaid stores the payment result exactly as received.
func (s *OrderService) MarkPaid(ctx context.Context, orderID uuid.UUID, result models.PaymentResult) (*models.Order, error) {
	return s.mutate(ctx, orderID, "order_paid", func(o *models.Order, now time.Time) error {
		o.IsPaid = true
		o.PaidAt = &now
		o.PaymentResult = &result
		return nil
	})
}

func (s *OrderService) MarkDelivered(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.mutate(ctx, orderID, "order_delivered", func(o *models.Order, now time.Time) error {
		applyStatus(o, models.OrderStatusDelivered, now)
		return nil
	})
}

func (s *OrderService) SetStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, validationf("invalid status %q", status)
	}
	return s.mutate(ctx, orderID, "order_status_changed", func(o *models.Order, now time.Time) error {
		applyStatus(o, status, now)
		return nil
	})
}

// applyStatus keeps the delivery flags in line with the status: delivered
// sets them, pending and confirmed clear them, the rest leave them alone.
func applyStatus(o *models.Order, status models.OrderStatus, now time.Time) {
	o.Status = status
	switch status {
	case models.OrderStatusDelivered:
		o.IsDelivered = true
		o.DeliveredAt = &now
	case models.OrderStatusPending, models.OrderStatusConfirmed:
		o.IsDelivered = false
		o.DeliveredAt = nil
	}
}

func (s *OrderService) GetByID(ctx context.Context, orderID, requesterID uuid.UUID, requesterIsAdmin bool) (*models.Order, error) {
	order, err := s.Orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, storeErr(err, "order")
	}
	if order.UserID != requesterID && !requesterIsAdmin {
		return nil, ErrOrderForbidden
	}
	return order, nil
}

func (s *OrderService) ListMine(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	orders, err := s.Orders.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "order")
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	orders, err := s.Orders.ListOrders(ctx)
	if err != nil {
		return nil, storeErr(err, "order")
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

func (s *OrderService) mutate(ctx context.Context, orderID uuid.UUID, evType string, fn func(*models.Order, time.Time) error) (*models.Order, error) {
	order, err := s.Orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, storeErr(err, "order")
	}

	now := clock(s.Now)
	if err := fn(order, now); err != nil {
		return nil, err
	}
	order.UpdatedAt = now

	if err := s.Orders.UpdateOrder(ctx, order); err != nil {
		return nil, storeErr(err, "order")
	}

	logging.FromContext(ctx).With("svc", "order").Info(evType, "order_id", order.ID, "status", order.Status)
	s.publish(ctx, evType, order)
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, typ string, o *models.Order) {
	publish(ctx, s.Events, events.TopicOrders, events.Event{
		Type:   typ,
		ID:     o.ID.String(),
		UserID: o.UserID.String(),
		Data: map[string]any{
			"status":      o.Status,
			"isPaid":      o.IsPaid,
			"isDelivered": o.IsDelivered,
			"totalPrice":  o.TotalPrice,
		},
	})
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
