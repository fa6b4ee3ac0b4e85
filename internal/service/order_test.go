package service

import (
	"context"
	"testing"

	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/Skotchmaster/marine_shop/internal/transport"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func qty(n int) *int { return &n }

func newOrderService(t *testing.T) (*OrderService, *fakePublisher) {
	t.Helper()
	pub := &fakePublisher{}
	return &OrderService{Orders: newStore(t), Events: pub, Now: tick()}, pub
}

func TestOrderService_CreateOrder_DerivesTotals(t *testing.T) {
	t.Parallel()
	svc, pub := newOrderService(t)
	userID := uuid.New()

	order, err := svc.CreateOrder(context.Background(), userID, transport.CreateOrderRequest{
		OrderItems: []transport.OrderLineRequest{
			{ProductID: uuid.New(), Name: "a", Price: price(10), Qty: qty(2)},
			{ProductID: uuid.New(), Name: "b", Price: price(5), Qty: qty(1)},
		},
		ShippingAddress: models.Address{Address: "1 Dock St", City: "Oslo", PostalCode: "0150", Country: "NO"},
		PaymentMethod:   "PayPal",
		TaxPrice:        price(3),
		ShippingPrice:   price(5),
	})
	require.NoError(t, err)

	assert.True(t, order.ItemsPrice.Equal(decimal.NewFromInt(25)), order.ItemsPrice.String())
	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(30)), order.TotalPrice.String())
	assert.True(t, order.TaxPrice.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.False(t, order.IsPaid)
	assert.False(t, order.IsDelivered)
	assert.Len(t, order.OrderItems, 2)

	stored, err := svc.Orders.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalPrice.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, "Oslo", stored.ShippingAddress.City)
	assert.Equal(t, []string{"order_created"}, pub.types())
}

func TestOrderService_CreateOrder_Inputs(t *testing.T) {
	t.Parallel()
	svc, _ := newOrderService(t)
	ctx := context.Background()
	userID := uuid.New()

	t.Run("empty items rejected", func(t *testing.T) {
		_, err := svc.CreateOrder(ctx, userID, transport.CreateOrderRequest{OrderItems: []transport.OrderLineRequest{}})
		require.ErrorIs(t, err, ErrEmptyOrder)
		requireKind(t, err, ErrValidation)
	})

	t.Run("absent items accepted", func(t *testing.T) {
		order, err := svc.CreateOrder(ctx, userID, transport.CreateOrderRequest{ShippingPrice: price(7)})
		require.NoError(t, err)
		assert.Empty(t, order.OrderItems)
		assert.True(t, order.ItemsPrice.IsZero())
		assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(7)))
	})

	t.Run("missing price or qty counts as zero", func(t *testing.T) {
		order, err := svc.CreateOrder(ctx, userID, transport.CreateOrderRequest{
			OrderItems: []transport.OrderLineRequest{
				{Price: price(10)},
				{Qty: qty(4)},
				{Price: price(3), Qty: qty(2)},
			},
		})
		require.NoError(t, err)
		assert.True(t, order.ItemsPrice.Equal(decimal.NewFromInt(6)))
		assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(6)))
	})

	t.Run("explicit prices kept", func(t *testing.T) {
		order, err := svc.CreateOrder(ctx, userID, transport.CreateOrderRequest{
			OrderItems: []transport.OrderLineRequest{{Price: price(10), Qty: qty(1)}},
			ItemsPrice: price(12),
			TotalPrice: price(99),
		})
		require.NoError(t, err)
		assert.True(t, order.ItemsPrice.Equal(decimal.NewFromInt(12)))
		assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(99)))
	})

	t.Run("caller status and payment", func(t *testing.T) {
		st := models.OrderStatusConfirmed
		paid := true
		order, err := svc.CreateOrder(ctx, userID, transport.CreateOrderRequest{Status: &st, IsPaid: &paid})
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusConfirmed, order.Status)
		assert.True(t, order.IsPaid)
		assert.NotNil(t, order.PaidAt)
	})

	t.Run("unknown status", func(t *testing.T) {
		st := models.OrderStatus("lost")
		_, err := svc.CreateOrder(ctx, userID, transport.CreateOrderRequest{Status: &st})
		requireKind(t, err, ErrValidation)
	})
}

func TestOrderService_StatusTransitions(t *testing.T) {
	t.Parallel()
	svc, _ := newOrderService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, uuid.New(), transport.CreateOrderRequest{})
	require.NoError(t, err)

	got, err := svc.SetStatus(ctx, order.ID, models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.True(t, got.IsDelivered)
	require.NotNil(t, got.DeliveredAt)

	got, err = svc.SetStatus(ctx, order.ID, models.OrderStatusShipped)
	require.NoError(t, err)
	assert.True(t, got.IsDelivered, "shipped leaves delivery flags alone")

	got, err = svc.SetStatus(ctx, order.ID, models.OrderStatusPending)
	require.NoError(t, err)
	assert.False(t, got.IsDelivered)
	assert.Nil(t, got.DeliveredAt)

	stored, err := svc.Orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsDelivered)
	assert.Nil(t, stored.DeliveredAt)
	assert.Equal(t, models.OrderStatusPending, stored.Status)

	got, err = svc.MarkDelivered(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, got.Status)
	assert.True(t, got.IsDelivered)
	assert.NotNil(t, got.DeliveredAt)

	_, err = svc.SetStatus(ctx, order.ID, "teleported")
	requireKind(t, err, ErrValidation)

	_, err = svc.MarkDelivered(ctx, uuid.New())
	requireKind(t, err, ErrNotFound)
}

func TestOrderService_MarkPaid(t *testing.T) {
	t.Parallel()
	svc, _ := newOrderService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, uuid.New(), transport.CreateOrderRequest{})
	require.NoError(t, err)

	result := models.PaymentResult{ID: "PAY-1", Status: "COMPLETED", UpdateTime: "2024-06-01T12:00:00Z", EmailAddress: "buyer@example.com"}
	got, err := svc.MarkPaid(ctx, order.ID, result)
	require.NoError(t, err)
	assert.True(t, got.IsPaid)
	require.NotNil(t, got.PaidAt)

	stored, err := svc.Orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PaymentResult)
	assert.Equal(t, result, *stored.PaymentResult)

	_, err = svc.MarkPaid(ctx, uuid.New(), result)
	requireKind(t, err, ErrNotFound)
}

func TestOrderService_GetByID_Access(t *testing.T) {
	t.Parallel()
	svc, _ := newOrderService(t)
	ctx := context.Background()
	owner := uuid.New()

	order, err := svc.CreateOrder(ctx, owner, transport.CreateOrderRequest{})
	require.NoError(t, err)

	tests := []struct {
		name      string
		requester uuid.UUID
		admin     bool
		want      error
	}{
		{"owner", owner, false, nil},
		{"admin", uuid.New(), true, nil},
		{"stranger", uuid.New(), false, ErrForbidden},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.GetByID(ctx, order.ID, tt.requester, tt.admin)
			if tt.want != nil {
				requireKind(t, err, tt.want)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, order.ID, got.ID)
		})
	}

	_, err = svc.GetByID(ctx, uuid.New(), owner, true)
	requireKind(t, err, ErrNotFound)
}

func TestOrderService_Lists(t *testing.T) {
	t.Parallel()
	svc, _ := newOrderService(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	var ids []uuid.UUID
	for _, u := range []uuid.UUID{alice, bob, alice} {
		o, err := svc.CreateOrder(ctx, u, transport.CreateOrderRequest{})
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}

	mine, err := svc.ListMine(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	none, err := svc.ListMine(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uuid.UUID{ids[2], ids[1], ids[0]}, []uuid.UUID{all[0].ID, all[1].ID, all[2].ID})
}
