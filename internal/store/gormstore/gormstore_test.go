package gormstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/Skotchmaster/marine_shop/internal/store"
	"github.com/Skotchmaster/marine_shop/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newItem(kind models.Kind, name string, price int64, created time.Time) *models.CatalogItem {
	return &models.CatalogItem{
		ID:        uuid.New(),
		Kind:      kind,
		Name:      name,
		Price:     decimal.NewFromInt(price),
		Stock:     5,
		CreatedAt: created,
	}
}

func TestCatalog_CreateAndGet(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	item := newItem(models.KindProduct, "Anchor", 120, time.Now().UTC())
	require.NoError(t, s.CreateItem(ctx, item))

	got, err := s.GetItem(ctx, models.KindProduct, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anchor", got.Name)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(120)))
	assert.NotNil(t, got.Reviews)
	assert.Empty(t, got.Reviews)

	_, err = s.GetItem(ctx, models.KindAccessory, item.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCatalog_ListItems_Filters(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	cat := uuid.New()
	items := []*models.CatalogItem{
		newItem(models.KindProduct, "Blue Kayak", 300, base),
		newItem(models.KindProduct, "Red kayak", 150, base.Add(time.Minute)),
		newItem(models.KindProduct, "Paddle", 40, base.Add(2*time.Minute)),
		newItem(models.KindAccessory, "Kayak strap", 10, base.Add(3*time.Minute)),
	}
	items[2].CategoryID = &cat
	for _, it := range items {
		require.NoError(t, s.CreateItem(ctx, it))
	}

	got, total, err := s.ListItems(ctx, store.CatalogFilter{Kind: models.KindProduct, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, got, 3)
	assert.Equal(t, "Paddle", got[0].Name, "newest first")

	got, total, err = s.ListItems(ctx, store.CatalogFilter{Kind: models.KindProduct, Keyword: "KAYAK", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, got, 2)

	minP, maxP := decimal.NewFromInt(100), decimal.NewFromInt(200)
	got, total, err = s.ListItems(ctx, store.CatalogFilter{Kind: models.KindProduct, MinPrice: &minP, MaxPrice: &maxP, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, "Red kayak", got[0].Name)

	got, total, err = s.ListItems(ctx, store.CatalogFilter{Kind: models.KindProduct, CategoryID: &cat, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, "Paddle", got[0].Name)

	got, total, err = s.ListItems(ctx, store.CatalogFilter{Kind: models.KindProduct, Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, got, 1)
	assert.Equal(t, "Blue Kayak", got[0].Name)
}

func TestCatalog_GetItems_SkipsMissing(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	a := newItem(models.KindProduct, "A", 1, time.Now().UTC())
	b := newItem(models.KindFullMarineSetup, "B", 2, time.Now().UTC())
	require.NoError(t, s.CreateItem(ctx, a))
	require.NoError(t, s.CreateItem(ctx, b))

	got, err := s.GetItems(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.GetItems(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCatalog_AddReview_RecomputesAndRejectsDuplicate(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	item := newItem(models.KindProduct, "Buoy", 25, time.Now().UTC())
	require.NoError(t, s.CreateItem(ctx, item))

	userA, userB := uuid.New(), uuid.New()
	require.NoError(t, s.AddReview(ctx, item, models.Review{ID: uuid.New(), UserID: userA, Name: "A", Rating: 5}))
	require.NoError(t, s.AddReview(ctx, item, models.Review{ID: uuid.New(), UserID: userB, Name: "B", Rating: 2}))
	assert.Equal(t, 2, item.NumReviews)
	assert.InDelta(t, 3.5, item.Rating, 1e-9)

	err := s.AddReview(ctx, item, models.Review{ID: uuid.New(), UserID: userA, Name: "A", Rating: 1})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	got, err := s.GetItem(ctx, models.KindProduct, item.ID)
	require.NoError(t, err)
	assert.Len(t, got.Reviews, 2)
	assert.Equal(t, 2, got.NumReviews)
	assert.InDelta(t, 3.5, got.Rating, 1e-9)

	missing := newItem(models.KindProduct, "ghost", 1, time.Now().UTC())
	err = s.AddReview(ctx, missing, models.Review{ID: uuid.New(), UserID: userA, Name: "A", Rating: 3})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCatalog_TopItems(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	for i, r := range []int{3, 5, 1, 4} {
		it := newItem(models.KindAccessory, "item", int64(i+1), time.Now().UTC())
		require.NoError(t, s.CreateItem(ctx, it))
		require.NoError(t, s.AddReview(ctx, it, models.Review{ID: uuid.New(), UserID: uuid.New(), Name: "u", Rating: r}))
	}

	top, err := s.TopItems(ctx, models.KindAccessory, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.InDelta(t, 5, top[0].Rating, 1e-9)
	assert.InDelta(t, 4, top[1].Rating, 1e-9)
	assert.InDelta(t, 3, top[2].Rating, 1e-9)
}

func TestCatalog_UpdateAndDelete(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	item := newItem(models.KindProduct, "Rope", 9, time.Now().UTC())
	require.NoError(t, s.CreateItem(ctx, item))
	require.NoError(t, s.AddReview(ctx, item, models.Review{ID: uuid.New(), UserID: uuid.New(), Name: "u", Rating: 4}))

	stale := *item
	stale.Name = "Mooring rope"
	stale.Rating = 0
	stale.NumReviews = 0
	require.NoError(t, s.UpdateItem(ctx, &stale))

	got, err := s.GetItem(ctx, models.KindProduct, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mooring rope", got.Name)
	assert.Equal(t, 1, got.NumReviews, "aggregate is not overwritten by updates")

	ghost := newItem(models.KindProduct, "ghost", 1, time.Now().UTC())
	assert.ErrorIs(t, s.UpdateItem(ctx, ghost), store.ErrNotFound)

	require.NoError(t, s.DeleteItem(ctx, models.KindProduct, item.ID))
	_, err = s.GetItem(ctx, models.KindProduct, item.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteItem(ctx, models.KindProduct, item.ID), store.ErrNotFound)

	var left int64
	require.NoError(t, s.DB.Model(&models.Review{}).Where("item_id = ?", item.ID).Count(&left).Error)
	assert.Zero(t, left)
}

func TestCart_SaveGetDelete(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := s.GetCart(ctx, userID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	cart := &models.Cart{
		ID:     uuid.New(),
		UserID: userID,
		Items: []models.CartLine{
			{ProductID: uuid.New(), Name: "Anchor", Price: decimal.RequireFromString("19.99"), Qty: 2},
		},
	}
	require.NoError(t, s.SaveCart(ctx, cart))

	cart.Items[0].Qty = 5
	require.NoError(t, s.SaveCart(ctx, cart))

	got, err := s.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 5, got.Items[0].Qty)
	assert.True(t, got.Items[0].Price.Equal(decimal.RequireFromString("19.99")))

	other := &models.Cart{ID: uuid.New(), UserID: userID, Items: []models.CartLine{}}
	assert.ErrorIs(t, s.SaveCart(ctx, other), store.ErrDuplicate)

	require.NoError(t, s.DeleteCart(ctx, userID))
	require.NoError(t, s.DeleteCart(ctx, userID))
	_, err = s.GetCart(ctx, userID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestOrders_ListOrdering(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()
	owner := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)

	for i := 0; i < 3; i++ {
		o := &models.Order{
			ID:         uuid.New(),
			UserID:     owner,
			OrderItems: []models.OrderLine{{ProductID: uuid.New(), Name: "x", Price: decimal.NewFromInt(int64(i + 1)), Qty: 1}},
			ItemsPrice: decimal.NewFromInt(int64(i + 1)),
			TotalPrice: decimal.NewFromInt(int64(i + 1)),
			Status:     models.OrderStatusPending,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, s.CreateOrder(ctx, o))
	}
	require.NoError(t, s.CreateOrder(ctx, &models.Order{
		ID: uuid.New(), UserID: uuid.New(), Status: models.OrderStatusPending, CreatedAt: base.Add(time.Hour),
	}))

	mine, err := s.ListOrdersByUser(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	all, err := s.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt), "newest first")
	}

	o := mine[0]
	now := time.Now().UTC()
	o.IsPaid = true
	o.PaidAt = &now
	o.PaymentResult = &models.PaymentResult{ID: "pay-1", Status: "COMPLETED"}
	require.NoError(t, s.UpdateOrder(ctx, &o))

	got, err := s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPaid)
	require.NotNil(t, got.PaymentResult)
	assert.Equal(t, "pay-1", got.PaymentResult.ID)

	_, err = s.GetOrder(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers_DuplicateEmail(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	u := &models.User{ID: uuid.New(), Name: "Ann", Email: "ann@example.com", PasswordHash: "h"}
	require.NoError(t, s.CreateUser(ctx, u))

	dup := &models.User{ID: uuid.New(), Name: "Ann2", Email: "ann@example.com", PasswordHash: "h"}
	assert.ErrorIs(t, s.CreateUser(ctx, dup), store.ErrDuplicate)

	got, err := s.GetUserByEmail(ctx, " ANN@example.com ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	exp := time.Now().UTC().Add(10 * time.Minute)
	got.OTPHash = "otp"
	got.OTPExpiresAt = &exp
	got.ShippingAddress = &models.Address{City: "Split"}
	require.NoError(t, s.UpdateUser(ctx, got))

	again, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "otp", again.OTPHash)
	require.NotNil(t, again.ShippingAddress)
	assert.Equal(t, "Split", again.ShippingAddress.City)

	require.NoError(t, s.DeleteUser(ctx, u.ID))
	assert.ErrorIs(t, s.DeleteUser(ctx, u.ID), store.ErrNotFound)
}

func TestUsers_IncrementOTPAttempts(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	u := &models.User{ID: uuid.New(), Name: "Bo", Email: "bo@example.com", PasswordHash: "h"}
	require.NoError(t, s.CreateUser(ctx, u))

	for want := 1; want <= 3; want++ {
		n, err := s.IncrementOTPAttempts(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.OTPAttempts)

	_, err = s.IncrementOTPAttempts(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCategoriesAndContacts(t *testing.T) {
	s := testutil.NewStore(t)
	ctx := context.Background()

	c := &models.Category{ID: uuid.New(), Name: "Engines"}
	require.NoError(t, s.CreateCategory(ctx, c))
	assert.ErrorIs(t, s.CreateCategory(ctx, &models.Category{ID: uuid.New(), Name: "Engines"}), store.ErrDuplicate)

	c.Description = "Outboard engines"
	require.NoError(t, s.UpdateCategory(ctx, c))
	got, err := s.GetCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Outboard engines", got.Description)

	list, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	require.NoError(t, s.DeleteCategory(ctx, c.ID))
	assert.ErrorIs(t, s.DeleteCategory(ctx, c.ID), store.ErrNotFound)

	m := &models.ContactMessage{ID: uuid.New(), Name: "Bo", Email: "bo@example.com", Message: "hi"}
	require.NoError(t, s.CreateMessage(ctx, m))
	msgs, err := s.ListMessages(ctx)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
	require.NoError(t, s.DeleteMessage(ctx, m.ID))
	assert.ErrorIs(t, s.DeleteMessage(ctx, m.ID), store.ErrNotFound)

	require.NoError(t, s.Ping(ctx))
}
