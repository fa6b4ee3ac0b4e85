package service

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/marine_shop/internal/events"
	"github.com/Skotchmaster/marine_shop/internal/models"
	"github.com/Skotchmaster/marine_shop/internal/store"
	"github.com/Skotchmaster/marine_shop/internal/transport"
	"github.com/google/uuid"
)

type CartService struct {
	Carts  store.CartStore
	Items  store.CatalogStore
	Events events.Publisher
	Now    func() time.Time
}

// GetCart returns an empty cart view when the user has no cart yet.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*transport.CartView, error) {
	cart, err := s.Carts.GetCart(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return emptyCart(userID), nil
	}
	if err != nil {
		return nil, storeErr(err, "cart")
	}
	return s.resolve(ctx, cart)
}

func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req transport.AddToCartRequest) (*transport.CartView, error) {
	if req.ProductID == uuid.Nil {
		return nil, validationf("product id is required")
	}
	qty := req.Qty
	if qty < 1 {
		qty = 1
	}

	cart, err := s.update(ctx, userID, true, func(cart *models.Cart) error {
		if i := cart.Line(req.ProductID); i >= 0 {
			cart.Items[i].Qty += qty
			return nil
		}

		line := models.CartLine{ProductID: req.ProductID, Name: req.Name, Image: req.Image, Qty: qty}
		if req.Price != nil {
			line.Price = *req.Price
		}
		if line.Name == "" {
			item, err := s.lookup(ctx, req.ProductID)
			if err != nil {
				return err
			}
			line.Name, line.Price, line.Image = item.Name, item.Price, item.Image
		}
		cart.Items = append(cart.Items, line)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "cart_item_added", userID, req.ProductID, qty)
	return s.resolve(ctx, cart)
}

// SetQuantity overwrites the line quantity; qty <= 0 removes the line.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID uuid.UUID, qty int) (*transport.CartView, error) {
	cart, err := s.update(ctx, userID, false, func(cart *models.Cart) error {
		i := cart.Line(productID)
		if i < 0 {
			return ErrItemNotFound
		}
		if qty <= 0 {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return nil
		}
		cart.Items[i].Qty = qty
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "cart_item_updated", userID, productID, qty)
	return s.resolve(ctx, cart)
}

// RemoveItem is a no-op when the cart or the line does not exist.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*transport.CartView, error) {
	cart, err := s.Carts.GetCart(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return emptyCart(userID), nil
	}
	if err != nil {
		return nil, storeErr(err, "cart")
	}

	i := cart.Line(productID)
	if i < 0 {
		return s.resolve(ctx, cart)
	}
	cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	cart.UpdatedAt = clock(s.Now)
	if err := s.Carts.SaveCart(ctx, cart); err != nil {
		return nil, storeErr(err, "cart")
	}

	s.publish(ctx, "cart_item_removed", userID, productID, 0)
	return s.resolve(ctx, cart)
}

func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.Carts.DeleteCart(ctx, userID); err != nil {
		return storeErr(err, "cart")
	}
	s.publish(ctx, "cart_cleared", userID, uuid.Nil, 0)
	return nil
}

// update loads the cart, applies fn and saves it. When createMissing is set a
// new cart is started; losing the race to create it retries once against the
// winner's cart.
func (s *CartService) update(ctx context.Context, userID uuid.UUID, createMissing bool, fn func(*models.Cart) error) (*models.Cart, error) {
	for attempt := 0; ; attempt++ {
		created := false
		cart, err := s.Carts.GetCart(ctx, userID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			if !createMissing {
				return nil, ErrCartNotFound
			}
			now := clock(s.Now)
			cart = &models.Cart{ID: uuid.New(), UserID: userID, Items: []models.CartLine{}, CreatedAt: now}
			created = true
		case err != nil:
			return nil, storeErr(err, "cart")
		}

		if err := fn(cart); err != nil {
			return nil, err
		}
		cart.UpdatedAt = clock(s.Now)

		err = s.Carts.SaveCart(ctx, cart)
		if created && attempt == 0 && errors.Is(err, store.ErrDuplicate) {
			continue
		}
		if err != nil {
			return nil, storeErr(err, "cart")
		}
		return cart, nil
	}
}

func (s *CartService) lookup(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error) {
	items, err := s.Items.GetItems(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, storeErr(err, "product")
	}
	if len(items) == 0 {
		return nil, notFound("product")
	}
	return &items[0], nil
}

// resolve attaches the current catalog state of every line's product.
func (s *CartService) resolve(ctx context.Context, cart *models.Cart) (*transport.CartView, error) {
	ids := make([]uuid.UUID, len(cart.Items))
	for i, line := range cart.Items {
		ids[i] = line.ProductID
	}
	items, err := s.Items.GetItems(ctx, ids)
	if err != nil {
		return nil, storeErr(err, "product")
	}
	byID := make(map[uuid.UUID]*models.CatalogItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	id := cart.ID
	view := &transport.CartView{ID: &id, UserID: cart.UserID, CartItems: make([]transport.CartLineView, 0, len(cart.Items))}
	for _, line := range cart.Items {
		lv := transport.CartLineView{Name: line.Name, Price: line.Price, Image: line.Image, Qty: line.Qty}
		if it, ok := byID[line.ProductID]; ok {
			lv.Product = &transport.ProductSummary{
				ID:    it.ID,
				Kind:  it.Kind,
				Name:  it.Name,
				Price: it.Price,
				Image: it.Image,
				Stock: it.Stock,
			}
		}
		view.CartItems = append(view.CartItems, lv)
	}
	return view, nil
}

func (s *CartService) publish(ctx context.Context, typ string, userID, productID uuid.UUID, qty int) {
	ev := events.Event{Type: typ, ID: userID.String(), UserID: userID.String()}
	if productID != uuid.Nil {
		ev.Data = map[string]any{"product": productID.String(), "qty": qty}
	}
	publish(ctx, s.Events, events.TopicCarts, ev)
}

func emptyCart(userID uuid.UUID) *transport.CartView {
	return &transport.CartView{UserID: userID, CartItems: []transport.CartLineView{}}
}
