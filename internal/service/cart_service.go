package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/domain"
	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/notify"
	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/repository"
)

// CartService is the authoritative cart for an authenticated owner. Every
// mutation is followed by a full re-fetch of the cart's items; there is no
// optimistic local patching, so a failed call leaves the last-known-good view
// untouched.
type CartService struct {
	repo     repository.CartRepository
	products repository.ProductRepository
	notifier notify.Notifier
	sfg      singleflight.Group // Prevents concurrent lookup-or-create for same owner
}

func NewCartService(repo repository.CartRepository, products repository.ProductRepository, notifier notify.Notifier) *CartService {
	return &CartService{
		repo:     repo,
		products: products,
		notifier: notifier,
	}
}

type cartView struct {
	cart  *domain.Cart
	items []domain.CartItem
}

// Load looks up the owner's cart, creating one when none exists, then fetches
// its items joined with product data.
func (s *CartService) Load(ctx context.Context, ownerID string) (*domain.Cart, []domain.CartItem, error) {
	v, err, _ := s.sfg.Do(ownerID, func() (interface{}, error) {
		cart, err := s.repo.GetCartByOwner(ctx, ownerID)
		if errors.Is(err, repository.ErrCartNotFound) {
			cart, err = s.repo.CreateCart(ctx, ownerID)
		}
		if err != nil {
			return nil, err
		}

		items, err := s.repo.GetCartItems(ctx, cart.ID)
		if err != nil {
			return nil, err
		}
		return &cartView{cart: cart, items: items}, nil
	})
	if err != nil {
		s.notifyError("Could not load cart", err)
		return nil, nil, err
	}

	view := v.(*cartView)
	return view.cart, view.items, nil
}

// AddItem increments the quantity when the product is already in the cart,
// otherwise inserts a new item snapshotting the product's current price and
// availability.
func (s *CartService) AddItem(ctx context.Context, ownerID string, productID int64, quantity int) ([]domain.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	cart, items, err := s.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var existing *domain.CartItem
	for i := range items {
		if items[i].ProductID == productID {
			existing = &items[i]
			break
		}
	}

	if existing != nil {
		err = s.repo.UpdateItemQuantity(ctx, existing.ID, existing.Quantity+quantity)
	} else {
		var product *domain.Product
		product, err = s.products.GetProduct(ctx, productID)
		if err == nil {
			err = s.repo.InsertCartItem(ctx, &domain.CartItem{
				CartID:    cart.ID,
				ProductID: product.ID,
				Quantity:  quantity,
				UnitPrice: product.Price,
				Status:    product.Status,
			})
		}
	}
	if err != nil {
		s.notifyError("Could not add item", err)
		return nil, err
	}

	fresh, err := s.repo.GetCartItems(ctx, cart.ID)
	if err != nil {
		s.notifyError("Could not refresh cart", err)
		return nil, err
	}

	s.notifier.Notify(notify.Notification{
		Title:       "Added to cart",
		Description: "The item is in your cart.",
		Severity:    notify.SeveritySuccess,
	})
	return fresh, nil
}

// UpdateQuantity replaces the item's quantity. Quantities below 1 are a
// silent no-op and return the current view unchanged.
func (s *CartService) UpdateQuantity(ctx context.Context, ownerID string, itemID uuid.UUID, quantity int) ([]domain.CartItem, error) {
	cart, items, err := s.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if quantity < 1 {
		return items, nil
	}

	if err := s.repo.UpdateItemQuantity(ctx, itemID, quantity); err != nil {
		s.notifyError("Could not update quantity", err)
		return nil, err
	}

	fresh, err := s.repo.GetCartItems(ctx, cart.ID)
	if err != nil {
		s.notifyError("Could not refresh cart", err)
		return nil, err
	}
	return fresh, nil
}

func (s *CartService) RemoveItem(ctx context.Context, ownerID string, itemID uuid.UUID) ([]domain.CartItem, error) {
	cart, _, err := s.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteCartItem(ctx, itemID); err != nil {
		s.notifyError("Could not remove item", err)
		return nil, err
	}

	fresh, err := s.repo.GetCartItems(ctx, cart.ID)
	if err != nil {
		s.notifyError("Could not refresh cart", err)
		return nil, err
	}

	s.notifier.Notify(notify.Notification{
		Title:       "Removed from cart",
		Description: "The item was removed from your cart.",
		Severity:    notify.SeveritySuccess,
	})
	return fresh, nil
}

// Clear empties the cart's items. The cart record itself survives.
func (s *CartService) Clear(ctx context.Context, ownerID string) error {
	cart, _, err := s.Load(ctx, ownerID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteCartItems(ctx, cart.ID); err != nil {
		s.notifyError("Could not clear cart", err)
		return err
	}
	return nil
}

func (s *CartService) notifyError(title string, err error) {
	log.Printf("cart service error: %v", err)
	s.notifier.Notify(notify.Notification{
		Title:       title,
		Description: fmt.Sprintf("Please try again. (%v)", err),
		Severity:    notify.SeverityError,
	})
}
