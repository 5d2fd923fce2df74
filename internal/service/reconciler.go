package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/domain"
	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/guestcart"
	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/notify"
	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/repository"
)

// GuestStore is the slice of the guest cart store the reconciler needs.
type GuestStore interface {
	Load(ctx context.Context, guestID string) (*guestcart.Record, error)
	Delete(ctx context.Context, guestID string) error
}

// Reconciler merges a guest cart into the authenticated owner's cart when the
// identity transition happens, guaranteeing at most one authoritative cart
// per owner. The guest (pre-login) cart wins entirely: remote items are
// replaced, never summed per item.
type Reconciler struct {
	guest    GuestStore
	carts    repository.CartRepository
	notifier notify.Notifier
}

func NewReconciler(guest GuestStore, carts repository.CartRepository, notifier notify.Notifier) *Reconciler {
	return &Reconciler{
		guest:    guest,
		carts:    carts,
		notifier: notifier,
	}
}

// MergeGuestCart replaces the owner's remote items with the guest cart's
// items and drops the guest slot. The delete-then-insert sequence is not
// transactional; a failure in between surfaces an error and can leave the
// remote cart emptied. The guest slot is only dropped once the merge writes
// have succeeded, so the pre-login cart stays recoverable on failure.
func (r *Reconciler) MergeGuestCart(ctx context.Context, guestID, ownerID string) (*domain.Cart, []domain.CartItem, error) {
	rec, err := r.guest.Load(ctx, guestID)
	if err != nil {
		r.notifyError(err)
		return nil, nil, err
	}

	cart, err := r.carts.GetCartByOwner(ctx, ownerID)
	switch {
	case errors.Is(err, repository.ErrCartNotFound):
		cart, err = r.carts.CreateCart(ctx, ownerID)
		if err != nil {
			r.notifyError(err)
			return nil, nil, err
		}
	case err != nil:
		r.notifyError(err)
		return nil, nil, err
	default:
		if e2 := r.carts.DeleteCartItems(ctx, cart.ID); e2 != nil {
			r.notifyError(e2)
			return nil, nil, e2
		}
	}

	for _, item := range rec.Items {
		err := r.carts.InsertCartItem(ctx, &domain.CartItem{
			CartID:    cart.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Status:    item.Status,
		})
		if err != nil {
			r.notifyError(err)
			return nil, nil, err
		}
	}

	items, err := r.carts.GetCartItems(ctx, cart.ID)
	if err != nil {
		r.notifyError(err)
		return nil, nil, err
	}

	if err := r.guest.Delete(ctx, guestID); err != nil {
		// The merge itself succeeded; a stale guest slot is re-merged on the
		// next login, which replays the same end state.
		log.Printf("failed to drop guest cart %s after merge: %v", guestID, err)
	}

	return cart, items, nil
}

func (r *Reconciler) notifyError(err error) {
	log.Printf("cart merge error: %v", err)
	r.notifier.Notify(notify.Notification{
		Title:       "Could not sync your cart",
		Description: fmt.Sprintf("Your cart could not be synced to your account. (%v)", err),
		Severity:    notify.SeverityError,
	})
}
