package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/cache"
	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/domain"
	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/notify"
	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/repository"
)

// OrderPublisher is the downstream integration callout. Its failure is
// logged but never aborts or rolls back an already-created order.
type OrderPublisher interface {
	OrderPlaced(ctx context.Context, order *domain.Order, items []domain.OrderItem) error
}

type SchedulingRequest struct {
	PreferredDates []time.Time `json:"preferred_dates"`
	Notes          string      `json:"notes"`
}

type PlaceOrderRequest struct {
	PaymentMethod         string             `json:"payment_method"`
	ShippingAddressID     uuid.UUID          `json:"shipping_address_id"`
	BillingAddressID      uuid.UUID          `json:"billing_address_id"`
	BillingSameAsShipping bool               `json:"billing_same_as_shipping"`
	Scheduling            *SchedulingRequest `json:"scheduling,omitempty"`
}

// CheckoutService converts a reconciled cart into a persisted order. The
// commit sequence is sequential and not wrapped in a transaction; a
// mid-sequence failure surfaces an error without compensating rollback.
type CheckoutService struct {
	cart       *CartService
	orders     repository.OrderRepository
	addresses  repository.AddressRepository
	publisher  OrderPublisher
	orderCache cache.OrderListCache
	notifier   notify.Notifier
}

func NewCheckoutService(
	cart *CartService,
	orders repository.OrderRepository,
	addresses repository.AddressRepository,
	publisher OrderPublisher,
	orderCache cache.OrderListCache,
	notifier notify.Notifier,
) *CheckoutService {
	return &CheckoutService{
		cart:       cart,
		orders:     orders,
		addresses:  addresses,
		publisher:  publisher,
		orderCache: orderCache,
		notifier:   notifier,
	}
}

// PlaceOrder validates the preconditions, then commits: order insert, order
// items, optional scheduling preference, downstream callout, cart clear,
// order-list cache invalidation, success notification. Validation failures
// reject before any mutation.
func (s *CheckoutService) PlaceOrder(ctx context.Context, ownerID string, req *PlaceOrderRequest) (*domain.Order, error) {
	if ownerID == "" {
		return s.reject(ErrNotAuthenticated, "Sign in to finish your order.")
	}
	if req.ShippingAddressID == uuid.Nil {
		return s.reject(ErrNoShippingAddress, "Select a shipping address to continue.")
	}
	billingID := req.BillingAddressID
	if billingID == uuid.Nil {
		if !req.BillingSameAsShipping {
			return s.reject(ErrNoBillingAddress, "Select a billing address or reuse the shipping one.")
		}
		billingID = req.ShippingAddressID
	}
	if req.Scheduling != nil && len(req.Scheduling.PreferredDates) > 3 {
		return s.reject(ErrTooManyPreferredDates, "Pick up to three preferred session dates.")
	}

	_, items, err := s.cart.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return s.reject(ErrEmptyCart, "Your cart is empty.")
	}

	totals := domain.CartTotals(items)
	order := &domain.Order{
		ID:                uuid.New(),
		OwnerID:           ownerID,
		TotalAmount:       totals.TotalPrice,
		PaymentMethod:     req.PaymentMethod,
		Status:            domain.OrderStatusPending,
		ShippingAddressID: req.ShippingAddressID,
		BillingAddressID:  billingID,
		ReferenceCode:     newReferenceCode(),
	}

	if err := s.orders.InsertOrder(ctx, order); err != nil {
		s.notifyError("Checkout failed", err)
		return nil, err
	}

	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, domain.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	if err := s.orders.InsertOrderItems(ctx, orderItems); err != nil {
		s.notifyError("Checkout failed", err)
		return nil, err
	}
	order.Items = orderItems

	if req.Scheduling != nil {
		pref := &domain.SchedulingPreference{
			OrderID:        order.ID,
			PreferredDates: req.Scheduling.PreferredDates,
			Notes:          req.Scheduling.Notes,
		}
		if err := s.orders.InsertSchedulingPreference(ctx, pref); err != nil {
			s.notifyError("Checkout failed", err)
			return nil, err
		}
	}

	if err := s.publisher.OrderPlaced(ctx, order, orderItems); err != nil {
		log.Printf("order placed callout failed for %s: %v", order.ReferenceCode, err)
	}

	if err := s.cart.Clear(ctx, ownerID); err != nil {
		s.notifyError("Checkout failed", err)
		return nil, err
	}

	if err := s.orderCache.Delete(ctx, ownerID); err != nil {
		log.Printf("order list cache invalidation failed for %s: %v", ownerID, err)
	}

	s.notifier.Notify(notify.Notification{
		Title:       "Order placed",
		Description: fmt.Sprintf("Your order %s is confirmed.", order.ReferenceCode),
		Severity:    notify.SeveritySuccess,
	})
	return order, nil
}

// AddShippingAddress inserts an address for the owner. The first address of
// its kind, or one explicitly flagged, becomes the default selection.
func (s *CheckoutService) AddShippingAddress(ctx context.Context, ownerID string, addr *domain.Address) (*domain.Address, error) {
	return s.addAddress(ctx, ownerID, domain.AddressKindShipping, addr)
}

func (s *CheckoutService) AddBillingAddress(ctx context.Context, ownerID string, addr *domain.Address) (*domain.Address, error) {
	return s.addAddress(ctx, ownerID, domain.AddressKindBilling, addr)
}

func (s *CheckoutService) addAddress(ctx context.Context, ownerID string, kind domain.AddressKind, addr *domain.Address) (*domain.Address, error) {
	addr.OwnerID = ownerID
	addr.Kind = kind

	count, err := s.addresses.CountAddresses(ctx, ownerID, kind)
	if err != nil {
		s.notifyError("Could not save address", err)
		return nil, err
	}
	if count == 0 {
		addr.IsDefault = true
	}

	if err := s.addresses.InsertAddress(ctx, addr); err != nil {
		s.notifyError("Could not save address", err)
		return nil, err
	}
	return addr, nil
}

func (s *CheckoutService) ListAddresses(ctx context.Context, ownerID string) ([]domain.Address, error) {
	addresses, err := s.addresses.ListAddresses(ctx, ownerID)
	if err != nil {
		s.notifyError("Could not load addresses", err)
		return nil, err
	}
	return addresses, nil
}

// ListOrders reads through the order-list cache; checkout invalidates it so
// fresh reads reflect the new order.
func (s *CheckoutService) ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error) {
	orders, err := s.orderCache.Get(ctx, ownerID)
	if err == nil {
		return orders, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("order list cache get error: %v", err)
	}

	orders, err = s.orders.ListOrdersByOwner(ctx, ownerID)
	if err != nil {
		s.notifyError("Could not load orders", err)
		return nil, err
	}

	go func() {
		if err := s.orderCache.Set(context.Background(), ownerID, orders); err != nil {
			log.Printf("order list cache set error: %v", err)
		}
	}()

	return orders, nil
}

func (s *CheckoutService) reject(err error, description string) (*domain.Order, error) {
	s.notifier.Notify(notify.Notification{
		Title:       "Checkout blocked",
		Description: description,
		Severity:    notify.SeverityError,
	})
	return nil, err
}

func (s *CheckoutService) notifyError(title string, err error) {
	log.Printf("checkout error: %v", err)
	s.notifier.Notify(notify.Notification{
		Title:       title,
		Description: fmt.Sprintf("Please try again. (%v)", err),
		Severity:    notify.SeverityError,
	})
}

const referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// newReferenceCode builds a human-support-friendly code, not a
// cryptographically unique one: current timestamp plus a random suffix.
func newReferenceCode() string {
	suffix := make([]byte, 8)
	for i := range suffix {
		suffix[i] = referenceAlphabet[rand.Intn(len(referenceAlphabet))]
	}
	return fmt.Sprintf("ORDER-%d-%s", time.Now().UnixMilli(), suffix)
}
