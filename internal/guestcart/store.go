// Package guestcart keeps a device-local cart for visitors who have not
// signed in. The whole cart lives in a single string-keyed Redis slot as one
// JSON record; missing or malformed content is treated as "no cart" and a
// fresh record is synthesized in its place.
package guestcart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/domain"
	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/notify"
)

type Item struct {
	ID          string               `json:"id"`
	ProductID   int64                `json:"product_id"`
	ProductName string               `json:"product_name"`
	Quantity    int                  `json:"quantity"`
	UnitPrice   float64              `json:"unit_price"`
	Status      domain.ProductStatus `json:"status"`
}

type Record struct {
	ID        string    `json:"id"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Record) Totals() domain.Totals {
	var t domain.Totals
	for _, item := range r.Items {
		t.ItemCount += item.Quantity
		t.TotalPrice += item.UnitPrice * float64(item.Quantity)
	}
	return t
}

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

type Store struct {
	client   *redis.Client
	notifier notify.Notifier
}

func NewStore(client *redis.Client, notifier notify.Notifier) *Store {
	return &Store{
		client:   client,
		notifier: notifier,
	}
}

// Load reads the stored record for the guest. Absent or unparseable content
// synthesizes a new empty cart and persists it; no parse error reaches the
// caller.
func (s *Store) Load(ctx context.Context, guestID string) (*Record, error) {
	key := slotKey(guestID)

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	if err == nil {
		var rec Record
		if e2 := json.Unmarshal(data, &rec); e2 == nil {
			return &rec, nil
		}
		// malformed slot: fall through and start over
	}

	now := time.Now()
	rec := &Record{
		ID:        fmt.Sprintf("guest-%s", uuid.New()),
		Items:     []Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.persist(ctx, guestID, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// AddItem increments the quantity when the product is already in the cart,
// otherwise appends a new item with a price snapshot from the product.
func (s *Store) AddItem(ctx context.Context, guestID string, product *domain.Product, quantity int) (*Record, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	rec, err := s.Load(ctx, guestID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range rec.Items {
		if rec.Items[i].ProductID == product.ID {
			rec.Items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		rec.Items = append(rec.Items, Item{
			ID:          uuid.NewString(),
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    quantity,
			UnitPrice:   product.Price,
			Status:      product.Status,
		})
	}

	if err := s.persist(ctx, guestID, rec); err != nil {
		return nil, err
	}

	s.notifier.Notify(notify.Notification{
		Title:       "Added to cart",
		Description: fmt.Sprintf("%s is in your cart.", product.Name),
		Severity:    notify.SeveritySuccess,
	})
	return rec, nil
}

// UpdateQuantity replaces the matching item's quantity in place. Quantities
// below 1 are silently ignored.
func (s *Store) UpdateQuantity(ctx context.Context, guestID, itemID string, quantity int) (*Record, error) {
	rec, err := s.Load(ctx, guestID)
	if err != nil {
		return nil, err
	}

	if quantity < 1 {
		return rec, nil
	}

	for i := range rec.Items {
		if rec.Items[i].ID == itemID {
			rec.Items[i].Quantity = quantity
			break
		}
	}

	if err := s.persist(ctx, guestID, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Store) RemoveItem(ctx context.Context, guestID, itemID string) (*Record, error) {
	rec, err := s.Load(ctx, guestID)
	if err != nil {
		return nil, err
	}

	kept := rec.Items[:0]
	for _, item := range rec.Items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	rec.Items = kept

	if err := s.persist(ctx, guestID, rec); err != nil {
		return nil, err
	}

	s.notifier.Notify(notify.Notification{
		Title:       "Removed from cart",
		Description: "The item was removed from your cart.",
		Severity:    notify.SeveritySuccess,
	})
	return rec, nil
}

func (s *Store) Clear(ctx context.Context, guestID string) (*Record, error) {
	rec, err := s.Load(ctx, guestID)
	if err != nil {
		return nil, err
	}

	rec.Items = []Item{}
	if err := s.persist(ctx, guestID, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete drops the slot entirely. Used after a merge into an authenticated
// cart.
func (s *Store) Delete(ctx context.Context, guestID string) error {
	if err := s.client.Del(ctx, slotKey(guestID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (s *Store) persist(ctx context.Context, guestID string, rec *Record) error {
	rec.UpdatedAt = time.Now()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal guest cart failed: %w", err)
	}
	if err := s.client.Set(ctx, slotKey(guestID), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func slotKey(guestID string) string {
	return fmt.Sprintf("guestcart:%s", guestID)
}
