package domain

import (
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartItem carries a unit price snapshot taken when the item was added.
// Totals are always computed from the snapshot, never re-derived from the
// current product price.
type CartItem struct {
	ID          uuid.UUID     `json:"id"`
	CartID      uuid.UUID     `json:"cart_id"`
	ProductID   int64         `json:"product_id"`
	ProductName string        `json:"product_name"`
	Quantity    int           `json:"quantity"`
	UnitPrice   float64       `json:"unit_price"`
	Status      ProductStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type Totals struct {
	ItemCount  int     `json:"item_count"`
	TotalPrice float64 `json:"total_price"`
}

// CartTotals recomputes derived totals on every call.
func CartTotals(items []CartItem) Totals {
	var t Totals
	for _, item := range items {
		t.ItemCount += item.Quantity
		t.TotalPrice += item.UnitPrice * float64(item.Quantity)
	}
	return t
}
