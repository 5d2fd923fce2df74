package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
)

// Order is immutable once created by the checkout flow; there is no update
// path in this service.
type Order struct {
	ID                uuid.UUID   `json:"id"`
	OwnerID           string      `json:"owner_id"`
	TotalAmount       float64     `json:"total_amount"`
	PaymentMethod     string      `json:"payment_method"`
	Status            OrderStatus `json:"status"`
	ShippingAddressID uuid.UUID   `json:"shipping_address_id"`
	BillingAddressID  uuid.UUID   `json:"billing_address_id"`
	ReferenceCode     string      `json:"reference_code"`
	CreatedAt         time.Time   `json:"created_at"`
	Items             []OrderItem `json:"items,omitempty"`
}

// OrderItem is a frozen copy of a cart item at commit time. The source cart
// is cleared afterward and is not linked back to the order.
type OrderItem struct {
	ID          uuid.UUID `json:"id"`
	OrderID     uuid.UUID `json:"order_id"`
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
}

// SchedulingPreference holds up to three candidate session dates supplied at
// checkout, plus free-text notes for the studio.
type SchedulingPreference struct {
	ID             uuid.UUID   `json:"id"`
	OrderID        uuid.UUID   `json:"order_id"`
	PreferredDates []time.Time `json:"preferred_dates"`
	Notes          string      `json:"notes"`
}
