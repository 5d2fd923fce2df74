package domain

import (
	"time"

	"github.com/google/uuid"
)

type AddressKind string

const (
	AddressKindShipping AddressKind = "shipping"
	AddressKindBilling  AddressKind = "billing"
)

type Address struct {
	ID         uuid.UUID   `json:"id"`
	OwnerID    string      `json:"owner_id"`
	Kind       AddressKind `json:"kind"`
	Street     string      `json:"street"`
	City       string      `json:"city"`
	State      string      `json:"state"`
	PostalCode string      `json:"postal_code"`
	Country    string      `json:"country"`
	IsDefault  bool        `json:"is_default"`
	CreatedAt  time.Time   `json:"created_at"`
}
