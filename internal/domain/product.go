package domain

import "time"

type ProductStatus string

const (
	ProductStatusAvailable   ProductStatus = "available"
	ProductStatusUnavailable ProductStatus = "unavailable"
)

type Product struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Price     float64       `json:"price"`
	Status    ProductStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}
