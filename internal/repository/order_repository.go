package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/domain"
)

func (r *Repository) InsertOrder(ctx context.Context, order *domain.Order) error {
	order.CreatedAt = time.Now()

	query := `INSERT INTO orders (id, owner_id, total_amount, payment_method, status, shipping_address_id, billing_address_id, reference_code, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		order.ID,
		order.OwnerID,
		order.TotalAmount,
		order.PaymentMethod,
		order.Status,
		order.ShippingAddressID,
		order.BillingAddressID,
		order.ReferenceCode,
		order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *Repository) InsertOrderItems(ctx context.Context, items []domain.OrderItem) error {
	query := `INSERT INTO order_items (id, order_id, product_id, product_name, quantity, unit_price)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		_, err := r.db.ExecContext(ctx, query,
			items[i].ID,
			items[i].OrderID,
			items[i].ProductID,
			items[i].ProductName,
			items[i].Quantity,
			items[i].UnitPrice)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (r *Repository) InsertSchedulingPreference(ctx context.Context, pref *domain.SchedulingPreference) error {
	if pref.ID == uuid.Nil {
		pref.ID = uuid.New()
	}

	// Up to three candidate dates, stored in dedicated nullable columns.
	var dates [3]sql.NullTime
	for i, d := range pref.PreferredDates {
		if i >= len(dates) {
			break
		}
		dates[i] = sql.NullTime{Time: d, Valid: true}
	}

	query := `INSERT INTO scheduling_preferences (id, order_id, preferred_date_1, preferred_date_2, preferred_date_3, notes)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		pref.ID,
		pref.OrderID,
		dates[0],
		dates[1],
		dates[2],
		pref.Notes)
	if err != nil {
		return fmt.Errorf("insert scheduling preference: %w", err)
	}
	return nil
}

func (r *Repository) ListOrdersByOwner(ctx context.Context, ownerID string) ([]domain.Order, error) {
	query := `SELECT id, owner_id, total_amount, payment_method, status, shipping_address_id, billing_address_id, reference_code, created_at
	          FROM orders WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query orders by owner: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.OwnerID,
			&order.TotalAmount,
			&order.PaymentMethod,
			&order.Status,
			&order.ShippingAddressID,
			&order.BillingAddressID,
			&order.ReferenceCode,
			&order.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	for i := range orders {
		items, err := r.getOrderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *Repository) getOrderItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	query := `SELECT id, order_id, product_id, product_name, quantity, unit_price
	          FROM order_items WHERE order_id = $1`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
		); err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order item rows: %w", err)
	}

	return items, nil
}
