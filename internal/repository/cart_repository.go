package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/domain"
)

func (r *Repository) GetCartByOwner(ctx context.Context, ownerID string) (*domain.Cart, error) {
	query := `SELECT id, owner_id, created_at, updated_at FROM carts WHERE owner_id = $1`

	var cart domain.Cart
	err := r.db.QueryRowContext(ctx, query, ownerID).Scan(
		&cart.ID,
		&cart.OwnerID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query cart by owner: %w", err)
	}

	return &cart, nil
}

func (r *Repository) CreateCart(ctx context.Context, ownerID string) (*domain.Cart, error) {
	now := time.Now()
	cart := &domain.Cart{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `INSERT INTO carts (id, owner_id, created_at, updated_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, cart.ID, cart.OwnerID, cart.CreatedAt, cart.UpdatedAt); err != nil {
		return nil, fmt.Errorf("insert cart: %w", err)
	}

	return cart, nil
}

// GetCartItems fetches the cart's items joined with current product data so
// the availability status reflects the catalog, while quantity and unit price
// stay the snapshot taken at add-time.
func (r *Repository) GetCartItems(ctx context.Context, cartID uuid.UUID) ([]domain.CartItem, error) {
	query := `SELECT ci.id, ci.cart_id, ci.product_id, p.name, ci.quantity, ci.unit_price, p.status, ci.created_at, ci.updated_at
	          FROM cart_items ci
	          JOIN products p ON p.id = ci.product_id
	          WHERE ci.cart_id = $1
	          ORDER BY ci.created_at`

	rows, err := r.db.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
			&item.Status,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cart item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart item rows: %w", err)
	}

	return items, nil
}

func (r *Repository) InsertCartItem(ctx context.Context, item *domain.CartItem) error {
	now := time.Now()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = now
	item.UpdatedAt = now

	query := `INSERT INTO cart_items (id, cart_id, product_id, quantity, unit_price, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.CartID,
		item.ProductID,
		item.Quantity,
		item.UnitPrice,
		item.Status,
		item.CreatedAt,
		item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert cart item: %w", err)
	}
	return nil
}

func (r *Repository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	query := `UPDATE cart_items SET quantity = $1, updated_at = NOW() WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, quantity, itemID)
	if err != nil {
		return fmt.Errorf("update item quantity: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update item quantity rows affected: %w", err)
	}
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *Repository) DeleteCartItem(ctx context.Context, itemID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete cart item rows affected: %w", err)
	}
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// DeleteCartItems clears the cart without deleting the cart record itself.
func (r *Repository) DeleteCartItems(ctx context.Context, cartID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}
	return nil
}

func (r *Repository) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	query := `SELECT id, name, price, status, created_at FROM products WHERE id = $1`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, productID).Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&p.Status,
		&p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}

	return &p, nil
}
