package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/domain"
)

func (r *Repository) InsertAddress(ctx context.Context, addr *domain.Address) error {
	if addr.ID == uuid.Nil {
		addr.ID = uuid.New()
	}
	addr.CreatedAt = time.Now()

	query := `INSERT INTO addresses (id, owner_id, kind, street, city, state, postal_code, country, is_default, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		addr.ID,
		addr.OwnerID,
		addr.Kind,
		addr.Street,
		addr.City,
		addr.State,
		addr.PostalCode,
		addr.Country,
		addr.IsDefault,
		addr.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}

func (r *Repository) ListAddresses(ctx context.Context, ownerID string) ([]domain.Address, error) {
	query := `SELECT id, owner_id, kind, street, city, state, postal_code, country, is_default, created_at
	          FROM addresses WHERE owner_id = $1
	          ORDER BY is_default DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query addresses by owner: %w", err)
	}
	defer rows.Close()

	var addresses []domain.Address
	for rows.Next() {
		var addr domain.Address
		if err := rows.Scan(
			&addr.ID,
			&addr.OwnerID,
			&addr.Kind,
			&addr.Street,
			&addr.City,
			&addr.State,
			&addr.PostalCode,
			&addr.Country,
			&addr.IsDefault,
			&addr.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan address row: %w", err)
		}
		addresses = append(addresses, addr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate address rows: %w", err)
	}

	return addresses, nil
}

func (r *Repository) CountAddresses(ctx context.Context, ownerID string, kind domain.AddressKind) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM addresses WHERE owner_id = $1 AND kind = $2`
	if err := r.db.QueryRowContext(ctx, query, ownerID, kind).Scan(&count); err != nil {
		return 0, fmt.Errorf("count addresses: %w", err)
	}
	return count, nil
}
