package cache

import (
	"context"
	"errors"

	"github.com/Cartola99Tattoo/tattoo-verse-nexus-99-sub002/internal/domain"
)

type OrderListCache interface {
	Get(ctx context.Context, ownerID string) ([]domain.Order, error)
	Set(ctx context.Context, ownerID string, orders []domain.Order) error
	Delete(ctx context.Context, ownerID string) error
}

var ErrCacheMiss = errors.New("cache miss")
