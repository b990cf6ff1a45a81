package cache

import (
	"context"
	"errors"

	"github.com/prudentjag/inventory-pos/domain"
)

// InventoryCache holds per-unit catalog reads between backend fetches.
type InventoryCache interface {
	Get(ctx context.Context, unitID int64) ([]domain.InventoryItem, error)
	Set(ctx context.Context, unitID int64, items []domain.InventoryItem) error
	Delete(ctx context.Context, unitID int64) error
}

var ErrCacheMiss = errors.New("cache miss")
