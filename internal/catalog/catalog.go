package catalog

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/prudentjag/inventory-pos/domain"
	"github.com/prudentjag/inventory-pos/internal/cache"
)

// Backend supplies the authoritative unit inventory.
type Backend interface {
	ListInventory(ctx context.Context, unitID int64) ([]domain.InventoryItem, error)
}

var ErrProductNotFound = errors.New("product not in unit inventory")

// Service serves the product grid with cache-aside reads.
type Service struct {
	backend Backend
	cache   cache.InventoryCache
	sfg     singleflight.Group // prevents stampede on a cold cache
}

func New(backend Backend, c cache.InventoryCache) *Service {
	return &Service{
		backend: backend,
		cache:   c,
	}
}

// GetInventory returns the unit's catalog with stock levels. Concurrent
// cache misses for the same unit collapse into one backend call.
func (s *Service) GetInventory(ctx context.Context, unitID int64) ([]domain.InventoryItem, error) {
	v, err, _ := s.sfg.Do(strconv.FormatInt(unitID, 10), func() (interface{}, error) {
		items, errGet := s.cache.Get(ctx, unitID)
		if errGet == nil {
			return items, nil
		}
		if !errors.Is(errGet, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v", errGet) // log cache error but continue
		}

		items, errList := s.backend.ListInventory(ctx, unitID)
		if errList != nil {
			return nil, errList
		}

		go func() {
			errSet := s.cache.Set(context.Background(), unitID, items)
			if errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return items, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]domain.InventoryItem), nil
}

// FindProduct resolves one product from the unit inventory.
func (s *Service) FindProduct(ctx context.Context, unitID, productID int64) (domain.Product, error) {
	items, err := s.GetInventory(ctx, unitID)
	if err != nil {
		return domain.Product{}, err
	}
	for _, item := range items {
		if item.Product.ID == productID {
			return item.Product, nil
		}
	}
	return domain.Product{}, ErrProductNotFound
}

// Invalidate drops the cached view for a unit, e.g. right after a sale is
// accepted or a pending payment lands, so the next grid read sees the
// decremented stock.
func (s *Service) Invalidate(unitID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, unitID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
