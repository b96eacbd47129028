package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/smartshop/backend/internal/domain"
	"github.com/smartshop/backend/internal/logger"
	"gorm.io/gorm"
)

// Store loads the product catalog from Postgres and publishes it as an
// immutable snapshot. Reload builds a complete new snapshot before swapping
// the pointer, so matchers never observe a half-loaded catalog and no lock
// is held during lookups.
type Store struct {
	db       *gorm.DB
	snapshot atomic.Pointer[domain.CatalogSnapshot]
}

// NewStore creates a catalog store. Call Reload once at startup to publish
// the first snapshot.
func NewStore(db *gorm.DB) *Store {
	s := &Store{db: db}
	s.snapshot.Store(domain.NewCatalogSnapshot(nil))
	return s
}

// AutoMigrate creates or updates the catalog and order tables
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(&Product{}, &ProductVariant{}, &Order{}, &OrderItem{})
}

// Snapshot returns the current catalog snapshot. Never nil, never blocks.
func (s *Store) Snapshot() *domain.CatalogSnapshot {
	return s.snapshot.Load()
}

// Reload reads the full catalog and atomically swaps in the new snapshot.
func (s *Store) Reload(ctx context.Context) (*domain.CatalogSnapshot, error) {
	var products []Product
	err := s.db.WithContext(ctx).
		Preload("Variants").
		Where("is_active = ?", true).
		Order("product_id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	snapshot := domain.NewCatalogSnapshot(groupEntries(products))
	s.snapshot.Store(snapshot)

	logger.Infof("catalog snapshot loaded: %d products", snapshot.Len())
	return snapshot, nil
}

// Ping verifies database connectivity
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return nil
}

// Seed inserts catalog entries, replacing products that share a product_id.
// Used by the seeding utility, not by request handling.
func (s *Store) Seed(ctx context.Context, entries []domain.CatalogEntry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range entries {
			var existing Product
			err := tx.Where("product_id = ?", e.ProductID).First(&existing).Error
			if err == nil {
				if err := tx.Select("Variants").Delete(&existing).Error; err != nil {
					return err
				}
			} else if err != gorm.ErrRecordNotFound {
				return err
			}

			product := Product{
				ProductID:   e.ProductID,
				Brand:       e.Brand,
				Name:        e.Name,
				Description: e.Description,
				ImageURL:    e.ImageURL,
				Category:    e.Category,
				IsActive:    true,
			}
			for _, v := range e.Variants {
				price := 0.0
				if v.Price != nil {
					price = *v.Price
				}
				product.Variants = append(product.Variants, ProductVariant{
					Size:     v.Size,
					Price:    price,
					Currency: v.Currency,
				})
			}

			if err := tx.Create(&product).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// groupEntries converts product rows into catalog entries with variants
// sorted by ascending price.
func groupEntries(products []Product) []domain.CatalogEntry {
	entries := make([]domain.CatalogEntry, 0, len(products))

	for _, p := range products {
		entry := domain.CatalogEntry{
			ProductID:   p.ProductID,
			Brand:       p.Brand,
			Name:        p.Name,
			Description: p.Description,
			ImageURL:    p.ImageURL,
			Category:    p.Category,
		}

		for _, v := range p.Variants {
			price := v.Price
			entry.Variants = append(entry.Variants, domain.Variant{
				Size:     v.Size,
				Price:    &price,
				Currency: v.Currency,
			})
		}

		sort.SliceStable(entry.Variants, func(i, j int) bool {
			return *entry.Variants[i].Price < *entry.Variants[j].Price
		})

		entries = append(entries, entry)
	}

	return entries
}
