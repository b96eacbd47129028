package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/smartshop/backend/config"
	"github.com/smartshop/backend/internal/domain"
	"github.com/smartshop/backend/internal/infrastructure/catalog"
	"github.com/smartshop/backend/internal/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	store := catalog.NewStore(db)
	if err := store.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := store.Seed(ctx, sampleCatalog()); err != nil {
		logger.Fatalf("Failed to seed catalog: %v", err)
	}

	snapshot, err := store.Reload(ctx)
	if err != nil {
		logger.Fatalf("Failed to reload catalog: %v", err)
	}

	logger.Infof("Seeded catalog: %d products", snapshot.Len())
}

func price(p float64) *float64 { return &p }

// sampleCatalog returns a small Indian grocery catalog for development.
func sampleCatalog() []domain.CatalogEntry {
	return []domain.CatalogEntry{
		{
			ProductID:   "prod-amul-milk-fc",
			Brand:       "Amul",
			Name:        "Full Cream Milk",
			Description: "Amul Gold full cream milk",
			Category:    "dairy",
			Variants: []domain.Variant{
				{Size: "500ml", Price: price(30), Currency: "INR"},
				{Size: "1L", Price: price(58), Currency: "INR"},
			},
		},
		{
			ProductID:   "prod-amul-milk-toned",
			Brand:       "Amul",
			Name:        "Toned Milk",
			Description: "Amul Taaza toned milk",
			Category:    "dairy",
			Variants: []domain.Variant{
				{Size: "500ml", Price: price(26), Currency: "INR"},
				{Size: "1L", Price: price(50), Currency: "INR"},
			},
		},
		{
			ProductID:   "prod-parle-marie",
			Brand:       "Parle",
			Name:        "Marie Gold Biscuits",
			Description: "Parle Marie Gold tea biscuits",
			Category:    "biscuits",
			Variants: []domain.Variant{
				{Size: "120g", Price: price(25), Currency: "INR"},
				{Size: "250g", Price: price(45), Currency: "INR"},
			},
		},
		{
			ProductID:   "prod-parle-hide-seek",
			Brand:       "Parle",
			Name:        "Hide and Seek",
			Description: "Parle Hide and Seek chocolate chip cookies",
			Category:    "biscuits",
			Variants: []domain.Variant{
				{Size: "100g", Price: price(30), Currency: "INR"},
			},
		},
		{
			ProductID:   "prod-tata-tea-gold",
			Brand:       "Tata",
			Name:        "Tea Gold",
			Description: "Tata Tea Gold leaf tea",
			Category:    "beverages",
			Variants: []domain.Variant{
				{Size: "250g", Price: price(140), Currency: "INR"},
				{Size: "500g", Price: price(270), Currency: "INR"},
			},
		},
		{
			ProductID:   "prod-britannia-good-day",
			Brand:       "Britannia",
			Name:        "Good Day Butter Cookies",
			Description: "Britannia Good Day butter cookies",
			Category:    "biscuits",
			Variants: []domain.Variant{
				{Size: "75g", Price: price(10), Currency: "INR"},
				{Size: "200g", Price: price(35), Currency: "INR"},
			},
		},
		{
			ProductID:   "prod-nestle-maggi",
			Brand:       "Nestle",
			Name:        "Maggi Noodles",
			Description: "Nestle Maggi 2-minute masala noodles",
			Category:    "instant food",
			Variants: []domain.Variant{
				{Size: "70g", Price: price(14), Currency: "INR"},
				{Size: "280g", Price: price(56), Currency: "INR"},
			},
		},
		{
			ProductID:   "prod-haldiram-bhujia",
			Brand:       "Haldiram",
			Name:        "Aloo Bhujia",
			Description: "Haldiram's crispy aloo bhujia namkeen",
			Category:    "snacks",
			Variants: []domain.Variant{
				{Size: "200g", Price: price(52), Currency: "INR"},
				{Size: "400g", Price: price(95), Currency: "INR"},
			},
		},
		{
			ProductID:   "prod-coca-cola",
			Brand:       "Coca-Cola",
			Name:        "Coca-Cola",
			Description: "Coca-Cola soft drink",
			Category:    "beverages",
			Variants: []domain.Variant{
				{Size: "750ml", Price: price(45), Currency: "INR"},
				{Size: "2L", Price: price(95), Currency: "INR"},
			},
		},
		{
			ProductID:   "prod-lays-classic",
			Brand:       "Lays",
			Name:        "Classic Salted Chips",
			Description: "Lay's classic salted potato chips",
			Category:    "snacks",
			Variants: []domain.Variant{
				{Size: "52g", Price: price(20), Currency: "INR"},
				{Size: "90g", Price: price(35), Currency: "INR"},
			},
		},
	}
}
