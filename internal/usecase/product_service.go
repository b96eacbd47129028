package usecase

import (
	"strings"

	"github.com/smartshop/backend/internal/domain"
	"github.com/smartshop/backend/internal/logger"
)

// searchLimit caps /products/search results, matching the client overlay
const searchLimit = 10

// ProductService serves catalog search and listing from the snapshot
type ProductService struct {
	catalog domain.CatalogRepository
}

// NewProductService creates a product service
func NewProductService(catalog domain.CatalogRepository) *ProductService {
	return &ProductService{catalog: catalog}
}

// Search finds catalog entries whose normalized brand or name contains the
// query terms (OR semantics, like the detection overlay expects). An empty
// query applies no conditions and lists the catalog. With no hit it returns
// status "fallback" and one synthesized match instead of an error: an empty
// search is a normal outcome.
func (s *ProductService) Search(brand, name, quantity string) domain.ProductSearchResponse {
	snapshot := s.catalog.Snapshot()

	normBrand := domain.NormalizeText(brand)
	normName := domain.NormalizeText(name)

	if normBrand == "" && normName == "" {
		return s.List(searchLimit)
	}

	var matches []domain.ProductMatch
	for _, entry := range snapshot.Entries() {
		if len(matches) >= searchLimit {
			break
		}

		hit := false
		if normBrand != "" && strings.Contains(domain.NormalizeText(entry.Brand), normBrand) {
			hit = true
		}
		if !hit && normName != "" && strings.Contains(domain.NormalizeText(entry.Name), normName) {
			hit = true
		}

		if hit {
			matches = append(matches, entry.ToProductMatch())
		}
	}

	logger.Debugf("product search brand=%q name=%q -> %d matches", brand, name, len(matches))

	if len(matches) == 0 {
		return domain.ProductSearchResponse{
			Status:  "fallback",
			Matches: []domain.ProductMatch{FallbackProduct(brand, name, quantity)},
		}
	}

	return domain.ProductSearchResponse{Status: "ok", Matches: matches}
}

// List returns up to limit catalog entries
func (s *ProductService) List(limit int) domain.ProductSearchResponse {
	if limit <= 0 {
		limit = 100
	}

	snapshot := s.catalog.Snapshot()
	entries := snapshot.Entries()
	if limit > len(entries) {
		limit = len(entries)
	}

	matches := make([]domain.ProductMatch, 0, limit)
	for i := 0; i < limit; i++ {
		matches = append(matches, entries[i].ToProductMatch())
	}

	return domain.ProductSearchResponse{Status: "ok", Matches: matches}
}

// FallbackProduct synthesizes the no-match search result. The single
// variant carries no price and is flagged pending; callers must confirm a
// real price before charging.
func FallbackProduct(brand, name, quantity string) domain.ProductMatch {
	if brand == "" {
		brand = "Unknown"
	}
	if name == "" {
		name = "Unknown Product"
	}
	size := quantity
	if size == "" {
		size = "Standard"
	}

	return domain.ProductMatch{
		ProductID:           FallbackProductID,
		Brand:               brand,
		Name:                name,
		Description:         "Product details not found in catalog",
		AvailableSizes:      []string{size},
		AvailableQuantities: append([]int(nil), domain.DefaultQuantities...),
		Variants: []domain.Variant{
			{Size: size, Currency: "INR", PricePending: true},
		},
	}
}
