package domain

// Variant is one priced size option of a catalog product. Price is a
// pointer so a fallback variant can omit it entirely; PricePending marks
// a price that callers must confirm before charging.
type Variant struct {
	Size         string   `json:"size"`
	Price        *float64 `json:"price,omitempty"`
	Currency     string   `json:"currency"`
	PricePending bool     `json:"price_pending,omitempty"`
}

// CatalogEntry is a product with one or more priced size variants.
// Variants are sorted by ascending price at load time.
type CatalogEntry struct {
	ProductID   string
	Brand       string
	Name        string
	Description string
	ImageURL    string
	Category    string
	Variants    []Variant
}

// ProductMatch is the client-facing product search result.
type ProductMatch struct {
	ProductID           string    `json:"product_id"`
	Brand               string    `json:"brand"`
	Name                string    `json:"name"`
	Description         string    `json:"description,omitempty"`
	ImageURL            string    `json:"image_url,omitempty"`
	AvailableSizes      []string  `json:"available_sizes"`
	AvailableQuantities []int     `json:"available_quantities"`
	Variants            []Variant `json:"variants"`
}

// MatchResult is the catalog entry (or synthesized fallback) chosen for a
// fused candidate. Reason records how the match or tie-break was decided.
type MatchResult struct {
	Match    ProductMatch `json:"match"`
	Score    float64      `json:"score"`
	Fallback bool         `json:"fallback"`
	Reason   string       `json:"reason"`
}

// ProductSearchResponse is the /products/search response body.
type ProductSearchResponse struct {
	Status  string         `json:"status"`
	Matches []ProductMatch `json:"matches"`
}

// DefaultQuantities are the per-item order quantities offered to clients.
var DefaultQuantities = []int{1, 2, 3, 4, 5, 10}

// ToProductMatch converts a catalog entry to its search payload.
func (e *CatalogEntry) ToProductMatch() ProductMatch {
	sizes := make([]string, 0, len(e.Variants))
	for _, v := range e.Variants {
		sizes = append(sizes, v.Size)
	}

	return ProductMatch{
		ProductID:           e.ProductID,
		Brand:               e.Brand,
		Name:                e.Name,
		Description:         e.Description,
		ImageURL:            e.ImageURL,
		AvailableSizes:      sizes,
		AvailableQuantities: append([]int(nil), DefaultQuantities...),
		Variants:            append([]Variant(nil), e.Variants...),
	}
}
