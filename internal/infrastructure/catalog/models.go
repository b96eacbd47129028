package catalog

import (
	"time"
)

// Product is one catalog product row. Size/price variations live in
// ProductVariant; multiple rows per product group into one CatalogEntry.
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProductID   string    `gorm:"uniqueIndex;size:50;not null" json:"product_id"`
	Brand       string    `gorm:"index;size:100;not null" json:"brand"`
	Name        string    `gorm:"index;size:200;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	ImageURL    string    `gorm:"size:500" json:"image_url"`
	Category    string    `gorm:"size:100" json:"category"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Variants []ProductVariant `gorm:"foreignKey:ProductRef;constraint:OnDelete:CASCADE" json:"variants"`
}

// TableName specifies the table name for Product
func (Product) TableName() string {
	return "products"
}

// ProductVariant is one size/price option of a product
type ProductVariant struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProductRef uint      `gorm:"index;not null" json:"product_ref"`
	Size       string    `gorm:"size:50;not null" json:"size"`
	Price      float64   `gorm:"not null" json:"price"`
	Currency   string    `gorm:"size:10;default:'INR'" json:"currency"`
	Stock      int       `gorm:"default:100" json:"stock"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for ProductVariant
func (ProductVariant) TableName() string {
	return "product_variants"
}

// Order is a confirmed order header
type Order struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     string    `gorm:"uniqueIndex;size:50;not null" json:"order_id"`
	TotalAmount float64   `gorm:"not null" json:"total_amount"`
	Currency    string    `gorm:"size:10;default:'INR'" json:"currency"`
	Status      string    `gorm:"size:20;default:'confirmed'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`

	Items []OrderItem `gorm:"foreignKey:OrderRef;constraint:OnDelete:CASCADE" json:"items"`
}

// TableName specifies the table name for Order
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one line of a confirmed order
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderRef  uint    `gorm:"index;not null" json:"order_ref"`
	ProductID string  `gorm:"size:50;not null" json:"product_id"`
	Size      string  `gorm:"size:50;not null" json:"size"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	UnitPrice float64 `gorm:"not null" json:"unit_price"`
	LineTotal float64 `gorm:"not null" json:"line_total"`
}

// TableName specifies the table name for OrderItem
func (OrderItem) TableName() string {
	return "order_items"
}
