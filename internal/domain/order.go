package domain

// OrderItem is a single line in an order request.
type OrderItem struct {
	ProductID string  `json:"product_id" binding:"required"`
	Size      string  `json:"size" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	UnitPrice float64 `json:"unit_price"`
}

// OrderRequest is the /orders request body.
type OrderRequest struct {
	Items       []OrderItem `json:"items" binding:"required"`
	TotalAmount float64     `json:"total_amount"`
	Currency    string      `json:"currency"`
}

// OrderResponse is the /orders response body.
type OrderResponse struct {
	Status  string `json:"status"`
	OrderID string `json:"order_id,omitempty"`
	Message string `json:"message,omitempty"`
}

// OrderRecord is a confirmed order as persisted by the order store.
type OrderRecord struct {
	OrderID     string
	TotalAmount float64
	Currency    string
	Status      string
	Items       []OrderItem
}
