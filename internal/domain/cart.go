package domain

// Cart is the server-owned cart as returned by GET /cart.
type Cart struct {
	ID    int64      `json:"id"`
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

type CartItem struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
	// Subtotal is server-computed and trusted as-is.
	Subtotal float64 `json:"subtotal"`
}

// ItemCount sums line quantities, not the number of distinct lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, it := range c.Items {
		count += it.Quantity
	}
	return count
}
