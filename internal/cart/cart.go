package cart

import "github.com/tahaql/ecommerce-api/internal/product"

// Item is one cart line hydrated with its product details.
type Item struct {
	ID        int             `json:"id"`
	ProductID int             `json:"productId"`
	Quantity  int             `json:"quantity"`
	Product   product.Product `json:"product"`
	Subtotal  float64         `json:"subtotal"`
}

// Cart is the hydrated view of a user's cart.
type Cart struct {
	Items       []Item  `json:"items"`
	TotalItems  int     `json:"totalItems"`
	ItemCount   int     `json:"itemCount"`
	TotalAmount float64 `json:"totalAmount"`
}
