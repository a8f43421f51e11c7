package product

import "time"

// Product maps to the `products` table. `Stock` is the single source of
// truth for availability; it is only ever mutated through the inventory
// ledger, never by catalog or cart code.
type Product struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	IsActive    bool      `json:"isActive"`
	CategoryID  *int      `json:"categoryId,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}
