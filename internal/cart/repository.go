package cart

import (
	"errors"
	"sort"
	"sync"

	"github.com/tahaql/ecommerce-api/internal/product"
)

var ErrLineNotFound = errors.New("cart item not found")

// ProductSource resolves product details for hydration. Satisfied by
// the product service and repository.
type ProductSource interface {
	GetByID(id int) (product.Product, error)
}

// Repository owns the per-user (productId -> quantity) mapping. Lines
// are unique per (userId, productId); Add increments on repeat adds.
type Repository interface {
	Items(userID int) ([]Item, error)
	Add(userID, productID, qty int) error
	SetQuantity(userID, productID, qty int) error
	Remove(userID, productID int) error
	Clear(userID int) error
}

type InMemoryRepository struct {
	mu       sync.RWMutex
	products ProductSource
	carts    map[int]map[int]int // userID -> productID -> qty
	nextID   int
}

func NewInMemoryRepository(products ProductSource) *InMemoryRepository {
	return &InMemoryRepository{products: products, carts: make(map[int]map[int]int), nextID: 1}
}

func (r *InMemoryRepository) Items(userID int) ([]Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lines := r.carts[userID]
	ids := make([]int, 0, len(lines))
	for pid := range lines {
		ids = append(ids, pid)
	}
	sort.Ints(ids)

	items := make([]Item, 0, len(ids))
	for _, pid := range ids {
		qty := lines[pid]
		p, err := r.products.GetByID(pid)
		if err != nil {
			return nil, err
		}
		items = append(items, Item{ProductID: pid, Quantity: qty, Product: p, Subtotal: float64(qty) * p.Price})
	}
	return items, nil
}

func (r *InMemoryRepository) Add(userID, productID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.carts[userID] == nil {
		r.carts[userID] = make(map[int]int)
	}
	r.carts[userID][productID] += qty
	return nil
}

func (r *InMemoryRepository) SetQuantity(userID, productID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.carts[userID][productID]; !ok {
		return ErrLineNotFound
	}
	r.carts[userID][productID] = qty
	return nil
}

func (r *InMemoryRepository) Remove(userID, productID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.carts[userID][productID]; !ok {
		return ErrLineNotFound
	}
	delete(r.carts[userID], productID)
	return nil
}

func (r *InMemoryRepository) Clear(userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}
