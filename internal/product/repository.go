package product

import (
	"errors"
	"sort"
	"sync"
	"time"
)

var ErrNotFound = errors.New("product not found")

type Repository interface {
	List(activeOnly bool) ([]Product, error)
	GetByID(id int) (Product, error)
	Create(p Product) (Product, error)
	Update(id int, p Product) (Product, error)
}

// InMemoryRepository backs tests and the dev server.
type InMemoryRepository struct {
	mu       sync.RWMutex
	products map[int]Product
	nextID   int
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	repo := &InMemoryRepository{products: make(map[int]Product, len(seed)), nextID: 1}
	for _, p := range seed {
		repo.products[p.ID] = p
		if p.ID >= repo.nextID {
			repo.nextID = p.ID + 1
		}
	}
	return repo
}

func (r *InMemoryRepository) List(activeOnly bool) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *InMemoryRepository) GetByID(id int) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *InMemoryRepository) Create(p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID
	r.nextID++
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	r.products[p.ID] = p
	return p, nil
}

func (r *InMemoryRepository) Update(id int, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	existing.Name = p.Name
	existing.Description = p.Description
	existing.Price = p.Price
	existing.Stock = p.Stock
	existing.IsActive = p.IsActive
	existing.CategoryID = p.CategoryID
	existing.UpdatedAt = time.Now().UTC()
	r.products[id] = existing
	return existing, nil
}

// SetStock is a test/dev helper so seeded stock can be adjusted without
// going through the catalog update path.
func (r *InMemoryRepository) SetStock(id, stock int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		p.Stock = stock
		r.products[id] = p
	}
}
