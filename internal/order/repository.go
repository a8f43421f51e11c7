package order

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tahaql/ecommerce-api/internal/cart"
	"github.com/tahaql/ecommerce-api/internal/inventory"
	"github.com/tahaql/ecommerce-api/internal/product"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	defaultSortBy   = "createdAt"
)

// sortFields is the closed set of sortable columns. Anything else
// silently falls back to the default; a malformed sortBy must never be
// an error and never reaches the SQL layer as a string.
var sortFields = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
	"status":    true,
}

type ListParams struct {
	UserID    *int
	Status    *Status
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

func (p *ListParams) normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultPageSize
	}
	if p.Limit > maxPageSize {
		p.Limit = maxPageSize
	}
	if !sortFields[p.SortBy] {
		p.SortBy = defaultSortBy
	}
	if p.SortOrder != "asc" {
		p.SortOrder = "desc"
	}
}

type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	ItemsPerPage int  `json:"itemsPerPage"`
	HasNext      bool `json:"hasNext"`
	HasPrev      bool `json:"hasPrev"`
}

// Repository persists orders. Place and Cancel are transactional: on
// any failure no partial effect (order rows, stock, cart, payments)
// may remain visible.
type Repository interface {
	// Place converts the user's current cart into a frozen order under
	// the given number. userID scoping, stock reservation and cart
	// clearing all happen inside one transaction.
	Place(userID int, number, method string, addressID *int, notes string) (Order, error)
	// GetByID scopes to the owner when userID > 0; userID 0 is the
	// admin path.
	GetByID(id, userID int) (Order, error)
	List(p ListParams) ([]Order, int, error)
	Cancel(orderID, userID int) (Order, error)
	UpdateStatus(orderID int, status Status) (Order, error)
}

// InMemoryRepository wires the in-memory cart store, catalog and stock
// ledger into the same all-or-nothing semantics the postgres
// repository gets from transactions. Used by tests and the dev server.
type InMemoryRepository struct {
	mu       sync.Mutex
	carts    cart.Repository
	products *product.InMemoryRepository
	ledger   *inventory.MemoryLedger

	orders        []Order
	numbers       map[string]bool
	nextID        int
	nextLineID    int
	nextPaymentID int
}

func NewInMemoryRepository(carts cart.Repository, products *product.InMemoryRepository, ledger *inventory.MemoryLedger) *InMemoryRepository {
	return &InMemoryRepository{
		carts:         carts,
		products:      products,
		ledger:        ledger,
		numbers:       make(map[string]bool),
		nextID:        1,
		nextLineID:    1,
		nextPaymentID: 1,
	}
}

func (r *InMemoryRepository) Place(userID int, number, method string, addressID *int, notes string) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.carts.Items(userID)
	if err != nil {
		return Order{}, err
	}
	if len(items) == 0 {
		return Order{}, ErrEmptyCart
	}
	if r.numbers[number] {
		return Order{}, ErrNumberTaken
	}

	// reserve stock line by line; undo everything on the first failure
	// to mirror a transaction rollback
	reserved := make([]cart.Item, 0, len(items))
	rollback := func() {
		for _, it := range reserved {
			r.ledger.Release(it.ProductID, it.Quantity)
			r.syncStock(it.ProductID)
		}
	}

	now := time.Now().UTC()
	ord := Order{
		OrderNumber: number,
		UserID:      userID,
		Status:      StatusPending,
		AddressID:   addressID,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for _, it := range items {
		if !it.Product.IsActive {
			rollback()
			return Order{}, &UnavailableProductError{ProductID: it.ProductID}
		}
		if err := r.ledger.Reserve(it.ProductID, it.Quantity); err != nil {
			rollback()
			if errors.Is(err, inventory.ErrUnknownProduct) {
				return Order{}, &UnavailableProductError{ProductID: it.ProductID}
			}
			return Order{}, err
		}
		reserved = append(reserved, it)
		r.syncStock(it.ProductID)

		ord.Lines = append(ord.Lines, Line{
			ID:          r.nextLineID,
			ProductID:   it.ProductID,
			ProductName: it.Product.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.Product.Price,
			Subtotal:    float64(it.Quantity) * it.Product.Price,
		})
		r.nextLineID++
		ord.TotalAmount += float64(it.Quantity) * it.Product.Price
	}

	ord.ID = r.nextID
	r.nextID++
	for i := range ord.Lines {
		ord.Lines[i].OrderID = ord.ID
	}

	txID := uuid.NewString()
	ord.Payments = []Payment{{
		ID:            r.nextPaymentID,
		OrderID:       ord.ID,
		Amount:        ord.TotalAmount,
		Method:        method,
		Status:        PaymentPending,
		TransactionID: &txID,
		CreatedAt:     now,
	}}
	r.nextPaymentID++

	if err := r.carts.Clear(userID); err != nil {
		rollback()
		return Order{}, err
	}

	r.numbers[number] = true
	r.orders = append(r.orders, ord)
	return cloneOrder(ord), nil
}

func (r *InMemoryRepository) GetByID(id, userID int) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.find(id, userID)
	if idx < 0 {
		return Order{}, ErrNotFound
	}
	return cloneOrder(r.orders[idx]), nil
}

func (r *InMemoryRepository) List(p ListParams) ([]Order, int, error) {
	p.normalize()
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]Order, 0)
	for _, o := range r.orders {
		if p.UserID != nil && o.UserID != *p.UserID {
			continue
		}
		if p.Status != nil && o.Status != *p.Status {
			continue
		}
		matched = append(matched, o)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		var less bool
		switch p.SortBy {
		case "updatedAt":
			less = matched[i].UpdatedAt.Before(matched[j].UpdatedAt)
		case "status":
			less = matched[i].Status < matched[j].Status
		default:
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		if p.SortOrder == "desc" {
			return !less
		}
		return less
	})

	total := len(matched)
	start := (p.Page - 1) * p.Limit
	if start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}

	page := make([]Order, 0, end-start)
	for _, o := range matched[start:end] {
		page = append(page, cloneOrder(o))
	}
	return page, total, nil
}

func (r *InMemoryRepository) Cancel(orderID, userID int) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.find(orderID, userID)
	if idx < 0 {
		return Order{}, ErrNotFound
	}

	ord := r.orders[idx]
	if !ord.Status.Cancellable() {
		return Order{}, &TransitionError{From: ord.Status, To: StatusCancelled}
	}

	for _, line := range ord.Lines {
		r.ledger.Release(line.ProductID, line.Quantity)
		r.syncStock(line.ProductID)
	}

	ord.Status = StatusCancelled
	ord.UpdatedAt = time.Now().UTC()
	for i := range ord.Payments {
		ord.Payments[i].Status = PaymentRefunded
	}
	r.orders[idx] = ord
	return cloneOrder(ord), nil
}

func (r *InMemoryRepository) UpdateStatus(orderID int, status Status) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.find(orderID, 0)
	if idx < 0 {
		return Order{}, ErrNotFound
	}

	r.orders[idx].Status = status
	r.orders[idx].UpdatedAt = time.Now().UTC()
	return cloneOrder(r.orders[idx]), nil
}

func (r *InMemoryRepository) find(id, userID int) int {
	for i, o := range r.orders {
		if o.ID == id && (userID <= 0 || o.UserID == userID) {
			return i
		}
	}
	return -1
}

// syncStock mirrors the ledger counter into the catalog so in-memory
// product reads stay consistent with reservations, the way a shared
// products row would be.
func (r *InMemoryRepository) syncStock(productID int) {
	r.products.SetStock(productID, r.ledger.Stock(productID))
}

func cloneOrder(o Order) Order {
	out := o
	out.Lines = make([]Line, len(o.Lines))
	copy(out.Lines, o.Lines)
	out.Payments = make([]Payment, len(o.Payments))
	copy(out.Payments, o.Payments)
	return out
}
