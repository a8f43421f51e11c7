package cart

import (
	"errors"
	"testing"

	"github.com/tahaql/ecommerce-api/internal/product"
)

func newTestService(seed []product.Product) (*Service, *product.InMemoryRepository) {
	products := product.NewInMemoryRepository(seed)
	repo := NewInMemoryRepository(products)
	return NewService(repo, product.NewService(products)), products
}

func TestAddAndTotals(t *testing.T) {
	svc, _ := newTestService([]product.Product{
		{ID: 1, Name: "Dog Food 5kg", Price: 10.00, Stock: 20, IsActive: true},
		{ID: 2, Name: "Cat Tower", Price: 89.00, Stock: 3, IsActive: true},
	})

	if _, err := svc.Add(7, 1, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	summary, err := svc.Add(7, 2, 1)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if summary.ItemCount != 2 || summary.TotalItems != 3 {
		t.Errorf("expected 2 lines / 3 units, got %d / %d", summary.ItemCount, summary.TotalItems)
	}
	if summary.TotalAmount != 109.00 {
		t.Errorf("expected total 109.00, got %.2f", summary.TotalAmount)
	}
}

// adding the same product twice increments the existing line.
func TestAdd_RepeatAddsIncrement(t *testing.T) {
	svc, _ := newTestService([]product.Product{
		{ID: 1, Name: "Dog Food 5kg", Price: 10.00, Stock: 20, IsActive: true},
	})

	if _, err := svc.Add(7, 1, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	summary, err := svc.Add(7, 1, 3)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if summary.ItemCount != 1 || summary.TotalItems != 5 {
		t.Errorf("expected one line of 5 units, got %d lines / %d units", summary.ItemCount, summary.TotalItems)
	}
}

func TestAdd_Validation(t *testing.T) {
	svc, products := newTestService([]product.Product{
		{ID: 1, Name: "Dog Food 5kg", Price: 10.00, Stock: 20, IsActive: true},
	})

	if _, err := svc.Add(7, 1, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity for qty 0, got %v", err)
	}
	if _, err := svc.Add(7, 99, 1); !errors.Is(err, ErrProductUnavailable) {
		t.Errorf("expected ErrProductUnavailable for unknown product, got %v", err)
	}

	if _, err := products.Update(1, product.Product{Name: "Dog Food 5kg", Price: 10.00, Stock: 20, IsActive: false}); err != nil {
		t.Fatalf("update product: %v", err)
	}
	if _, err := svc.Add(7, 1, 1); !errors.Is(err, ErrProductUnavailable) {
		t.Errorf("expected ErrProductUnavailable for inactive product, got %v", err)
	}
}

func TestSetQuantityAndRemove(t *testing.T) {
	svc, _ := newTestService([]product.Product{
		{ID: 1, Name: "Dog Food 5kg", Price: 10.00, Stock: 20, IsActive: true},
	})

	if _, err := svc.SetQuantity(7, 1, 3); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("expected ErrLineNotFound for missing line, got %v", err)
	}

	if _, err := svc.Add(7, 1, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	summary, err := svc.SetQuantity(7, 1, 5)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if summary.TotalItems != 5 {
		t.Errorf("expected 5 units, got %d", summary.TotalItems)
	}

	if _, err := svc.SetQuantity(7, 1, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}

	summary, err = svc.Remove(7, 1)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if summary.ItemCount != 0 {
		t.Errorf("expected empty cart, got %d lines", summary.ItemCount)
	}
	if _, err := svc.Remove(7, 1); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("expected ErrLineNotFound, got %v", err)
	}
}

func TestClear(t *testing.T) {
	svc, _ := newTestService([]product.Product{
		{ID: 1, Name: "Dog Food 5kg", Price: 10.00, Stock: 20, IsActive: true},
	})
	if _, err := svc.Add(7, 1, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Clear(7); err != nil {
		t.Fatalf("clear: %v", err)
	}
	summary, err := svc.Get(7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if summary.ItemCount != 0 || summary.TotalAmount != 0 {
		t.Errorf("expected empty cart, got %+v", summary)
	}
}

// carts are scoped per user.
func TestIsolationBetweenUsers(t *testing.T) {
	svc, _ := newTestService([]product.Product{
		{ID: 1, Name: "Dog Food 5kg", Price: 10.00, Stock: 20, IsActive: true},
	})
	if _, err := svc.Add(7, 1, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	summary, err := svc.Get(8)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if summary.ItemCount != 0 {
		t.Errorf("user 8 must have an empty cart, got %d lines", summary.ItemCount)
	}
}
