package cart

import (
	"errors"

	"github.com/tahaql/ecommerce-api/internal/product"
)

var (
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrProductUnavailable = errors.New("product not found or inactive")
)

type Service struct {
	repo    Repository
	catalog ProductSource
}

func NewService(repo Repository, catalog ProductSource) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// Items returns the raw hydrated lines. The order assembler reads the
// cart through this.
func (s *Service) Items(userID int) ([]Item, error) {
	return s.repo.Items(userID)
}

func (s *Service) Get(userID int) (Cart, error) {
	items, err := s.repo.Items(userID)
	if err != nil {
		return Cart{}, err
	}

	summary := Cart{Items: items, ItemCount: len(items)}
	for _, it := range items {
		summary.TotalItems += it.Quantity
		summary.TotalAmount += it.Subtotal
	}
	return summary, nil
}

func (s *Service) Add(userID, productID, qty int) (Cart, error) {
	if qty < 1 {
		return Cart{}, ErrInvalidQuantity
	}
	if err := s.checkProduct(productID); err != nil {
		return Cart{}, err
	}
	if err := s.repo.Add(userID, productID, qty); err != nil {
		return Cart{}, err
	}
	return s.Get(userID)
}

func (s *Service) SetQuantity(userID, productID, qty int) (Cart, error) {
	if qty < 1 {
		return Cart{}, ErrInvalidQuantity
	}
	if err := s.repo.SetQuantity(userID, productID, qty); err != nil {
		return Cart{}, err
	}
	return s.Get(userID)
}

func (s *Service) Remove(userID, productID int) (Cart, error) {
	if err := s.repo.Remove(userID, productID); err != nil {
		return Cart{}, err
	}
	return s.Get(userID)
}

func (s *Service) Clear(userID int) error {
	return s.repo.Clear(userID)
}

func (s *Service) checkProduct(productID int) error {
	p, err := s.catalog.GetByID(productID)
	if err != nil {
		if err == product.ErrNotFound {
			return ErrProductUnavailable
		}
		return err
	}
	if !p.IsActive {
		return ErrProductUnavailable
	}
	return nil
}
