package product

import "errors"

var ErrInvalidProduct = errors.New("name is required, price and stock must be non-negative")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(activeOnly bool) ([]Product, error) {
	return s.repo.List(activeOnly)
}

func (s *Service) GetByID(id int) (Product, error) {
	if id <= 0 {
		return Product{}, ErrNotFound
	}
	return s.repo.GetByID(id)
}

func (s *Service) Create(p Product) (Product, error) {
	if p.Name == "" || p.Price < 0 || p.Stock < 0 {
		return Product{}, ErrInvalidProduct
	}
	return s.repo.Create(p)
}

func (s *Service) Update(id int, p Product) (Product, error) {
	if id <= 0 {
		return Product{}, ErrNotFound
	}
	if p.Name == "" || p.Price < 0 || p.Stock < 0 {
		return Product{}, ErrInvalidProduct
	}
	return s.repo.Update(id, p)
}
