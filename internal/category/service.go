package category

import "errors"

var ErrNameRequired = errors.New("category name is required")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List() ([]Category, error) {
	return s.repo.List()
}

func (s *Service) Create(c Category) (Category, error) {
	if c.Name == "" {
		return Category{}, ErrNameRequired
	}
	return s.repo.Create(c)
}
