package address

import "errors"

var ErrIncomplete = errors.New("street, city, zipCode and country are required")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListByUser(userID int) ([]Address, error) {
	if userID <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.ListByUser(userID)
}

func (s *Service) GetByID(userID, id int) (Address, error) {
	if userID <= 0 || id <= 0 {
		return Address{}, ErrNotFound
	}
	return s.repo.GetByID(userID, id)
}

func (s *Service) Create(userID int, a Address) (Address, error) {
	if userID <= 0 {
		return Address{}, ErrNotFound
	}
	if a.Street == "" || a.City == "" || a.ZipCode == "" || a.Country == "" {
		return Address{}, ErrIncomplete
	}
	a.UserID = userID
	return s.repo.Create(a)
}
