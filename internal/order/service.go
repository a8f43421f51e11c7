package order

import (
	"errors"
	"log"
	"time"

	"github.com/tahaql/ecommerce-api/internal/address"
	"github.com/tahaql/ecommerce-api/internal/cart"
	"github.com/tahaql/ecommerce-api/internal/event"
	"github.com/tahaql/ecommerce-api/internal/inventory"
	"github.com/tahaql/ecommerce-api/internal/product"
)

// placeAttempts bounds retries when a generated order number collides
// with an existing one.
const placeAttempts = 3

type CartReader interface {
	Items(userID int) ([]cart.Item, error)
}

type Catalog interface {
	GetByID(id int) (product.Product, error)
}

type AddressBook interface {
	Create(userID int, a address.Address) (address.Address, error)
}

type Service struct {
	repo      Repository
	carts     CartReader
	catalog   Catalog
	addresses AddressBook
	publisher event.Publisher
}

func NewService(repo Repository, carts CartReader, catalog Catalog, addresses AddressBook, publisher event.Publisher) *Service {
	return &Service{repo: repo, carts: carts, catalog: catalog, addresses: addresses, publisher: publisher}
}

type PlaceOrderInput struct {
	PaymentMethod     string
	ShippingAddressID *int
	ShippingAddress   *address.Address
	Notes             string
}

// PlaceOrder validates the cart, resolves the shipping address, then
// hands the atomic assembly to the repository. The stock checks here
// are advisory fast-fails for a good error message; stock may still
// change before the transaction runs, and the reservation inside it is
// what actually decides.
func (s *Service) PlaceOrder(userID int, in PlaceOrderInput) (Order, error) {
	if !ValidMethod(in.PaymentMethod) {
		return Order{}, ErrInvalidMethod
	}

	items, err := s.carts.Items(userID)
	if err != nil {
		return Order{}, err
	}
	if len(items) == 0 {
		return Order{}, ErrEmptyCart
	}

	for _, it := range items {
		p, err := s.catalog.GetByID(it.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return Order{}, &UnavailableProductError{ProductID: it.ProductID}
			}
			return Order{}, err
		}
		if !p.IsActive {
			return Order{}, &UnavailableProductError{ProductID: it.ProductID}
		}
		if p.Stock < it.Quantity {
			return Order{}, &inventory.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Available:   p.Stock,
				Requested:   it.Quantity,
			}
		}
	}

	// an inline address is created before the critical transaction; an
	// abandoned row on a later failure is harmless
	addressID := in.ShippingAddressID
	if addressID == nil && in.ShippingAddress != nil {
		created, err := s.addresses.Create(userID, *in.ShippingAddress)
		if err != nil {
			return Order{}, err
		}
		addressID = &created.ID
	}

	var ord Order
	for attempt := 0; attempt < placeAttempts; attempt++ {
		ord, err = s.repo.Place(userID, NewOrderNumber(), in.PaymentMethod, addressID, in.Notes)
		if errors.Is(err, ErrNumberTaken) {
			continue
		}
		break
	}
	if err != nil {
		return Order{}, err
	}

	s.publish("order.created", ord)
	return ord, nil
}

func (s *Service) GetByID(orderID, userID int) (Order, error) {
	if orderID <= 0 {
		return Order{}, ErrNotFound
	}
	return s.repo.GetByID(orderID, userID)
}

func (s *Service) List(p ListParams) ([]Order, Pagination, error) {
	p.normalize()
	orders, total, err := s.repo.List(p)
	if err != nil {
		return nil, Pagination{}, err
	}

	totalPages := (total + p.Limit - 1) / p.Limit
	return orders, Pagination{
		CurrentPage:  p.Page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: p.Limit,
		HasNext:      p.Page < totalPages,
		HasPrev:      p.Page > 1,
	}, nil
}

func (s *Service) Cancel(orderID, userID int) (Order, error) {
	if orderID <= 0 {
		return Order{}, ErrNotFound
	}
	ord, err := s.repo.Cancel(orderID, userID)
	if err != nil {
		return Order{}, err
	}

	s.publish("order.cancelled", ord)
	return ord, nil
}

// UpdateStatus applies an administrative status override. The value is
// validated against the enumeration but not the transition table, and
// inventory is never touched: only Cancel releases stock.
func (s *Service) UpdateStatus(orderID int, rawStatus string) (Order, error) {
	status, ok := ParseStatus(rawStatus)
	if !ok {
		return Order{}, ErrInvalidStatus
	}
	return s.repo.UpdateStatus(orderID, status)
}

type lifecycleEvent struct {
	OrderID     int       `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	UserID      int       `json:"userId"`
	Status      Status    `json:"status"`
	TotalAmount float64   `json:"totalAmount"`
	OccurredAt  time.Time `json:"occurredAt"`
}

func (s *Service) publish(routingKey string, ord Order) {
	evt := lifecycleEvent{
		OrderID:     ord.ID,
		OrderNumber: ord.OrderNumber,
		UserID:      ord.UserID,
		Status:      ord.Status,
		TotalAmount: ord.TotalAmount,
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.publisher.Publish(routingKey, evt); err != nil {
		log.Printf("order: publish %s for order %d failed: %v", routingKey, ord.ID, err)
	}
}
