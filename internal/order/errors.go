package order

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart = errors.New("Cart is empty")
	// ErrNotFound covers both absent orders and orders owned by someone
	// else; callers must not be able to tell the two apart.
	ErrNotFound = errors.New("Order not found")
	// ErrNumberTaken signals an orderNumber unique-key collision. The
	// transaction already rolled back; the service retries with a fresh
	// number.
	ErrNumberTaken   = errors.New("order number already taken")
	ErrInvalidMethod = errors.New("unsupported payment method")
	ErrInvalidStatus = errors.New("unknown order status")
)

// UnavailableProductError reports a cart line pointing at a product
// that does not exist or is inactive.
type UnavailableProductError struct {
	ProductID int
}

func (e *UnavailableProductError) Error() string {
	return fmt.Sprintf("Product not found or inactive: %d", e.ProductID)
}

// TransitionError reports a lifecycle move the transition table does
// not allow.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}
