package order

import "time"

// Status is the order lifecycle state. Forward transitions follow the
// fulfillment path; CANCELLED is reachable only before fulfillment
// starts. DELIVERED and CANCELLED are terminal.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// transitions is the single place the lifecycle rules live. Cancellation
// is the only transition with an inventory side effect (stock release);
// forward transitions assume fulfillment already consumed the
// reservation made at checkout.
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func ParseStatus(s string) (Status, bool) {
	status := Status(s)
	_, ok := transitions[status]
	return status, ok
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

func (s Status) Cancellable() bool {
	return s.CanTransitionTo(StatusCancelled)
}

func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// Payment method tags accepted at checkout.
const (
	MethodCreditCard = "CREDIT_CARD"
	MethodDebitCard  = "DEBIT_CARD"
	MethodPaypal     = "PAYPAL"
	MethodStripe     = "STRIPE"
)

func ValidMethod(m string) bool {
	switch m {
	case MethodCreditCard, MethodDebitCard, MethodPaypal, MethodStripe:
		return true
	}
	return false
}

// Payment statuses. A payment is a passive ledger row: it is created
// PENDING with the order and flips to REFUNDED when the order is
// cancelled.
const (
	PaymentPending  = "PENDING"
	PaymentRefunded = "REFUNDED"
)

// Order is immutable after creation except for Status and UpdatedAt.
// TotalAmount is frozen at checkout and never recomputed from current
// product prices.
type Order struct {
	ID          int       `json:"id"`
	OrderNumber string    `json:"orderNumber"`
	UserID      int       `json:"userId"`
	Status      Status    `json:"status"`
	TotalAmount float64   `json:"totalAmount"`
	AddressID   *int      `json:"addressId,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Lines       []Line    `json:"orderItems"`
	Payments    []Payment `json:"payments"`
}

// Line is a frozen snapshot of one cart line. UnitPrice is the
// product's price at checkout time and never changes afterwards.
type Line struct {
	ID          int     `json:"id"`
	OrderID     int     `json:"orderId"`
	ProductID   int     `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"price"`
	Subtotal    float64 `json:"subtotal"`
}

type Payment struct {
	ID            int       `json:"id"`
	OrderID       int       `json:"orderId"`
	Amount        float64   `json:"amount"`
	Method        string    `json:"method"`
	Status        string    `json:"status"`
	TransactionID *string   `json:"transactionId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
