package inventory

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

var ErrUnknownProduct = errors.New("product not found")

// InsufficientStockError reports a reservation that would drive stock
// below zero. It carries the product identity and the shortfall so the
// caller can surface a useful message.
type InsufficientStockError struct {
	ProductID   int
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s. Available: %d, Requested: %d", e.ProductName, e.Available, e.Requested)
}

// Execer is satisfied by both *sql.DB and *sql.Tx, so the SQL ledger can
// run inside whichever transaction the caller owns.
type Execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

// SQLLedger mutates the products.stock counter. It is the only code in
// the repository allowed to do so. Reserve is a single conditional
// UPDATE, never a read followed by a write: two concurrent reservations
// for the last units must serialize at the row and exactly one wins.
type SQLLedger struct{}

const (
	reserveQuery = `UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1`
	releaseQuery = `UPDATE products SET stock = stock + $1 WHERE id = $2`
	shortfallQuery = `SELECT name, stock FROM products WHERE id = $1`
)

// Reserve decrements stock by qty, failing with InsufficientStockError
// when the counter cannot cover the request. The check and the
// decrement are one statement at the storage layer.
func (SQLLedger) Reserve(ex Execer, productID, qty int) error {
	res, err := ex.Exec(reserveQuery, qty, productID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// the conditional update matched nothing: either the product row is
	// gone or stock is short. Re-read only to build the error.
	var name string
	var stock int
	if err := ex.QueryRow(shortfallQuery, productID).Scan(&name, &stock); err != nil {
		if err == sql.ErrNoRows {
			return ErrUnknownProduct
		}
		return err
	}
	return &InsufficientStockError{ProductID: productID, ProductName: name, Available: stock, Requested: qty}
}

// Release puts qty units back. Used only by cancellation and rollback
// paths; it has no upper bound and cannot fail a business rule.
func (SQLLedger) Release(ex Execer, productID, qty int) error {
	res, err := ex.Exec(releaseQuery, qty, productID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUnknownProduct
	}
	return nil
}

// MemoryLedger is the in-memory counterpart used by tests and the dev
// server. The mutex gives the same all-or-nothing semantics as the
// conditional UPDATE.
type MemoryLedger struct {
	mu    sync.Mutex
	stock map[int]int
	names map[int]string
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{stock: make(map[int]int), names: make(map[int]string)}
}

func (l *MemoryLedger) Set(productID int, name string, qty int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stock[productID] = qty
	l.names[productID] = name
}

func (l *MemoryLedger) Stock(productID int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stock[productID]
}

func (l *MemoryLedger) Reserve(productID, qty int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	current, ok := l.stock[productID]
	if !ok {
		return ErrUnknownProduct
	}
	if current < qty {
		return &InsufficientStockError{ProductID: productID, ProductName: l.names[productID], Available: current, Requested: qty}
	}
	l.stock[productID] = current - qty
	return nil
}

func (l *MemoryLedger) Release(productID, qty int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.stock[productID]; !ok {
		return ErrUnknownProduct
	}
	l.stock[productID] += qty
	return nil
}
