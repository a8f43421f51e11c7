package order

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/tahaql/ecommerce-api/internal/inventory"
)

type PostgresRepository struct {
	db     *sql.DB
	ledger inventory.SQLLedger
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const (
	orderColumns = `id, "orderNumber", "userId", status, "totalAmount", "addressId", notes, "createdAt", "updatedAt"`

	// ORDER BY keeps the row lock order deterministic when two
	// checkouts share products, so they cannot deadlock each other.
	cartLinesForUpdateQuery = `SELECT "productId", quantity FROM cart_items WHERE "userId" = $1 ORDER BY "productId"`

	productSnapshotQuery = `SELECT name, price, "isActive" FROM products WHERE id = $1`

	insertOrderQuery = `
		INSERT INTO orders ("orderNumber", "userId", status, "totalAmount", "addressId", notes, "createdAt", "updatedAt")
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING id`

	insertLineQuery = `
		INSERT INTO order_items ("orderId", "productId", quantity, price)
		VALUES ($1, $2, $3, $4)`

	insertPaymentQuery = `
		INSERT INTO payments ("orderId", amount, method, status, "transactionId", "createdAt")
		VALUES ($1, $2, $3, $4, $5, now())`

	clearCartQuery = `DELETE FROM cart_items WHERE "userId" = $1`

	getOrderQuery      = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	getOwnedOrderQuery = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND "userId" = $2`

	lockOrderQuery = `SELECT status FROM orders WHERE id = $1 AND "userId" = $2 FOR UPDATE`

	cancelOrderQuery   = `UPDATE orders SET status = $1, "updatedAt" = now() WHERE id = $2`
	orderLinesQuery    = `SELECT "productId", quantity FROM order_items WHERE "orderId" = $1`
	refundPaymentsQuery = `UPDATE payments SET status = $1 WHERE "orderId" = $2`

	updateStatusQuery = `UPDATE orders SET status = $1, "updatedAt" = now() WHERE id = $2`

	hydrateLinesQuery = `
		SELECT oi.id, oi."orderId", oi."productId", p.name, oi.quantity, oi.price
		FROM order_items oi
		JOIN products p ON p.id = oi."productId"
		WHERE oi."orderId" = ANY($1::int[])
		ORDER BY oi.id`

	hydratePaymentsQuery = `
		SELECT id, "orderId", amount, method, status, "transactionId", "createdAt"
		FROM payments
		WHERE "orderId" = ANY($1::int[])
		ORDER BY id`
)

// sortColumns maps the allow-listed sort keys onto column expressions.
// User input never reaches the ORDER BY clause directly.
var sortColumns = map[string]string{
	"createdAt": `"createdAt"`,
	"updatedAt": `"updatedAt"`,
	"status":    `status`,
}

// Place runs the whole checkout in one transaction: order row, line
// snapshots, stock reservations, payment row and cart clearing either
// all commit or none do. The advisory stock check the service performed
// beforehand does not count; the conditional decrement inside this
// transaction is the authoritative one.
func (r *PostgresRepository) Place(userID int, number, method string, addressID *int, notes string) (Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback()

	rows, err := tx.Query(cartLinesForUpdateQuery, userID)
	if err != nil {
		return Order{}, err
	}
	type cartLine struct{ productID, quantity int }
	lines := make([]cartLine, 0)
	for rows.Next() {
		var l cartLine
		if err := rows.Scan(&l.productID, &l.quantity); err != nil {
			rows.Close()
			return Order{}, err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Order{}, err
	}
	if len(lines) == 0 {
		return Order{}, ErrEmptyCart
	}

	type snapshot struct {
		name  string
		price float64
	}
	snapshots := make([]snapshot, len(lines))
	var total float64
	for i, l := range lines {
		var s snapshot
		var active bool
		err := tx.QueryRow(productSnapshotQuery, l.productID).Scan(&s.name, &s.price, &active)
		if err == sql.ErrNoRows {
			return Order{}, &UnavailableProductError{ProductID: l.productID}
		}
		if err != nil {
			return Order{}, err
		}
		if !active {
			return Order{}, &UnavailableProductError{ProductID: l.productID}
		}
		snapshots[i] = s
		total += float64(l.quantity) * s.price
	}

	var orderID int
	var addressArg any
	if addressID != nil {
		addressArg = *addressID
	}
	err = tx.QueryRow(insertOrderQuery, number, userID, StatusPending, total, addressArg, nullable(notes)).Scan(&orderID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Order{}, ErrNumberTaken
		}
		return Order{}, err
	}

	for i, l := range lines {
		if _, err := tx.Exec(insertLineQuery, orderID, l.productID, l.quantity, snapshots[i].price); err != nil {
			return Order{}, err
		}
		if err := r.ledger.Reserve(tx, l.productID, l.quantity); err != nil {
			return Order{}, err
		}
	}

	if _, err := tx.Exec(insertPaymentQuery, orderID, total, method, PaymentPending, uuid.NewString()); err != nil {
		return Order{}, err
	}
	if _, err := tx.Exec(clearCartQuery, userID); err != nil {
		return Order{}, err
	}

	if err := tx.Commit(); err != nil {
		return Order{}, err
	}
	return r.GetByID(orderID, userID)
}

func (r *PostgresRepository) GetByID(id, userID int) (Order, error) {
	var row *sql.Row
	if userID > 0 {
		row = r.db.QueryRow(getOwnedOrderQuery, id, userID)
	} else {
		row = r.db.QueryRow(getOrderQuery, id)
	}

	ord, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}

	hydrated, err := r.hydrate([]Order{ord})
	if err != nil {
		return Order{}, err
	}
	return hydrated[0], nil
}

func (r *PostgresRepository) List(p ListParams) ([]Order, int, error) {
	p.normalize()

	where := ""
	args := make([]any, 0, 2)
	appendCond := func(cond string, arg any) {
		args = append(args, arg)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(cond, len(args))
	}
	if p.UserID != nil {
		appendCond(`"userId" = $%d`, *p.UserID)
	}
	if p.Status != nil {
		appendCond(`status = $%d`, *p.Status)
	}

	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	direction := "DESC"
	if p.SortOrder == "asc" {
		direction = "ASC"
	}
	query := fmt.Sprintf(`SELECT %s FROM orders%s ORDER BY %s %s LIMIT %d OFFSET %d`,
		orderColumns, where, sortColumns[p.SortBy], direction, p.Limit, (p.Page-1)*p.Limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, ord)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	hydrated, err := r.hydrate(orders)
	if err != nil {
		return nil, 0, err
	}
	return hydrated, total, nil
}

// Cancel re-reads the status under a row lock inside its own
// transaction, so a racing admin update cannot be lost and the
// transition guard never trusts a stale read.
func (r *PostgresRepository) Cancel(orderID, userID int) (Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback()

	var current Status
	err = tx.QueryRow(lockOrderQuery, orderID, userID).Scan(&current)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	if !current.Cancellable() {
		return Order{}, &TransitionError{From: current, To: StatusCancelled}
	}

	if _, err := tx.Exec(cancelOrderQuery, StatusCancelled, orderID); err != nil {
		return Order{}, err
	}

	rows, err := tx.Query(orderLinesQuery, orderID)
	if err != nil {
		return Order{}, err
	}
	type restock struct{ productID, quantity int }
	restocks := make([]restock, 0)
	for rows.Next() {
		var rs restock
		if err := rows.Scan(&rs.productID, &rs.quantity); err != nil {
			rows.Close()
			return Order{}, err
		}
		restocks = append(restocks, rs)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Order{}, err
	}

	for _, rs := range restocks {
		if err := r.ledger.Release(tx, rs.productID, rs.quantity); err != nil {
			return Order{}, err
		}
	}

	if _, err := tx.Exec(refundPaymentsQuery, PaymentRefunded, orderID); err != nil {
		return Order{}, err
	}

	if err := tx.Commit(); err != nil {
		return Order{}, err
	}
	return r.GetByID(orderID, userID)
}

// UpdateStatus is the administrative override. It deliberately skips
// the transition table and never touches inventory; only Cancel
// restores stock.
func (r *PostgresRepository) UpdateStatus(orderID int, status Status) (Order, error) {
	res, err := r.db.Exec(updateStatusQuery, status, orderID)
	if err != nil {
		return Order{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Order{}, err
	}
	if affected == 0 {
		return Order{}, ErrNotFound
	}
	return r.GetByID(orderID, 0)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var ord Order
	var notes sql.NullString
	err := row.Scan(&ord.ID, &ord.OrderNumber, &ord.UserID, &ord.Status, &ord.TotalAmount,
		&ord.AddressID, &notes, &ord.CreatedAt, &ord.UpdatedAt)
	if err != nil {
		return Order{}, err
	}
	ord.Notes = notes.String
	return ord, nil
}

// hydrate attaches lines and payments to the given orders with two
// batched queries instead of one pair per order.
func (r *PostgresRepository) hydrate(orders []Order) ([]Order, error) {
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]int, len(orders))
	index := make(map[int]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
		orders[i].Lines = make([]Line, 0)
		orders[i].Payments = make([]Payment, 0)
	}

	lineRows, err := r.db.Query(hydrateLinesQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer lineRows.Close()
	for lineRows.Next() {
		var l Line
		if err := lineRows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, err
		}
		l.Subtotal = float64(l.Quantity) * l.UnitPrice
		i := index[l.OrderID]
		orders[i].Lines = append(orders[i].Lines, l)
	}
	if err := lineRows.Err(); err != nil {
		return nil, err
	}

	payRows, err := r.db.Query(hydratePaymentsQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer payRows.Close()
	for payRows.Next() {
		var p Payment
		if err := payRows.Scan(&p.ID, &p.OrderID, &p.Amount, &p.Method, &p.Status, &p.TransactionID, &p.CreatedAt); err != nil {
			return nil, err
		}
		i := index[p.OrderID]
		orders[i].Payments = append(orders[i].Payments, p)
	}
	return orders, payRows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
