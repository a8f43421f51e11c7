package cart

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

const (
	getItemsQuery = `
		SELECT ci.id, ci."productId", ci.quantity,
			p.name, p.description, p.price, p.stock, p."isActive", p."categoryId"
		FROM cart_items ci
		JOIN products p ON p.id = ci."productId"
		WHERE ci."userId" = $1
		ORDER BY ci.id
	`

	// one line per (userId, productId); repeat adds increment quantity
	upsertItemQuery = `
		INSERT INTO cart_items ("userId", "productId", quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT ("userId", "productId")
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`

	setQuantityQuery = `UPDATE cart_items SET quantity = $1 WHERE "userId" = $2 AND "productId" = $3`
	removeItemQuery  = `DELETE FROM cart_items WHERE "userId" = $1 AND "productId" = $2`
	clearCartQuery   = `DELETE FROM cart_items WHERE "userId" = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Items(userID int) ([]Item, error) {
	rows, err := r.db.Query(getItemsQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var it Item
		var desc sql.NullString
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Quantity,
			&it.Product.Name, &desc, &it.Product.Price, &it.Product.Stock, &it.Product.IsActive, &it.Product.CategoryID); err != nil {
			return nil, err
		}
		it.Product.ID = it.ProductID
		it.Product.Description = desc.String
		it.Subtotal = float64(it.Quantity) * it.Product.Price
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) Add(userID, productID, qty int) error {
	_, err := r.db.Exec(upsertItemQuery, userID, productID, qty)
	return err
}

func (r *PostgresRepository) SetQuantity(userID, productID, qty int) error {
	res, err := r.db.Exec(setQuantityQuery, qty, userID, productID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (r *PostgresRepository) Remove(userID, productID int) error {
	res, err := r.db.Exec(removeItemQuery, userID, productID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (r *PostgresRepository) Clear(userID int) error {
	_, err := r.db.Exec(clearCartQuery, userID)
	return err
}
