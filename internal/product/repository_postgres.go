package product

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	productColumns = `id, name, description, price, stock, "isActive", "categoryId", "createdAt", "updatedAt"`

	listProductsQuery       = `SELECT ` + productColumns + ` FROM products ORDER BY id`
	listActiveProductsQuery = `SELECT ` + productColumns + ` FROM products WHERE "isActive" ORDER BY id`
	getProductByIDQuery     = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	insertProductQuery = `
		INSERT INTO products (name, description, price, stock, "isActive", "categoryId", "createdAt", "updatedAt")
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING ` + productColumns

	updateProductQuery = `
		UPDATE products
		SET name = $1,
			description = $2,
			price = $3,
			stock = $4,
			"isActive" = $5,
			"categoryId" = $6,
			"updatedAt" = now()
		WHERE id = $7
		RETURNING ` + productColumns
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	var desc sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &desc, &p.Price, &p.Stock, &p.IsActive, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Product{}, err
	}
	p.Description = desc.String
	return p, nil
}

func (r *PostgresRepository) List(activeOnly bool) ([]Product, error) {
	query := listProductsQuery
	if activeOnly {
		query = listActiveProductsQuery
	}

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(getProductByIDQuery, id))
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	return scanProduct(r.db.QueryRow(insertProductQuery, p.Name, nullable(p.Description), p.Price, p.Stock, p.IsActive, p.CategoryID))
}

func (r *PostgresRepository) Update(id int, p Product) (Product, error) {
	updated, err := scanProduct(r.db.QueryRow(updateProductQuery, p.Name, nullable(p.Description), p.Price, p.Stock, p.IsActive, p.CategoryID, id))
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	return updated, err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
