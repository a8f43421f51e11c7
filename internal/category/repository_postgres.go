package category

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	listCategoriesQuery = `SELECT id, name, description FROM categories ORDER BY name`
	insertCategoryQuery = `INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id, name, description`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() ([]Category, error) {
	rows, err := r.db.Query(listCategoriesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]Category, 0)
	for rows.Next() {
		var c Category
		var desc sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &desc); err != nil {
			return nil, err
		}
		c.Description = desc.String
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PostgresRepository) Create(c Category) (Category, error) {
	var desc sql.NullString
	err := r.db.QueryRow(insertCategoryQuery, c.Name, nullable(c.Description)).Scan(&c.ID, &c.Name, &desc)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Category{}, ErrNameExists
		}
		return Category{}, err
	}
	c.Description = desc.String
	return c, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
