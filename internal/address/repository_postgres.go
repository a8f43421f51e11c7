package address

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

const (
	addressColumns = `id, "userId", street, city, state, "zipCode", country, "isDefault"`

	listAddressesQuery = `SELECT ` + addressColumns + ` FROM addresses WHERE "userId" = $1 ORDER BY id`
	getAddressQuery    = `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1 AND "userId" = $2`

	insertAddressQuery = `
		INSERT INTO addresses ("userId", street, city, state, "zipCode", country, "isDefault")
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + addressColumns
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanAddress(row interface{ Scan(dest ...any) error }) (Address, error) {
	var a Address
	err := row.Scan(&a.ID, &a.UserID, &a.Street, &a.City, &a.State, &a.ZipCode, &a.Country, &a.IsDefault)
	return a, err
}

func (r *PostgresRepository) ListByUser(userID int) ([]Address, error) {
	rows, err := r.db.Query(listAddressesQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addresses := make([]Address, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

func (r *PostgresRepository) GetByID(userID, id int) (Address, error) {
	a, err := scanAddress(r.db.QueryRow(getAddressQuery, id, userID))
	if err == sql.ErrNoRows {
		return Address{}, ErrNotFound
	}
	return a, err
}

func (r *PostgresRepository) Create(a Address) (Address, error) {
	return scanAddress(r.db.QueryRow(insertAddressQuery, a.UserID, a.Street, a.City, a.State, a.ZipCode, a.Country, a.IsDefault))
}
