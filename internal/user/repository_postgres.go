package user

import (
	"database/sql"
	"time"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	userColumns = `id, email, password, first_name, last_name, phone, role, address, city, country, postal_code, created_at, updated_at`

	getUserByIDQuery    = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	getUserByEmailQuery = `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	insertUserQuery = `
		INSERT INTO users (email, password, first_name, last_name, phone, role, address, city, country, postal_code, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id
	`
	updateUserQuery = `
		UPDATE users
		SET email = $1,
			first_name = $2,
			last_name = $3,
			phone = $4,
			role = $5,
			address = $6,
			city = $7,
			country = $8,
			postal_code = $9,
			updated_at = $10
		WHERE id = $11
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	return scanUser(r.db.QueryRow(getUserByIDQuery, id))
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	return scanUser(r.db.QueryRow(getUserByEmailQuery, email))
}

func (r *PostgresRepository) Create(u User) (User, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Role == "" {
		u.Role = RoleClient
	}
	err := r.db.QueryRow(insertUserQuery,
		u.Email, u.Password, u.FirstName, u.LastName, u.Phone, u.Role,
		u.Address, u.City, u.Country, u.PostalCode, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) Update(id int, u User) (User, error) {
	u.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	res, err := r.db.Exec(updateUserQuery,
		u.Email, u.FirstName, u.LastName, u.Phone, u.Role,
		u.Address, u.City, u.Country, u.PostalCode, u.UpdatedAt, id,
	)
	if err != nil {
		return User{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return User{}, err
	}
	if n == 0 {
		return User{}, ErrNotFound
	}
	u.ID = id
	return u, nil
}

func scanUser(row *sql.Row) (User, error) {
	var (
		u          User
		address    sql.NullString
		city       sql.NullString
		country    sql.NullString
		postalCode sql.NullString
	)
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName,
		&u.Phone, &u.Role, &address, &city, &country, &postalCode,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if address.Valid {
		u.Address = &address.String
	}
	if city.Valid {
		u.City = &city.String
	}
	if country.Valid {
		u.Country = &country.String
	}
	if postalCode.Valid {
		u.PostalCode = &postalCode.String
	}
	return u, nil
}
