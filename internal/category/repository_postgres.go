package category

import (
	"database/sql"
	"errors"
	"time"
)

var ErrNotFound = errors.New("category not found")

type Repository interface {
	List() ([]Category, error)
	GetByID(id int) (Category, error)
	Create(c Category) (Category, error)
	Update(id int, c Category) (Category, error)
	Delete(id int) error
}

type PostgresRepository struct {
	db *sql.DB
}

const (
	listCategoriesQuery = `SELECT id, name, description, image, created_at, updated_at FROM categories ORDER BY id`
	getCategoryQuery    = `SELECT id, name, description, image, created_at, updated_at FROM categories WHERE id = $1`
	insertCategoryQuery = `
		INSERT INTO categories (name, description, image, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`
	updateCategoryQuery = `
		UPDATE categories
		SET name = $1, description = $2, image = $3, updated_at = $4
		WHERE id = $5
	`
	deleteCategoryQuery = `DELETE FROM categories WHERE id = $1`
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

	out := make([]Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (Category, error) {
	c, err := scanCategory(r.db.QueryRow(getCategoryQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return Category{}, ErrNotFound
		}
		return Category{}, err
	}
	return c, nil
}

func (r *PostgresRepository) Create(c Category) (Category, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	c.CreatedAt = now
	c.UpdatedAt = now
	err := r.db.QueryRow(insertCategoryQuery, c.Name, c.Description, c.Image, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		return Category{}, err
	}
	return c, nil
}

func (r *PostgresRepository) Update(id int, c Category) (Category, error) {
	c.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	res, err := r.db.Exec(updateCategoryQuery, c.Name, c.Description, c.Image, c.UpdatedAt, id)
	if err != nil {
		return Category{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Category{}, err
	}
	if n == 0 {
		return Category{}, ErrNotFound
	}
	c.ID = id
	return c, nil
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(deleteCategoryQuery, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (Category, error) {
	var (
		c           Category
		description sql.NullString
		image       sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &description, &image, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return Category{}, err
	}
	if description.Valid {
		c.Description = &description.String
	}
	if image.Valid {
		c.Image = &image.String
	}
	return c, nil
}
