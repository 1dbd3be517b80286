package brand

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
)

var (
	ErrNotFound   = errors.New("brand not found")
	ErrNameExists = errors.New("brand name already taken")
)

type Repository interface {
	List() ([]Brand, error)
	ListFeatured() ([]Brand, error)
	GetByID(id int) (Brand, error)
	Create(b Brand) (Brand, error)
	Update(id int, b Brand) (Brand, error)
	Delete(id int) error
}

type PostgresRepository struct {
	db *sql.DB
}

const (
	brandColumns = `id, name, slug, description, logo, is_featured, status, created_at, updated_at`

	listBrandsQuery = `SELECT ` + brandColumns + ` FROM brands ORDER BY id`

	listFeaturedBrandsQuery = `
		SELECT ` + brandColumns + `
		FROM brands
		WHERE is_featured = TRUE AND status = 'active'
		ORDER BY id
	`
	getBrandQuery = `SELECT ` + brandColumns + ` FROM brands WHERE id = $1`

	insertBrandQuery = `
		INSERT INTO brands (name, slug, description, logo, is_featured, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`
	updateBrandQuery = `
		UPDATE brands
		SET name = $1, slug = $2, description = $3, logo = $4, is_featured = $5, status = $6, updated_at = $7
		WHERE id = $8
	`
	deleteBrandQuery = `DELETE FROM brands WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() ([]Brand, error) {
	return r.queryBrands(listBrandsQuery)
}

func (r *PostgresRepository) ListFeatured() ([]Brand, error) {
	return r.queryBrands(listFeaturedBrandsQuery)
}

func (r *PostgresRepository) queryBrands(query string, args ...any) ([]Brand, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Brand, 0)
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (Brand, error) {
	b, err := scanBrand(r.db.QueryRow(getBrandQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return Brand{}, ErrNotFound
		}
		return Brand{}, err
	}
	return b, nil
}

func (r *PostgresRepository) Create(b Brand) (Brand, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	b.CreatedAt = now
	b.UpdatedAt = now
	err := r.db.QueryRow(insertBrandQuery,
		b.Name, b.Slug, b.Description, b.Logo, b.IsFeatured, b.Status, b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return Brand{}, ErrNameExists
		}
		return Brand{}, err
	}
	return b, nil
}

func (r *PostgresRepository) Update(id int, b Brand) (Brand, error) {
	b.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	res, err := r.db.Exec(updateBrandQuery,
		b.Name, b.Slug, b.Description, b.Logo, b.IsFeatured, b.Status, b.UpdatedAt, id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return Brand{}, ErrNameExists
		}
		return Brand{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Brand{}, err
	}
	if n == 0 {
		return Brand{}, ErrNotFound
	}
	b.ID = id
	return b, nil
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(deleteBrandQuery, id)
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

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBrand(row rowScanner) (Brand, error) {
	var (
		b           Brand
		description sql.NullString
		logo        sql.NullString
	)
	err := row.Scan(&b.ID, &b.Name, &b.Slug, &description, &logo, &b.IsFeatured, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return Brand{}, err
	}
	if description.Valid {
		b.Description = &description.String
	}
	if logo.Valid {
		b.Logo = &logo.String
	}
	return b, nil
}
