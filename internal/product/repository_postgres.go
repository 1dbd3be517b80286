package product

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	productColumns = `id, name, description, price, stock, category_id, brand_id, image, featured, coming_soon, created_at, updated_at`

	getProductByIDQuery = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	listFeaturedQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE featured = TRUE OR coming_soon = TRUE
		ORDER BY created_at DESC
	`
	listByIDsQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = ANY($1::int[])
		ORDER BY array_position($1::int[], id)
	`
	insertProductQuery = `
		INSERT INTO products (name, description, price, stock, category_id, brand_id, image, featured, coming_soon, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id
	`
	updateProductQuery = `
		UPDATE products
		SET name = $1,
			description = $2,
			price = $3,
			stock = $4,
			category_id = $5,
			brand_id = $6,
			image = $7,
			featured = $8,
			coming_soon = $9,
			updated_at = $10
		WHERE id = $11
	`
	deleteProductQuery = `DELETE FROM products WHERE id = $1`
)

// sortColumns whitelists what sort_by may reference.
var sortColumns = map[string]string{
	"name":       "name",
	"price":      "price",
	"stock":      "stock",
	"created_at": "created_at",
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(opts ListOptions) (Page, error) {
	where := "TRUE"
	args := []any{}
	if opts.Featured {
		where += " AND featured = TRUE"
	}
	if opts.Upcoming {
		where += " AND coming_soon = TRUE"
	}
	if opts.CategoryID > 0 {
		args = append(args, opts.CategoryID)
		where += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if opts.BrandID > 0 {
		args = append(args, opts.BrandID)
		where += fmt.Sprintf(" AND brand_id = $%d", len(args))
	}
	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		where += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}

	sortBy, ok := sortColumns[opts.SortBy]
	if !ok {
		sortBy = "created_at"
	}
	dir := "DESC"
	if opts.SortDir == "asc" {
		dir = "ASC"
	}

	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = 15
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM products WHERE " + where
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return Page{}, err
	}

	args = append(args, perPage, (page-1)*perPage)
	listQuery := fmt.Sprintf(
		"SELECT %s FROM products WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		productColumns, where, sortBy, dir, len(args)-1, len(args),
	)
	rows, err := r.db.Query(listQuery, args...)
	if err != nil {
		return Page{}, err
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return Page{}, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return Page{}, err
	}

	return Page{
		Data:        out,
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
		LastPage:    (total + perPage - 1) / perPage,
	}, nil
}

func (r *PostgresRepository) ListFeatured() ([]Product, error) {
	return r.queryProducts(listFeaturedQuery)
}

func (r *PostgresRepository) ListByIDs(ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	return r.queryProducts(listByIDsQuery, pq.Array(ids))
}

func (r *PostgresRepository) queryProducts(query string, args ...any) ([]Product, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	row := r.db.QueryRow(getProductByIDQuery, id)
	p, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	p.CreatedAt = now
	p.UpdatedAt = now
	err := r.db.QueryRow(insertProductQuery,
		p.Name, p.Description, p.Price, p.Stock, p.CategoryID, p.BrandID,
		p.Image, p.Featured, p.ComingSoon, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Update(id int, p Product) (Product, error) {
	p.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	res, err := r.db.Exec(updateProductQuery,
		p.Name, p.Description, p.Price, p.Stock, p.CategoryID, p.BrandID,
		p.Image, p.Featured, p.ComingSoon, p.UpdatedAt, id,
	)
	if err != nil {
		return Product{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Product{}, err
	}
	if n == 0 {
		return Product{}, ErrNotFound
	}
	p.ID = id
	return p, nil
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(deleteProductQuery, id)
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

func scanProduct(row rowScanner) (Product, error) {
	var (
		p       Product
		brandID sql.NullInt64
		image   sql.NullString
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock,
		&p.CategoryID, &brandID, &image, &p.Featured, &p.ComingSoon,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	if brandID.Valid {
		v := int(brandID.Int64)
		p.BrandID = &v
	}
	if image.Valid {
		p.Image = &image.String
	}
	return p, nil
}
