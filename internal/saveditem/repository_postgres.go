package saveditem

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/mbognou/shop-backend/internal/product"
)

var ErrNotFound = errors.New("item not found in favorites")

type Repository interface {
	// ListProducts returns the products the user has saved, in save order.
	ListProducts(userID int) ([]product.Product, error)
	// Save is idempotent: saving an already-saved product is a no-op.
	Save(userID, productID int) error
	Remove(userID, productID int) error
}

type PostgresRepository struct {
	db *sql.DB
}

const (
	listSavedProductIDsQuery = `SELECT product_id FROM saved_items WHERE user_id = $1 ORDER BY id`
	listSavedProductsQuery   = `
		SELECT id, name, description, price, stock, category_id, brand_id, image, featured, coming_soon, created_at, updated_at
		FROM products
		WHERE id = ANY($1::int[])
		ORDER BY array_position($1::int[], id)
	`
	saveItemQuery = `
		INSERT INTO saved_items (user_id, product_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id) DO NOTHING
	`
	removeItemQuery = `DELETE FROM saved_items WHERE user_id = $1 AND product_id = $2`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListProducts(userID int) ([]product.Product, error) {
	rows, err := r.db.Query(listSavedProductIDsQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []product.Product{}, nil
	}

	prodRows, err := r.db.Query(listSavedProductsQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer prodRows.Close()

	out := make([]product.Product, 0, len(ids))
	for prodRows.Next() {
		var (
			p       product.Product
			brandID sql.NullInt64
			image   sql.NullString
		)
		err := prodRows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock,
			&p.CategoryID, &brandID, &image, &p.Featured, &p.ComingSoon,
			&p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if brandID.Valid {
			v := int(brandID.Int64)
			p.BrandID = &v
		}
		if image.Valid {
			p.Image = &image.String
		}
		out = append(out, p)
	}
	return out, prodRows.Err()
}

func (r *PostgresRepository) Save(userID, productID int) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := r.db.Exec(saveItemQuery, userID, productID, now)
	return err
}

func (r *PostgresRepository) Remove(userID, productID int) error {
	res, err := r.db.Exec(removeItemQuery, userID, productID)
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
