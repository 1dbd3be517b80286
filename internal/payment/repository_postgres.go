package payment

import (
	"database/sql"
	"time"

	"github.com/mbognou/shop-backend/internal/order"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	insertPaymentQuery = `
		INSERT INTO payments (order_id, user_id, payment_method, payment_details, amount, transaction_id, status, is_default, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id
	`
	listPaymentsByUserQuery = `
		SELECT p.id, p.order_id, p.user_id, p.payment_method, p.payment_details, p.amount, p.transaction_id, p.status, p.is_default, p.created_at,
		       o.id, o.user_id, o.total, o.status, o.shipping_address, o.payment_method, o.created_at, o.updated_at
		FROM payments p
		JOIN orders o ON o.id = p.order_id
		WHERE o.user_id = $1
		ORDER BY p.created_at DESC
	`
	listAllPaymentsQuery = `
		SELECT p.id, p.order_id, p.user_id, p.payment_method, p.payment_details, p.amount, p.transaction_id, p.status, p.is_default, p.created_at,
		       o.id, o.user_id, o.total, o.status, o.shipping_address, o.payment_method, o.created_at, o.updated_at
		FROM payments p
		JOIN orders o ON o.id = p.order_id
		ORDER BY p.created_at DESC
	`
	listMethodsQuery = `
		SELECT id, order_id, user_id, payment_method, payment_details, amount, transaction_id, status, is_default, created_at
		FROM payments
		WHERE user_id = $1 AND order_id IS NULL
		ORDER BY is_default DESC, id
	`
	clearDefaultQuery  = `UPDATE payments SET is_default = FALSE WHERE user_id = $1 AND order_id IS NULL`
	setDefaultQuery    = `UPDATE payments SET is_default = TRUE WHERE id = $1 AND user_id = $2 AND order_id IS NULL`
	deleteMethodQuery  = `DELETE FROM payments WHERE id = $1 AND user_id = $2 AND order_id IS NULL`
	insertMethodQuery  = `
		INSERT INTO payments (user_id, payment_method, payment_details, amount, transaction_id, status, is_default, created_at)
		VALUES ($1,$2,$3,0,'',$4,$5,$6)
		RETURNING id
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateForOrder(p Payment) (Payment, error) {
	p.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	err := r.db.QueryRow(insertPaymentQuery,
		p.OrderID, p.UserID, p.Method, p.Details, p.Amount, p.TransactionID, p.Status, p.IsDefault, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return Payment{}, err
	}
	return p, nil
}

func (r *PostgresRepository) ListByUser(userID int) ([]Payment, error) {
	return r.queryPaymentsWithOrder(listPaymentsByUserQuery, userID)
}

func (r *PostgresRepository) ListAll() ([]Payment, error) {
	return r.queryPaymentsWithOrder(listAllPaymentsQuery)
}

func (r *PostgresRepository) queryPaymentsWithOrder(query string, args ...any) ([]Payment, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows, true)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ListMethods(userID int) ([]Payment, error) {
	rows, err := r.db.Query(listMethodsQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows, false)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) AddMethod(p Payment) (Payment, error) {
	p.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	tx, err := r.db.Begin()
	if err != nil {
		return Payment{}, err
	}
	defer tx.Rollback()

	if p.IsDefault {
		if _, err := tx.Exec(clearDefaultQuery, p.UserID); err != nil {
			return Payment{}, err
		}
	}
	err = tx.QueryRow(insertMethodQuery, p.UserID, p.Method, p.Details, p.Status, p.IsDefault, p.CreatedAt).Scan(&p.ID)
	if err != nil {
		return Payment{}, err
	}
	if err := tx.Commit(); err != nil {
		return Payment{}, err
	}
	return p, nil
}

func (r *PostgresRepository) RemoveMethod(userID, id int) error {
	res, err := r.db.Exec(deleteMethodQuery, id, userID)
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

func (r *PostgresRepository) SetDefault(userID, id int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(clearDefaultQuery, userID); err != nil {
		return err
	}
	res, err := tx.Exec(setDefaultQuery, id, userID)
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
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner, withOrder bool) (Payment, error) {
	var (
		p       Payment
		orderID sql.NullInt64
		userID  sql.NullInt64
		details sql.NullString
	)
	dest := []any{&p.ID, &orderID, &userID, &p.Method, &details, &p.Amount, &p.TransactionID, &p.Status, &p.IsDefault, &p.CreatedAt}

	var ord order.Order
	if withOrder {
		dest = append(dest, &ord.ID, &ord.UserID, &ord.Total, &ord.Status,
			&ord.ShippingAddress, &ord.PaymentMethod, &ord.CreatedAt, &ord.UpdatedAt)
	}
	if err := row.Scan(dest...); err != nil {
		return Payment{}, err
	}
	if orderID.Valid {
		v := int(orderID.Int64)
		p.OrderID = &v
	}
	if userID.Valid {
		v := int(userID.Int64)
		p.UserID = &v
	}
	if details.Valid {
		p.Details = &details.String
	}
	if withOrder {
		p.Order = &ord
	}
	return p, nil
}
