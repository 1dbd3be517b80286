package product

import "database/sql"

// Execer is satisfied by both *sql.DB and *sql.Tx so the ledger can run
// inside the checkout and cancellation transactions.
type Execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

const (
	decrementStockQuery = `
		UPDATE products
		SET stock = stock - $2, updated_at = $3
		WHERE id = $1 AND stock >= $2
	`
	incrementStockQuery = `
		UPDATE products
		SET stock = stock + $2, updated_at = $3
		WHERE id = $1
	`
	stockByIDQuery = `SELECT name, stock FROM products WHERE id = $1`
)

// DecrementStock subtracts qty from the product's stock. The WHERE guard
// makes the check and the write a single statement, so stock can never go
// negative even under concurrent checkouts.
func DecrementStock(e Execer, productID, qty int, now string) error {
	res, err := e.Exec(decrementStockQuery, productID, qty, now)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var name string
		var available int
		if err := e.QueryRow(stockByIDQuery, productID).Scan(&name, &available); err != nil {
			if err == sql.ErrNoRows {
				return ErrNotFound
			}
			return err
		}
		return &InsufficientStockError{ProductID: productID, Name: name, Available: available}
	}
	return nil
}

// IncrementStock adds qty back to the product's stock. Only the order
// cancellation path calls this.
func IncrementStock(e Execer, productID, qty int, now string) error {
	res, err := e.Exec(incrementStockQuery, productID, qty, now)
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
