package order

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/mbognou/shop-backend/internal/product"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	selectLineForUpdateQuery = `SELECT name, price, stock FROM products WHERE id = $1 FOR UPDATE`

	insertOrderQuery = `
		INSERT INTO orders (user_id, total, status, shipping_address, payment_method, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`
	insertOrderItemQuery = `
		INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES ($1,$2,$3,$4)
		RETURNING id
	`
	getOrderQuery = `
		SELECT id, user_id, total, status, shipping_address, payment_method, created_at, updated_at
		FROM orders
		WHERE id = $1
	`
	listOrdersByUserQuery = `
		SELECT id, user_id, total, status, shipping_address, payment_method, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	listAllOrdersQuery = `
		SELECT id, user_id, total, status, shipping_address, payment_method, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
	`
	listItemsQuery = `
		SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.price,
		       p.name, p.description, p.price, p.stock, p.category_id, p.brand_id, p.image
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1::int[])
		ORDER BY oi.id
	`
	cancelPendingOrderQuery = `
		UPDATE orders
		SET status = 'cancelled', updated_at = $2
		WHERE id = $1 AND status = 'pending'
	`
	orderStatusQuery      = `SELECT status FROM orders WHERE id = $1`
	orderItemsRestockView = `SELECT product_id, quantity FROM order_items WHERE order_id = $1`
	updateOrderStatus     = `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateWithItems(userID int, lines []CartLine, shippingAddress, paymentMethod string) (Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)

	type pricedLine struct {
		productID int
		quantity  int
		price     float64
	}
	priced := make([]pricedLine, 0, len(lines))
	total := 0.0

	for _, line := range lines {
		var (
			name  string
			price float64
			stock int
		)
		err := tx.QueryRow(selectLineForUpdateQuery, line.ProductID).Scan(&name, &price, &stock)
		if err != nil {
			if err == sql.ErrNoRows {
				return Order{}, &ProductNotFoundError{ProductID: line.ProductID}
			}
			return Order{}, err
		}
		if stock < line.Quantity {
			return Order{}, &product.InsufficientStockError{ProductID: line.ProductID, Name: name, Available: stock}
		}
		total += price * float64(line.Quantity)
		priced = append(priced, pricedLine{productID: line.ProductID, quantity: line.Quantity, price: price})
	}

	ord := Order{
		UserID:          userID,
		Total:           total,
		Status:          StatusPending,
		ShippingAddress: shippingAddress,
		PaymentMethod:   paymentMethod,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := tx.QueryRow(insertOrderQuery, ord.UserID, ord.Total, ord.Status, ord.ShippingAddress, ord.PaymentMethod, now, now).Scan(&ord.ID); err != nil {
		return Order{}, err
	}

	for _, line := range priced {
		item := Item{OrderID: ord.ID, ProductID: line.productID, Quantity: line.quantity, Price: line.price}
		if err := tx.QueryRow(insertOrderItemQuery, item.OrderID, item.ProductID, item.Quantity, item.Price).Scan(&item.ID); err != nil {
			return Order{}, err
		}
		if err := product.DecrementStock(tx, line.productID, line.quantity, now); err != nil {
			return Order{}, err
		}
		ord.Items = append(ord.Items, item)
	}

	if err := tx.Commit(); err != nil {
		return Order{}, err
	}
	return r.GetByID(ord.ID)
}

func (r *PostgresRepository) GetByID(id int) (Order, error) {
	ord, err := scanOrder(r.db.QueryRow(getOrderQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	itemsByOrder, err := r.loadItems([]int{ord.ID})
	if err != nil {
		return Order{}, err
	}
	ord.Items = itemsByOrder[ord.ID]
	return ord, nil
}

func (r *PostgresRepository) ListByUser(userID int) ([]Order, error) {
	return r.queryOrders(listOrdersByUserQuery, userID)
}

func (r *PostgresRepository) ListAll() ([]Order, error) {
	return r.queryOrders(listAllOrdersQuery)
}

func (r *PostgresRepository) queryOrders(query string, args ...any) ([]Order, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Order, 0)
	ids := make([]int, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ord)
		ids = append(ids, ord.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	itemsByOrder, err := r.loadItems(ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = itemsByOrder[out[i].ID]
	}
	return out, nil
}

func (r *PostgresRepository) loadItems(orderIDs []int) (map[int][]Item, error) {
	rows, err := r.db.Query(listItemsQuery, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int][]Item{}
	for rows.Next() {
		var (
			item     Item
			pName    sql.NullString
			pDesc    sql.NullString
			pPrice   sql.NullFloat64
			pStock   sql.NullInt64
			pCat     sql.NullInt64
			pBrand   sql.NullInt64
			pPicture sql.NullString
		)
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price,
			&pName, &pDesc, &pPrice, &pStock, &pCat, &pBrand, &pPicture)
		if err != nil {
			return nil, err
		}
		if pName.Valid {
			p := &product.Product{
				ID:          item.ProductID,
				Name:        pName.String,
				Description: pDesc.String,
				Price:       pPrice.Float64,
				Stock:       int(pStock.Int64),
				CategoryID:  int(pCat.Int64),
			}
			if pBrand.Valid {
				v := int(pBrand.Int64)
				p.BrandID = &v
			}
			if pPicture.Valid {
				p.Image = &pPicture.String
			}
			item.Product = p
		}
		out[item.OrderID] = append(out[item.OrderID], item)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) CancelRestock(id int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := tx.Exec(cancelPendingOrderQuery, id, now)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// distinguish a missing order from one past pending
		var status Status
		if err := tx.QueryRow(orderStatusQuery, id).Scan(&status); err != nil {
			if err == sql.ErrNoRows {
				return ErrNotFound
			}
			return err
		}
		return &InvalidStateError{Status: status}
	}

	rows, err := tx.Query(orderItemsRestockView, id)
	if err != nil {
		return err
	}
	type restock struct{ productID, quantity int }
	restocks := make([]restock, 0)
	for rows.Next() {
		var rs restock
		if err := rows.Scan(&rs.productID, &rs.quantity); err != nil {
			rows.Close()
			return err
		}
		restocks = append(restocks, rs)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, rs := range restocks {
		if err := product.IncrementStock(tx, rs.productID, rs.quantity, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) UpdateStatus(id int, status Status) (Order, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := r.db.Exec(updateOrderStatus, id, status, now)
	if err != nil {
		return Order{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Order{}, err
	}
	if n == 0 {
		return Order{}, ErrNotFound
	}
	return r.GetByID(id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var ord Order
	err := row.Scan(&ord.ID, &ord.UserID, &ord.Total, &ord.Status,
		&ord.ShippingAddress, &ord.PaymentMethod, &ord.CreatedAt, &ord.UpdatedAt)
	if err != nil {
		return Order{}, err
	}
	return ord, nil
}
