package order

// Repository defines persistence for orders. CreateWithItems and
// CancelRestock are single units of work: the stock mutation and the order
// mutation commit or roll back together.
type Repository interface {
	// CreateWithItems validates stock, snapshots prices, inserts the order
	// in status pending with its items and decrements stock, all in one
	// transaction. No order row survives any failure.
	CreateWithItems(userID int, lines []CartLine, shippingAddress, paymentMethod string) (Order, error)

	// GetByID returns the order with its items and product details.
	GetByID(id int) (Order, error)

	ListByUser(userID int) ([]Order, error)
	ListAll() ([]Order, error)

	// CancelRestock moves a pending order to cancelled and restores each
	// line's quantity to its product's stock, in one transaction. Returns
	// *InvalidStateError when the order is not pending.
	CancelRestock(id int) error

	UpdateStatus(id int, status Status) (Order, error)
}
