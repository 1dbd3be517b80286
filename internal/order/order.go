package order

import (
	"errors"
	"fmt"

	"github.com/mbognou/shop-backend/internal/product"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// PaymentMethods enumerates the accepted payment method tags. The payment
// package registers one gateway per tag.
var PaymentMethods = map[string]bool{
	"mtn":    true,
	"orange": true,
	"paypal": true,
	"stripe": true,
}

type Order struct {
	ID              int     `json:"id"`
	UserID          int     `json:"user_id"`
	Total           float64 `json:"total"`
	Status          Status  `json:"status"`
	ShippingAddress string  `json:"shipping_address"`
	PaymentMethod   string  `json:"payment_method"`
	CreatedAt       string  `json:"created_at,omitempty"`
	UpdatedAt       string  `json:"updated_at,omitempty"`
	Items           []Item  `json:"items,omitempty"`
}

// Item snapshots quantity and unit price at order creation. Price is never
// re-read from the product afterwards.
type Item struct {
	ID        int              `json:"id"`
	OrderID   int              `json:"order_id"`
	ProductID int              `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Price     float64          `json:"price"`
	Product   *product.Product `json:"product,omitempty"`
}

// CartLine is one (product, quantity) pair submitted at checkout.
type CartLine struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

var (
	ErrNotFound     = errors.New("order not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// InvalidStateError reports an order whose status forbids the attempted
// transition, surfacing the current status.
type InvalidStateError struct {
	Status Status
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid order status: %s", e.Status)
}

// ProductNotFoundError reports a cart line referencing a missing product.
type ProductNotFoundError struct {
	ProductID int
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}
