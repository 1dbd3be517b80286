package payment

import (
	"errors"
	"strings"

	"github.com/mbognou/shop-backend/internal/order"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Payment covers two kinds of rows: a gateway payment linked to an order,
// and a saved payment method owned directly by a user (no order).
type Payment struct {
	ID            int          `json:"id"`
	OrderID       *int         `json:"order_id,omitempty"`
	UserID        *int         `json:"user_id,omitempty"`
	Method        string       `json:"payment_method"`
	Details       *string      `json:"payment_details,omitempty"`
	Amount        float64      `json:"amount,omitempty"`
	TransactionID string       `json:"transaction_id,omitempty"`
	Status        Status       `json:"status,omitempty"`
	IsDefault     bool         `json:"is_default"`
	CreatedAt     string       `json:"created_at,omitempty"`
	Order         *order.Order `json:"order,omitempty"`
}

var (
	ErrNotFound          = errors.New("payment method not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrUnsupportedMethod = errors.New("unsupported payment method")
)

// maskToken replaces every card digit except the last four.
const maskToken = "**** **** **** "

// MaskCard keeps only the last four digits of a card number in clear.
func MaskCard(number string) string {
	digits := strings.ReplaceAll(number, " ", "")
	if len(digits) <= 4 {
		return maskToken + digits
	}
	return maskToken + digits[len(digits)-4:]
}

// CardType is a coarse first-digit classification, kept as documented
// best-effort rather than a validation gate.
func CardType(number string) string {
	if strings.HasPrefix(strings.TrimSpace(number), "5") {
		return "mastercard"
	}
	return "visa"
}
