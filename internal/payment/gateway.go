package payment

import (
	"crypto/rand"
	"math/big"

	"github.com/mbognou/shop-backend/internal/order"
)

// ProcessRequest carries the payment method tag and its method-specific
// fields. Phone number applies to the mobile money tags, the card fields to
// paypal and stripe.
type ProcessRequest struct {
	OrderID       int    `json:"order_id"`
	PaymentMethod string `json:"payment_method"`
	PhoneNumber   string `json:"phone_number"`
	CardNumber    string `json:"card_number"`
	ExpiryMonth   string `json:"expiry_month"`
	ExpiryYear    string `json:"expiry_year"`
	CVC           string `json:"cvc"`
}

type Result struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// Gateway authorizes a payment with a provider. The simulated gateways below
// are meant to be swapped for real network clients behind the same contract.
type Gateway interface {
	Authorize(ord order.Order, req ProcessRequest) Result
}

type simulatedGateway struct {
	tag      string
	provider string
}

func (g simulatedGateway) Authorize(ord order.Order, req ProcessRequest) Result {
	return Result{
		Success:       true,
		Message:       g.provider + " payment successful",
		TransactionID: g.tag + "_txn_" + randomToken(16),
	}
}

// NewSimulatedGateways returns one simulated gateway per supported payment
// method tag.
func NewSimulatedGateways() map[string]Gateway {
	return map[string]Gateway{
		"mtn":    simulatedGateway{tag: "mtn", provider: "MTN Mobile Money"},
		"orange": simulatedGateway{tag: "orange", provider: "Orange Money"},
		"paypal": simulatedGateway{tag: "paypal", provider: "PayPal"},
		"stripe": simulatedGateway{tag: "stripe", provider: "Stripe"},
	}
}

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomToken draws from crypto/rand so transaction ids are unguessable.
func randomToken(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		out[i] = tokenAlphabet[idx.Int64()]
	}
	return string(out)
}
