package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeOrderPlaced     Type = "order.placed"
	TypePaymentReceived Type = "payment.received"
)

// Event is what the notification side consumes. Payload carries the domain
// object that triggered it (an order or a payment).
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

func New(t Type, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}
