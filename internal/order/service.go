package order

import (
	"errors"

	"go.uber.org/zap"

	"github.com/mbognou/shop-backend/internal/event"
)

var (
	ErrEmptyCart       = errors.New("cart cannot be empty")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidStatus   = errors.New("invalid status")
)

type Service struct {
	repo       Repository
	dispatcher event.Dispatcher
	log        *zap.Logger
}

func NewService(repo Repository, dispatcher event.Dispatcher, log *zap.Logger) *Service {
	return &Service{repo: repo, dispatcher: dispatcher, log: log}
}

type CheckoutRequest struct {
	Items           []CartLine `json:"items"`
	ShippingAddress string     `json:"shipping_address"`
	PaymentMethod   string     `json:"payment_method"`
}

// Checkout places an order for the given cart. Stock check, order insert,
// item inserts and stock decrement are one transaction: either everything
// happens or nothing does.
func (s *Service) Checkout(userID int, req CheckoutRequest) (Order, error) {
	// the handler validates the payload, but double-check the parts that
	// guard invariants
	if len(req.Items) == 0 {
		return Order{}, ErrEmptyCart
	}
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return Order{}, ErrInvalidQuantity
		}
	}

	ord, err := s.repo.CreateWithItems(userID, req.Items, req.ShippingAddress, req.PaymentMethod)
	if err != nil {
		return Order{}, err
	}

	s.dispatcher.Publish(event.New(event.TypeOrderPlaced, ord))
	s.log.Info("order placed",
		zap.Int("order_id", ord.ID),
		zap.Int("user_id", userID),
		zap.Float64("total", ord.Total),
	)
	return ord, nil
}

// Get returns an order if the requester owns it or is an administrator.
func (s *Service) Get(requesterID int, isAdmin bool, id int) (Order, error) {
	ord, err := s.repo.GetByID(id)
	if err != nil {
		return Order{}, err
	}
	if !isAdmin && ord.UserID != requesterID {
		return Order{}, ErrUnauthorized
	}
	return ord, nil
}

// List returns all orders for admins, the requester's own otherwise.
func (s *Service) List(requesterID int, isAdmin bool) ([]Order, error) {
	if isAdmin {
		return s.repo.ListAll()
	}
	return s.repo.ListByUser(requesterID)
}

// Cancel moves a pending order to cancelled and restores stock. Only the
// owner or an administrator may cancel.
func (s *Service) Cancel(requesterID int, isAdmin bool, id int) error {
	ord, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if !isAdmin && ord.UserID != requesterID {
		return ErrUnauthorized
	}
	if err := s.repo.CancelRestock(id); err != nil {
		return err
	}
	s.log.Info("order cancelled", zap.Int("order_id", id), zap.Int("user_id", requesterID))
	return nil
}

// UpdateStatus is the admin path for moving an order through the shipping
// lifecycle.
func (s *Service) UpdateStatus(id int, status Status) (Order, error) {
	if !status.Valid() {
		return Order{}, ErrInvalidStatus
	}
	return s.repo.UpdateStatus(id, status)
}
