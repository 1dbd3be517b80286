package payment

import (
	"go.uber.org/zap"

	"github.com/mbognou/shop-backend/internal/event"
	"github.com/mbognou/shop-backend/internal/order"
	"github.com/mbognou/shop-backend/internal/user"
)

// OrderStore is the slice of the order repository the payment flow needs.
type OrderStore interface {
	GetByID(id int) (order.Order, error)
	UpdateStatus(id int, status order.Status) (order.Order, error)
}

// UserStore resolves users for the per-user history endpoint.
type UserStore interface {
	GetByID(id int) (user.User, error)
}

// GatewayError carries the simulated provider message for a declined
// authorization.
type GatewayError struct {
	Message string
}

func (e *GatewayError) Error() string { return e.Message }

type Service struct {
	repo       Repository
	orders     OrderStore
	users      UserStore
	gateways   map[string]Gateway
	dispatcher event.Dispatcher
	log        *zap.Logger
}

func NewService(repo Repository, orders OrderStore, users UserStore, gateways map[string]Gateway, dispatcher event.Dispatcher, log *zap.Logger) *Service {
	return &Service{repo: repo, orders: orders, users: users, gateways: gateways, dispatcher: dispatcher, log: log}
}

// Process authorizes payment for a pending order through the gateway
// matching the method tag, records the payment and marks the order paid.
func (s *Service) Process(requesterID int, isAdmin bool, req ProcessRequest) (Payment, order.Order, error) {
	ord, err := s.orders.GetByID(req.OrderID)
	if err != nil {
		return Payment{}, order.Order{}, err
	}
	if !isAdmin && ord.UserID != requesterID {
		return Payment{}, order.Order{}, ErrUnauthorized
	}
	if ord.Status != order.StatusPending {
		return Payment{}, order.Order{}, &order.InvalidStateError{Status: ord.Status}
	}

	gw, ok := s.gateways[req.PaymentMethod]
	if !ok {
		return Payment{}, order.Order{}, ErrUnsupportedMethod
	}
	result := gw.Authorize(ord, req)
	if !result.Success {
		return Payment{}, order.Order{}, &GatewayError{Message: result.Message}
	}

	pay := Payment{
		OrderID:       &ord.ID,
		Method:        req.PaymentMethod,
		Amount:        ord.Total,
		TransactionID: result.TransactionID,
		Status:        StatusCompleted,
	}
	pay, err = s.repo.CreateForOrder(pay)
	if err != nil {
		return Payment{}, order.Order{}, err
	}

	updated, err := s.orders.UpdateStatus(ord.ID, order.StatusPaid)
	if err != nil {
		return Payment{}, order.Order{}, err
	}

	s.dispatcher.Publish(event.New(event.TypePaymentReceived, pay))
	s.log.Info("payment processed",
		zap.Int("order_id", ord.ID),
		zap.String("method", req.PaymentMethod),
		zap.String("transaction_id", pay.TransactionID),
		zap.Float64("amount", pay.Amount),
	)
	return pay, updated, nil
}

// History returns all payments for admins, the requester's own otherwise.
func (s *Service) History(requesterID int, isAdmin bool) ([]Payment, error) {
	if isAdmin {
		return s.repo.ListAll()
	}
	return s.repo.ListByUser(requesterID)
}

// UserHistory returns a given user's payments; only that user or an admin
// may ask.
func (s *Service) UserHistory(requesterID int, isAdmin bool, userID int) ([]Payment, error) {
	if !isAdmin && requesterID != userID {
		return nil, ErrUnauthorized
	}
	if _, err := s.users.GetByID(userID); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(userID)
}

// ListMethods returns the user's saved payment methods, default first.
func (s *Service) ListMethods(userID int) ([]Payment, error) {
	return s.repo.ListMethods(userID)
}

// AddMethod saves a card for later checkouts. Only the last four digits are
// kept in clear; the card type is inferred from the first digit.
func (s *Service) AddMethod(userID int, cardNumber string, isDefault bool) (Payment, error) {
	details := MaskCard(cardNumber)
	p := Payment{
		UserID:    &userID,
		Method:    CardType(cardNumber),
		Details:   &details,
		Status:    StatusPending,
		IsDefault: isDefault,
	}
	return s.repo.AddMethod(p)
}

func (s *Service) RemoveMethod(userID, id int) error {
	return s.repo.RemoveMethod(userID, id)
}

func (s *Service) SetDefault(userID, id int) error {
	return s.repo.SetDefault(userID, id)
}
