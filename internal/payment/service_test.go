package payment

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/mbognou/shop-backend/internal/event"
	"github.com/mbognou/shop-backend/internal/order"
	"github.com/mbognou/shop-backend/internal/user"
)

type stubPaymentRepo struct {
	payments []Payment
	methods  []Payment
	nextID   int
}

func (r *stubPaymentRepo) CreateForOrder(p Payment) (Payment, error) {
	r.nextID++
	p.ID = r.nextID
	r.payments = append(r.payments, p)
	return p, nil
}

func (r *stubPaymentRepo) ListByUser(userID int) ([]Payment, error) { return r.payments, nil }
func (r *stubPaymentRepo) ListAll() ([]Payment, error)              { return r.payments, nil }
func (r *stubPaymentRepo) ListMethods(userID int) ([]Payment, error) {
	return r.methods, nil
}

func (r *stubPaymentRepo) AddMethod(p Payment) (Payment, error) {
	r.nextID++
	p.ID = r.nextID
	if p.IsDefault {
		for i := range r.methods {
			r.methods[i].IsDefault = false
		}
	}
	r.methods = append(r.methods, p)
	return p, nil
}

func (r *stubPaymentRepo) RemoveMethod(userID, id int) error {
	for i, m := range r.methods {
		if m.ID == id {
			r.methods = append(r.methods[:i], r.methods[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *stubPaymentRepo) SetDefault(userID, id int) error {
	found := false
	for i := range r.methods {
		r.methods[i].IsDefault = r.methods[i].ID == id
		if r.methods[i].ID == id {
			found = true
		}
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

type stubOrderStore struct {
	orders map[int]order.Order
}

func (s *stubOrderStore) GetByID(id int) (order.Order, error) {
	ord, ok := s.orders[id]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	return ord, nil
}

func (s *stubOrderStore) UpdateStatus(id int, status order.Status) (order.Order, error) {
	ord, ok := s.orders[id]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	ord.Status = status
	s.orders[id] = ord
	return ord, nil
}

type stubUserStore struct {
	users map[int]user.User
}

func (s *stubUserStore) GetByID(id int) (user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

type captureDispatcher struct {
	events []event.Event
}

func (d *captureDispatcher) Publish(e event.Event) {
	d.events = append(d.events, e)
}

func newTestService() (*Service, *stubPaymentRepo, *stubOrderStore, *captureDispatcher) {
	repo := &stubPaymentRepo{}
	orders := &stubOrderStore{orders: map[int]order.Order{
		1: {ID: 1, UserID: 7, Total: 199.98, Status: order.StatusPending},
		2: {ID: 2, UserID: 7, Total: 50, Status: order.StatusPaid},
	}}
	users := &stubUserStore{users: map[int]user.User{7: {ID: 7, Email: "jane@example.com"}}}
	dispatcher := &captureDispatcher{}
	service := NewService(repo, orders, users, NewSimulatedGateways(), dispatcher, zap.NewNop())
	return service, repo, orders, dispatcher
}

func TestProcess_Success(t *testing.T) {
	service, repo, orders, dispatcher := newTestService()

	pay, ord, err := service.Process(7, false, ProcessRequest{OrderID: 1, PaymentMethod: "mtn", PhoneNumber: "0700000000"})
	if err != nil {
		t.Fatalf("Process returned %v", err)
	}
	if pay.Amount != 199.98 {
		t.Errorf("expected amount 199.98, got %v", pay.Amount)
	}
	if pay.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", pay.Status)
	}
	if !strings.HasPrefix(pay.TransactionID, "mtn_txn_") {
		t.Errorf("unexpected transaction id %q", pay.TransactionID)
	}
	if ord.Status != order.StatusPaid {
		t.Errorf("expected order paid, got %s", ord.Status)
	}
	if got := orders.orders[1].Status; got != order.StatusPaid {
		t.Errorf("order store must hold paid, got %s", got)
	}
	if len(repo.payments) != 1 {
		t.Errorf("expected one recorded payment, got %d", len(repo.payments))
	}
	if len(dispatcher.events) != 1 || dispatcher.events[0].Type != event.TypePaymentReceived {
		t.Errorf("expected one payment.received event, got %+v", dispatcher.events)
	}
}

func TestProcess_RejectsOtherUsersOrder(t *testing.T) {
	service, _, _, _ := newTestService()

	if _, _, err := service.Process(8, false, ProcessRequest{OrderID: 1, PaymentMethod: "mtn"}); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, _, err := service.Process(8, true, ProcessRequest{OrderID: 1, PaymentMethod: "mtn"}); err != nil {
		t.Fatalf("admin must pay any order, got %v", err)
	}
}

func TestProcess_RejectsNonPendingOrder(t *testing.T) {
	service, _, _, _ := newTestService()

	_, _, err := service.Process(7, false, ProcessRequest{OrderID: 2, PaymentMethod: "mtn"})
	var stateErr *order.InvalidStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("expected InvalidStateError, got %v", err)
	}
	if stateErr.Status != order.StatusPaid {
		t.Errorf("expected paid in error, got %s", stateErr.Status)
	}
}

func TestProcess_UnsupportedMethod(t *testing.T) {
	service, _, _, _ := newTestService()

	_, _, err := service.Process(7, false, ProcessRequest{OrderID: 1, PaymentMethod: "cash"})
	if err != ErrUnsupportedMethod {
		t.Fatalf("expected ErrUnsupportedMethod, got %v", err)
	}
	if err.Error() != "unsupported payment method" {
		t.Errorf("unexpected error string %q", err.Error())
	}
}

func TestProcess_OrderNotFound(t *testing.T) {
	service, _, _, _ := newTestService()

	if _, _, err := service.Process(7, false, ProcessRequest{OrderID: 99, PaymentMethod: "mtn"}); err != order.ErrNotFound {
		t.Fatalf("expected order.ErrNotFound, got %v", err)
	}
}

func TestUserHistory_SelfOrAdmin(t *testing.T) {
	service, _, _, _ := newTestService()

	if _, err := service.UserHistory(8, false, 7); err != ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := service.UserHistory(8, true, 7); err != nil {
		t.Errorf("admin must read any history, got %v", err)
	}
	if _, err := service.UserHistory(7, false, 7); err != nil {
		t.Errorf("user must read own history, got %v", err)
	}
	if _, err := service.UserHistory(8, true, 99); err != user.ErrNotFound {
		t.Errorf("expected user.ErrNotFound for missing user, got %v", err)
	}
}

func TestAddMethod_MasksCard(t *testing.T) {
	service, repo, _, _ := newTestService()

	p, err := service.AddMethod(7, "5105105105105100", true)
	if err != nil {
		t.Fatalf("AddMethod returned %v", err)
	}
	if p.Details == nil || *p.Details != "**** **** **** 5100" {
		t.Errorf("unexpected details %v", p.Details)
	}
	if p.Method != "mastercard" {
		t.Errorf("expected mastercard, got %q", p.Method)
	}
	if !p.IsDefault {
		t.Errorf("expected default method")
	}
	if len(repo.methods) != 1 {
		t.Errorf("expected one saved method, got %d", len(repo.methods))
	}
}

func TestAddMethod_NewDefaultClearsOld(t *testing.T) {
	service, repo, _, _ := newTestService()

	first, _ := service.AddMethod(7, "4242424242424242", true)
	second, _ := service.AddMethod(7, "5105105105105100", true)

	for _, m := range repo.methods {
		if m.ID == first.ID && m.IsDefault {
			t.Errorf("old default must be cleared")
		}
		if m.ID == second.ID && !m.IsDefault {
			t.Errorf("new method must be default")
		}
	}
}
