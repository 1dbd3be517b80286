package order

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/mbognou/shop-backend/internal/event"
	"github.com/mbognou/shop-backend/internal/product"
)

type stubProduct struct {
	name  string
	price float64
	stock int
}

// stubRepo is a tiny in-memory Repository used by the service and handler
// tests. It mirrors the transactional semantics of the postgres repository:
// a failing line aborts the whole checkout.
type stubRepo struct {
	products map[int]*stubProduct
	orders   map[int]Order
	nextID   int
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		products: map[int]*stubProduct{
			5: {name: "Smartphone XYZ", price: 99.99, stock: 10},
			6: {name: "Wireless Earbuds", price: 24.50, stock: 3},
		},
		orders: map[int]Order{},
		nextID: 1,
	}
}

func (r *stubRepo) CreateWithItems(userID int, lines []CartLine, shippingAddress, paymentMethod string) (Order, error) {
	total := 0.0
	for _, line := range lines {
		p, ok := r.products[line.ProductID]
		if !ok {
			return Order{}, &ProductNotFoundError{ProductID: line.ProductID}
		}
		if p.stock < line.Quantity {
			return Order{}, &product.InsufficientStockError{ProductID: line.ProductID, Name: p.name, Available: p.stock}
		}
		total += p.price * float64(line.Quantity)
	}

	ord := Order{
		ID:              r.nextID,
		UserID:          userID,
		Total:           total,
		Status:          StatusPending,
		ShippingAddress: shippingAddress,
		PaymentMethod:   paymentMethod,
	}
	for _, line := range lines {
		p := r.products[line.ProductID]
		p.stock -= line.Quantity
		ord.Items = append(ord.Items, Item{
			ID:        len(ord.Items) + 1,
			OrderID:   ord.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     p.price,
		})
	}
	r.orders[ord.ID] = ord
	r.nextID++
	return ord, nil
}

func (r *stubRepo) GetByID(id int) (Order, error) {
	ord, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return ord, nil
}

func (r *stubRepo) ListByUser(userID int) ([]Order, error) {
	out := []Order{}
	for _, ord := range r.orders {
		if ord.UserID == userID {
			out = append(out, ord)
		}
	}
	return out, nil
}

func (r *stubRepo) ListAll() ([]Order, error) {
	out := []Order{}
	for _, ord := range r.orders {
		out = append(out, ord)
	}
	return out, nil
}

func (r *stubRepo) CancelRestock(id int) error {
	ord, ok := r.orders[id]
	if !ok {
		return ErrNotFound
	}
	if ord.Status != StatusPending {
		return &InvalidStateError{Status: ord.Status}
	}
	for _, item := range ord.Items {
		if p, ok := r.products[item.ProductID]; ok {
			p.stock += item.Quantity
		}
	}
	ord.Status = StatusCancelled
	r.orders[id] = ord
	return nil
}

func (r *stubRepo) UpdateStatus(id int, status Status) (Order, error) {
	ord, ok := r.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	ord.Status = status
	r.orders[id] = ord
	return ord, nil
}

// captureDispatcher records published events synchronously.
type captureDispatcher struct {
	events []event.Event
}

func (d *captureDispatcher) Publish(e event.Event) {
	d.events = append(d.events, e)
}

func newTestService(repo Repository, dispatcher event.Dispatcher) *Service {
	return NewService(repo, dispatcher, zap.NewNop())
}

func TestCheckout_ComputesTotalAndDecrementsStock(t *testing.T) {
	repo := newStubRepo()
	dispatcher := &captureDispatcher{}
	service := newTestService(repo, dispatcher)

	ord, err := service.Checkout(7, CheckoutRequest{
		Items:           []CartLine{{ProductID: 5, Quantity: 2}},
		ShippingAddress: "123 Main St",
		PaymentMethod:   "mtn",
	})
	if err != nil {
		t.Fatalf("Checkout returned %v", err)
	}
	if ord.Total != 199.98 {
		t.Errorf("expected total 199.98, got %v", ord.Total)
	}
	if ord.Status != StatusPending {
		t.Errorf("expected pending, got %s", ord.Status)
	}
	if repo.products[5].stock != 8 {
		t.Errorf("expected stock 8 after checkout, got %d", repo.products[5].stock)
	}
	if len(dispatcher.events) != 1 || dispatcher.events[0].Type != event.TypeOrderPlaced {
		t.Errorf("expected one order.placed event, got %+v", dispatcher.events)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	service := newTestService(newStubRepo(), &captureDispatcher{})
	if _, err := service.Checkout(7, CheckoutRequest{ShippingAddress: "123 Main St", PaymentMethod: "mtn"}); err != ErrEmptyCart {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCheckout_NonPositiveQuantity(t *testing.T) {
	service := newTestService(newStubRepo(), &captureDispatcher{})
	_, err := service.Checkout(7, CheckoutRequest{
		Items:           []CartLine{{ProductID: 5, Quantity: 0}},
		ShippingAddress: "123 Main St",
		PaymentMethod:   "mtn",
	})
	if err != ErrInvalidQuantity {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestCheckout_InsufficientStockLeavesStockAlone(t *testing.T) {
	repo := newStubRepo()
	dispatcher := &captureDispatcher{}
	service := newTestService(repo, dispatcher)

	_, err := service.Checkout(7, CheckoutRequest{
		Items:           []CartLine{{ProductID: 5, Quantity: 20}},
		ShippingAddress: "123 Main St",
		PaymentMethod:   "mtn",
	})
	var stockErr *product.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Available != 10 {
		t.Errorf("expected available 10, got %d", stockErr.Available)
	}
	if repo.products[5].stock != 10 {
		t.Errorf("stock must be untouched on failure, got %d", repo.products[5].stock)
	}
	if len(dispatcher.events) != 0 {
		t.Errorf("no event must be published on failure, got %+v", dispatcher.events)
	}
}

func TestGet_OwnerOnly(t *testing.T) {
	repo := newStubRepo()
	service := newTestService(repo, &captureDispatcher{})
	ord, err := service.Checkout(7, CheckoutRequest{
		Items:           []CartLine{{ProductID: 6, Quantity: 1}},
		ShippingAddress: "123 Main St",
		PaymentMethod:   "paypal",
	})
	if err != nil {
		t.Fatalf("Checkout returned %v", err)
	}

	if _, err := service.Get(8, false, ord.ID); err != ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized for other user, got %v", err)
	}
	if _, err := service.Get(8, true, ord.ID); err != nil {
		t.Errorf("admin must read any order, got %v", err)
	}
	if _, err := service.Get(7, false, ord.ID); err != nil {
		t.Errorf("owner must read own order, got %v", err)
	}
}

func TestCancel_RestoresStock(t *testing.T) {
	repo := newStubRepo()
	service := newTestService(repo, &captureDispatcher{})
	ord, err := service.Checkout(7, CheckoutRequest{
		Items:           []CartLine{{ProductID: 5, Quantity: 3}},
		ShippingAddress: "123 Main St",
		PaymentMethod:   "stripe",
	})
	if err != nil {
		t.Fatalf("Checkout returned %v", err)
	}
	if repo.products[5].stock != 7 {
		t.Fatalf("expected stock 7 after checkout, got %d", repo.products[5].stock)
	}

	if err := service.Cancel(7, false, ord.ID); err != nil {
		t.Fatalf("Cancel returned %v", err)
	}
	if repo.products[5].stock != 10 {
		t.Errorf("expected stock restored to 10, got %d", repo.products[5].stock)
	}
	got, _ := repo.GetByID(ord.ID)
	if got.Status != StatusCancelled {
		t.Errorf("expected cancelled, got %s", got.Status)
	}
}

func TestCancel_NonPendingRejected(t *testing.T) {
	repo := newStubRepo()
	service := newTestService(repo, &captureDispatcher{})
	ord, _ := service.Checkout(7, CheckoutRequest{
		Items:           []CartLine{{ProductID: 5, Quantity: 1}},
		ShippingAddress: "123 Main St",
		PaymentMethod:   "mtn",
	})
	if _, err := repo.UpdateStatus(ord.ID, StatusShipped); err != nil {
		t.Fatalf("UpdateStatus returned %v", err)
	}

	err := service.Cancel(7, false, ord.ID)
	var stateErr *InvalidStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("expected InvalidStateError, got %v", err)
	}
	if stateErr.Status != StatusShipped {
		t.Errorf("expected shipped in error, got %s", stateErr.Status)
	}
}

func TestUpdateStatus_Validates(t *testing.T) {
	service := newTestService(newStubRepo(), &captureDispatcher{})
	if _, err := service.UpdateStatus(1, Status("refunded")); err != ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}
