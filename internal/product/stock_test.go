package product

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestDecrementStock_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE products").
		WithArgs(5, 2, "now").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := DecrementStock(db, 5, 2, "now"); err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDecrementStock_Insufficient(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()

	// guard matches no row, so the available quantity is read back
	mock.ExpectExec("UPDATE products").
		WithArgs(5, 20, "now").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT name, stock FROM products").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"name", "stock"}).AddRow("Smartphone XYZ", 10))

	err = DecrementStock(db, 5, 20, "now")
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Available != 10 {
		t.Errorf("expected available 10, got %d", stockErr.Available)
	}
	if stockErr.Error() != "Not enough stock for product: Smartphone XYZ" {
		t.Errorf("unexpected message %q", stockErr.Error())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDecrementStock_ProductMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE products").
		WithArgs(99, 1, "now").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT name, stock FROM products").
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"name", "stock"}))

	if err := DecrementStock(db, 99, 1, "now"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIncrementStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE products").
		WithArgs(5, 2, "now").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := IncrementStock(db, 5, 2, "now"); err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
