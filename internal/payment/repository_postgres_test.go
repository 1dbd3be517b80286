package payment

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestAddMethod_DefaultClearsOthersInTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	userID := 7
	details := "**** **** **** 4242"

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments SET is_default = FALSE").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery("INSERT INTO payments").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectCommit()

	p, err := repo.AddMethod(Payment{UserID: &userID, Method: "visa", Details: &details, Status: StatusPending, IsDefault: true})
	if err != nil {
		t.Fatalf("AddMethod returned %v", err)
	}
	if p.ID != 3 {
		t.Errorf("expected id 3, got %d", p.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAddMethod_NonDefaultSkipsClear(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	userID := 7
	details := "**** **** **** 5100"

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO payments").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectCommit()

	if _, err := repo.AddMethod(Payment{UserID: &userID, Method: "mastercard", Details: &details, Status: StatusPending}); err != nil {
		t.Fatalf("AddMethod returned %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSetDefault_SingleDefaultInvariant(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments SET is_default = FALSE").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE payments SET is_default = TRUE").
		WithArgs(3, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.SetDefault(7, 3); err != nil {
		t.Fatalf("SetDefault returned %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSetDefault_UnknownMethodRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments SET is_default = FALSE").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE payments SET is_default = TRUE").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if err := repo.SetDefault(7, 99); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRemoveMethod_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("DELETE FROM payments").
		WithArgs(99, 7).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.RemoveMethod(7, 99); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
