package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/hotel-operations/internal/model"
)

func newCustomerRepo(t *testing.T) (*CustomerRepo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	return NewCustomerRepo(db), mock, db
}

func TestCustomerCreate(t *testing.T) {
	repo, mock, db := newCustomerRepo(t)
	defer db.Close()

	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO customers").
		WithArgs("Dana Whitfield", "dana@example.com", "+15551234567").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery("SELECT full_name, email, phone, created_at, updated_at FROM customers").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"full_name", "email", "phone", "created_at", "updated_at"}).
			AddRow("Dana Whitfield", "dana@example.com", "+15551234567", now, now))

	c := &model.Customer{FullName: "Dana Whitfield", Email: "dana@example.com", Phone: "+15551234567"}
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if c.ID != 7 {
		t.Errorf("id = %d, want 7", c.ID)
	}
	if c.CreatedAt.IsZero() {
		t.Error("created_at was not populated")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCustomerCreateDuplicateEmail(t *testing.T) {
	repo, mock, db := newCustomerRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO customers").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'dana@example.com' for key 'uq_customers_email'"))

	c := &model.Customer{FullName: "Dana Whitfield", Email: "dana@example.com"}
	if err := repo.Create(context.Background(), c); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("err = %v, want ErrEmailExists", err)
	}
}

func TestCustomerGetByIDNotFound(t *testing.T) {
	repo, mock, db := newCustomerRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, full_name, email, phone, created_at, updated_at FROM customers").
		WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), 99); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("err = %v, want ErrCustomerNotFound", err)
	}
}

func TestCustomerUpdateMissingRow(t *testing.T) {
	repo, mock, db := newCustomerRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE customers").
		WithArgs("Dana Whitfield", "dana@example.com", "", uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	c := &model.Customer{ID: 99, FullName: "Dana Whitfield", Email: "dana@example.com"}
	if err := repo.Update(context.Background(), c); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("err = %v, want ErrCustomerNotFound", err)
	}
}

func TestCustomerDeleteBlockedByReservations(t *testing.T) {
	repo, mock, db := newCustomerRepo(t)
	defer db.Close()

	mock.ExpectQuery("FROM reservations WHERE customer_id").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(2))

	if err := repo.Delete(context.Background(), 7); !errors.Is(err, ErrInUse) {
		t.Fatalf("err = %v, want ErrInUse", err)
	}
	// The DELETE statement must never run once dependents are found.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCustomerDelete(t *testing.T) {
	repo, mock, db := newCustomerRepo(t)
	defer db.Close()

	mock.ExpectQuery("FROM reservations WHERE customer_id").
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec("DELETE FROM customers").
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), 7); err != nil {
		t.Fatalf("delete error: %v", err)
	}
}
