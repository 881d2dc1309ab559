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

func newOrderRepo(t *testing.T) (*ServiceOrderRepo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	return NewServiceOrderRepo(db), mock, db
}

// The catalog price must be read inside the creating transaction and
// frozen onto each line, so later menu edits never change an order
// that was already placed.
func TestOrderCreateTxFreezesCatalogPrice(t *testing.T) {
	repo, mock, db := newOrderRepo(t)
	defer db.Close()

	now := time.Date(2026, 5, 11, 19, 30, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO room_service_orders").
		WithArgs(uint64(42), model.OrderStatusPending, "ref-1").
		WillReturnResult(sqlmock.NewResult(5, 1))
	// Line 1: two sandwiches at the current catalog price of 1400.
	mock.ExpectQuery("SELECT price_cents FROM room_service_items").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"price_cents"}).AddRow(1400))
	mock.ExpectExec("INSERT INTO room_service_order_lines").
		WithArgs(uint64(5), uint64(9), int64(2), int64(1400)).
		WillReturnResult(sqlmock.NewResult(31, 1))
	// Line 2: one bottle of wine at 2800.
	mock.ExpectQuery("SELECT price_cents FROM room_service_items").
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"price_cents"}).AddRow(2800))
	mock.ExpectExec("INSERT INTO room_service_order_lines").
		WithArgs(uint64(5), uint64(4), int64(1), int64(2800)).
		WillReturnResult(sqlmock.NewResult(32, 1))
	mock.ExpectQuery("SELECT created_at FROM room_service_orders").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	order := &model.RoomServiceOrder{ReservationID: 42, Reference: "ref-1"}
	lines, err := repo.CreateTx(context.Background(), tx, order, []OrderLineInput{
		{ItemID: 9, Quantity: 2},
		{ItemID: 4, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if order.ID != 5 {
		t.Errorf("order id = %d, want 5", order.ID)
	}
	if order.Status != model.OrderStatusPending {
		t.Errorf("status = %q, want PENDING", order.Status)
	}
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if lines[0].UnitPriceCents != 1400 || lines[1].UnitPriceCents != 2800 {
		t.Errorf("frozen prices = %d/%d, want 1400/2800",
			lines[0].UnitPriceCents, lines[1].UnitPriceCents)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestOrderCreateTxUnknownItem(t *testing.T) {
	repo, mock, db := newOrderRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO room_service_orders").
		WithArgs(uint64(42), model.OrderStatusPending, "ref-2").
		WillReturnResult(sqlmock.NewResult(6, 1))
	mock.ExpectQuery("SELECT price_cents FROM room_service_items").
		WithArgs(uint64(77)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	defer tx.Rollback()

	order := &model.RoomServiceOrder{ReservationID: 42, Reference: "ref-2"}
	_, err = repo.CreateTx(context.Background(), tx, order, []OrderLineInput{{ItemID: 77, Quantity: 1}})
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("err = %v, want ErrItemNotFound", err)
	}
}

func TestOrderUpdateStatusMissing(t *testing.T) {
	repo, mock, db := newOrderRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE room_service_orders SET status").
		WithArgs(model.OrderStatusDelivered, uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT status FROM room_service_orders").
		WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)

	err := repo.UpdateStatus(context.Background(), 99, model.OrderStatusDelivered)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("err = %v, want ErrOrderNotFound", err)
	}
}
