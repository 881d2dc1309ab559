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

func newReservationRepo(t *testing.T) (*ReservationRepo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	return NewReservationRepo(db), mock, db
}

func beginTx(t *testing.T, db *sql.DB) *sql.Tx {
	t.Helper()
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	return tx
}

func TestCountOverlappingTx(t *testing.T) {
	repo, mock, db := newReservationRepo(t)
	defer db.Close()

	checkIn := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(uint64(3), uint64(0), checkIn, checkOut).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectRollback()

	tx := beginTx(t, db)
	defer tx.Rollback()

	n, err := repo.CountOverlappingTx(context.Background(), tx, 3, 0, checkIn, checkOut)
	if err != nil {
		t.Fatalf("count error: %v", err)
	}
	if n != 1 {
		t.Errorf("overlaps = %d, want 1", n)
	}
}

func TestCreateTxPopulatesRecord(t *testing.T) {
	repo, mock, db := newReservationRepo(t)
	defer db.Close()

	checkIn := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO reservations").
		WithArgs(uint64(7), uint64(3), checkIn, checkOut, model.ReservationStatusBooked).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery("SELECT customer_id, room_id, check_in, check_out, status, created_at, updated_at FROM reservations").
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"customer_id", "room_id", "check_in", "check_out", "status", "created_at", "updated_at"}).
			AddRow(7, 3, checkIn, checkOut, model.ReservationStatusBooked, now, now))
	mock.ExpectCommit()

	tx := beginTx(t, db)
	res := &model.Reservation{CustomerID: 7, RoomID: 3, CheckIn: checkIn, CheckOut: checkOut}
	if err := repo.CreateTx(context.Background(), tx, res); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if res.ID != 11 {
		t.Errorf("id = %d, want 11", res.ID)
	}
	if res.Status != model.ReservationStatusBooked {
		t.Errorf("status = %q, want BOOKED", res.Status)
	}
	if res.CreatedAt.IsZero() {
		t.Error("created_at was not populated")
	}
}

func TestUpdateStatusTxConflict(t *testing.T) {
	repo, mock, db := newReservationRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE reservations SET status").
		WithArgs(model.ReservationStatusCheckedIn, uint64(11), model.ReservationStatusBooked).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT status FROM reservations").
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(model.ReservationStatusCancelled))
	mock.ExpectRollback()

	tx := beginTx(t, db)
	defer tx.Rollback()

	err := repo.UpdateStatusTx(context.Background(), tx, 11,
		model.ReservationStatusCheckedIn, model.ReservationStatusBooked)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestUpdateStatusTxMissingRow(t *testing.T) {
	repo, mock, db := newReservationRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE reservations SET status").
		WithArgs(model.ReservationStatusCancelled, uint64(99), model.ReservationStatusBooked, model.ReservationStatusCheckedIn).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT status FROM reservations").
		WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	tx := beginTx(t, db)
	defer tx.Rollback()

	err := repo.UpdateStatusTx(context.Background(), tx, 99,
		model.ReservationStatusCancelled, model.ReservationStatusBooked, model.ReservationStatusCheckedIn)
	if !errors.Is(err, ErrReservationNotFound) {
		t.Fatalf("err = %v, want ErrReservationNotFound", err)
	}
}

func TestUpdateDatesTxRejectsNonBooked(t *testing.T) {
	repo, mock, db := newReservationRepo(t)
	defer db.Close()

	checkIn := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 6, 4, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE reservations").
		WithArgs(checkIn, checkOut, uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT status FROM reservations").
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(model.ReservationStatusCheckedIn))
	mock.ExpectRollback()

	tx := beginTx(t, db)
	defer tx.Rollback()

	err := repo.UpdateDatesTx(context.Background(), tx, 11, checkIn, checkOut)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}
