package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-operations/internal/billing"
	"github.com/iliyamo/hotel-operations/internal/model"
	"github.com/iliyamo/hotel-operations/internal/repository"
)

func newReservationHandler(t *testing.T) (*ReservationHandler, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	reservations := repository.NewReservationRepo(db)
	orders := repository.NewServiceOrderRepo(db)
	ledger := repository.NewTransactionRepo(db)
	engine := billing.NewEngine(reservations, orders, ledger)
	h := NewReservationHandler(reservations,
		repository.NewRoomRepo(db), repository.NewCustomerRepo(db), engine)
	return h, mock, db
}

func jsonRequest(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// expectGuestAndRoom wires the existence checks that run before the
// booking transaction: one customer row and one room row.
func expectGuestAndRoom(mock sqlmock.Sqlmock, customerID, roomID uint64, roomStatus string, now time.Time) {
	mock.ExpectQuery("FROM customers WHERE id").WithArgs(customerID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "email", "phone", "created_at", "updated_at"}).
			AddRow(customerID, "Dana Lee", "dana@example.com", "+15551234567", now, now))
	mock.ExpectQuery("FROM rooms WHERE id").WithArgs(roomID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_number", "room_type", "rate_cents", "status", "created_at", "updated_at"}).
			AddRow(roomID, "205", "DOUBLE", 15000, roomStatus, now, now))
}

// A stay that starts the day a previous one ends must be accepted: the
// window is half-open, so back-to-back bookings never overlap.
func TestCreateReservationBackToBack(t *testing.T) {
	h, mock, db := newReservationHandler(t)
	defer db.Close()

	now := time.Now().UTC().Truncate(time.Second)
	in := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	out := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	expectGuestAndRoom(mock, 3, 5, model.RoomStatusAvailable, now)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT").WithArgs(uint64(5), uint64(0), in, out).
		WillReturnRows(sqlmock.NewRows([]string{"cnt"}).AddRow(0))
	mock.ExpectExec("INSERT INTO reservations").
		WithArgs(uint64(3), uint64(5), in, out, model.ReservationStatusBooked).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery("FROM reservations WHERE id").WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"customer_id", "room_id", "check_in", "check_out", "status", "created_at", "updated_at"}).
			AddRow(3, 5, in, out, model.ReservationStatusBooked, now, now))
	mock.ExpectCommit()

	e := echo.New()
	c, rec := jsonRequest(e, http.MethodPost, "/v1/reservations",
		`{"customer_id":3,"room_id":5,"check_in":"2026-03-10","check_out":"2026-03-12"}`)
	if err := h.CreateReservation(c); err != nil {
		t.Fatalf("CreateReservation returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), model.ReservationStatusBooked) {
		t.Fatalf("body missing BOOKED status: %s", rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateReservationOverlapConflict(t *testing.T) {
	h, mock, db := newReservationHandler(t)
	defer db.Close()

	now := time.Now().UTC().Truncate(time.Second)
	in := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	out := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	expectGuestAndRoom(mock, 3, 5, model.RoomStatusAvailable, now)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT").WithArgs(uint64(5), uint64(0), in, out).
		WillReturnRows(sqlmock.NewRows([]string{"cnt"}).AddRow(1))
	mock.ExpectRollback()

	e := echo.New()
	c, rec := jsonRequest(e, http.MethodPost, "/v1/reservations",
		`{"customer_id":3,"room_id":5,"check_in":"2026-03-09","check_out":"2026-03-11"}`)
	if err := h.CreateReservation(c); err != nil {
		t.Fatalf("CreateReservation returned error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "already booked") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	// No INSERT may run once the overlap count comes back positive.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateReservationMaintenanceRoom(t *testing.T) {
	h, mock, db := newReservationHandler(t)
	defer db.Close()

	now := time.Now().UTC().Truncate(time.Second)
	expectGuestAndRoom(mock, 3, 5, model.RoomStatusMaintenance, now)

	e := echo.New()
	c, rec := jsonRequest(e, http.MethodPost, "/v1/reservations",
		`{"customer_id":3,"room_id":5,"check_in":"2026-03-10","check_out":"2026-03-12"}`)
	if err := h.CreateReservation(c); err != nil {
		t.Fatalf("CreateReservation returned error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateReservationBadDates(t *testing.T) {
	h, _, db := newReservationHandler(t)
	defer db.Close()

	e := echo.New()
	c, rec := jsonRequest(e, http.MethodPost, "/v1/reservations",
		`{"customer_id":3,"room_id":5,"check_in":"2026-03-10","check_out":"2026-03-10"}`)
	if err := h.CreateReservation(c); err != nil {
		t.Fatalf("CreateReservation returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCheckInHappyPath(t *testing.T) {
	h, mock, db := newReservationHandler(t)
	defer db.Close()

	now := time.Now().UTC().Truncate(time.Second)
	in := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	out := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM reservations r").WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "room_id", "room_number", "status", "check_in", "check_out", "rate_cents"}).
			AddRow(9, 3, 5, "205", model.ReservationStatusBooked, in, out, 15000))
	mock.ExpectQuery("FROM rooms WHERE id").WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_number", "room_type", "rate_cents", "status", "created_at", "updated_at"}).
			AddRow(5, "205", "DOUBLE", 15000, model.RoomStatusAvailable, now, now))
	mock.ExpectExec("UPDATE reservations SET status").
		WithArgs(model.ReservationStatusCheckedIn, uint64(9), model.ReservationStatusBooked).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE rooms SET status").
		WithArgs(model.RoomStatusOccupied, uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	e := echo.New()
	c, rec := jsonRequest(e, http.MethodPost, "/v1/reservations/9/check-in", "")
	c.SetPath("/v1/reservations/:id/check-in")
	c.SetParamNames("id")
	c.SetParamValues("9")
	if err := h.CheckIn(c); err != nil {
		t.Fatalf("CheckIn returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), model.ReservationStatusCheckedIn) {
		t.Fatalf("body missing CHECKED_IN: %s", rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCheckInWrongState(t *testing.T) {
	h, mock, db := newReservationHandler(t)
	defer db.Close()

	now := time.Now().UTC().Truncate(time.Second)
	in := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	out := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM reservations r").WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "room_id", "room_number", "status", "check_in", "check_out", "rate_cents"}).
			AddRow(9, 3, 5, "205", model.ReservationStatusCheckedOut, in, out, 15000))
	mock.ExpectQuery("FROM rooms WHERE id").WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_number", "room_type", "rate_cents", "status", "created_at", "updated_at"}).
			AddRow(5, "205", "DOUBLE", 15000, model.RoomStatusAvailable, now, now))
	mock.ExpectExec("UPDATE reservations SET status").
		WithArgs(model.ReservationStatusCheckedIn, uint64(9), model.ReservationStatusBooked).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT status FROM reservations").WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(model.ReservationStatusCheckedOut))
	mock.ExpectRollback()

	e := echo.New()
	c, rec := jsonRequest(e, http.MethodPost, "/v1/reservations/9/check-in", "")
	c.SetPath("/v1/reservations/:id/check-in")
	c.SetParamNames("id")
	c.SetParamValues("9")
	if err := h.CheckIn(c); err != nil {
		t.Fatalf("CheckIn returned error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409 (body %s)", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
