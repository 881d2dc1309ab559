package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-operations/internal/billing"
	"github.com/iliyamo/hotel-operations/internal/model"
	"github.com/iliyamo/hotel-operations/internal/queue"
	"github.com/iliyamo/hotel-operations/internal/repository"
	queue_publisher "github.com/iliyamo/hotel-operations/internal/service"
)

// ReservationHandler groups the repositories needed to create and move
// reservations through their lifecycle. Date and overlap checks run
// inside a transaction so two concurrent bookings cannot both pass the
// overlap test. Check-out computes the final bill and publishes it to
// the billing queue.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
	Rooms        *repository.RoomRepo
	Customers    *repository.CustomerRepo
	Engine       *billing.Engine
}

// NewReservationHandler constructs a ReservationHandler. All
// dependencies must be non-nil.
func NewReservationHandler(reservations *repository.ReservationRepo, rooms *repository.RoomRepo, customers *repository.CustomerRepo, engine *billing.Engine) *ReservationHandler {
	if reservations == nil || rooms == nil || customers == nil || engine == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{
		Reservations: reservations,
		Rooms:        rooms,
		Customers:    customers,
		Engine:       engine,
	}
}

type reservationReq struct {
	CustomerID uint64 `json:"customer_id"`
	RoomID     uint64 `json:"room_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
}

// CreateReservation handles POST /v1/reservations. The stay window is
// half-open [check_in, check_out); back-to-back stays on the same room
// are allowed, overlapping ones are rejected with 409.
func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.CustomerID == 0 || req.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_id and room_id are required"})
	}
	checkIn, ok := parseDate(req.CheckIn)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in date"})
	}
	checkOut, ok := parseDate(req.CheckOut)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out date"})
	}
	if !checkOut.After(checkIn) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be after check_in"})
	}

	ctx := c.Request().Context()
	if _, err := h.Customers.GetByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	room, err := h.Rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if room.Status == model.RoomStatusMaintenance {
		return c.JSON(http.StatusConflict, echo.Map{"error": "room is under maintenance"})
	}

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	n, err := h.Reservations.CountOverlappingTx(ctx, tx, req.RoomID, 0, checkIn, checkOut)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check availability"})
	}
	if n > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "room is already booked for this period"})
	}
	res := &model.Reservation{
		CustomerID: req.CustomerID,
		RoomID:     req.RoomID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
	}
	if err := h.Reservations.CreateTx(ctx, tx, res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusCreated, res)
}

// ListReservations handles GET /v1/reservations with an optional
// ?status= filter.
func (h *ReservationHandler) ListReservations(c echo.Context) error {
	status := c.QueryParam("status")
	switch status {
	case "", model.ReservationStatusBooked, model.ReservationStatusCheckedIn,
		model.ReservationStatusCheckedOut, model.ReservationStatusCancelled:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status filter"})
	}
	items, err := h.Reservations.List(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetReservation handles GET /v1/reservations/:id.
func (h *ReservationHandler) GetReservation(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Reservations.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// UpdateReservation handles PUT /v1/reservations/:id. Only the stay
// window can change, and only while the reservation is still BOOKED.
func (h *ReservationHandler) UpdateReservation(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req struct {
		CheckIn  string `json:"check_in"`
		CheckOut string `json:"check_out"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	checkIn, ok := parseDate(req.CheckIn)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in date"})
	}
	checkOut, ok := parseDate(req.CheckOut)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out date"})
	}
	if !checkOut.After(checkIn) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be after check_in"})
	}

	ctx := c.Request().Context()
	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	st, err := h.Reservations.GetStayTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
	}
	// exclude the reservation itself from the overlap check
	n, err := h.Reservations.CountOverlappingTx(ctx, tx, st.RoomID, id, checkIn, checkOut)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check availability"})
	}
	if n > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "room is already booked for this period"})
	}
	if err := h.Reservations.UpdateDatesTx(ctx, tx, id, checkIn, checkOut); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "only booked reservations can be rescheduled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	updated, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// CheckIn handles POST /v1/reservations/:id/check-in. The reservation
// moves BOOKED -> CHECKED_IN and the room becomes OCCUPIED.
func (h *ReservationHandler) CheckIn(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	st, err := h.Reservations.GetStayTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
	}
	room, err := h.Rooms.GetByID(ctx, st.RoomID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load room"})
	}
	if room.Status == model.RoomStatusMaintenance {
		return c.JSON(http.StatusConflict, echo.Map{"error": "room is under maintenance"})
	}
	if err := h.Reservations.UpdateStatusTx(ctx, tx, id, model.ReservationStatusCheckedIn, model.ReservationStatusBooked); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is not in BOOKED status"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check-in failed"})
	}
	if err := h.Rooms.UpdateStatusTx(ctx, tx, st.RoomID, model.RoomStatusOccupied); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update room status"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{"reservation_id": id, "status": model.ReservationStatusCheckedIn})
}

// CheckOut handles POST /v1/reservations/:id/check-out. The reservation
// moves CHECKED_IN -> CHECKED_OUT, the room is freed, the final bill is
// computed and published to the billing queue. Publish failures are
// logged but never fail the check-out.
func (h *ReservationHandler) CheckOut(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	st, err := h.Reservations.GetStayTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
	}
	if err := h.Reservations.UpdateStatusTx(ctx, tx, id, model.ReservationStatusCheckedOut, model.ReservationStatusCheckedIn); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is not in CHECKED_IN status"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "check-out failed"})
	}
	if err := h.Rooms.UpdateStatusTx(ctx, tx, st.RoomID, model.RoomStatusAvailable); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update room status"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	// The bill is computed after the commit so it reflects the final
	// state of the stay.
	bill, err := h.Engine.Compute(ctx, id)
	if err != nil {
		log.Printf("check-out: bill computation failed for reservation %d: %v", id, err)
		return c.JSON(http.StatusOK, echo.Map{"reservation_id": id, "status": model.ReservationStatusCheckedOut})
	}

	customerName := ""
	if cust, err := h.Customers.GetByID(ctx, st.CustomerID); err == nil {
		customerName = cust.FullName
	}
	event := queue.BillSettledEvent{
		ReservationID:           id,
		CustomerID:              st.CustomerID,
		CustomerName:            customerName,
		RoomID:                  st.RoomID,
		RoomNumber:              st.RoomNumber,
		Nights:                  bill.Nights,
		RoomChargeCents:         bill.RoomCharge,
		ServiceChargeCents:      bill.ServiceCharge,
		AmountAppliedCents:      bill.AmountApplied,
		OutstandingBalanceCents: bill.OutstandingBalance,
		CheckedOutAt:            time.Now().UTC().Format(time.RFC3339),
	}
	if err := queue_publisher.PublishBillSettled(ctx, event); err != nil {
		log.Printf("check-out: publish bill settled failed for reservation %d: %v", id, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"reservation_id": id,
		"status":         model.ReservationStatusCheckedOut,
		"bill":           bill,
	})
}

// Cancel handles POST /v1/reservations/:id/cancel. BOOKED and
// CHECKED_IN reservations can be cancelled; an occupied room is freed.
// Any retained charges or refunds are recorded separately as ledger
// transactions, the bill stays computable after cancellation.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	st, err := h.Reservations.GetStayTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
	}
	if err := h.Reservations.UpdateStatusTx(ctx, tx, id, model.ReservationStatusCancelled,
		model.ReservationStatusBooked, model.ReservationStatusCheckedIn); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation can no longer be cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	// the room is only occupied when the guest had checked in
	if st.Status == model.ReservationStatusCheckedIn {
		if err := h.Rooms.UpdateStatusTx(ctx, tx, st.RoomID, model.RoomStatusAvailable); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update room status"})
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{"reservation_id": id, "status": model.ReservationStatusCancelled})
}
