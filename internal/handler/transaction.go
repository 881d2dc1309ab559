package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-operations/internal/model"
	"github.com/iliyamo/hotel-operations/internal/repository"
)

// TransactionHandler records money movements against reservations. The
// ledger is append-only: entries can be created and listed, never
// updated or deleted. Corrections are new entries (a REFUND offsets a
// PAYMENT).
type TransactionHandler struct {
	Ledger       *repository.TransactionRepo
	Reservations *repository.ReservationRepo
}

// NewTransactionHandler constructs a TransactionHandler. All
// dependencies must be non-nil.
func NewTransactionHandler(ledger *repository.TransactionRepo, reservations *repository.ReservationRepo) *TransactionHandler {
	if ledger == nil || reservations == nil {
		panic("nil dependency passed to NewTransactionHandler")
	}
	return &TransactionHandler{Ledger: ledger, Reservations: reservations}
}

// CreateTransaction handles POST /v1/transactions.
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	var req struct {
		ReservationID uint64 `json:"reservation_id"`
		AmountCents   int64  `json:"amount_cents"`
		Kind          string `json:"kind"`
		Reference     string `json:"reference"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.ReservationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation_id is required"})
	}
	if req.AmountCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount_cents must be positive"})
	}
	kind := strings.ToUpper(strings.TrimSpace(req.Kind))
	switch kind {
	case model.TransactionKindPayment, model.TransactionKindRefund, model.TransactionKindCharge:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "kind must be PAYMENT, REFUND or CHARGE"})
	}

	ctx := c.Request().Context()
	if _, err := h.Reservations.GetByID(ctx, req.ReservationID); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	reference := strings.TrimSpace(req.Reference)
	if reference == "" {
		reference = uuid.NewString()
	}
	t := &model.Transaction{
		ReservationID: req.ReservationID,
		AmountCents:   req.AmountCents,
		Kind:          kind,
		Reference:     reference,
	}
	if err := h.Ledger.Create(ctx, t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record transaction"})
	}
	// Ledger entries move money, so record who posted them.
	if uid, err := getUserID(c); err == nil {
		log.Printf("ledger: %s of %d cents on reservation %d posted by user %d", kind, t.AmountCents, t.ReservationID, uid)
	}
	return c.JSON(http.StatusCreated, t)
}

// ListTransactions handles GET /v1/reservations/:id/transactions.
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Reservations.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items, err := h.Ledger.ListByReservation(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load transactions"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
