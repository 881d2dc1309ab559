package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-operations/internal/billing"
	"github.com/iliyamo/hotel-operations/internal/pdf"
	"github.com/iliyamo/hotel-operations/internal/repository"
)

// BillingHandler serves computed bills. The bill is derived on every
// request; nothing here writes, and responses are never cached so the
// amounts always reflect the current ledger.
type BillingHandler struct {
	Engine       *billing.Engine
	Reservations *repository.ReservationRepo
	Rooms        *repository.RoomRepo
	Customers    *repository.CustomerRepo
	Orders       *repository.ServiceOrderRepo
	Ledger       *repository.TransactionRepo
}

// NewBillingHandler constructs a BillingHandler. All dependencies must
// be non-nil.
func NewBillingHandler(engine *billing.Engine, reservations *repository.ReservationRepo, rooms *repository.RoomRepo, customers *repository.CustomerRepo, orders *repository.ServiceOrderRepo, ledger *repository.TransactionRepo) *BillingHandler {
	if engine == nil || reservations == nil || rooms == nil || customers == nil || orders == nil || ledger == nil {
		panic("nil dependency passed to NewBillingHandler")
	}
	return &BillingHandler{
		Engine:       engine,
		Reservations: reservations,
		Rooms:        rooms,
		Customers:    customers,
		Orders:       orders,
		Ledger:       ledger,
	}
}

// GetBill handles GET /v1/reservations/:id/bill.
func (h *BillingHandler) GetBill(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	bill, err := h.Engine.Compute(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		if errors.Is(err, billing.ErrInvalidStay) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "reservation stay window is invalid"})
		}
		log.Printf("billing: compute failed for reservation %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, bill)
}

// GetBillPDF handles GET /v1/reservations/:id/bill.pdf and returns the
// bill as a printable folio.
func (h *BillingHandler) GetBillPDF(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	bill, err := h.Engine.Compute(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		if errors.Is(err, billing.ErrInvalidStay) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "reservation stay window is invalid"})
		}
		log.Printf("billing: compute failed for reservation %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}

	res, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
	}
	st := pdf.Statement{Bill: bill, CheckIn: res.CheckIn, CheckOut: res.CheckOut}
	if cust, err := h.Customers.GetByID(ctx, res.CustomerID); err == nil {
		st.GuestName = cust.FullName
	}
	if room, err := h.Rooms.GetByID(ctx, res.RoomID); err == nil {
		st.RoomNumber = room.RoomNumber
		st.RoomType = room.RoomType
	}
	if orders, err := h.Orders.ListByReservation(ctx, id); err == nil {
		st.Orders = orders
	}
	if txs, err := h.Ledger.ListByReservation(ctx, id); err == nil {
		st.Transactions = txs
	}

	data, filename, err := pdf.BuildStatement(st)
	if err != nil {
		log.Printf("billing: statement render failed for reservation %d: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to render statement"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "application/pdf", data)
}
