package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-operations/internal/model"
	"github.com/iliyamo/hotel-operations/internal/repository"
)

// RoomServiceHandler covers the room-service catalog and ordering.
// Catalog prices are live and editable; order lines capture the unit
// price at creation time, so later price changes never move past
// bills.
type RoomServiceHandler struct {
	Items        *repository.ServiceItemRepo
	Orders       *repository.ServiceOrderRepo
	Reservations *repository.ReservationRepo
}

// NewRoomServiceHandler constructs a RoomServiceHandler. All
// dependencies must be non-nil.
func NewRoomServiceHandler(items *repository.ServiceItemRepo, orders *repository.ServiceOrderRepo, reservations *repository.ReservationRepo) *RoomServiceHandler {
	if items == nil || orders == nil || reservations == nil {
		panic("nil dependency passed to NewRoomServiceHandler")
	}
	return &RoomServiceHandler{Items: items, Orders: orders, Reservations: reservations}
}

type itemReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
}

// CreateItem handles POST /v1/room-service/items.
func (h *RoomServiceHandler) CreateItem(c echo.Context) error {
	var req itemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.PriceCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_cents must be positive"})
	}
	item := &model.RoomServiceItem{Name: req.Name, Description: strings.TrimSpace(req.Description), PriceCents: req.PriceCents}
	if err := h.Items.Create(c.Request().Context(), item); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "item name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create item"})
	}
	return c.JSON(http.StatusCreated, item)
}

// ListItems handles GET /v1/room-service/items.
func (h *RoomServiceHandler) ListItems(c echo.Context) error {
	items, err := h.Items.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetItem handles GET /v1/room-service/items/:id.
func (h *RoomServiceHandler) GetItem(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}
	item, err := h.Items.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": item})
}

// UpdateItem handles PUT /v1/room-service/items/:id. Price changes
// apply to future orders only; existing order lines keep the price
// captured when they were created.
func (h *RoomServiceHandler) UpdateItem(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}
	var req itemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.PriceCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_cents must be positive"})
	}
	item := &model.RoomServiceItem{ID: id, Name: req.Name, Description: strings.TrimSpace(req.Description), PriceCents: req.PriceCents}
	if err := h.Items.Update(c.Request().Context(), item); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "item name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Items.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteItem handles DELETE /v1/room-service/items/:id. Items that
// appear on order lines cannot be removed; existing orders still
// reference them.
func (h *RoomServiceHandler) DeleteItem(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
	}
	if err := h.Items.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		if errors.Is(err, repository.ErrInUse) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "item appears on orders"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateOrder handles POST /v1/room-service/orders. Orders can only be
// placed for guests currently in house. Unit prices are read from the
// catalog inside the same transaction that stores the lines.
func (h *RoomServiceHandler) CreateOrder(c echo.Context) error {
	var req struct {
		ReservationID uint64                      `json:"reservation_id"`
		Reference     string                      `json:"reference"`
		Lines         []repository.OrderLineInput `json:"lines"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.ReservationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation_id is required"})
	}
	if len(req.Lines) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "at least one line is required"})
	}
	for _, l := range req.Lines {
		if l.ItemID == 0 || l.Quantity <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "each line needs item_id and a positive quantity"})
		}
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
	st, err := h.Reservations.GetStayTx(ctx, tx, req.ReservationID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservation"})
	}
	if st.Status != model.ReservationStatusCheckedIn {
		return c.JSON(http.StatusConflict, echo.Map{"error": "guest is not checked in"})
	}
	reference := strings.TrimSpace(req.Reference)
	if reference == "" {
		reference = uuid.NewString()
	}
	order := &model.RoomServiceOrder{ReservationID: req.ReservationID, Reference: reference}
	lines, err := h.Orders.CreateTx(ctx, tx, order, req.Lines)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	var total int64
	for _, l := range lines {
		total += l.UnitPriceCents * l.Quantity
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"order":       order,
		"lines":       lines,
		"total_cents": total,
	})
}

// ListOrders handles GET /v1/reservations/:id/orders.
func (h *RoomServiceHandler) ListOrders(c echo.Context) error {
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
	items, err := h.Orders.ListByReservation(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load orders"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateOrderStatus handles PUT /v1/room-service/orders/:id/status.
// Order status is operational bookkeeping for the kitchen; it never
// changes what the order bills.
func (h *RoomServiceHandler) UpdateOrderStatus(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	switch status {
	case model.OrderStatusPending, model.OrderStatusDelivered, model.OrderStatusCancelled:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be PENDING, DELIVERED or CANCELLED"})
	}
	if err := h.Orders.UpdateStatus(c.Request().Context(), id, status); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": status})
}
