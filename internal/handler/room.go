package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-operations/internal/model"
	"github.com/iliyamo/hotel-operations/internal/repository"
)

// RoomHandler exposes CRUD endpoints for the room inventory. Creating,
// updating and deleting rooms is reserved for admins at the route
// level; listing is open to all staff.
type RoomHandler struct {
	Rooms *repository.RoomRepo
}

// NewRoomHandler constructs a RoomHandler. The repository must be
// non-nil.
func NewRoomHandler(rooms *repository.RoomRepo) *RoomHandler {
	if rooms == nil {
		panic("nil repository passed to NewRoomHandler")
	}
	return &RoomHandler{Rooms: rooms}
}

type roomReq struct {
	RoomNumber string `json:"room_number"`
	RoomType   string `json:"room_type"`
	RateCents  int64  `json:"rate_cents"`
	Status     string `json:"status"`
}

// CreateRoom handles POST /v1/rooms.
func (h *RoomHandler) CreateRoom(c echo.Context) error {
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.RoomNumber = strings.TrimSpace(req.RoomNumber)
	req.RoomType = strings.ToUpper(strings.TrimSpace(req.RoomType))
	if req.RoomNumber == "" || req.RoomType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_number and room_type are required"})
	}
	if req.RateCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rate_cents must be positive"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status != "" && status != model.RoomStatusAvailable && status != model.RoomStatusMaintenance {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be AVAILABLE or MAINTENANCE"})
	}
	room := &model.Room{RoomNumber: req.RoomNumber, RoomType: req.RoomType, RateCents: req.RateCents, Status: status}
	if err := h.Rooms.Create(c.Request().Context(), room); err != nil {
		if errors.Is(err, repository.ErrRoomNumberExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create room"})
	}
	return c.JSON(http.StatusCreated, room)
}

// ListRooms handles GET /v1/rooms with an optional ?status= filter.
func (h *RoomHandler) ListRooms(c echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status != "" && status != model.RoomStatusAvailable && status != model.RoomStatusOccupied && status != model.RoomStatusMaintenance {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status filter"})
	}
	items, err := h.Rooms.List(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetRoom handles GET /v1/rooms/:id.
func (h *RoomHandler) GetRoom(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	room, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": room})
}

// UpdateRoom handles PUT /v1/rooms/:id. Room status moves through the
// reservation lifecycle (check-in/check-out), so this endpoint accepts
// only AVAILABLE and MAINTENANCE as explicit statuses; OCCUPIED cannot
// be set by hand.
func (h *RoomHandler) UpdateRoom(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.RoomNumber = strings.TrimSpace(req.RoomNumber)
	req.RoomType = strings.ToUpper(strings.TrimSpace(req.RoomType))
	if req.RoomNumber == "" || req.RoomType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_number and room_type are required"})
	}
	if req.RateCents <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rate_cents must be positive"})
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if status == "" {
		current, err := h.Rooms.GetByID(c.Request().Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrRoomNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		status = current.Status
	} else if status != model.RoomStatusAvailable && status != model.RoomStatusMaintenance {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be AVAILABLE or MAINTENANCE"})
	}
	room := &model.Room{ID: id, RoomNumber: req.RoomNumber, RoomType: req.RoomType, RateCents: req.RateCents, Status: status}
	if err := h.Rooms.Update(c.Request().Context(), room); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		if errors.Is(err, repository.ErrRoomNumberExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	updated, err := h.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteRoom handles DELETE /v1/rooms/:id. Rooms referenced by
// reservations cannot be removed.
func (h *RoomHandler) DeleteRoom(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	if err := h.Rooms.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		if errors.Is(err, repository.ErrInUse) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room has reservations"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
