package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-operations/internal/handler"
	"github.com/iliyamo/hotel-operations/internal/middleware"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1.  Admins manage
// the room catalog and the room-service menu, and they are the only role
// allowed to pull the occupancy and revenue report.
func RegisterAdmin(
	e *echo.Echo,
	rooms *handler.RoomHandler,
	roomService *handler.RoomServiceHandler,
	analytics *handler.AnalyticsHandler,
	jwtSecret string,
	cache echo.MiddlewareFunc,
) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Rooms (write side) ----
	// NOTE: Browsing rooms is open to STAFF as well and is registered in
	// staff_routes.go to avoid route conflicts on GET /v1/rooms.
	g.POST("/rooms", rooms.CreateRoom)
	g.PUT("/rooms/:id", rooms.UpdateRoom)
	g.PATCH("/rooms/:id", rooms.UpdateRoom)
	g.DELETE("/rooms/:id", rooms.DeleteRoom)

	// ---- Room-service menu ----
	g.POST("/room-service/items", roomService.CreateItem)
	g.PUT("/room-service/items/:id", roomService.UpdateItem)
	g.PATCH("/room-service/items/:id", roomService.UpdateItem)
	g.DELETE("/room-service/items/:id", roomService.DeleteItem)

	// ---- Reporting ----
	// The report walks every reservation in the window, so the response is
	// cached briefly to keep dashboard refreshes off the database.
	g.GET("/analytics", analytics.GetReport, cache)
}
