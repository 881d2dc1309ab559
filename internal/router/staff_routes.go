package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-operations/internal/handler"    // front-desk handlers
	"github.com/iliyamo/hotel-operations/internal/middleware" // JWT + role middlewares
)

// RegisterStaff registers front-desk endpoints under /v1.
// All routes require a valid JWT and either the STAFF or ADMIN role; admins
// can do everything staff can.  The cache middleware is applied only to the
// catalog listings, which tolerate a short staleness window.
func RegisterStaff(
	e *echo.Echo,
	customers *handler.CustomerHandler,
	rooms *handler.RoomHandler,
	reservations *handler.ReservationHandler,
	transactions *handler.TransactionHandler,
	roomService *handler.RoomServiceHandler,
	billing *handler.BillingHandler,
	jwtSecret string,
	cache echo.MiddlewareFunc,
) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("STAFF", "ADMIN"),
	)

	// ---- Customers ----
	g.POST("/customers", customers.CreateCustomer)
	g.GET("/customers", customers.ListCustomers)
	g.GET("/customers/:id", customers.GetCustomer)
	g.PUT("/customers/:id", customers.UpdateCustomer)
	g.PATCH("/customers/:id", customers.UpdateCustomer) // allow partial/semantic updates via PATCH as well
	g.DELETE("/customers/:id", customers.DeleteCustomer)

	// ---- Rooms (read side) ----
	// NOTE: Creating, updating and deleting rooms is ADMIN-only and lives in
	// admin_routes.go.  Staff only browse the catalog when placing guests.
	g.GET("/rooms", rooms.ListRooms, cache) // supports ?status= filtering
	g.GET("/rooms/:id", rooms.GetRoom)

	// ---- Reservations ----
	g.POST("/reservations", reservations.CreateReservation)
	g.GET("/reservations", reservations.ListReservations) // supports ?status= filtering
	g.GET("/reservations/:id", reservations.GetReservation)
	g.PUT("/reservations/:id", reservations.UpdateReservation) // reschedule while still BOOKED
	g.PATCH("/reservations/:id", reservations.UpdateReservation)

	// Lifecycle transitions are modelled as sub-resources so the audit trail
	// in the access log reads naturally.
	g.POST("/reservations/:id/check-in", reservations.CheckIn)
	g.POST("/reservations/:id/check-out", reservations.CheckOut)
	g.POST("/reservations/:id/cancel", reservations.Cancel)

	// ---- Payments ledger ----
	g.POST("/transactions", transactions.CreateTransaction)
	g.GET("/reservations/:id/transactions", transactions.ListTransactions)

	// ---- Room service ----
	// NOTE: Managing the item catalog is ADMIN-only (see admin_routes.go).
	g.GET("/room-service/items", roomService.ListItems, cache)
	g.GET("/room-service/items/:id", roomService.GetItem)
	g.POST("/room-service/orders", roomService.CreateOrder)
	g.GET("/reservations/:id/orders", roomService.ListOrders)
	g.PUT("/room-service/orders/:id/status", roomService.UpdateOrderStatus)
	g.PATCH("/room-service/orders/:id/status", roomService.UpdateOrderStatus)

	// ---- Billing ----
	// Bills are never cached: they must always reflect the ledger as of the
	// request, so a payment posted a second ago shows up immediately.
	g.GET("/reservations/:id/bill", billing.GetBill)
	g.GET("/reservations/:id/bill.pdf", billing.GetBillPDF)
}
