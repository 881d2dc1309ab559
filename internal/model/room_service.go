package model

import "time"

// Room-service order states.  The status is operational only (has
// the tray been delivered); billing charges every order regardless
// of status, since cancellations are settled through the ledger.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// RoomServiceItem is a catalog entry (e.g. "Club Sandwich").
// PriceCents is the current catalog price and may change at any
// time; orders copy the price into their lines at creation so that
// history is immune to later edits.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – unique item name.
//  Description – free-form description.
//  PriceCents  – current catalog price in cents.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type RoomServiceItem struct {
	ID          uint64    // room_service_items.id
	Name        string    // room_service_items.name
	Description string    // room_service_items.description
	PriceCents  int64     // room_service_items.price_cents
	CreatedAt   time.Time // room_service_items.created_at
	UpdatedAt   time.Time // room_service_items.updated_at
}

// RoomServiceOrder groups the line items of a single order against
// a reservation.  Orders are immutable after creation except for
// the delivery status.
//
// Fields:
//  ID            – primary key identifier.
//  ReservationID – reservation the order bills to.
//  Status        – PENDING, DELIVERED or CANCELLED.
//  Reference     – UUID assigned at creation for tracing.
//  CreatedAt     – creation timestamp.
type RoomServiceOrder struct {
	ID            uint64    // room_service_orders.id
	ReservationID uint64    // room_service_orders.reservation_id
	Status        string    // room_service_orders.status
	Reference     string    // room_service_orders.reference
	CreatedAt     time.Time // room_service_orders.created_at
}

// RoomServiceOrderLine is one item position within an order.
// UnitPriceCents is copied from the catalog when the order is
// placed; bills read this value and never re-join the live catalog.
//
// Fields:
//  ID             – primary key identifier.
//  OrderID        – owning order.
//  ItemID         – catalog item ordered.
//  Quantity       – number of units, at least 1.
//  UnitPriceCents – catalog price in cents frozen at order time.
type RoomServiceOrderLine struct {
	ID             uint64 // room_service_order_lines.id
	OrderID        uint64 // room_service_order_lines.order_id
	ItemID         uint64 // room_service_order_lines.item_id
	Quantity       int64  // room_service_order_lines.quantity
	UnitPriceCents int64  // room_service_order_lines.unit_price_cents
}
