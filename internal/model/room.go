package model

import "time"

// Room lifecycle states.  AVAILABLE rooms can accept new
// reservations, OCCUPIED rooms currently host a checked-in guest,
// and MAINTENANCE rooms are blocked from the reservation flow
// entirely until flipped back by an admin.
const (
	RoomStatusAvailable   = "AVAILABLE"
	RoomStatusOccupied    = "OCCUPIED"
	RoomStatusMaintenance = "MAINTENANCE"
)

// Room represents one rentable unit of inventory.  RateCents is the
// nightly rate at the time of lookup; the rate actually charged for
// a stay is read when the bill is computed, so rate changes apply
// to open reservations (unlike room-service prices, which are
// frozen per order line).
//
// Fields:
//  ID         – primary key identifier.
//  RoomNumber – unique human-facing number (e.g. "204").
//  RoomType   – category label (e.g. "SINGLE", "DOUBLE", "SUITE").
//  RateCents  – nightly rate in cents.
//  Status     – AVAILABLE, OCCUPIED or MAINTENANCE.
//  CreatedAt  – timestamp of creation.
//  UpdatedAt  – timestamp of last update.
type Room struct {
	ID         uint64    // rooms.id
	RoomNumber string    // rooms.room_number
	RoomType   string    // rooms.room_type
	RateCents  int64     // rooms.rate_cents
	Status     string    // rooms.status
	CreatedAt  time.Time // rooms.created_at
	UpdatedAt  time.Time // rooms.updated_at
}
