package model

import "time"

// Reservation lifecycle states.  BOOKED and CHECKED_IN reservations
// block the room's calendar; CHECKED_OUT and CANCELLED do not.
const (
	ReservationStatusBooked     = "BOOKED"
	ReservationStatusCheckedIn  = "CHECKED_IN"
	ReservationStatusCheckedOut = "CHECKED_OUT"
	ReservationStatusCancelled  = "CANCELLED"
)

// Reservation ties a customer to a room for a temporal window.
// CheckIn/CheckOut are the scheduled stay bounds, stored as UTC
// datetimes so that partial-day stays round up to whole nights when
// billed.  The invariant check_out > check_in is enforced at
// creation time; a room never holds two overlapping reservations
// in BOOKED or CHECKED_IN status.
//
// Fields:
//  ID         – primary key identifier.
//  CustomerID – guest holding the reservation.
//  RoomID     – room being reserved.
//  CheckIn    – scheduled arrival (UTC).
//  CheckOut   – scheduled departure (UTC), strictly after CheckIn.
//  Status     – BOOKED, CHECKED_IN, CHECKED_OUT or CANCELLED.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Reservation struct {
	ID         uint64    // reservations.id
	CustomerID uint64    // reservations.customer_id
	RoomID     uint64    // reservations.room_id
	CheckIn    time.Time // reservations.check_in
	CheckOut   time.Time // reservations.check_out
	Status     string    // reservations.status
	CreatedAt  time.Time // reservations.created_at
	UpdatedAt  time.Time // reservations.updated_at
}
