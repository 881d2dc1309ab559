package model

import "time"

// Customer is a hotel guest on record.  A customer may hold any
// number of reservations over time; deleting a customer is only
// allowed while no reservations reference them.
//
// Fields:
//  ID        – primary key identifier.
//  FullName  – guest name as written on the booking.
//  Email     – unique contact email.
//  Phone     – contact phone number (free-form).
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Customer struct {
	ID        uint64    // customers.id
	FullName  string    // customers.full_name
	Email     string    // customers.email
	Phone     string    // customers.phone
	CreatedAt time.Time // customers.created_at
	UpdatedAt time.Time // customers.updated_at
}
