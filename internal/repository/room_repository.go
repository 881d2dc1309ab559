// This file defines repository methods for room inventory. Rooms carry the
// nightly rate used by bill computation and a coarse status driven by the
// reservation lifecycle (check-in flips a room to OCCUPIED, check-out and
// cancellation release it). MAINTENANCE is set manually by admins and takes
// a room out of the booking flow.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-operations/internal/model"
)

// ErrRoomNotFound is returned when a room cannot be found in the DB.
var ErrRoomNotFound = errors.New("room not found")

// ErrRoomNumberExists is returned when the unique room_number collides.
var ErrRoomNumberExists = errors.New("room number already exists")

// RoomRepo encapsulates all database queries related to rooms.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the provided DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// Create inserts a new room and populates ID plus the DB-assigned
// defaults (status, timestamps) via a follow-up SELECT.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	const qInsert = "INSERT INTO rooms (room_number, room_type, rate_cents, status) VALUES (?, ?, ?, ?)"
	if rm.Status == "" {
		rm.Status = model.RoomStatusAvailable
	}
	res, err := r.db.ExecContext(ctx, qInsert, rm.RoomNumber, rm.RoomType, rm.RateCents, rm.Status)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrRoomNumberExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)

	const qSelect = "SELECT room_number, room_type, rate_cents, status, created_at, updated_at FROM rooms WHERE id = ?"
	if err := r.db.QueryRowContext(ctx, qSelect, rm.ID).Scan(&rm.RoomNumber, &rm.RoomType, &rm.RateCents, &rm.Status, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
		return err
	}
	return nil
}

// GetByID fetches a room by id. Returns ErrRoomNotFound if absent.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = "SELECT id, room_number, room_type, rate_cents, status, created_at, updated_at FROM rooms WHERE id = ?"
	var rm model.Room
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&rm.ID, &rm.RoomNumber, &rm.RoomType, &rm.RateCents, &rm.Status, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

// List returns rooms ordered by room_number. When status is non-empty
// only rooms in that status are returned.
func (r *RoomRepo) List(ctx context.Context, status string) ([]*model.Room, error) {
	q := `SELECT id, room_number, room_type, rate_cents, status, created_at, updated_at
	      FROM rooms`
	args := []interface{}{}
	if status != "" {
		q += " WHERE status = ?"
		args = append(args, status)
	}
	q += " ORDER BY room_number"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Room
	for rows.Next() {
		rm := new(model.Room)
		if err := rows.Scan(&rm.ID, &rm.RoomNumber, &rm.RoomType, &rm.RateCents, &rm.Status, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites room_number, room_type, rate and status. Bills read
// the live rate at computation time, so a rate edit shows up in every
// bill computed afterwards, past stays included. Service prices freeze
// on order lines; room rates do not.
func (r *RoomRepo) Update(ctx context.Context, rm *model.Room) error {
	const q = `UPDATE rooms
	           SET room_number = ?, room_type = ?, rate_cents = ?, status = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, rm.RoomNumber, rm.RoomType, rm.RateCents, rm.Status, rm.ID)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrRoomNumberExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM rooms WHERE id = ?)", rm.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrRoomNotFound
		}
	}
	return nil
}

// UpdateStatusTx flips a room's status inside an existing transaction.
// Used by the reservation lifecycle so the room and reservation change
// atomically.
func (r *RoomRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	const q = "UPDATE rooms SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	res, err := tx.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// Delete removes a room that has no reservations on file. ErrInUse is
// returned when reservation history references the room.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reservations WHERE room_id = ?", id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrInUse
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM rooms WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// CountAll returns the number of rooms. The analytics report multiplies
// this by the window length to get available room-nights.
func (r *RoomRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rooms").Scan(&n)
	return n, err
}
