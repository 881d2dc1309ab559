package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/hotel-operations/internal/model"
)

// ErrReservationNotFound is returned when a reservation cannot be found.
var ErrReservationNotFound = errors.New("reservation not found")

// ReservationRepo provides persistence for reservations. Reservations
// own the temporal window over a room; the ledger (transactions) and
// room-service orders hang off a reservation and are never reassigned.
// All timestamp fields are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying pool so callers can open transactions that
// span several repositories.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// CountOverlappingTx counts reservations on the room whose window
// overlaps [checkIn, checkOut) and which still block the calendar
// (BOOKED or CHECKED_IN). excludeID skips one reservation so date
// updates do not collide with themselves; pass 0 on creation.
// Two stays overlap when one starts before the other ends; touching
// bounds (back-to-back stays) do not overlap.
func (r *ReservationRepo) CountOverlappingTx(ctx context.Context, tx *sql.Tx, roomID, excludeID uint64, checkIn, checkOut time.Time) (int, error) {
	const q = `SELECT COUNT(*) FROM reservations
	           WHERE room_id = ? AND id <> ?
	             AND status IN ('BOOKED','CHECKED_IN')
	             AND NOT (check_out <= ? OR check_in >= ?)`
	var n int
	err := tx.QueryRowContext(ctx, q, roomID, excludeID, checkIn, checkOut).Scan(&n)
	return n, err
}

// CreateTx inserts a new reservation within the scope of an existing
// transaction and populates the generated ID plus DB defaults on the
// provided record. The caller is responsible for the overlap check
// and for committing or rolling back.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations (customer_id, room_id, check_in, check_out, status) VALUES (?, ?, ?, ?, ?)`
	if res.Status == "" {
		res.Status = model.ReservationStatusBooked
	}
	result, err := tx.ExecContext(ctx, q, res.CustomerID, res.RoomID, res.CheckIn, res.CheckOut, res.Status)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	const sel = `SELECT customer_id, room_id, check_in, check_out, status, created_at, updated_at FROM reservations WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, res.ID).Scan(
		&res.CustomerID, &res.RoomID, &res.CheckIn, &res.CheckOut, &res.Status, &res.CreatedAt, &res.UpdatedAt,
	)
}

// GetByID fetches a reservation by id. Returns ErrReservationNotFound
// when absent.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT id, customer_id, room_id, check_in, check_out, status, created_at, updated_at
	           FROM reservations WHERE id = ?`
	var res model.Reservation
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&res.ID, &res.CustomerID, &res.RoomID, &res.CheckIn, &res.CheckOut, &res.Status, &res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// ReservationDetail is a reservation joined with guest and room info
// for list and detail endpoints.
type ReservationDetail struct {
	ID           uint64    `json:"id"`
	CustomerID   uint64    `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	RoomID       uint64    `json:"room_id"`
	RoomNumber   string    `json:"room_number"`
	CheckIn      time.Time `json:"check_in"`
	CheckOut     time.Time `json:"check_out"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// List returns reservation details ordered by check_in descending.
// When status is non-empty only that lifecycle state is returned.
func (r *ReservationRepo) List(ctx context.Context, status string) ([]*ReservationDetail, error) {
	q := `SELECT r.id, r.customer_id, c.full_name, r.room_id, rm.room_number,
	             r.check_in, r.check_out, r.status, r.created_at
	      FROM reservations r
	      JOIN customers c ON c.id = r.customer_id
	      JOIN rooms rm ON rm.id = r.room_id`
	args := []interface{}{}
	if status != "" {
		q += " WHERE r.status = ?"
		args = append(args, status)
	}
	q += " ORDER BY r.check_in DESC, r.id DESC"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*ReservationDetail
	for rows.Next() {
		d := new(ReservationDetail)
		if err := rows.Scan(&d.ID, &d.CustomerID, &d.CustomerName, &d.RoomID, &d.RoomNumber,
			&d.CheckIn, &d.CheckOut, &d.Status, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateDatesTx rewrites the stay window of a BOOKED reservation
// inside an existing transaction. Reservations past BOOKED have an
// anchored arrival and are rejected with ErrConflict.
func (r *ReservationRepo) UpdateDatesTx(ctx context.Context, tx *sql.Tx, id uint64, checkIn, checkOut time.Time) error {
	const q = `UPDATE reservations
	           SET check_in = ?, check_out = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status = 'BOOKED'`
	res, err := tx.ExecContext(ctx, q, checkIn, checkOut, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var status string
		if err := tx.QueryRowContext(ctx, "SELECT status FROM reservations WHERE id = ?", id).Scan(&status); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrReservationNotFound
			}
			return err
		}
		if status != model.ReservationStatusBooked {
			return ErrConflict
		}
	}
	return nil
}

// UpdateStatusTx transitions a reservation from one of the allowed
// source states to the target state inside an existing transaction.
// ErrReservationNotFound is returned when the row is missing and
// ErrConflict when the current status is not in from.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, to string, from ...string) error {
	q := `UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	args := []interface{}{to, id}
	if len(from) > 0 {
		q += " AND status IN ("
		for i, s := range from {
			if i > 0 {
				q += ","
			}
			q += "?"
			args = append(args, s)
		}
		q += ")"
	}
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var cur string
		if err := tx.QueryRowContext(ctx, "SELECT status FROM reservations WHERE id = ?", id).Scan(&cur); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrReservationNotFound
			}
			return err
		}
		return ErrConflict
	}
	return nil
}

// StaySnapshot is the reservation data the billing engine reads under
// its snapshot transaction: the stay window plus the nightly rate of
// the occupied room.
type StaySnapshot struct {
	ReservationID uint64
	CustomerID    uint64
	RoomID        uint64
	RoomNumber    string
	Status        string
	CheckIn       time.Time
	CheckOut      time.Time
	RateCents     int64
}

// GetStayTx loads the billing-relevant view of one reservation inside
// an existing transaction. Returns ErrReservationNotFound when absent.
func (r *ReservationRepo) GetStayTx(ctx context.Context, tx *sql.Tx, id uint64) (*StaySnapshot, error) {
	const q = `SELECT r.id, r.customer_id, r.room_id, rm.room_number, r.status, r.check_in, r.check_out, rm.rate_cents
	           FROM reservations r
	           JOIN rooms rm ON rm.id = r.room_id
	           WHERE r.id = ?`
	var s StaySnapshot
	if err := tx.QueryRowContext(ctx, q, id).Scan(
		&s.ReservationID, &s.CustomerID, &s.RoomID, &s.RoomNumber, &s.Status, &s.CheckIn, &s.CheckOut, &s.RateCents,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListOverlappingIDs returns the ids of all reservations whose stay
// window intersects [from, to), regardless of status. The analytics
// reporter feeds these ids one by one into the billing engine.
func (r *ReservationRepo) ListOverlappingIDs(ctx context.Context, from, to time.Time) ([]uint64, error) {
	const q = `SELECT id FROM reservations
	           WHERE NOT (check_out <= ? OR check_in >= ?)
	           ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// OccupiedStay is the minimal view needed to count occupied
// room-nights inside a reporting window.
type OccupiedStay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// ListOccupiedStays returns the stay windows of non-cancelled
// reservations intersecting [from, to). Cancelled reservations never
// occupied the room, so they are excluded from occupancy.
func (r *ReservationRepo) ListOccupiedStays(ctx context.Context, from, to time.Time) ([]OccupiedStay, error) {
	const q = `SELECT check_in, check_out FROM reservations
	           WHERE status <> 'CANCELLED'
	             AND NOT (check_out <= ? OR check_in >= ?)`
	rows, err := r.db.QueryContext(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []OccupiedStay
	for rows.Next() {
		var s OccupiedStay
		if err := rows.Scan(&s.CheckIn, &s.CheckOut); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// StayBounds reports the earliest check_in and latest check_out over
// all reservations. ok is false when no reservations exist.
func (r *ReservationRepo) StayBounds(ctx context.Context) (min, max time.Time, ok bool, err error) {
	const q = "SELECT MIN(check_in), MAX(check_out) FROM reservations"
	var lo, hi sql.NullTime
	if err = r.db.QueryRowContext(ctx, q).Scan(&lo, &hi); err != nil {
		return
	}
	if !lo.Valid || !hi.Valid {
		return
	}
	return lo.Time, hi.Time, true, nil
}

// PopularRoomType returns the room type with the most non-cancelled
// reservations intersecting [from, to). Empty string when the window
// holds no reservations.
func (r *ReservationRepo) PopularRoomType(ctx context.Context, from, to time.Time) (string, error) {
	const q = `SELECT rm.room_type FROM reservations r
	           JOIN rooms rm ON rm.id = r.room_id
	           WHERE r.status <> 'CANCELLED'
	             AND NOT (r.check_out <= ? OR r.check_in >= ?)
	           GROUP BY rm.room_type
	           ORDER BY COUNT(*) DESC, rm.room_type
	           LIMIT 1`
	var t string
	err := r.db.QueryRowContext(ctx, q, from, to).Scan(&t)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return t, err
}
