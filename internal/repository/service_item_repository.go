package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-operations/internal/model"
)

// ErrItemNotFound is returned when a room-service item cannot be found.
var ErrItemNotFound = errors.New("room service item not found")

// ServiceItemRepo encapsulates queries on the room-service catalog.
// Catalog prices are live values; orders copy them into their lines at
// creation time, so edits here never touch past bills.
type ServiceItemRepo struct {
	db *sql.DB
}

// NewServiceItemRepo constructs a ServiceItemRepo with the provided DB handle.
func NewServiceItemRepo(db *sql.DB) *ServiceItemRepo {
	return &ServiceItemRepo{db: db}
}

// Create inserts a catalog item and populates ID and timestamps.
func (r *ServiceItemRepo) Create(ctx context.Context, it *model.RoomServiceItem) error {
	const qInsert = "INSERT INTO room_service_items (name, description, price_cents) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, it.Name, it.Description, it.PriceCents)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	it.ID = uint64(id)
	const qSelect = "SELECT name, description, price_cents, created_at, updated_at FROM room_service_items WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, it.ID).Scan(&it.Name, &it.Description, &it.PriceCents, &it.CreatedAt, &it.UpdatedAt)
}

// GetByID fetches one catalog item. Returns ErrItemNotFound if absent.
func (r *ServiceItemRepo) GetByID(ctx context.Context, id uint64) (*model.RoomServiceItem, error) {
	const q = "SELECT id, name, description, price_cents, created_at, updated_at FROM room_service_items WHERE id = ?"
	var it model.RoomServiceItem
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&it.ID, &it.Name, &it.Description, &it.PriceCents, &it.CreatedAt, &it.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &it, nil
}

// List returns the whole catalog ordered by name.
func (r *ServiceItemRepo) List(ctx context.Context) ([]*model.RoomServiceItem, error) {
	const q = `SELECT id, name, description, price_cents, created_at, updated_at
	           FROM room_service_items ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.RoomServiceItem
	for rows.Next() {
		it := new(model.RoomServiceItem)
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.PriceCents, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites name, description and the live catalog price.
// Existing order lines keep the price captured when they were placed.
func (r *ServiceItemRepo) Update(ctx context.Context, it *model.RoomServiceItem) error {
	const q = `UPDATE room_service_items
	           SET name = ?, description = ?, price_cents = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, it.Name, it.Description, it.PriceCents, it.ID)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM room_service_items WHERE id = ?)", it.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrItemNotFound
		}
	}
	return nil
}

// Delete removes an item that was never ordered. Items referenced by
// order lines return ErrInUse, since deleting them would break the
// audit trail of past orders.
func (r *ServiceItemRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM room_service_order_lines WHERE item_id = ?", id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrInUse
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM room_service_items WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrItemNotFound
	}
	return nil
}
