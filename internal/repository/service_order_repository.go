package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/hotel-operations/internal/model"
)

// ErrOrderNotFound is returned when a room-service order cannot be found.
var ErrOrderNotFound = errors.New("room service order not found")

// ServiceOrderRepo persists room-service orders and their lines.
// Orders are immutable after creation, bar the delivery status.
type ServiceOrderRepo struct {
	db *sql.DB
}

// NewServiceOrderRepo returns a ServiceOrderRepo bound to the given database.
func NewServiceOrderRepo(db *sql.DB) *ServiceOrderRepo { return &ServiceOrderRepo{db: db} }

// OrderLineInput is the caller-facing shape of one requested line:
// which item and how many. The unit price is never accepted from the
// caller; it is read from the catalog inside the creating transaction.
type OrderLineInput struct {
	ItemID   uint64 `json:"item_id"`
	Quantity int64  `json:"quantity"`
}

// CreateTx inserts an order with its lines inside an existing
// transaction. For every line the current catalog price is read and
// frozen onto the row, so later catalog edits cannot change what this
// order bills. Returns ErrItemNotFound when a referenced item is
// missing. The populated order and lines are returned on success.
func (r *ServiceOrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.RoomServiceOrder, lines []OrderLineInput) ([]model.RoomServiceOrderLine, error) {
	if o.Status == "" {
		o.Status = model.OrderStatusPending
	}
	const qOrder = "INSERT INTO room_service_orders (reservation_id, status, reference) VALUES (?, ?, ?)"
	res, err := tx.ExecContext(ctx, qOrder, o.ReservationID, o.Status, o.Reference)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	o.ID = uint64(id)

	out := make([]model.RoomServiceOrderLine, 0, len(lines))
	const qPrice = "SELECT price_cents FROM room_service_items WHERE id = ?"
	const qLine = "INSERT INTO room_service_order_lines (order_id, item_id, quantity, unit_price_cents) VALUES (?, ?, ?, ?)"
	for _, in := range lines {
		var price int64
		if err := tx.QueryRowContext(ctx, qPrice, in.ItemID).Scan(&price); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrItemNotFound
			}
			return nil, err
		}
		lineRes, err := tx.ExecContext(ctx, qLine, o.ID, in.ItemID, in.Quantity, price)
		if err != nil {
			return nil, err
		}
		lineID, err := lineRes.LastInsertId()
		if err != nil {
			return nil, err
		}
		out = append(out, model.RoomServiceOrderLine{
			ID:             uint64(lineID),
			OrderID:        o.ID,
			ItemID:         in.ItemID,
			Quantity:       in.Quantity,
			UnitPriceCents: price,
		})
	}

	const qSel = "SELECT created_at FROM room_service_orders WHERE id = ?"
	if err := tx.QueryRowContext(ctx, qSel, o.ID).Scan(&o.CreatedAt); err != nil {
		return nil, err
	}
	return out, nil
}

// OrderDetail is an order with its lines expanded for API responses.
type OrderDetail struct {
	ID            uint64    `json:"id"`
	ReservationID uint64    `json:"reservation_id"`
	Status        string    `json:"status"`
	Reference     string    `json:"reference"`
	TotalCents    int64     `json:"total_cents"`
	CreatedAt     time.Time `json:"created_at"`
	Lines         []struct {
		ItemID         uint64 `json:"item_id"`
		ItemName       string `json:"item_name"`
		Quantity       int64  `json:"quantity"`
		UnitPriceCents int64  `json:"unit_price_cents"`
	} `json:"lines"`
}

// ListByReservation returns all orders of a reservation with their
// lines, oldest first. Line totals use the frozen unit prices.
func (r *ServiceOrderRepo) ListByReservation(ctx context.Context, reservationID uint64) ([]*OrderDetail, error) {
	const qOrders = `SELECT id, reservation_id, status, reference, created_at
	                 FROM room_service_orders WHERE reservation_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, qOrders, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*OrderDetail
	index := map[uint64]*OrderDetail{}
	for rows.Next() {
		d := new(OrderDetail)
		if err := rows.Scan(&d.ID, &d.ReservationID, &d.Status, &d.Reference, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
		index[d.ID] = d
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	const qLines = `SELECT l.order_id, l.item_id, i.name, l.quantity, l.unit_price_cents
	                FROM room_service_order_lines l
	                JOIN room_service_orders o ON o.id = l.order_id
	                JOIN room_service_items i ON i.id = l.item_id
	                WHERE o.reservation_id = ? ORDER BY l.id`
	lineRows, err := r.db.QueryContext(ctx, qLines, reservationID)
	if err != nil {
		return nil, err
	}
	defer lineRows.Close()
	for lineRows.Next() {
		var (
			orderID uint64
			line    struct {
				ItemID         uint64 `json:"item_id"`
				ItemName       string `json:"item_name"`
				Quantity       int64  `json:"quantity"`
				UnitPriceCents int64  `json:"unit_price_cents"`
			}
		)
		if err := lineRows.Scan(&orderID, &line.ItemID, &line.ItemName, &line.Quantity, &line.UnitPriceCents); err != nil {
			return nil, err
		}
		if d, ok := index[orderID]; ok {
			d.Lines = append(d.Lines, line)
			d.TotalCents += line.UnitPriceCents * line.Quantity
		}
	}
	if err := lineRows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus moves an order to a new delivery status.
func (r *ServiceOrderRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	const q = "UPDATE room_service_orders SET status = ? WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	// MySQL reports zero affected rows for same-value updates, so a
	// follow-up probe tells those apart from a missing order.
	if n, _ := res.RowsAffected(); n == 0 {
		var cur string
		if err := r.db.QueryRowContext(ctx, "SELECT status FROM room_service_orders WHERE id = ?", id).Scan(&cur); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrOrderNotFound
			}
			return err
		}
	}
	return nil
}

// ServiceChargeTx totals unit_price_cents * quantity over every line
// of the reservation's orders, inside an existing transaction. This is
// the service-charge read of the billing snapshot; it ignores order
// status and the live catalog.
func (r *ServiceOrderRepo) ServiceChargeTx(ctx context.Context, tx *sql.Tx, reservationID uint64) (int64, error) {
	const q = `SELECT COALESCE(SUM(l.unit_price_cents * l.quantity), 0)
	           FROM room_service_order_lines l
	           JOIN room_service_orders o ON o.id = l.order_id
	           WHERE o.reservation_id = ?`
	var total int64
	err := tx.QueryRowContext(ctx, q, reservationID).Scan(&total)
	return total, err
}

// PopularItem returns the catalog item with the highest ordered
// quantity across reservations intersecting [from, to). Empty string
// when nothing was ordered in the window.
func (r *ServiceOrderRepo) PopularItem(ctx context.Context, from, to time.Time) (string, error) {
	const q = `SELECT i.name
	           FROM room_service_order_lines l
	           JOIN room_service_orders o ON o.id = l.order_id
	           JOIN room_service_items i ON i.id = l.item_id
	           JOIN reservations r ON r.id = o.reservation_id
	           WHERE NOT (r.check_out <= ? OR r.check_in >= ?)
	           GROUP BY i.name
	           ORDER BY SUM(l.quantity) DESC, i.name
	           LIMIT 1`
	var name string
	err := r.db.QueryRowContext(ctx, q, from, to).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return name, err
}
