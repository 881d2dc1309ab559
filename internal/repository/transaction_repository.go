// This file defines the append-only ledger of payments, refunds and explicit
// charge adjustments. Rows are inserted and read, never updated or deleted;
// corrections are expressed as compensating entries so that a bill recomputed
// later always matches what was reported at the time.
package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hotel-operations/internal/model"
)

// TransactionRepo encapsulates queries on the transactions ledger.
type TransactionRepo struct {
	db *sql.DB
}

// NewTransactionRepo constructs a TransactionRepo with the provided DB handle.
func NewTransactionRepo(db *sql.DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

// Create appends one ledger entry and fills the generated ID plus
// the DB-assigned timestamp on the record.
func (r *TransactionRepo) Create(ctx context.Context, t *model.Transaction) error {
	const q = "INSERT INTO transactions (reservation_id, amount_cents, kind, reference) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, t.ReservationID, t.AmountCents, t.Kind, t.Reference)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	const sel = "SELECT created_at FROM transactions WHERE id = ?"
	return r.db.QueryRowContext(ctx, sel, t.ID).Scan(&t.CreatedAt)
}

// ListByReservation returns the full ledger of one reservation in
// insertion order.
func (r *TransactionRepo) ListByReservation(ctx context.Context, reservationID uint64) ([]*model.Transaction, error) {
	const q = `SELECT id, reservation_id, amount_cents, kind, reference, created_at
	           FROM transactions WHERE reservation_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Transaction
	for rows.Next() {
		t := new(model.Transaction)
		if err := rows.Scan(&t.ID, &t.ReservationID, &t.AmountCents, &t.Kind, &t.Reference, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LedgerSums holds the per-kind totals of one reservation's ledger.
type LedgerSums struct {
	PaymentCents int64
	RefundCents  int64
	ChargeCents  int64
}

// SumByReservationTx totals the ledger per kind in a single query
// inside an existing transaction, so the result belongs to the same
// snapshot as the other billing reads.
func (r *TransactionRepo) SumByReservationTx(ctx context.Context, tx *sql.Tx, reservationID uint64) (LedgerSums, error) {
	const q = `SELECT
	             COALESCE(SUM(CASE WHEN kind = 'PAYMENT' THEN amount_cents ELSE 0 END), 0),
	             COALESCE(SUM(CASE WHEN kind = 'REFUND' THEN amount_cents ELSE 0 END), 0),
	             COALESCE(SUM(CASE WHEN kind = 'CHARGE' THEN amount_cents ELSE 0 END), 0)
	           FROM transactions WHERE reservation_id = ?`
	var s LedgerSums
	err := tx.QueryRowContext(ctx, q, reservationID).Scan(&s.PaymentCents, &s.RefundCents, &s.ChargeCents)
	return s, err
}
