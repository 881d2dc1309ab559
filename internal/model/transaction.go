package model

import "time"

// Transaction kinds.  PAYMENT and REFUND move money in opposite
// directions; CHARGE is an explicit adjustment applied against the
// bill alongside payments (credit drawn from a deposit, a voucher,
// or a goodwill credit).  Amount applied = payments - refunds +
// charge adjustments.
const (
	TransactionKindPayment = "PAYMENT"
	TransactionKindRefund  = "REFUND"
	TransactionKindCharge  = "CHARGE"
)

// Transaction is one entry in a reservation's ledger.  Rows are
// append-only: there are no update or delete operations, so a
// bill computed from the ledger can always be reproduced.
//
// Fields:
//  ID            – primary key identifier.
//  ReservationID – reservation the entry belongs to, never reassigned.
//  AmountCents   – positive amount in cents; the kind decides the sign
//                  applied during bill computation.
//  Kind          – PAYMENT, REFUND or CHARGE.
//  Reference     – external reference (receipt or gateway id); a UUID
//                  is generated when the caller does not supply one.
//  CreatedAt     – creation timestamp.
type Transaction struct {
	ID            uint64    // transactions.id
	ReservationID uint64    // transactions.reservation_id
	AmountCents   int64     // transactions.amount_cents
	Kind          string    // transactions.kind
	Reference     string    // transactions.reference
	CreatedAt     time.Time // transactions.created_at
}
