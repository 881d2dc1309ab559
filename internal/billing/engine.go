// Package billing derives the Bill of a reservation from the room rate, the
// stay duration, the frozen room-service order lines and the transaction
// ledger. A Bill is never persisted: it is recomputed on demand so that it
// always reflects the current ledger. All reads of one computation happen
// inside a single read-only REPEATABLE READ transaction, which gives the
// point-in-time snapshot the aggregation needs; a ledger entry committed
// mid-computation is either fully visible or not visible at all.
package billing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/hotel-operations/internal/repository"
)

// ErrInvalidStay is returned when a reservation's check-out is on or
// before its check-in. Creation rejects such windows, so hitting this
// during bill computation means the stored data was corrupted upstream;
// the error is surfaced rather than billing zero nights.
var ErrInvalidStay = errors.New("reservation check-out is not after check-in")

// Bill is the derived statement of one reservation. All amounts are
// integer cents. OutstandingBalance may be negative when the guest
// overpaid; that is a valid, reportable state and not an error.
type Bill struct {
	ReservationID      uint64 `json:"reservationId"`
	Nights             int64  `json:"nights"`
	RoomCharge         int64  `json:"roomCharge"`
	ServiceCharge      int64  `json:"serviceCharge"`
	AmountApplied      int64  `json:"amountApplied"`
	OutstandingBalance int64  `json:"outstandingBalance"`
}

// TotalCharge is the gross amount of the stay before the ledger is
// applied: room charge plus service charge.
func (b *Bill) TotalCharge() int64 {
	return b.RoomCharge + b.ServiceCharge
}

// Engine computes Bills. It owns no state beyond its repositories and
// performs only reads, so a computation is side-effect-free and safe
// to retry on transient storage errors.
type Engine struct {
	reservations *repository.ReservationRepo
	orders       *repository.ServiceOrderRepo
	ledger       *repository.TransactionRepo
}

// NewEngine constructs an Engine over the given repositories. All
// dependencies must be non-nil.
func NewEngine(reservations *repository.ReservationRepo, orders *repository.ServiceOrderRepo, ledger *repository.TransactionRepo) *Engine {
	if reservations == nil || orders == nil || ledger == nil {
		panic("nil repository passed to NewEngine")
	}
	return &Engine{reservations: reservations, orders: orders, ledger: ledger}
}

// Compute produces the Bill of one reservation or fails without a
// partial result. Error cases: repository.ErrReservationNotFound when
// the reservation is absent, ErrInvalidStay when the stored window is
// inverted or empty, and wrapped storage errors otherwise.
//
// The computation is:
//
//	roomCharge  = nights * rate, nights = ceil(checkOut-checkIn in days), minimum 1
//	serviceCharge = sum over order lines of frozen unit price * quantity
//	amountApplied = payments - refunds + charge adjustments
//	outstanding = roomCharge + serviceCharge - amountApplied
func (e *Engine) Compute(ctx context.Context, reservationID uint64) (*Bill, error) {
	tx, err := e.reservations.DB().BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("begin billing snapshot: %w", err)
	}
	// Read-only transaction: always rolled back.
	defer func() { _ = tx.Rollback() }()

	stay, err := e.reservations.GetStayTx(ctx, tx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load stay: %w", err)
	}

	nights, err := stayNights(stay.CheckIn, stay.CheckOut)
	if err != nil {
		return nil, err
	}

	serviceCharge, err := e.orders.ServiceChargeTx(ctx, tx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("sum service charge: %w", err)
	}

	sums, err := e.ledger.SumByReservationTx(ctx, tx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("sum ledger: %w", err)
	}

	roomCharge := nights * stay.RateCents
	applied := sums.PaymentCents - sums.RefundCents + sums.ChargeCents

	return &Bill{
		ReservationID:      reservationID,
		Nights:             nights,
		RoomCharge:         roomCharge,
		ServiceCharge:      serviceCharge,
		AmountApplied:      applied,
		OutstandingBalance: roomCharge + serviceCharge - applied,
	}, nil
}

// stayNights converts a stay window into billable nights. Partial days
// round up, so a 2.5-day window bills 3 nights. Windows of zero or
// negative length are invalid.
func stayNights(checkIn, checkOut time.Time) (int64, error) {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 0, ErrInvalidStay
	}
	nights := int64(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		nights++
	}
	return nights, nil
}
