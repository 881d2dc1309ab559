// Package analytics aggregates occupancy and revenue statistics across
// reservations. Per-reservation money amounts are not recomputed here:
// every figure that involves charges comes from the billing engine, which
// stays the single source of truth for what a reservation costs.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/hotel-operations/internal/billing"
	"github.com/iliyamo/hotel-operations/internal/repository"
)

// ErrInvalidWindow is returned when the requested reporting window
// starts after it ends.
var ErrInvalidWindow = errors.New("reporting window starts after it ends")

// Report is the aggregate view over one reporting window. Sums are
// integer cents; rates and averages are ratios in float64. From/To
// echo the resolved window, which matters for all-time requests where
// the bounds are derived from the data.
type Report struct {
	From                time.Time `json:"from"`
	To                  time.Time `json:"to"`
	TotalReservations   int64     `json:"totalReservations"`
	TotalCustomers      int64     `json:"totalCustomers"`
	OccupiedRoomNights  int64     `json:"occupiedRoomNights"`
	AvailableRoomNights int64     `json:"availableRoomNights"`
	OccupancyRate       float64   `json:"occupancyRate"`
	RoomRevenue         int64     `json:"roomRevenue"`
	ServiceRevenue      int64     `json:"serviceRevenue"`
	TotalRevenue        int64     `json:"totalRevenue"`
	AvgOutstanding      float64   `json:"averageOutstandingBalance"`
	ADR                 float64   `json:"adr"`
	RevPAR              float64   `json:"revpar"`
	PopularRoomType     string    `json:"mostPopularRoomType,omitempty"`
	PopularServiceItem  string    `json:"mostPopularServiceItem,omitempty"`
}

// Reporter computes Reports. Like the billing engine it only reads.
type Reporter struct {
	engine       *billing.Engine
	reservations *repository.ReservationRepo
	rooms        *repository.RoomRepo
	customers    *repository.CustomerRepo
	orders       *repository.ServiceOrderRepo
}

// NewReporter constructs a Reporter. All dependencies must be non-nil.
func NewReporter(engine *billing.Engine, reservations *repository.ReservationRepo, rooms *repository.RoomRepo, customers *repository.CustomerRepo, orders *repository.ServiceOrderRepo) *Reporter {
	if engine == nil || reservations == nil || rooms == nil || customers == nil || orders == nil {
		panic("nil dependency passed to NewReporter")
	}
	return &Reporter{
		engine:       engine,
		reservations: reservations,
		rooms:        rooms,
		customers:    customers,
		orders:       orders,
	}
}

// Report aggregates over [from, to). Nil bounds are resolved from the
// stored reservations, so Report(ctx, nil, nil) means all-time; an
// empty store yields a zero-valued report. A window whose start lies
// after its end fails with ErrInvalidWindow. The computation is
// all-or-nothing: if any reservation in the window fails to bill, the
// whole report fails.
func (r *Reporter) Report(ctx context.Context, from, to *time.Time) (*Report, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, ErrInvalidWindow
	}

	lo, hi, ok, err := r.resolveWindow(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Report{}, nil
	}
	if lo.After(hi) {
		return nil, ErrInvalidWindow
	}

	rep := &Report{From: lo, To: hi}

	ids, err := r.reservations.ListOverlappingIDs(ctx, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	rep.TotalReservations = int64(len(ids))

	var outstandingSum int64
	for _, id := range ids {
		bill, err := r.engine.Compute(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("bill reservation %d: %w", id, err)
		}
		rep.RoomRevenue += bill.RoomCharge
		rep.ServiceRevenue += bill.ServiceCharge
		outstandingSum += bill.OutstandingBalance
	}
	rep.TotalRevenue = rep.RoomRevenue + rep.ServiceRevenue
	if len(ids) > 0 {
		rep.AvgOutstanding = float64(outstandingSum) / float64(len(ids))
	}

	stays, err := r.reservations.ListOccupiedStays(ctx, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("list occupied stays: %w", err)
	}
	for _, s := range stays {
		rep.OccupiedRoomNights += overlapNights(lo, hi, s.CheckIn, s.CheckOut)
	}

	roomCount, err := r.rooms.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count rooms: %w", err)
	}
	rep.AvailableRoomNights = roomCount * windowNights(lo, hi)
	if rep.AvailableRoomNights > 0 {
		rep.OccupancyRate = float64(rep.OccupiedRoomNights) / float64(rep.AvailableRoomNights)
		rep.RevPAR = float64(rep.RoomRevenue) / float64(rep.AvailableRoomNights)
	}
	if rep.OccupiedRoomNights > 0 {
		rep.ADR = float64(rep.RoomRevenue) / float64(rep.OccupiedRoomNights)
	}

	if rep.TotalCustomers, err = r.customers.CountAll(ctx); err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}
	if rep.PopularRoomType, err = r.reservations.PopularRoomType(ctx, lo, hi); err != nil {
		return nil, fmt.Errorf("popular room type: %w", err)
	}
	if rep.PopularServiceItem, err = r.orders.PopularItem(ctx, lo, hi); err != nil {
		return nil, fmt.Errorf("popular service item: %w", err)
	}
	return rep, nil
}

// resolveWindow fills missing bounds from the stored stay extremes.
// ok is false when the store holds no reservations and a bound was
// left open.
func (r *Reporter) resolveWindow(ctx context.Context, from, to *time.Time) (lo, hi time.Time, ok bool, err error) {
	if from != nil && to != nil {
		return *from, *to, true, nil
	}
	min, max, has, err := r.reservations.StayBounds(ctx)
	if err != nil {
		return lo, hi, false, fmt.Errorf("stay bounds: %w", err)
	}
	if !has {
		return lo, hi, false, nil
	}
	lo, hi = min, max
	if from != nil {
		lo = *from
	}
	if to != nil {
		hi = *to
	}
	return lo, hi, true, nil
}

// windowNights is the length of the reporting window in whole nights,
// partial days rounding up like billable nights do.
func windowNights(from, to time.Time) int64 {
	d := to.Sub(from)
	if d <= 0 {
		return 0
	}
	n := int64(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		n++
	}
	return n
}

// overlapNights counts the room-nights a stay contributes inside the
// window: the stay clamped to the window, rounded up to whole nights.
func overlapNights(from, to, checkIn, checkOut time.Time) int64 {
	lo := checkIn
	if from.After(lo) {
		lo = from
	}
	hi := checkOut
	if to.Before(hi) {
		hi = to
	}
	return windowNights(lo, hi)
}
