package analytics

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/hotel-operations/internal/billing"
	"github.com/iliyamo/hotel-operations/internal/repository"
)

func newTestReporter(t *testing.T) (*Reporter, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	reservations := repository.NewReservationRepo(db)
	orders := repository.NewServiceOrderRepo(db)
	eng := billing.NewEngine(reservations, orders, repository.NewTransactionRepo(db))
	rep := NewReporter(eng, reservations, repository.NewRoomRepo(db), repository.NewCustomerRepo(db), orders)
	return rep, mock, db
}

// expectBill wires the snapshot transaction the billing engine runs for
// one reservation: stay row, service-charge sum, ledger sums, rollback.
func expectBill(mock sqlmock.Sqlmock, id uint64, checkIn, checkOut time.Time, rateCents, serviceCents, payCents int64) {
	mock.ExpectBegin()
	mock.ExpectQuery("FROM reservations r").WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "room_id", "room_number", "status", "check_in", "check_out", "rate_cents"}).
			AddRow(id, 1, 1, "101", "CHECKED_OUT", checkIn, checkOut, rateCents))
	mock.ExpectQuery("room_service_order_lines").WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(serviceCents))
	mock.ExpectQuery("FROM transactions").WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"payments", "refunds", "charges"}).AddRow(payCents, 0, 0))
	mock.ExpectRollback()
}

func TestReportInvalidWindow(t *testing.T) {
	rep, _, db := newTestReporter(t)
	defer db.Close()

	from := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(-24 * time.Hour)
	if _, err := rep.Report(context.Background(), &from, &to); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("err = %v, want ErrInvalidWindow", err)
	}
}

func TestReportEmptyAllTime(t *testing.T) {
	rep, mock, db := newTestReporter(t)
	defer db.Close()

	mock.ExpectQuery("SELECT MIN").
		WillReturnRows(sqlmock.NewRows([]string{"min", "max"}).AddRow(nil, nil))

	got, err := rep.Report(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("report error: %v", err)
	}
	if got.TotalReservations != 0 || got.TotalRevenue != 0 || got.OccupancyRate != 0 {
		t.Errorf("empty store should yield a zero report, got %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReportSingleReservation(t *testing.T) {
	rep, mock, db := newTestReporter(t)
	defer db.Close()

	// Window of 3 nights over 2 rooms. One reservation fills one room
	// for the whole window at 100.00/night with 30.00 of room service
	// and a 250.00 payment.
	from := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(3 * 24 * time.Hour)

	mock.ExpectQuery("SELECT id FROM reservations").WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	expectBill(mock, 42, from, to, 10000, 3000, 25000)
	mock.ExpectQuery("SELECT check_in, check_out FROM reservations").WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"check_in", "check_out"}).AddRow(from, to))
	mock.ExpectQuery("FROM rooms").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("FROM customers").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery("rm.room_type").WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"room_type"}).AddRow("DOUBLE"))
	mock.ExpectQuery("GROUP BY i.name").WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Club Sandwich"))

	got, err := rep.Report(context.Background(), &from, &to)
	if err != nil {
		t.Fatalf("report error: %v", err)
	}
	if got.TotalReservations != 1 {
		t.Errorf("totalReservations = %d, want 1", got.TotalReservations)
	}
	if got.RoomRevenue != 30000 || got.ServiceRevenue != 3000 || got.TotalRevenue != 33000 {
		t.Errorf("revenue = %d/%d/%d, want 30000/3000/33000", got.RoomRevenue, got.ServiceRevenue, got.TotalRevenue)
	}
	if got.AvgOutstanding != 8000 {
		t.Errorf("averageOutstandingBalance = %v, want 8000", got.AvgOutstanding)
	}
	if got.OccupiedRoomNights != 3 || got.AvailableRoomNights != 6 {
		t.Errorf("room-nights = %d/%d, want 3/6", got.OccupiedRoomNights, got.AvailableRoomNights)
	}
	if math.Abs(got.OccupancyRate-0.5) > 1e-9 {
		t.Errorf("occupancyRate = %v, want 0.5", got.OccupancyRate)
	}
	if got.ADR != 10000 {
		t.Errorf("adr = %v, want 10000", got.ADR)
	}
	if got.RevPAR != 5000 {
		t.Errorf("revpar = %v, want 5000", got.RevPAR)
	}
	if got.PopularRoomType != "DOUBLE" || got.PopularServiceItem != "Club Sandwich" {
		t.Errorf("popular = %q/%q, want DOUBLE/Club Sandwich", got.PopularRoomType, got.PopularServiceItem)
	}
	if got.TotalCustomers != 5 {
		t.Errorf("totalCustomers = %d, want 5", got.TotalCustomers)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReportCancelledRevenueWithoutOccupancy(t *testing.T) {
	rep, mock, db := newTestReporter(t)
	defer db.Close()

	// A cancelled reservation still bills (retained charges stay on
	// the books) but never counts as an occupied room.
	from := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(2 * 24 * time.Hour)

	mock.ExpectQuery("SELECT id FROM reservations").WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7).AddRow(8))
	expectBill(mock, 7, from, to, 10000, 0, 20000)
	expectBill(mock, 8, from, to, 5000, 0, 0)
	// Only the non-cancelled stay comes back from the occupancy query.
	mock.ExpectQuery("SELECT check_in, check_out FROM reservations").WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"check_in", "check_out"}).AddRow(from, to))
	mock.ExpectQuery("FROM rooms").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("FROM customers").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("rm.room_type").WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"room_type"}).AddRow("SINGLE"))
	mock.ExpectQuery("GROUP BY i.name").WithArgs(from, to).
		WillReturnError(sql.ErrNoRows)

	got, err := rep.Report(context.Background(), &from, &to)
	if err != nil {
		t.Fatalf("report error: %v", err)
	}
	if got.TotalReservations != 2 {
		t.Errorf("totalReservations = %d, want 2", got.TotalReservations)
	}
	if got.RoomRevenue != 30000 {
		t.Errorf("roomRevenue = %d, want 30000", got.RoomRevenue)
	}
	if got.OccupiedRoomNights != 2 {
		t.Errorf("occupiedRoomNights = %d, want 2", got.OccupiedRoomNights)
	}
	if got.PopularServiceItem != "" {
		t.Errorf("popularServiceItem = %q, want empty", got.PopularServiceItem)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReportBillingFailurePropagates(t *testing.T) {
	rep, mock, db := newTestReporter(t)
	defer db.Close()

	from := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	mock.ExpectQuery("SELECT id FROM reservations").WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	// The stay window collapsed to zero nights; the whole report fails
	// rather than reporting a partial aggregate.
	mock.ExpectBegin()
	mock.ExpectQuery("FROM reservations r").WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "room_id", "room_number", "status", "check_in", "check_out", "rate_cents"}).
			AddRow(9, 1, 1, "101", "BOOKED", from, from, 10000))
	mock.ExpectRollback()

	if _, err := rep.Report(context.Background(), &from, &to); !errors.Is(err, billing.ErrInvalidStay) {
		t.Fatalf("err = %v, want ErrInvalidStay", err)
	}
}

func TestOverlapNights(t *testing.T) {
	base := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	day := 24 * time.Hour
	cases := []struct {
		name              string
		from, to          time.Time
		checkIn, checkOut time.Time
		want              int64
	}{
		{"inside window", base, base.Add(10 * day), base.Add(2 * day), base.Add(5 * day), 3},
		{"clipped left", base.Add(2 * day), base.Add(10 * day), base, base.Add(4 * day), 2},
		{"clipped right", base, base.Add(3 * day), base.Add(1 * day), base.Add(8 * day), 2},
		{"partial night rounds up", base, base.Add(10 * day), base, base.Add(36 * time.Hour), 2},
		{"outside window", base, base.Add(2 * day), base.Add(5 * day), base.Add(7 * day), 0},
		{"touching bound", base, base.Add(2 * day), base.Add(2 * day), base.Add(4 * day), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := overlapNights(tc.from, tc.to, tc.checkIn, tc.checkOut); got != tc.want {
				t.Errorf("overlapNights = %d, want %d", got, tc.want)
			}
		})
	}
}
