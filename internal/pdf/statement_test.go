package pdf

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/hotel-operations/internal/billing"
)

func TestBuildStatement(t *testing.T) {
	bill := &billing.Bill{
		ReservationID:      42,
		Nights:             3,
		RoomCharge:         30000,
		ServiceCharge:      3000,
		AmountApplied:      25000,
		OutstandingBalance: 8000,
	}
	st := Statement{
		Bill:       bill,
		GuestName:  "Dana Whitfield",
		RoomNumber: "204",
		RoomType:   "DOUBLE",
		CheckIn:    time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2026, 3, 13, 11, 0, 0, 0, time.UTC),
		IssuedAt:   time.Date(2026, 3, 13, 11, 5, 0, 0, time.UTC),
	}

	data, filename, err := BuildStatement(st)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header")
	}
	if filename != "FOLIO_42_Dana_Whitfield.pdf" {
		t.Errorf("filename = %q", filename)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{8000, "80.00"},
		{1234567, "12,345.67"},
		{-25000, "-250.00"},
	}
	for _, tc := range cases {
		if got := formatAmount(tc.cents); got != tc.want {
			t.Errorf("formatAmount(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestSafeFilenamePart(t *testing.T) {
	if got := safeFilenamePart("a/b c"); got != "a_b_c" {
		t.Errorf("safeFilenamePart = %q", got)
	}
	if got := safeFilenamePart("  "); got != "GUEST" {
		t.Errorf("empty input = %q, want GUEST", got)
	}
	if got := safeFilenamePart(strings.Repeat("x", 60)); len(got) != 40 {
		t.Errorf("long input not truncated: %d", len(got))
	}
}
