// Package pdf renders printable guest folios. The folio is a plain A4
// document built from a computed bill plus the reservation context; it
// never recomputes any amount on its own.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/iliyamo/hotel-operations/internal/billing"
	"github.com/iliyamo/hotel-operations/internal/model"
	"github.com/iliyamo/hotel-operations/internal/repository"
)

// Statement bundles everything one folio shows. Bill carries the
// authoritative amounts; the remaining fields only add context.
type Statement struct {
	Bill         *billing.Bill
	GuestName    string
	RoomNumber   string
	RoomType     string
	CheckIn      time.Time
	CheckOut     time.Time
	Orders       []*repository.OrderDetail
	Transactions []*model.Transaction
	IssuedAt     time.Time
}

// BuildStatement renders the folio and returns the PDF bytes together
// with a download filename.
func BuildStatement(st Statement) ([]byte, string, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Guest Folio", false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.Cell(0, 10, "GUEST FOLIO")
	doc.Ln(12)

	issued := st.IssuedAt
	if issued.IsZero() {
		issued = time.Now().UTC()
	}
	doc.SetFont("Helvetica", "", 12)
	doc.Cell(0, 7, fmt.Sprintf("Folio No : FOLIO-%d", st.Bill.ReservationID))
	doc.Ln(7)
	doc.Cell(0, 7, "Issued   : "+issued.Format("2006-01-02 15:04"))
	doc.Ln(10)

	doc.SetFont("Helvetica", "B", 12)
	doc.Cell(0, 7, "Guest and stay:")
	doc.Ln(7)
	doc.SetFont("Helvetica", "", 12)
	doc.Cell(0, 7, "Guest : "+safe(st.GuestName, "-"))
	doc.Ln(7)
	room := safe(st.RoomNumber, "-")
	if t := strings.TrimSpace(st.RoomType); t != "" {
		room += " (" + t + ")"
	}
	doc.Cell(0, 7, "Room  : "+room)
	doc.Ln(7)
	doc.Cell(0, 7, fmt.Sprintf("Stay  : %s to %s (%d nights)",
		st.CheckIn.Format("2006-01-02"), st.CheckOut.Format("2006-01-02"), st.Bill.Nights))
	doc.Ln(10)

	doc.SetFont("Helvetica", "B", 12)
	doc.Cell(0, 7, "Charges:")
	doc.Ln(8)
	doc.SetFont("Helvetica", "", 11)
	doc.Cell(0, 6, fmt.Sprintf("Room (%d nights): %s", st.Bill.Nights, formatAmount(st.Bill.RoomCharge)))
	doc.Ln(6)
	for _, o := range st.Orders {
		for _, l := range o.Lines {
			doc.Cell(0, 6, fmt.Sprintf("%d x %s: %s",
				l.Quantity, safe(l.ItemName, "room service"), formatAmount(l.UnitPriceCents*l.Quantity)))
			doc.Ln(6)
		}
	}
	doc.Cell(0, 6, "Service charge subtotal: "+formatAmount(st.Bill.ServiceCharge))
	doc.Ln(8)

	if len(st.Transactions) > 0 {
		doc.SetFont("Helvetica", "B", 12)
		doc.Cell(0, 7, "Payments and adjustments:")
		doc.Ln(8)
		doc.SetFont("Helvetica", "", 11)
		for _, tr := range st.Transactions {
			label := fmt.Sprintf("%s %s: %s", tr.CreatedAt.Format("2006-01-02"), tr.Kind, formatAmount(tr.AmountCents))
			if ref := strings.TrimSpace(tr.Reference); ref != "" {
				label += " (" + ref + ")"
			}
			doc.Cell(0, 6, label)
			doc.Ln(6)
		}
		doc.Ln(2)
	}

	doc.SetFont("Helvetica", "B", 12)
	doc.Cell(0, 8, "Total charges: "+formatAmount(st.Bill.TotalCharge()))
	doc.Ln(8)
	doc.Cell(0, 8, "Amount applied: "+formatAmount(st.Bill.AmountApplied))
	doc.Ln(8)
	doc.Cell(0, 8, "Outstanding balance: "+formatAmount(st.Bill.OutstandingBalance))
	doc.Ln(12)

	doc.SetFont("Helvetica", "I", 10)
	doc.MultiCell(0, 6, "Amounts are shown in the property currency. A negative outstanding balance is a credit owed to the guest.", "", "", false)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("FOLIO_%d_%s.pdf", st.Bill.ReservationID, safeFilenamePart(st.GuestName))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

// formatAmount renders integer cents as a decimal amount with thousand
// separators, e.g. 1234567 -> "12,345.67".
func formatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := cents / 100
	frac := cents % 100
	s := fmt.Sprintf("%d", whole)
	var out []byte
	n := len(s)
	for i := 0; i < n; i++ {
		out = append(out, s[i])
		pos := n - i - 1
		if pos > 0 && pos%3 == 0 {
			out = append(out, ',')
		}
	}
	return fmt.Sprintf("%s%s.%02d", sign, string(out), frac)
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "GUEST"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
