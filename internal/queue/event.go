// Package queue defines message payloads exchanged over the message broker.
package queue

// BillSettledEvent is published when a guest checks out and their final
// bill is computed. It carries the full bill breakdown so downstream
// consumers can log, notify, or feed accounting without querying the
// primary database.
type BillSettledEvent struct {
	ReservationID           uint64 `json:"reservation_id"`
	CustomerID              uint64 `json:"customer_id"`
	CustomerName            string `json:"customer_name"`
	RoomID                  uint64 `json:"room_id"`
	RoomNumber              string `json:"room_number"`
	Nights                  int64  `json:"nights"`
	RoomChargeCents         int64  `json:"room_charge_cents"`
	ServiceChargeCents      int64  `json:"service_charge_cents"`
	AmountAppliedCents      int64  `json:"amount_applied_cents"`
	OutstandingBalanceCents int64  `json:"outstanding_balance_cents"`
	CheckedOutAt            string `json:"checked_out_at"`
}
