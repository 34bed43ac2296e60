package models

import "time"

// PaymentStatus is the state of a payment obligation. The only transition is
// pending to paid.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// Payment is one member's obligation for one settled period. Payments are
// created in a batch at settlement, one per non-winning member, and are
// never mutated by later settlements.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string `json:"id"`

	// PeriodID is the period whose settlement generated this payment;
	// GroupID the owning group.
	PeriodID string `json:"periodId"`
	GroupID  string `json:"groupId"`

	// MemberID and MemberName identify the member who owes this payment.
	MemberID   string `json:"memberId"`
	MemberName string `json:"memberName"`

	// Amount is the obligation in whole currency units, rounded half away
	// from zero at settlement time.
	Amount int64 `json:"amount"`

	Status PaymentStatus `json:"status"`

	// DueDate equals the date of the generating period.
	DueDate time.Time `json:"dueDate"`

	// PaidAt is the Unix timestamp of the pending→paid transition, 0
	// while pending.
	PaidAt int64 `json:"paidAt,omitempty"`
}
