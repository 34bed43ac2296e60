package models

import "time"

// PeriodStatus is the state of a single period. Transitions are one-way:
// pending (optionally via bidding) to completed.
type PeriodStatus string

const (
	PeriodPending   PeriodStatus = "pending"
	PeriodBidding   PeriodStatus = "bidding"
	PeriodCompleted PeriodStatus = "completed"
)

// Period is one cycle of a group. All N periods are generated up front at
// group creation; settlement fills in the winner, bid and completion fields.
type Period struct {
	// ID is the unique identifier for the period (UUID format).
	ID string `json:"id"`

	// GroupID is the owning group.
	GroupID string `json:"groupId"`

	// PeriodNumber is 1-based, unique and contiguous within the group.
	PeriodNumber int `json:"periodNumber"`

	// Date is the scheduled date of this period.
	Date time.Time `json:"date"`

	// WinnerID and WinnerName identify the member who won this period's
	// pool. Empty until the period is settled.
	WinnerID   string `json:"winnerId,omitempty"`
	WinnerName string `json:"winnerName,omitempty"`

	// BidAmount is the discount the winner accepted, 0 until settled.
	BidAmount int64 `json:"bidAmount"`

	// TotalAmount is the pool size A × N, constant across periods.
	TotalAmount int64 `json:"totalAmount"`

	Status PeriodStatus `json:"status"`

	// CreatedAt is the Unix timestamp of period generation; CompletedAt
	// of settlement, 0 while the period is open.
	CreatedAt   int64 `json:"createdAt"`
	CompletedAt int64 `json:"completedAt,omitempty"`
}

// Settled reports whether this period has already been resolved.
func (p *Period) Settled() bool {
	return p.Status == PeriodCompleted
}
