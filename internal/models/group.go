package models

import "time"

// GroupStatus is the lifecycle state of a hụi group.
type GroupStatus string

const (
	GroupActive    GroupStatus = "active"
	GroupCompleted GroupStatus = "completed"
	GroupCancelled GroupStatus = "cancelled"
)

// PeriodType is the cadence at which a group runs its periods.
type PeriodType string

const (
	PeriodDaily   PeriodType = "daily"
	PeriodWeekly  PeriodType = "weekly"
	PeriodMonthly PeriodType = "monthly"
)

// Group represents one hụi circle.
//
// TotalMembers and AmountPerPeriod are fixed at creation; EndDate is derived
// as StartDate advanced by (TotalMembers-1) cadence steps. CurrentPeriod is
// the number of the most recently settled period (0 before the first
// settlement) and only ever increases.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group.
	Name string `json:"name"`

	// OwnerID, OwnerName and OwnerEmail identify the user who runs the
	// group. Queries for group lists are scoped by OwnerID.
	OwnerID    string `json:"ownerId"`
	OwnerName  string `json:"ownerName"`
	OwnerEmail string `json:"ownerEmail"`

	// TotalMembers is the fixed member count N, which equals the number
	// of periods the group runs.
	TotalMembers int `json:"totalMembers"`

	// AmountPerPeriod is the flat contribution A each member owes per
	// period, in whole currency units.
	AmountPerPeriod int64 `json:"amountPerPeriod"`

	// PeriodType is the cadence between consecutive periods.
	PeriodType PeriodType `json:"periodType"`

	// StartDate is the date of period 1; EndDate the date of period N.
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`

	Status GroupStatus `json:"status"`

	// CurrentPeriod is the highest settled period number, 0 if none.
	CurrentPeriod int `json:"currentPeriod"`

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// PoolAmount returns the full pot for one period: A × N.
func (g *Group) PoolAmount() int64 {
	return g.AmountPerPeriod * int64(g.TotalMembers)
}
