// Package schedule generates the period plan for a hụi group.
//
// Generation is a pure function of its inputs: the same start date, member
// count, cadence and contribution always yield the same schedule. Persisting
// the result is the caller's responsibility.
package schedule

import (
	"fmt"
	"time"

	"github.com/tvanh/huiledger/internal/models"
)

// Generate produces the full period list for a group and the derived end
// date. Period i (1-based) is dated start advanced by i-1 cadence steps; the
// end date is the date of period N. Every period starts pending with a zero
// bid and a pool of amountPerPeriod * totalMembers.
func Generate(start time.Time, totalMembers int, cadence models.PeriodType, amountPerPeriod int64) (time.Time, []*models.Period, error) {
	if totalMembers < 2 {
		return time.Time{}, nil, fmt.Errorf("group needs at least 2 members, got %d", totalMembers)
	}
	if amountPerPeriod <= 0 {
		return time.Time{}, nil, fmt.Errorf("contribution must be positive, got %d", amountPerPeriod)
	}
	if !validCadence(cadence) {
		return time.Time{}, nil, fmt.Errorf("unknown cadence %q", cadence)
	}

	start = Normalize(start)
	now := time.Now().Unix()
	pool := amountPerPeriod * int64(totalMembers)

	periods := make([]*models.Period, 0, totalMembers)
	for i := 1; i <= totalMembers; i++ {
		periods = append(periods, &models.Period{
			PeriodNumber: i,
			Date:         Step(start, cadence, i-1),
			BidAmount:    0,
			TotalAmount:  pool,
			Status:       models.PeriodPending,
			CreatedAt:    now,
		})
	}

	return periods[len(periods)-1].Date, periods, nil
}

// Step advances a date by n cadence steps. Monthly stepping is
// calendar-aware: month-length variation is accepted, not normalized away.
func Step(start time.Time, cadence models.PeriodType, n int) time.Time {
	switch cadence {
	case models.PeriodDaily:
		return start.AddDate(0, 0, n)
	case models.PeriodWeekly:
		return start.AddDate(0, 0, 7*n)
	case models.PeriodMonthly:
		return start.AddDate(0, n, 0)
	}
	return start
}

// Normalize truncates a timestamp to midnight UTC, the canonical form for
// schedule dates.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validCadence(c models.PeriodType) bool {
	switch c {
	case models.PeriodDaily, models.PeriodWeekly, models.PeriodMonthly:
		return true
	}
	return false
}
