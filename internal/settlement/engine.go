// Package settlement resolves a period's winner and bid and derives each
// remaining member's payment obligation.
//
// Settle is pure: it never touches storage and never mutates its inputs,
// returning updated copies instead. Applying the result atomically is the
// storage layer's job; settling periods in increasing order is the calling
// service's job.
package settlement

import (
	"errors"
	"math"
	"time"

	"github.com/tvanh/huiledger/internal/models"
)

var (
	// ErrAlreadySettled is returned when the period has already been
	// completed. Re-settlement is rejected, never overwritten.
	ErrAlreadySettled = errors.New("period is already settled")

	// ErrWinnerNotFound is returned when the winner ID does not resolve
	// to a member of the period's group.
	ErrWinnerNotFound = errors.New("winner is not a member of this group")

	// ErrNegativeBid is returned for a bid below zero. No upper bound is
	// enforced; callers may pass any non-negative value.
	ErrNegativeBid = errors.New("bid amount must not be negative")
)

// Result carries every mutation a settlement produces. All fields are copies
// of the inputs with the settlement applied.
type Result struct {
	// Period has the winner, bid, completed status and completion time set.
	Period *models.Period

	// Winner has HasReceived set and, if it was previously unset,
	// ReceivedPeriod stamped with this period's number.
	Winner *models.Member

	// Group has CurrentPeriod advanced to this period's number.
	Group *models.Group

	// Payments holds one pending obligation per non-winning member, due
	// on the period's date. IDs are assigned by the store on insert.
	Payments []*models.Payment
}

// Settle resolves one period. Members who received their payout in an
// earlier period owe the base contribution minus an equal share of the
// winner's bid; members still waiting for their payout owe the full
// contribution. The winner owes nothing for the period they win.
func Settle(group *models.Group, members []*models.Member, period *models.Period, winnerID string, bidAmount int64, now time.Time) (*Result, error) {
	if period.Settled() {
		return nil, ErrAlreadySettled
	}
	if bidAmount < 0 {
		return nil, ErrNegativeBid
	}

	var winner *models.Member
	for _, m := range members {
		if m.ID == winnerID && m.GroupID == group.ID {
			winner = m
			break
		}
	}
	if winner == nil {
		return nil, ErrWinnerNotFound
	}

	p := *period
	p.WinnerID = winner.ID
	p.WinnerName = winner.Name
	p.BidAmount = bidAmount
	p.Status = models.PeriodCompleted
	p.CompletedAt = now.Unix()

	w := *winner
	w.HasReceived = true
	if w.ReceivedPeriod == 0 {
		w.ReceivedPeriod = period.PeriodNumber
	}

	g := *group
	g.CurrentPeriod = period.PeriodNumber
	g.UpdatedAt = now.Unix()

	return &Result{
		Period:   &p,
		Winner:   &w,
		Group:    &g,
		Payments: buildPayments(group, members, &p, winner.ID, bidAmount),
	}, nil
}

// buildPayments derives the per-member obligations. The bid is spread evenly
// across all other members, but only those who already received their payout
// before this settlement benefit from the rebate.
func buildPayments(group *models.Group, members []*models.Member, period *models.Period, winnerID string, bidAmount int64) []*models.Payment {
	base := float64(group.AmountPerPeriod)

	var bonus float64
	if len(members) > 1 {
		bonus = float64(bidAmount) / float64(len(members)-1)
	}

	payments := make([]*models.Payment, 0, len(members)-1)
	for _, m := range members {
		if m.ID == winnerID {
			continue
		}

		amount := base
		if m.HasReceived {
			amount = base - bonus
		}

		payments = append(payments, &models.Payment{
			PeriodID:   period.ID,
			GroupID:    period.GroupID,
			MemberID:   m.ID,
			MemberName: m.Name,
			Amount:     roundHalfAway(amount),
			Status:     models.PaymentPending,
			DueDate:    period.Date,
		})
	}
	return payments
}

// roundHalfAway rounds to the nearest whole unit with ties going away from
// zero, matching the rounding the ledger has always used.
func roundHalfAway(v float64) int64 {
	return int64(math.Round(v))
}
