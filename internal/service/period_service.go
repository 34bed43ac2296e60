package service

import (
	"context"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tvanh/huiledger/internal/settlement"
	"github.com/tvanh/huiledger/internal/storage"
)

var settlementsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "hui_settlements_total",
	Help: "Number of periods settled successfully.",
})

// BidForm is the input for settling one period.
type BidForm struct {
	WinnerID  string `json:"winnerId"`
	BidAmount int64  `json:"bidAmount"`
}

// settlementStripes is the fixed number of settlement locks. Groups are
// hashed onto stripes, so memory use stays constant no matter how many
// groups exist; two groups sharing a stripe only contend, never misbehave.
const settlementStripes = 64

// PeriodService orchestrates period settlement. The settlement arithmetic
// itself lives in the settlement package; this service loads the working
// set, enforces ordering, and applies the result through the store.
type PeriodService struct {
	store storage.Store
	locks [settlementStripes]sync.Mutex
}

// NewPeriodService creates a PeriodService with the given storage backend.
func NewPeriodService(store storage.Store) *PeriodService {
	return &PeriodService{store: store}
}

// SettlePeriod resolves one period's winner and bid and records the
// resulting payment obligations.
//
// Periods must be settled in increasing order: the target's periodNumber
// has to be exactly group.currentPeriod+1, otherwise ErrInvalidState. A
// per-group mutex covers the read-compute-apply window, so two concurrent
// settlements of the same period cannot both succeed.
func (s *PeriodService) SettlePeriod(ctx context.Context, ownerID, periodID string, bid BidForm) (*settlement.Result, error) {
	if bid.WinnerID == "" {
		return nil, validationf("winner is required")
	}
	if bid.BidAmount < 0 {
		return nil, validationf("bid amount must not be negative")
	}

	period, err := s.store.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}

	unlock := s.lockGroup(period.GroupID)
	defer unlock()

	group, err := s.store.GetGroup(ctx, period.GroupID)
	if err != nil {
		return nil, err
	}
	if group.OwnerID != ownerID {
		return nil, storage.ErrNotFound
	}

	// Re-read inside the lock; a concurrent settlement may have
	// completed this period since the first fetch.
	period, err = s.store.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period.Settled() {
		return nil, settlement.ErrAlreadySettled
	}
	if period.PeriodNumber != group.CurrentPeriod+1 {
		slog.Warn("out-of-order settlement rejected",
			"group_id", group.ID,
			"period_number", period.PeriodNumber,
			"current_period", group.CurrentPeriod,
		)
		return nil, ErrInvalidState
	}

	members, err := s.store.ListMembersByGroup(ctx, period.GroupID)
	if err != nil {
		return nil, err
	}

	res, err := settlement.Settle(group, members, period, bid.WinnerID, bid.BidAmount, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.store.ApplySettlement(ctx, res); err != nil {
		slog.Error("settlement apply failed", "period_id", periodID, "error", err)
		return nil, err
	}

	settlementsTotal.Inc()
	slog.Info("period settled",
		"group_id", group.ID,
		"period_number", res.Period.PeriodNumber,
		"winner_id", res.Period.WinnerID,
		"bid", res.Period.BidAmount,
		"payments", len(res.Payments),
	)
	return res, nil
}

// lockGroup takes the settlement lock for the group's stripe.
func (s *PeriodService) lockGroup(groupID string) func() {
	h := fnv.New32a()
	h.Write([]byte(groupID))
	lock := &s.locks[h.Sum32()%settlementStripes]

	lock.Lock()
	return lock.Unlock
}
