package sqlite

import (
	"context"
	"database/sql"

	"github.com/tvanh/huiledger/internal/models"
	"github.com/tvanh/huiledger/internal/settlement"
)

// ApplySettlement writes one settlement's full mutation set in a single
// transaction: the completed period, the marked winner, the advanced group
// and the batch of new payments. Either all of it lands or none of it does.
func (s *SQLiteStore) ApplySettlement(ctx context.Context, res *settlement.Result) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := execPeriodUpdate(ctx, tx, res.Period); err != nil {
			return err
		}
		if err := execMemberUpdate(ctx, tx, res.Winner); err != nil {
			return err
		}
		if err := execGroupUpdate(ctx, tx, res.Group); err != nil {
			return err
		}
		for _, p := range res.Payments {
			if err := execPaymentInsert(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

// Stats aggregates the overview counters for one owner.
func (s *SQLiteStore) Stats(ctx context.Context, ownerID string) (*models.Stats, error) {
	stats := &models.Stats{}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(amount_per_period * total_members), 0)
		 FROM groups WHERE owner_id = ?`, ownerID,
	).Scan(&stats.TotalGroups, &stats.ActiveGroups, &stats.TotalAmount)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM members m
		 JOIN groups g ON g.id = m.group_id
		 WHERE g.owner_id = ?`, ownerID,
	).Scan(&stats.TotalMembers)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM payments p
		 JOIN groups g ON g.id = p.group_id
		 WHERE g.owner_id = ? AND p.status = 'pending'`, ownerID,
	).Scan(&stats.PendingPayments)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
