package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tvanh/huiledger/internal/models"
	"github.com/tvanh/huiledger/internal/storage"
)

// CreatePeriods persists a group's full schedule in one transaction.
func (s *SQLiteStore) CreatePeriods(ctx context.Context, periods []*models.Period) error {
	if len(periods) == 0 {
		return nil
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, p := range periods {
			if p.ID == "" {
				p.ID = uuid.New().String()
			}
			if p.CreatedAt == 0 {
				p.CreatedAt = time.Now().Unix()
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO periods
				 (id, group_id, period_number, date, winner_id, winner_name,
				  bid_amount, total_amount, status, created_at, completed_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				p.ID, p.GroupID, p.PeriodNumber, formatDate(p.Date),
				p.WinnerID, p.WinnerName, p.BidAmount, p.TotalAmount,
				string(p.Status), p.CreatedAt, p.CompletedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert period %d: %w", p.PeriodNumber, err)
			}
		}
		return nil
	})
}

// GetPeriod retrieves a period by ID.
func (s *SQLiteStore) GetPeriod(ctx context.Context, id string) (*models.Period, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, period_number, date, winner_id, winner_name,
		        bid_amount, total_amount, status, created_at, completed_at
		 FROM periods WHERE id = ?`, id)

	period, err := scanPeriod(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get period: %w", err)
	}
	return period, nil
}

// ListPeriodsByGroup returns a group's periods ordered by period number.
func (s *SQLiteStore) ListPeriodsByGroup(ctx context.Context, groupID string) ([]*models.Period, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, period_number, date, winner_id, winner_name,
		        bid_amount, total_amount, status, created_at, completed_at
		 FROM periods WHERE group_id = ? ORDER BY period_number ASC`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	defer rows.Close()

	var periods []*models.Period
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period: %w", err)
		}
		periods = append(periods, period)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate periods: %w", err)
	}
	return periods, nil
}

func execPeriodUpdate(ctx context.Context, db execer, p *models.Period) error {
	res, err := db.ExecContext(ctx,
		`UPDATE periods
		 SET winner_id = ?, winner_name = ?, bid_amount = ?, status = ?, completed_at = ?
		 WHERE id = ?`,
		p.WinnerID, p.WinnerName, p.BidAmount, string(p.Status), p.CompletedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update period: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanPeriod(row rowScanner) (*models.Period, error) {
	p := &models.Period{}
	var status, date string
	err := row.Scan(
		&p.ID, &p.GroupID, &p.PeriodNumber, &date, &p.WinnerID, &p.WinnerName,
		&p.BidAmount, &p.TotalAmount, &status, &p.CreatedAt, &p.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = models.PeriodStatus(status)
	if p.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	return p, nil
}
