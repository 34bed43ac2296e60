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

// CreateGroup persists a new group, assigning its ID and timestamps when
// unset.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if group.CreatedAt == 0 {
		group.CreatedAt = now
	}
	if group.UpdatedAt == 0 {
		group.UpdatedAt = now
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO groups
		 (id, name, owner_id, owner_name, owner_email, total_members, amount_per_period,
		  period_type, start_date, end_date, status, current_period, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.Name, group.OwnerID, group.OwnerName, group.OwnerEmail,
		group.TotalMembers, group.AmountPerPeriod, string(group.PeriodType),
		formatDate(group.StartDate), formatDate(group.EndDate),
		string(group.Status), group.CurrentPeriod, group.CreatedAt, group.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, owner_id, owner_name, owner_email, total_members, amount_per_period,
		        period_type, start_date, end_date, status, current_period, created_at, updated_at
		 FROM groups WHERE id = ?`, id)

	group, err := scanGroup(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// ListGroupsByOwner returns the owner's groups, newest first.
func (s *SQLiteStore) ListGroupsByOwner(ctx context.Context, ownerID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, owner_id, owner_name, owner_email, total_members, amount_per_period,
		        period_type, start_date, end_date, status, current_period, created_at, updated_at
		 FROM groups WHERE owner_id = ? ORDER BY created_at DESC, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

// UpdateGroup overwrites a group's mutable fields.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	return execGroupUpdate(ctx, s.db, group)
}

// DeleteGroupData removes a group and all owned members, periods and
// payments in one transaction.
func (s *SQLiteStore) DeleteGroupData(ctx context.Context, groupID string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, del := range []struct {
			table string
			query string
		}{
			{"payments", "DELETE FROM payments WHERE group_id = ?"},
			{"periods", "DELETE FROM periods WHERE group_id = ?"},
			{"members", "DELETE FROM members WHERE group_id = ?"},
		} {
			if _, err := tx.ExecContext(ctx, del.query, groupID); err != nil {
				return fmt.Errorf("failed to delete %s: %w", del.table, err)
			}
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
		if err != nil {
			return fmt.Errorf("failed to delete group: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read delete result: %w", err)
		}
		if n == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (*models.Group, error) {
	group := &models.Group{}
	var periodType, status, startDate, endDate string
	err := row.Scan(
		&group.ID, &group.Name, &group.OwnerID, &group.OwnerName, &group.OwnerEmail,
		&group.TotalMembers, &group.AmountPerPeriod, &periodType,
		&startDate, &endDate, &status, &group.CurrentPeriod,
		&group.CreatedAt, &group.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	group.PeriodType = models.PeriodType(periodType)
	group.Status = models.GroupStatus(status)
	if group.StartDate, err = parseDate(startDate); err != nil {
		return nil, err
	}
	if group.EndDate, err = parseDate(endDate); err != nil {
		return nil, err
	}
	return group, nil
}

// execer covers both *sql.DB and *sql.Tx so updates can run standalone or
// inside a settlement transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func execGroupUpdate(ctx context.Context, db execer, group *models.Group) error {
	res, err := db.ExecContext(ctx,
		`UPDATE groups
		 SET name = ?, status = ?, current_period = ?, updated_at = ?
		 WHERE id = ?`,
		group.Name, string(group.Status), group.CurrentPeriod, group.UpdatedAt, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
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
