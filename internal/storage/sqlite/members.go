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

// CreateMember persists a single member, assigning its ID when unset.
func (s *SQLiteStore) CreateMember(ctx context.Context, member *models.Member) error {
	prepareMember(member)
	if err := execMemberInsert(ctx, s.db, member); err != nil {
		return err
	}
	return nil
}

// CreateMembers persists a batch of members in one transaction.
func (s *SQLiteStore) CreateMembers(ctx context.Context, members []*models.Member) error {
	if len(members) == 0 {
		return nil
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, m := range members {
			prepareMember(m)
			if err := execMemberInsert(ctx, tx, m); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetMember retrieves a member by ID.
func (s *SQLiteStore) GetMember(ctx context.Context, id string) (*models.Member, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, name, email, member_order, has_received, received_period, joined_at
		 FROM members WHERE id = ?`, id)

	member, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

// ListMembersByGroup returns a group's members ordered by join rank.
func (s *SQLiteStore) ListMembersByGroup(ctx context.Context, groupID string) ([]*models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, name, email, member_order, has_received, received_period, joined_at
		 FROM members WHERE group_id = ? ORDER BY member_order ASC`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// UpdateMember overwrites an existing member.
func (s *SQLiteStore) UpdateMember(ctx context.Context, member *models.Member) error {
	return execMemberUpdate(ctx, s.db, member)
}

// DeleteMember removes a single member.
func (s *SQLiteStore) DeleteMember(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM members WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func prepareMember(m *models.Member) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.JoinedAt == 0 {
		m.JoinedAt = time.Now().Unix()
	}
}

func execMemberInsert(ctx context.Context, db execer, m *models.Member) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO members (id, group_id, name, email, member_order, has_received, received_period, joined_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.GroupID, m.Name, m.Email, m.Order, boolToInt(m.HasReceived), m.ReceivedPeriod, m.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

func execMemberUpdate(ctx context.Context, db execer, m *models.Member) error {
	res, err := db.ExecContext(ctx,
		`UPDATE members
		 SET name = ?, email = ?, member_order = ?, has_received = ?, received_period = ?
		 WHERE id = ?`,
		m.Name, m.Email, m.Order, boolToInt(m.HasReceived), m.ReceivedPeriod, m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
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

func scanMember(row rowScanner) (*models.Member, error) {
	m := &models.Member{}
	var received int
	err := row.Scan(&m.ID, &m.GroupID, &m.Name, &m.Email, &m.Order, &received, &m.ReceivedPeriod, &m.JoinedAt)
	if err != nil {
		return nil, err
	}
	m.HasReceived = received != 0
	return m, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
