package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/tvanh/huiledger/internal/models"
	"github.com/tvanh/huiledger/internal/storage"
)

// GetPayment retrieves a payment by ID.
func (s *SQLiteStore) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, period_id, group_id, member_id, member_name, amount, status, due_date, paid_at
		 FROM payments WHERE id = ?`, id)

	payment, err := scanPayment(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

// ListPaymentsByGroup returns a group's payments ordered by due date
// descending. Ties break on id so the order is stable.
func (s *SQLiteStore) ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, period_id, group_id, member_id, member_name, amount, status, due_date, paid_at
		 FROM payments WHERE group_id = ? ORDER BY due_date DESC, id`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

// UpdatePayment overwrites an existing payment.
func (s *SQLiteStore) UpdatePayment(ctx context.Context, payment *models.Payment) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE payments SET status = ?, paid_at = ? WHERE id = ?`,
		string(payment.Status), payment.PaidAt, payment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
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

func execPaymentInsert(ctx context.Context, db execer, p *models.Payment) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO payments (id, period_id, group_id, member_id, member_name, amount, status, due_date, paid_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.PeriodID, p.GroupID, p.MemberID, p.MemberName,
		p.Amount, string(p.Status), formatDate(p.DueDate), p.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	p := &models.Payment{}
	var status, dueDate string
	err := row.Scan(
		&p.ID, &p.PeriodID, &p.GroupID, &p.MemberID, &p.MemberName,
		&p.Amount, &status, &dueDate, &p.PaidAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = models.PaymentStatus(status)
	if p.DueDate, err = parseDate(dueDate); err != nil {
		return nil, err
	}
	return p, nil
}
