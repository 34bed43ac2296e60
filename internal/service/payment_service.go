package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/tvanh/huiledger/internal/models"
	"github.com/tvanh/huiledger/internal/storage"
)

// PaymentService exposes the ledger side: obligation status and aggregate
// stats. Payments themselves are only ever created by settlement.
type PaymentService struct {
	store storage.Store
}

// NewPaymentService creates a PaymentService with the given storage backend.
func NewPaymentService(store storage.Store) *PaymentService {
	return &PaymentService{store: store}
}

// ListPayments returns a group's payments, most recent due date first.
func (s *PaymentService) ListPayments(ctx context.Context, ownerID, groupID string) ([]*models.Payment, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.OwnerID != ownerID {
		return nil, storage.ErrNotFound
	}
	return s.store.ListPaymentsByGroup(ctx, groupID)
}

// MarkPaid transitions a payment to paid and stamps the payment time.
// Calling it on an already-paid record is not rejected; it simply re-stamps
// paidAt.
func (s *PaymentService) MarkPaid(ctx context.Context, ownerID, paymentID string) (*models.Payment, error) {
	payment, err := s.store.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	group, err := s.store.GetGroup(ctx, payment.GroupID)
	if err != nil {
		return nil, err
	}
	if group.OwnerID != ownerID {
		return nil, storage.ErrNotFound
	}

	payment.Status = models.PaymentPaid
	payment.PaidAt = time.Now().Unix()
	if err := s.store.UpdatePayment(ctx, payment); err != nil {
		return nil, err
	}

	slog.Info("payment marked paid", "payment_id", paymentID, "group_id", payment.GroupID)
	return payment, nil
}

// Stats aggregates the caller's overview counters.
func (s *PaymentService) Stats(ctx context.Context, ownerID string) (*models.Stats, error) {
	return s.store.Stats(ctx, ownerID)
}
