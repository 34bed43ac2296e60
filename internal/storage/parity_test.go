package storage_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tvanh/huiledger/internal/models"
	"github.com/tvanh/huiledger/internal/settlement"
	"github.com/tvanh/huiledger/internal/storage"
	"github.com/tvanh/huiledger/internal/storage/memory"
	"github.com/tvanh/huiledger/internal/storage/sqlite"
)

// Both backends must be observably identical for the same call sequence.
// This test drives a memory store and a SQLite store through one full
// lifecycle (create, seed, settle, mark paid, delete) with fully pinned IDs
// and timestamps, and diffs every entity view along the way.

const (
	parityOwner = "owner-parity"
	seedStamp   = int64(1700000000)
	settleStamp = int64(1700001000)
	paidStamp   = int64(1700002000)
)

func openBackends(t *testing.T) map[string]storage.Store {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "huiledger-parity-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	sqliteStore, err := sqlite.New(filepath.Join(tempDir, "parity.db"))
	if err != nil {
		t.Fatalf("Failed to create sqlite store: %v", err)
	}
	t.Cleanup(func() { sqliteStore.Close() })

	return map[string]storage.Store{
		"memory": memory.New(),
		"sqlite": sqliteStore,
	}
}

func parityDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(models.DateLayout, value)
	if err != nil {
		t.Fatalf("bad test date %q: %v", value, err)
	}
	return parsed
}

// seedGroup builds the pinned lifecycle fixtures. Fresh structs per call so
// one store's writes can never leak into the other's input.
func seedGroup(t *testing.T) (*models.Group, []*models.Member, []*models.Period) {
	t.Helper()
	group := &models.Group{
		ID:              "grp-1",
		Name:            "Parity circle",
		OwnerID:         parityOwner,
		OwnerName:       "Linh",
		OwnerEmail:      "linh@example.com",
		TotalMembers:    3,
		AmountPerPeriod: 100,
		PeriodType:      models.PeriodMonthly,
		StartDate:       parityDate(t, "2024-01-01"),
		EndDate:         parityDate(t, "2024-03-01"),
		Status:          models.GroupActive,
		CreatedAt:       seedStamp,
		UpdatedAt:       seedStamp,
	}
	members := []*models.Member{
		{ID: "mem-1", GroupID: group.ID, Name: "An", Order: 1, JoinedAt: seedStamp},
		{ID: "mem-2", GroupID: group.ID, Name: "Binh", Order: 2, JoinedAt: seedStamp},
		{ID: "mem-3", GroupID: group.ID, Name: "Chi", Order: 3, JoinedAt: seedStamp},
	}
	periods := []*models.Period{
		{ID: "per-1", GroupID: group.ID, PeriodNumber: 1, Date: parityDate(t, "2024-01-01"), TotalAmount: 300, Status: models.PeriodPending, CreatedAt: seedStamp},
		{ID: "per-2", GroupID: group.ID, PeriodNumber: 2, Date: parityDate(t, "2024-02-01"), TotalAmount: 300, Status: models.PeriodPending, CreatedAt: seedStamp},
		{ID: "per-3", GroupID: group.ID, PeriodNumber: 3, Date: parityDate(t, "2024-03-01"), TotalAmount: 300, Status: models.PeriodPending, CreatedAt: seedStamp},
	}
	return group, members, periods
}

func dump(t *testing.T, v any) string {
	t.Helper()
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	return string(b)
}

// snapshot renders every entity view for the group as one comparable blob.
func snapshot(t *testing.T, ctx context.Context, store storage.Store, groupID string) string {
	t.Helper()

	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	members, err := store.ListMembersByGroup(ctx, groupID)
	if err != nil {
		t.Fatalf("ListMembersByGroup failed: %v", err)
	}
	periods, err := store.ListPeriodsByGroup(ctx, groupID)
	if err != nil {
		t.Fatalf("ListPeriodsByGroup failed: %v", err)
	}
	payments, err := store.ListPaymentsByGroup(ctx, groupID)
	if err != nil {
		t.Fatalf("ListPaymentsByGroup failed: %v", err)
	}
	stats, err := store.Stats(ctx, parityOwner)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	return dump(t, map[string]any{
		"group":    group,
		"members":  members,
		"periods":  periods,
		"payments": payments,
		"stats":    stats,
	})
}

func TestBackendsStayInLockstep(t *testing.T) {
	stores := openBackends(t)
	ctx := context.Background()

	// One settlement result, computed from the pinned fixtures, applied to
	// every backend. Payment IDs are pinned too so listing order matches.
	resultGroup, resultMembers, resultPeriods := seedGroup(t)
	res, err := settlement.Settle(resultGroup, resultMembers, resultPeriods[0], "mem-2", 30, time.Unix(settleStamp, 0))
	if err != nil {
		t.Fatalf("Settle failed: %v", err)
	}
	for i, p := range res.Payments {
		p.ID = fmt.Sprintf("pay-%d", i+1)
	}

	for name, store := range stores {
		group, members, periods := seedGroup(t)
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("%s: CreateGroup failed: %v", name, err)
		}
		if err := store.CreateMembers(ctx, members); err != nil {
			t.Fatalf("%s: CreateMembers failed: %v", name, err)
		}
		if err := store.CreatePeriods(ctx, periods); err != nil {
			t.Fatalf("%s: CreatePeriods failed: %v", name, err)
		}
		if err := store.ApplySettlement(ctx, res); err != nil {
			t.Fatalf("%s: ApplySettlement failed: %v", name, err)
		}

		payment, err := store.GetPayment(ctx, "pay-1")
		if err != nil {
			t.Fatalf("%s: GetPayment failed: %v", name, err)
		}
		payment.Status = models.PaymentPaid
		payment.PaidAt = paidStamp
		if err := store.UpdatePayment(ctx, payment); err != nil {
			t.Fatalf("%s: UpdatePayment failed: %v", name, err)
		}
	}

	memorySnap := snapshot(t, ctx, stores["memory"], "grp-1")
	sqliteSnap := snapshot(t, ctx, stores["sqlite"], "grp-1")
	if memorySnap != sqliteSnap {
		t.Errorf("backends diverged after settlement\nmemory:\n%s\nsqlite:\n%s", memorySnap, sqliteSnap)
	}

	// Orphan inserts must fail on every backend.
	for name, store := range stores {
		orphan := &models.Member{ID: "mem-ghost", GroupID: "no-such-group", Name: "Ghost", Order: 1, JoinedAt: seedStamp}
		if err := store.CreateMember(ctx, orphan); err == nil {
			t.Errorf("%s: orphan member insert succeeded", name)
		}
		orphanPeriods := []*models.Period{
			{ID: "per-ghost", GroupID: "no-such-group", PeriodNumber: 1, Date: parityDate(t, "2024-01-01"), TotalAmount: 300, Status: models.PeriodPending, CreatedAt: seedStamp},
		}
		if err := store.CreatePeriods(ctx, orphanPeriods); err == nil {
			t.Errorf("%s: orphan period insert succeeded", name)
		}
	}

	// The cascade delete must leave both equally empty.
	for name, store := range stores {
		if err := store.DeleteGroupData(ctx, "grp-1"); err != nil {
			t.Fatalf("%s: DeleteGroupData failed: %v", name, err)
		}
		if _, err := store.GetGroup(ctx, "grp-1"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("%s: expected group gone, got %v", name, err)
		}
		if _, err := store.GetMember(ctx, "mem-1"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("%s: expected member gone, got %v", name, err)
		}
		if _, err := store.GetPeriod(ctx, "per-1"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("%s: expected period gone, got %v", name, err)
		}
		if _, err := store.GetPayment(ctx, "pay-1"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("%s: expected payment gone, got %v", name, err)
		}
		stats, err := store.Stats(ctx, parityOwner)
		if err != nil {
			t.Fatalf("%s: Stats failed: %v", name, err)
		}
		if stats.TotalGroups != 0 || stats.PendingPayments != 0 {
			t.Errorf("%s: stats not empty after delete: %+v", name, stats)
		}
	}
}
