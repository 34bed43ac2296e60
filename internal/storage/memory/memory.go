// Package memory provides the volatile in-process implementation of the
// storage.Store interface. It backs demo deployments and tests, and is the
// fallback when the durable store cannot be opened.
//
// Observable behavior matches the SQLite backend exactly: same ordering,
// same not-found semantics, same ID assignment. All data is lost when the
// process exits.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tvanh/huiledger/internal/models"
	"github.com/tvanh/huiledger/internal/settlement"
	"github.com/tvanh/huiledger/internal/storage"
)

// Ensure MemoryStore implements storage.Store
var _ storage.Store = (*MemoryStore)(nil)

// MemoryStore implements storage.Store with mutex-guarded maps. Entities are
// copied on the way in and out so callers never alias internal state.
type MemoryStore struct {
	mu       sync.Mutex
	users    map[string]*models.User
	groups   map[string]*models.Group
	members  map[string]*models.Member
	periods  map[string]*models.Period
	payments map[string]*models.Payment
}

// New creates an empty MemoryStore.
func New() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]*models.User),
		groups:   make(map[string]*models.Group),
		members:  make(map[string]*models.Member),
		periods:  make(map[string]*models.Period),
		payments: make(map[string]*models.Payment),
	}
}

// Close is a no-op; the store holds no external resources.
func (s *MemoryStore) Close() error { return nil }

// CreateUser persists a new user account.
func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	u := *user
	s.users[u.ID] = &u
	return nil
}

// GetUserByEmail retrieves a user by email.
func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, storage.ErrNotFound
}

// GetUserByID retrieves a user by ID.
func (s *MemoryStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c := *u
	return &c, nil
}

// CreateGroup persists a new group, assigning ID and timestamps when unset.
func (s *MemoryStore) CreateGroup(_ context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
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
	g := *group
	s.groups[g.ID] = &g
	return nil
}

// GetGroup retrieves a group by ID.
func (s *MemoryStore) GetGroup(_ context.Context, id string) (*models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c := *g
	return &c, nil
}

// ListGroupsByOwner returns the owner's groups, newest first.
func (s *MemoryStore) ListGroupsByOwner(_ context.Context, ownerID string) ([]*models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var groups []*models.Group
	for _, g := range s.groups {
		if g.OwnerID == ownerID {
			c := *g
			groups = append(groups, &c)
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].CreatedAt != groups[j].CreatedAt {
			return groups[i].CreatedAt > groups[j].CreatedAt
		}
		return groups[i].ID < groups[j].ID
	})
	return groups, nil
}

// UpdateGroup overwrites a group's mutable fields.
func (s *MemoryStore) UpdateGroup(_ context.Context, group *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateGroupLocked(group)
}

func (s *MemoryStore) updateGroupLocked(group *models.Group) error {
	existing, ok := s.groups[group.ID]
	if !ok {
		return storage.ErrNotFound
	}
	existing.Name = group.Name
	existing.Status = group.Status
	existing.CurrentPeriod = group.CurrentPeriod
	existing.UpdatedAt = group.UpdatedAt
	return nil
}

// DeleteGroupData removes a group and everything it owns. Under the store
// mutex the cascade is atomic.
func (s *MemoryStore) DeleteGroupData(_ context.Context, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[groupID]; !ok {
		return storage.ErrNotFound
	}
	delete(s.groups, groupID)
	for id, m := range s.members {
		if m.GroupID == groupID {
			delete(s.members, id)
		}
	}
	for id, p := range s.periods {
		if p.GroupID == groupID {
			delete(s.periods, id)
		}
	}
	for id, p := range s.payments {
		if p.GroupID == groupID {
			delete(s.payments, id)
		}
	}
	return nil
}

// CreateMember persists a single member. The owning group must exist,
// matching the SQLite backend's foreign key check.
func (s *MemoryStore) CreateMember(_ context.Context, member *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[member.GroupID]; !ok {
		return storage.ErrNotFound
	}
	s.insertMemberLocked(member)
	return nil
}

// CreateMembers persists a batch of members. Group existence is checked for
// the whole batch up front so a rejected batch inserts nothing.
func (s *MemoryStore) CreateMembers(_ context.Context, members []*models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range members {
		if _, ok := s.groups[m.GroupID]; !ok {
			return storage.ErrNotFound
		}
	}
	for _, m := range members {
		s.insertMemberLocked(m)
	}
	return nil
}

func (s *MemoryStore) insertMemberLocked(member *models.Member) {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.JoinedAt == 0 {
		member.JoinedAt = time.Now().Unix()
	}
	m := *member
	s.members[m.ID] = &m
}

// GetMember retrieves a member by ID.
func (s *MemoryStore) GetMember(_ context.Context, id string) (*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c := *m
	return &c, nil
}

// ListMembersByGroup returns a group's members ordered by join rank.
func (s *MemoryStore) ListMembersByGroup(_ context.Context, groupID string) ([]*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var members []*models.Member
	for _, m := range s.members {
		if m.GroupID == groupID {
			c := *m
			members = append(members, &c)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Order < members[j].Order })
	return members, nil
}

// UpdateMember overwrites an existing member.
func (s *MemoryStore) UpdateMember(_ context.Context, member *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateMemberLocked(member)
}

func (s *MemoryStore) updateMemberLocked(member *models.Member) error {
	existing, ok := s.members[member.ID]
	if !ok {
		return storage.ErrNotFound
	}
	existing.Name = member.Name
	existing.Email = member.Email
	existing.Order = member.Order
	existing.HasReceived = member.HasReceived
	existing.ReceivedPeriod = member.ReceivedPeriod
	return nil
}

// DeleteMember removes a single member.
func (s *MemoryStore) DeleteMember(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.members, id)
	return nil
}

// CreatePeriods persists a group's full schedule. Like the member batch,
// a missing owning group rejects the whole batch.
func (s *MemoryStore) CreatePeriods(_ context.Context, periods []*models.Period) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, period := range periods {
		if _, ok := s.groups[period.GroupID]; !ok {
			return storage.ErrNotFound
		}
	}
	for _, period := range periods {
		if period.ID == "" {
			period.ID = uuid.New().String()
		}
		if period.CreatedAt == 0 {
			period.CreatedAt = time.Now().Unix()
		}
		p := *period
		s.periods[p.ID] = &p
	}
	return nil
}

// GetPeriod retrieves a period by ID.
func (s *MemoryStore) GetPeriod(_ context.Context, id string) (*models.Period, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.periods[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c := *p
	return &c, nil
}

// ListPeriodsByGroup returns a group's periods ordered by period number.
func (s *MemoryStore) ListPeriodsByGroup(_ context.Context, groupID string) ([]*models.Period, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var periods []*models.Period
	for _, p := range s.periods {
		if p.GroupID == groupID {
			c := *p
			periods = append(periods, &c)
		}
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].PeriodNumber < periods[j].PeriodNumber })
	return periods, nil
}

// GetPayment retrieves a payment by ID.
func (s *MemoryStore) GetPayment(_ context.Context, id string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	c := *p
	return &c, nil
}

// ListPaymentsByGroup returns a group's payments ordered by due date
// descending, ties broken by ID for a stable order.
func (s *MemoryStore) ListPaymentsByGroup(_ context.Context, groupID string) ([]*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var payments []*models.Payment
	for _, p := range s.payments {
		if p.GroupID == groupID {
			c := *p
			payments = append(payments, &c)
		}
	}
	sort.Slice(payments, func(i, j int) bool {
		if !payments[i].DueDate.Equal(payments[j].DueDate) {
			return payments[i].DueDate.After(payments[j].DueDate)
		}
		return payments[i].ID < payments[j].ID
	})
	return payments, nil
}

// UpdatePayment overwrites an existing payment.
func (s *MemoryStore) UpdatePayment(_ context.Context, payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.payments[payment.ID]
	if !ok {
		return storage.ErrNotFound
	}
	existing.Status = payment.Status
	existing.PaidAt = payment.PaidAt
	return nil
}

// ApplySettlement writes one settlement's full mutation set while holding
// the store mutex, so it is atomic with respect to every other operation.
func (s *MemoryStore) ApplySettlement(_ context.Context, res *settlement.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	period, ok := s.periods[res.Period.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if err := s.updateMemberLocked(res.Winner); err != nil {
		return err
	}
	if err := s.updateGroupLocked(res.Group); err != nil {
		return err
	}

	period.WinnerID = res.Period.WinnerID
	period.WinnerName = res.Period.WinnerName
	period.BidAmount = res.Period.BidAmount
	period.Status = res.Period.Status
	period.CompletedAt = res.Period.CompletedAt

	for _, payment := range res.Payments {
		if payment.ID == "" {
			payment.ID = uuid.New().String()
		}
		p := *payment
		s.payments[p.ID] = &p
	}
	return nil
}

// Stats aggregates the overview counters for one owner.
func (s *MemoryStore) Stats(_ context.Context, ownerID string) (*models.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &models.Stats{}
	owned := make(map[string]bool)
	for _, g := range s.groups {
		if g.OwnerID != ownerID {
			continue
		}
		owned[g.ID] = true
		stats.TotalGroups++
		if g.Status == models.GroupActive {
			stats.ActiveGroups++
		}
		stats.TotalAmount += g.PoolAmount()
	}
	for _, m := range s.members {
		if owned[m.GroupID] {
			stats.TotalMembers++
		}
	}
	for _, p := range s.payments {
		if owned[p.GroupID] && p.Status == models.PaymentPending {
			stats.PendingPayments++
		}
	}
	return stats, nil
}
