package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/tvanh/huiledger/internal/models"
	"github.com/tvanh/huiledger/internal/schedule"
	"github.com/tvanh/huiledger/internal/storage"
)

// CreateGroupForm is the validated input for group creation. MemberNames is
// optional: when supplied the members are seeded immediately in list order;
// otherwise members join one at a time via AddMember.
type CreateGroupForm struct {
	Name            string            `json:"name"`
	TotalMembers    int               `json:"totalMembers"`
	AmountPerPeriod int64             `json:"amountPerPeriod"`
	PeriodType      models.PeriodType `json:"periodType"`
	StartDate       string            `json:"startDate"`
	MemberNames     []string          `json:"memberNames,omitempty"`
}

// UpdateGroupForm carries the partial update for a group. Nil fields are
// left unchanged.
type UpdateGroupForm struct {
	Name   *string             `json:"name,omitempty"`
	Status *models.GroupStatus `json:"status,omitempty"`
}

// MemberForm is the input for adding or editing one member.
type MemberForm struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// GroupService orchestrates group lifecycle: creation with schedule
// generation and member seeding, reads, partial update, cascade delete, and
// member management.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup validates the form, generates the full period schedule, and
// persists the group, its periods, and any seeded members.
func (s *GroupService) CreateGroup(ctx context.Context, id Identity, form CreateGroupForm) (*models.Group, error) {
	if strings.TrimSpace(form.Name) == "" {
		return nil, validationf("group name is required")
	}
	if form.TotalMembers < 2 {
		return nil, validationf("a group needs at least 2 members")
	}
	if form.AmountPerPeriod <= 0 {
		return nil, validationf("contribution per period must be positive")
	}
	if len(form.MemberNames) > form.TotalMembers {
		return nil, validationf("more seed members than the group can hold")
	}
	start, err := time.Parse(models.DateLayout, form.StartDate)
	if err != nil {
		return nil, validationf("start date must be in %s form", models.DateLayout)
	}

	endDate, periods, err := schedule.Generate(start, form.TotalMembers, form.PeriodType, form.AmountPerPeriod)
	if err != nil {
		return nil, validationf("%v", err)
	}

	now := time.Now().Unix()
	group := &models.Group{
		Name:            strings.TrimSpace(form.Name),
		OwnerID:         id.UserID,
		OwnerName:       id.DisplayName,
		OwnerEmail:      id.Email,
		TotalMembers:    form.TotalMembers,
		AmountPerPeriod: form.AmountPerPeriod,
		PeriodType:      form.PeriodType,
		StartDate:       schedule.Normalize(start),
		EndDate:         endDate,
		Status:          models.GroupActive,
		CurrentPeriod:   0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("create group failed", "owner_id", id.UserID, "error", err)
		return nil, err
	}

	for _, p := range periods {
		p.GroupID = group.ID
	}
	if err := s.store.CreatePeriods(ctx, periods); err != nil {
		slog.Error("create periods failed", "group_id", group.ID, "error", err)
		return nil, err
	}

	if len(form.MemberNames) > 0 {
		members := make([]*models.Member, 0, len(form.MemberNames))
		for i, name := range form.MemberNames {
			members = append(members, &models.Member{
				GroupID:  group.ID,
				Name:     strings.TrimSpace(name),
				Order:    i + 1,
				JoinedAt: now,
			})
		}
		if err := s.store.CreateMembers(ctx, members); err != nil {
			slog.Error("seed members failed", "group_id", group.ID, "error", err)
			return nil, err
		}
	}

	slog.Info("group created",
		"group_id", group.ID,
		"owner_id", id.UserID,
		"members", form.TotalMembers,
		"cadence", group.PeriodType,
	)
	return group, nil
}

// GetGroup fetches one of the caller's groups. Groups belonging to another
// owner read as not found.
func (s *GroupService) GetGroup(ctx context.Context, ownerID, groupID string) (*models.Group, error) {
	return s.ownedGroup(ctx, ownerID, groupID)
}

// ListGroups returns the caller's groups, newest first.
func (s *GroupService) ListGroups(ctx context.Context, ownerID string) ([]*models.Group, error) {
	return s.store.ListGroupsByOwner(ctx, ownerID)
}

// UpdateGroup applies a partial update to name and status.
func (s *GroupService) UpdateGroup(ctx context.Context, ownerID, groupID string, form UpdateGroupForm) (*models.Group, error) {
	group, err := s.ownedGroup(ctx, ownerID, groupID)
	if err != nil {
		return nil, err
	}

	if form.Name != nil {
		name := strings.TrimSpace(*form.Name)
		if name == "" {
			return nil, validationf("group name is required")
		}
		group.Name = name
	}
	if form.Status != nil {
		switch *form.Status {
		case models.GroupActive, models.GroupCompleted, models.GroupCancelled:
			group.Status = *form.Status
		default:
			return nil, validationf("unknown group status %q", *form.Status)
		}
	}
	group.UpdatedAt = time.Now().Unix()

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup removes a group and all dependent members, periods and
// payments.
func (s *GroupService) DeleteGroup(ctx context.Context, ownerID, groupID string) error {
	if _, err := s.ownedGroup(ctx, ownerID, groupID); err != nil {
		return err
	}
	if err := s.store.DeleteGroupData(ctx, groupID); err != nil {
		slog.Error("cascade delete failed", "group_id", groupID, "error", err)
		return err
	}
	slog.Info("group deleted", "group_id", groupID, "owner_id", ownerID)
	return nil
}

// AddMember joins one member to a group, assigning the next join rank.
func (s *GroupService) AddMember(ctx context.Context, ownerID, groupID string, form MemberForm) (*models.Member, error) {
	if strings.TrimSpace(form.Name) == "" {
		return nil, validationf("member name is required")
	}

	group, err := s.ownedGroup(ctx, ownerID, groupID)
	if err != nil {
		return nil, err
	}
	existing, err := s.store.ListMembersByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(existing) >= group.TotalMembers {
		return nil, ErrCapacityExceeded
	}

	member := &models.Member{
		GroupID:  groupID,
		Name:     strings.TrimSpace(form.Name),
		Email:    form.Email,
		Order:    len(existing) + 1,
		JoinedAt: time.Now().Unix(),
	}
	if err := s.store.CreateMember(ctx, member); err != nil {
		return nil, err
	}

	slog.Info("member added", "group_id", groupID, "member_id", member.ID, "order", member.Order)
	return member, nil
}

// UpdateMember edits a member's name and contact email.
func (s *GroupService) UpdateMember(ctx context.Context, ownerID, memberID string, form MemberForm) (*models.Member, error) {
	if strings.TrimSpace(form.Name) == "" {
		return nil, validationf("member name is required")
	}

	member, err := s.ownedMember(ctx, ownerID, memberID)
	if err != nil {
		return nil, err
	}

	member.Name = strings.TrimSpace(form.Name)
	member.Email = form.Email
	if err := s.store.UpdateMember(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// RemoveMember drops a member from a group that has not started yet.
// Removal after the first settlement would orphan schedule and payment
// history, so it is rejected.
func (s *GroupService) RemoveMember(ctx context.Context, ownerID, memberID string) error {
	member, err := s.ownedMember(ctx, ownerID, memberID)
	if err != nil {
		return err
	}
	group, err := s.store.GetGroup(ctx, member.GroupID)
	if err != nil {
		return err
	}
	if group.CurrentPeriod > 0 {
		return ErrInvalidState
	}

	if err := s.store.DeleteMember(ctx, memberID); err != nil {
		return err
	}

	// Close the rank gap so orders stay contiguous in join order.
	remaining, err := s.store.ListMembersByGroup(ctx, member.GroupID)
	if err != nil {
		return err
	}
	for i, m := range remaining {
		if m.Order != i+1 {
			m.Order = i + 1
			if err := s.store.UpdateMember(ctx, m); err != nil {
				return err
			}
		}
	}

	slog.Info("member removed", "group_id", member.GroupID, "member_id", memberID)
	return nil
}

// ListMembers returns a group's members by join rank.
func (s *GroupService) ListMembers(ctx context.Context, ownerID, groupID string) ([]*models.Member, error) {
	if _, err := s.ownedGroup(ctx, ownerID, groupID); err != nil {
		return nil, err
	}
	return s.store.ListMembersByGroup(ctx, groupID)
}

// ListPeriods returns a group's periods by period number.
func (s *GroupService) ListPeriods(ctx context.Context, ownerID, groupID string) ([]*models.Period, error) {
	if _, err := s.ownedGroup(ctx, ownerID, groupID); err != nil {
		return nil, err
	}
	return s.store.ListPeriodsByGroup(ctx, groupID)
}

// ownedGroup resolves a group and verifies ownership; a foreign group is
// indistinguishable from a missing one.
func (s *GroupService) ownedGroup(ctx context.Context, ownerID, groupID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.OwnerID != ownerID {
		return nil, storage.ErrNotFound
	}
	return group, nil
}

// ownedMember resolves a member and verifies the caller owns its group.
func (s *GroupService) ownedMember(ctx context.Context, ownerID, memberID string) (*models.Member, error) {
	member, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedGroup(ctx, ownerID, member.GroupID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return member, nil
}
