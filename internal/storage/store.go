// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/tvanh/huiledger/internal/models"
	"github.com/tvanh/huiledger/internal/settlement"
)

// ErrNotFound is returned by lookups for IDs that do not exist. Both
// backends return it for the same call sequences.
var ErrNotFound = errors.New("record not found")

// ErrBackendUnavailable marks a backend that could not be opened. The
// SQLite store wraps open and migration failures with it; main falls back
// to the memory backend when it sees one at startup.
var ErrBackendUnavailable = errors.New("storage backend unavailable")

// Store defines the persistence contract over the four hụi collections plus
// user accounts. This abstraction allows swapping backends (the durable
// SQLite store, the volatile in-memory store) without changing the service
// layer; the backend is chosen once at startup and injected.
//
// Both implementations must be observably identical to callers: same
// ordering guarantees, same ErrNotFound behavior, same ID assignment on
// insert (IDs are generated when the given entity's ID field is empty).
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email, ErrNotFound if absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID, ErrNotFound if absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateGroup persists a new group, assigning its ID.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID.
	GetGroup(ctx context.Context, id string) (*models.Group, error)

	// ListGroupsByOwner returns the owner's groups, newest first.
	ListGroupsByOwner(ctx context.Context, ownerID string) ([]*models.Group, error)

	// UpdateGroup overwrites an existing group's mutable fields.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroupData removes a group together with all of its members,
	// periods and payments. The cascade is atomic: it either fully
	// applies or reports an error with nothing deleted.
	DeleteGroupData(ctx context.Context, groupID string) error

	// CreateMember persists a new member, assigning its ID. Inserting
	// for a group that does not exist fails on both backends.
	CreateMember(ctx context.Context, member *models.Member) error

	// CreateMembers persists a batch of members in one atomic write.
	// A batch referencing a missing group is rejected whole.
	CreateMembers(ctx context.Context, members []*models.Member) error

	// GetMember retrieves a member by ID.
	GetMember(ctx context.Context, id string) (*models.Member, error)

	// ListMembersByGroup returns a group's members ordered by join rank
	// ascending.
	ListMembersByGroup(ctx context.Context, groupID string) ([]*models.Member, error)

	// UpdateMember overwrites an existing member.
	UpdateMember(ctx context.Context, member *models.Member) error

	// DeleteMember removes a single member.
	DeleteMember(ctx context.Context, id string) error

	// CreatePeriods persists a group's full period schedule atomically.
	// A schedule referencing a missing group is rejected whole.
	CreatePeriods(ctx context.Context, periods []*models.Period) error

	// GetPeriod retrieves a period by ID.
	GetPeriod(ctx context.Context, id string) (*models.Period, error)

	// ListPeriodsByGroup returns a group's periods ordered by period
	// number ascending.
	ListPeriodsByGroup(ctx context.Context, groupID string) ([]*models.Period, error)

	// GetPayment retrieves a payment by ID.
	GetPayment(ctx context.Context, id string) (*models.Payment, error)

	// ListPaymentsByGroup returns a group's payments ordered by due date
	// descending.
	ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.Payment, error)

	// UpdatePayment overwrites an existing payment.
	UpdatePayment(ctx context.Context, payment *models.Payment) error

	// ApplySettlement writes every mutation of one settlement (the
	// completed period, the marked winner, the advanced group and the
	// payment batch) in a single atomic step, so a partially applied
	// settlement is never observable.
	ApplySettlement(ctx context.Context, res *settlement.Result) error

	// Stats aggregates the overview counters for one owner's data set.
	Stats(ctx context.Context, ownerID string) (*models.Stats, error)

	// Close releases any resources held by the store.
	Close() error
}
