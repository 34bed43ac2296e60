package models

// Member is one participant in a hụi group.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string `json:"id"`

	// GroupID is the owning group.
	GroupID string `json:"groupId"`

	// Name is the member's display name; Email is optional contact info.
	Name  string `json:"name"`
	Email string `json:"email"`

	// Order is a 1-based rank, unique and contiguous within the group,
	// assigned in join order.
	Order int `json:"order"`

	// HasReceived reports whether this member has already won a period's
	// pool. ReceivedPeriod is the period number at which they won, 0 if
	// they have not; it is set exactly once and never changes after.
	HasReceived    bool `json:"hasReceived"`
	ReceivedPeriod int  `json:"receivedPeriod,omitempty"`

	// JoinedAt is the Unix timestamp when the member was added.
	JoinedAt int64 `json:"joinedAt"`
}
