package models

// Stats is the aggregate overview for one owner's data set.
type Stats struct {
	// TotalGroups counts all groups owned by the user; ActiveGroups only
	// those with status active.
	TotalGroups  int `json:"totalGroups"`
	ActiveGroups int `json:"activeGroups"`

	// TotalMembers counts members across all of the owner's groups.
	TotalMembers int `json:"totalMembers"`

	// TotalAmount sums each group's full pool value over all groups.
	TotalAmount int64 `json:"totalAmount"`

	// PendingPayments counts payments still awaiting collection.
	PendingPayments int `json:"pendingPayments"`
}
