// Package models defines the core domain entities for the hụi ledger.
//
// A hụi group is a rotating savings circle: a fixed number of members pay a
// fixed contribution each period, and each period one member wins the pooled
// amount by bidding a discount. The entity graph is rooted at Group; Member,
// Period and Payment are owned by their group and removed with it.
//
// Conventions:
//   - IDs are opaque strings assigned by the storage backend on insert.
//   - Monetary amounts are whole currency units (int64).
//   - Calendar dates (schedule dates, due dates) are time.Time values at
//     midnight UTC; event timestamps are Unix seconds, zero meaning unset.
//   - Relationships use ID strings rather than pointers to avoid circular
//     references between entities.
package models

// DateLayout is the canonical format for persisted calendar dates.
const DateLayout = "2006-01-02"
