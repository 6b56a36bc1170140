package entity

import "time"

// Preference maps a user's liked organization to an allocation weight
// used when auto-donate splits the accumulated balance. Percent is in
// hundredths of a percent (6000 = 60%); the sum over a user's active
// rows must not exceed 10000. Deactivating removes the row from the
// split without deleting history.
type Preference struct {
	ID             int64
	UserID         int64
	OrganizationID int64
	Percent        int64
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// MaxAllocationPercent is the cap on the sum of active allocations.
const MaxAllocationPercent int64 = 10000
