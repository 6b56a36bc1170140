package entity

import (
	"time"

	"github.com/yourrightpocket/charityround/pkg/money"
)

// Balance is a user's round-up ledger position, one row per user.
// Invariant: CurrentBalance = TotalAccumulated - TotalDonated, and
// TotalAccumulated >= TotalDonated. Only the transaction ingester
// credits it and only the donation ledger debits it.
type Balance struct {
	UserID           int64
	CurrentBalance   money.Cents
	TotalAccumulated money.Cents
	TotalDonated     money.Cents
	LastUpdated      time.Time
}
