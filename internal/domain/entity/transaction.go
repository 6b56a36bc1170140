package entity

import (
	"time"

	"github.com/yourrightpocket/charityround/pkg/money"
)

// Transaction is an immutable record of an externally sourced purchase.
// ExternalID is the upstream provider's transaction id and the
// idempotency key for ingestion. RoundupAmount = RoundedAmount - Amount,
// always in [0, $1).
type Transaction struct {
	ID            int64
	UserID        int64
	AccountID     int64
	ExternalID    string
	Amount        money.Cents
	RoundedAmount money.Cents
	RoundupAmount money.Cents
	MerchantName  string
	Category      string
	Date          time.Time
	ProcessedAt   time.Time
}

// BankAccount is a user's linked funding account.
type BankAccount struct {
	ID                int64
	UserID            int64
	ExternalAccountID string
	AccountName       string
	AccountType       string // checking, savings, credit
	BankName          string
	LastFour          string
	IsPrimary         bool
	IsActive          bool
	CreatedAt         time.Time
}
