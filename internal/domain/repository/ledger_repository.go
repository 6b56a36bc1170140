package repository

import (
	"context"
	"time"

	"github.com/yourrightpocket/charityround/internal/domain/entity"
	"github.com/yourrightpocket/charityround/pkg/money"
)

// BalanceRepository owns the user_balances rows. Credit is atomic and
// serializes per user; it bumps both current_balance and
// total_accumulated so the ledger invariant holds by construction.
type BalanceRepository interface {
	Get(ctx context.Context, userID int64) (*entity.Balance, error)
	Credit(ctx context.Context, userID int64, amount money.Cents) error
}

// TransactionRepository persists purchase records and applies their
// round-up credit.
type TransactionRepository interface {
	// Ingest records the transaction and credits its round-up in a
	// single atomic unit, idempotent on txn.ExternalID: a duplicate is
	// a no-op reported via created=false, never an error. maxDaily
	// clamps the credited round-up so one calendar day never
	// accumulates more than the user's cap; credited reports the
	// amount actually applied.
	Ingest(ctx context.Context, txn *entity.Transaction, maxDaily money.Cents) (created bool, credited money.Cents, err error)
	ListRecent(ctx context.Context, userID int64, limit int) ([]entity.Transaction, error)
	RoundupOnDay(ctx context.Context, userID int64, day time.Time) (money.Cents, error)
}

// DonationRepository owns the donation ledger. All mutating operations
// run in one transaction with a row lock on the user's balance:
// concurrent operations for the same user serialize, different users
// never contend.
type DonationRepository interface {
	// Donate debits the balance, inserts a completed donation and
	// increments the organization's total_received atomically. Fails
	// with InsufficientFunds when amount exceeds the current balance,
	// leaving every row untouched.
	Donate(ctx context.Context, userID, organizationID int64, amount money.Cents) (*entity.Donation, error)
	// AutoDonate disburses the user's entire current balance across the
	// active preferences, provided the balance has reached threshold.
	// The split is proportional, floored to cents, remainder to the
	// largest allocation. Returns (nil, nil) when below threshold.
	AutoDonate(ctx context.Context, userID int64, threshold money.Cents, prefs []entity.Preference) ([]entity.Donation, error)
	// Refund reverses a completed donation: status -> refunded, balance
	// re-credited, organization total_received decremented.
	Refund(ctx context.Context, donationID, userID int64) (*entity.Donation, error)

	GetByID(ctx context.Context, donationID, userID int64) (*entity.DonationDetail, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]entity.DonationDetail, int64, error)
	Stats(ctx context.Context, userID int64) (*entity.DonationStats, error)
	MonthlyStats(ctx context.Context, userID int64, months int) ([]entity.MonthlyDonationStat, error)
	TopOrganizations(ctx context.Context, userID int64, limit int) ([]entity.TopOrganizationStat, error)
	// AutoDonateCandidates lists users whose balance has reached their
	// threshold and who have at least one active preference. Used by
	// the periodic sweep.
	AutoDonateCandidates(ctx context.Context) ([]int64, error)
}
