package repository

import (
	"context"
	"time"

	"github.com/yourrightpocket/charityround/internal/domain/entity"
	"github.com/yourrightpocket/charityround/pkg/money"
)

// DailyRoundup is one day's accumulated spare change.
type DailyRoundup struct {
	Day     time.Time
	Roundup money.Cents
}

// CharityUpdate is a per-organization thank-you line derived from the
// user's completed donations.
type CharityUpdate struct {
	OrganizationName string
	LogoURL          string
	Category         entity.Category
	TotalDonated     money.Cents
	LastDonatedAt    time.Time
}

// MonthlyProgress is the current calendar month's giving.
type MonthlyProgress struct {
	MonthlyDonated   money.Cents
	MonthlyDonations int64
}

// DashboardRepository serves the read-only aggregate queries behind the
// dashboard endpoints. Nothing here mutates state.
type DashboardRepository interface {
	// Suggestions lists verified organizations the user has not
	// donated to yet, most-funded first.
	Suggestions(ctx context.Context, userID int64, limit int) ([]entity.Organization, error)
	MonthlyProgress(ctx context.Context, userID int64) (*MonthlyProgress, error)
	DailyRoundups(ctx context.Context, userID int64) ([]DailyRoundup, error)
	CharityUpdates(ctx context.Context, userID int64, limit int) ([]CharityUpdate, error)
	DonatedOrganizationIDs(ctx context.Context, userID int64) ([]int64, error)
}
