package entity

import (
	"time"

	"github.com/yourrightpocket/charityround/pkg/money"
)

// DonationStatus follows pending -> completed|failed, and
// completed -> refunded (manual reversal).
type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationCompleted DonationStatus = "completed"
	DonationFailed    DonationStatus = "failed"
	DonationRefunded  DonationStatus = "refunded"
)

// Donation is an immutable financial event binding a user, an
// organization and an amount. CompletedAt is set exactly once, when the
// status becomes completed.
type Donation struct {
	ID             int64
	UserID         int64
	OrganizationID int64
	Amount         money.Cents
	Status         DonationStatus
	CreatedAt      time.Time
	CompletedAt    *time.Time
}

// DonationDetail is a donation joined with its organization's display
// fields for list/detail endpoints.
type DonationDetail struct {
	Donation
	OrganizationName string
	OrganizationEIN  string
	LogoURL          string
	WebsiteURL       string
	Category         Category
}

// DonationStats aggregates a user's giving history.
type DonationStats struct {
	TotalDonations     int64
	TotalAmount        money.Cents
	AverageAmount      money.Cents
	CompletedDonations int64
	CompletedAmount    money.Cents
}

// MonthlyDonationStat is one month of completed giving.
type MonthlyDonationStat struct {
	Month         string // YYYY-MM
	DonationCount int64
	TotalAmount   money.Cents
}

// TopOrganizationStat ranks an organization by the user's giving.
type TopOrganizationStat struct {
	OrganizationName string
	OrganizationEIN  string
	LogoURL          string
	DonationCount    int64
	TotalDonated     money.Cents
}
