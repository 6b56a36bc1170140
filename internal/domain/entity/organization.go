package entity

import (
	"time"

	"github.com/yourrightpocket/charityround/pkg/money"
)

// Category is the fixed local charity category enum. External directory
// tags map onto it; anything unmapped falls through to CategoryOther.
type Category string

const (
	CategoryEducation   Category = "education"
	CategoryHealthcare  Category = "healthcare"
	CategoryCommunity   Category = "community"
	CategoryEnvironment Category = "environment"
	CategoryOther       Category = "other"
)

func Categories() []Category {
	return []Category{
		CategoryEducation,
		CategoryHealthcare,
		CategoryCommunity,
		CategoryEnvironment,
		CategoryOther,
	}
}

// Organization is the canonical charity record, unique by EIN when one
// is present. Created lazily on first reference; TotalReceived is a
// monotonically increasing aggregate maintained by the donation ledger
// (decremented only on refund).
type Organization struct {
	ID            int64
	Name          string
	Description   string
	Category      Category
	EIN           string
	Website       string
	LogoURL       string
	Verified      bool
	TotalReceived money.Cents
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UserOrganization is a user's personal snapshot of a charity taken at
// like-time, unique per (user, EIN). It carries the richer external
// directory fields and lives independently of the canonical
// Organization row: unliking deletes the snapshot, never the canonical
// record.
type UserOrganization struct {
	ID              int64
	UserID          int64
	EIN             string
	Name            string
	Description     string
	WebsiteURL      string
	LogoURL         string
	ProfileURL      string
	Slug            string
	Location        string
	NTEECode        string
	NTEECodeMeaning string
	IsDisbursable   bool
	Tags            []string
	MatchedTerms    []string
	LikedAt         time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ImpactMetric is an organization-published outcome figure shown on the
// dashboard ("1200 meals served").
type ImpactMetric struct {
	ID             int64
	OrganizationID int64
	MetricName     string
	MetricValue    float64
	Unit           string
	Description    string
	CreatedAt      time.Time
}
