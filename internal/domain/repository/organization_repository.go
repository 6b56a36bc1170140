package repository

import (
	"context"

	"github.com/yourrightpocket/charityround/internal/domain/entity"
	"github.com/yourrightpocket/charityround/pkg/money"
)

// OrganizationStats aggregates the verified directory.
type OrganizationStats struct {
	TotalOrganizations int64
	TotalDonations     money.Cents
	AverageDonations   money.Cents
}

// OrganizationRepository owns the canonical charity records.
type OrganizationRepository interface {
	// FindOrCreateByEIN returns the organization with the given EIN,
	// inserting defaults when absent. The insert races safely: on
	// conflict the existing row wins.
	FindOrCreateByEIN(ctx context.Context, ein string, defaults entity.Organization) (*entity.Organization, error)
	// Upsert de-duplicates by EIN first, then by exact name, inserting
	// when neither matches. Used by directory sync.
	Upsert(ctx context.Context, org entity.Organization) (*entity.Organization, error)
	GetByID(ctx context.Context, id int64) (*entity.Organization, error)
	GetByEIN(ctx context.Context, ein string) (*entity.Organization, error)
	ListVerified(ctx context.Context, category entity.Category) ([]entity.Organization, error)
	Stats(ctx context.Context) (*OrganizationStats, error)
	ImpactMetrics(ctx context.Context, organizationIDs []int64) ([]entity.ImpactMetric, error)
}

// UserOrganizationRepository owns the per-user liked snapshots.
type UserOrganizationRepository interface {
	// Like inserts the snapshot; a second like of the same EIN is a
	// Conflict error.
	Like(ctx context.Context, uo *entity.UserOrganization) error
	// Unlike removes the snapshot; unknown EIN is a NotFound error.
	Unlike(ctx context.Context, userID int64, ein string) error
	ListByUser(ctx context.Context, userID int64) ([]entity.UserOrganization, error)
	GetByEIN(ctx context.Context, userID int64, ein string) (*entity.UserOrganization, error)
	IsLiked(ctx context.Context, userID int64, ein string) (bool, error)
}

// PreferenceRepository owns the auto-donate allocation rows.
type PreferenceRepository interface {
	// SetAllocation upserts the (user, organization) allocation. It
	// fails with AllocationOverflow when the new active total would
	// exceed 100%, leaving the stored total unchanged.
	SetAllocation(ctx context.Context, userID, organizationID, percent int64) (*entity.Preference, error)
	Deactivate(ctx context.Context, userID, organizationID int64) error
	ListActive(ctx context.Context, userID int64) ([]entity.Preference, error)
	ListByUser(ctx context.Context, userID int64) ([]entity.Preference, error)
}
