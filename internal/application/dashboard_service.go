package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/yourrightpocket/charityround/internal/domain/entity"
	repo "github.com/yourrightpocket/charityround/internal/domain/repository"
	"github.com/yourrightpocket/charityround/pkg/money"
)

// DashboardService composes the read-only home screen aggregates.
type DashboardService struct {
	Dashboard    repo.DashboardRepository
	Balances     repo.BalanceRepository
	Settings     repo.SettingsRepository
	Orgs         repo.OrganizationRepository
	Donations    repo.DonationRepository
	Transactions repo.TransactionRepository
	Logger       *logrus.Logger
}

// DashboardView is the single payload behind GET /dashboard.
type DashboardView struct {
	Balance       *entity.Balance
	Settings      *entity.Settings
	Monthly       *repo.MonthlyProgress
	DailyRoundups []repo.DailyRoundup
	Updates       []repo.CharityUpdate
	Suggestions   []entity.Organization
	Impact        []entity.ImpactMetric
}

func (s *DashboardService) View(ctx context.Context, userID int64) (*DashboardView, error) {
	balance, err := s.Balances.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings, err := s.Settings.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	monthly, err := s.Dashboard.MonthlyProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	daily, err := s.Dashboard.DailyRoundups(ctx, userID)
	if err != nil {
		return nil, err
	}
	updates, err := s.Dashboard.CharityUpdates(ctx, userID, 5)
	if err != nil {
		return nil, err
	}
	suggestions, err := s.Dashboard.Suggestions(ctx, userID, 5)
	if err != nil {
		return nil, err
	}

	orgIDs, err := s.Dashboard.DonatedOrganizationIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	var impact []entity.ImpactMetric
	if len(orgIDs) > 0 {
		impact, err = s.Orgs.ImpactMetrics(ctx, orgIDs)
		if err != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("impact metrics unavailable")
			impact = nil
		}
	}

	return &DashboardView{
		Balance:       balance,
		Settings:      settings,
		Monthly:       monthly,
		DailyRoundups: daily,
		Updates:       updates,
		Suggestions:   suggestions,
		Impact:        impact,
	}, nil
}

func (s *DashboardService) Suggestions(ctx context.Context, userID int64, limit int) ([]entity.Organization, error) {
	if limit <= 0 || limit > 20 {
		limit = 5
	}
	return s.Dashboard.Suggestions(ctx, userID, limit)
}

func (s *DashboardService) Updates(ctx context.Context, userID int64, limit int) ([]repo.CharityUpdate, error) {
	if limit <= 0 || limit > 20 {
		limit = 5
	}
	return s.Dashboard.CharityUpdates(ctx, userID, limit)
}

// GoalsView reports progress toward the auto-donate threshold.
type GoalsView struct {
	Balance       *entity.Balance
	Threshold     money.Cents
	Monthly       *repo.MonthlyProgress
	DailyRoundups []repo.DailyRoundup
}

func (s *DashboardService) Goals(ctx context.Context, userID int64) (*GoalsView, error) {
	balance, err := s.Balances.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings, err := s.Settings.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	monthly, err := s.Dashboard.MonthlyProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	daily, err := s.Dashboard.DailyRoundups(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &GoalsView{
		Balance:       balance,
		Threshold:     settings.AutoDonateThreshold,
		Monthly:       monthly,
		DailyRoundups: daily,
	}, nil
}

// ImpactView pairs the lifetime totals with metrics reported by the
// organizations the user has funded.
type ImpactView struct {
	Balance *entity.Balance
	Metrics []entity.ImpactMetric
}

func (s *DashboardService) Impact(ctx context.Context, userID int64) (*ImpactView, error) {
	balance, err := s.Balances.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	orgIDs, err := s.Dashboard.DonatedOrganizationIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	var metrics []entity.ImpactMetric
	if len(orgIDs) > 0 {
		metrics, err = s.Orgs.ImpactMetrics(ctx, orgIDs)
		if err != nil {
			return nil, err
		}
	}
	return &ImpactView{Balance: balance, Metrics: metrics}, nil
}

// ActivityView is the interleaved recent-history feed.
type ActivityView struct {
	Donations    []entity.DonationDetail
	Transactions []entity.Transaction
}

func (s *DashboardService) Activity(ctx context.Context, userID int64, limit int) (*ActivityView, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	donations, _, err := s.Donations.ListByUser(ctx, userID, limit, 0)
	if err != nil {
		return nil, err
	}
	txns, err := s.Transactions.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return &ActivityView{Donations: donations, Transactions: txns}, nil
}
