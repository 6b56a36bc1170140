package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/yourrightpocket/charityround/internal/domain/entity"
	repo "github.com/yourrightpocket/charityround/internal/domain/repository"
	"github.com/yourrightpocket/charityround/pkg/apperrors"
	"github.com/yourrightpocket/charityround/pkg/money"
)

// SettingsService reads and updates the per-user round-up knobs.
type SettingsService struct {
	Settings repo.SettingsRepository
	Accounts repo.BankAccountRepository
	Logger   *logrus.Logger
}

func (s *SettingsService) Get(ctx context.Context, userID int64) (*entity.Settings, error) {
	return s.Settings.Get(ctx, userID)
}

// UpdateSettingsInput uses pointers so absent fields keep their stored
// value.
type UpdateSettingsInput struct {
	AutoDonateThreshold *int64
	RoundUpEnabled      *bool
	MaxDailyRoundup     *int64
	NotificationEmail   *bool
	NotificationPush    *bool
}

func (s *SettingsService) Update(ctx context.Context, userID int64, in UpdateSettingsInput) (*entity.Settings, error) {
	settings, err := s.Settings.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.AutoDonateThreshold != nil {
		if *in.AutoDonateThreshold < 0 {
			return nil, apperrors.Validation("auto_donate_threshold must not be negative")
		}
		settings.AutoDonateThreshold = money.Cents(*in.AutoDonateThreshold)
	}
	if in.RoundUpEnabled != nil {
		settings.RoundUpEnabled = *in.RoundUpEnabled
	}
	if in.MaxDailyRoundup != nil {
		if *in.MaxDailyRoundup < 0 {
			return nil, apperrors.Validation("max_daily_roundup must not be negative")
		}
		settings.MaxDailyRoundup = money.Cents(*in.MaxDailyRoundup)
	}
	if in.NotificationEmail != nil {
		settings.NotificationEmail = *in.NotificationEmail
	}
	if in.NotificationPush != nil {
		settings.NotificationPush = *in.NotificationPush
	}
	if err := s.Settings.Update(ctx, settings); err != nil {
		return nil, err
	}
	s.Logger.WithField("user_id", userID).Info("settings updated")
	return settings, nil
}

// LinkBankAccountInput describes a funding account to attach.
type LinkBankAccountInput struct {
	ExternalAccountID string
	AccountName       string
	AccountType       string
	BankName          string
	LastFour          string
	IsPrimary         bool
}

func (s *SettingsService) LinkBankAccount(ctx context.Context, userID int64, in LinkBankAccountInput) (*entity.BankAccount, error) {
	switch in.AccountType {
	case "checking", "savings", "credit":
	default:
		return nil, apperrors.Validation("account_type must be checking, savings or credit")
	}
	a := &entity.BankAccount{
		UserID:            userID,
		ExternalAccountID: in.ExternalAccountID,
		AccountName:       in.AccountName,
		AccountType:       in.AccountType,
		BankName:          in.BankName,
		LastFour:          in.LastFour,
		IsPrimary:         in.IsPrimary,
		IsActive:          true,
	}
	if err := s.Accounts.Create(ctx, a); err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "account_id": a.ID}).Info("bank account linked")
	return a, nil
}

func (s *SettingsService) BankAccounts(ctx context.Context, userID int64) ([]entity.BankAccount, error) {
	return s.Accounts.ListByUser(ctx, userID)
}
