package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourrightpocket/charityround/internal/domain/entity"
	repo "github.com/yourrightpocket/charityround/internal/domain/repository"
	"github.com/yourrightpocket/charityround/internal/infrastructure/everyorg"
	"github.com/yourrightpocket/charityround/pkg/apperrors"
)

// LikedOrganizationService manages a user's liked charities and the
// auto-donate allocations on top of them.
type LikedOrganizationService struct {
	Liked  repo.UserOrganizationRepository
	Orgs   repo.OrganizationRepository
	Prefs  repo.PreferenceRepository
	Logger *logrus.Logger
}

// LikeInput is the directory snapshot the client captured at like-time.
type LikeInput struct {
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
}

func (s *LikedOrganizationService) Like(ctx context.Context, userID int64, in LikeInput) (*entity.UserOrganization, error) {
	ein := strings.TrimSpace(in.EIN)
	if ein == "" || strings.TrimSpace(in.Name) == "" {
		return nil, apperrors.Validation("ein and name are required")
	}
	uo := &entity.UserOrganization{
		UserID:          userID,
		EIN:             ein,
		Name:            in.Name,
		Description:     in.Description,
		WebsiteURL:      in.WebsiteURL,
		LogoURL:         in.LogoURL,
		ProfileURL:      in.ProfileURL,
		Slug:            in.Slug,
		Location:        in.Location,
		NTEECode:        in.NTEECode,
		NTEECodeMeaning: in.NTEECodeMeaning,
		IsDisbursable:   in.IsDisbursable,
		Tags:            in.Tags,
		MatchedTerms:    in.MatchedTerms,
	}
	if err := s.Liked.Like(ctx, uo); err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "ein": ein}).Info("organization liked")
	return uo, nil
}

// Unlike drops the snapshot and deactivates any allocation pointing at
// the same organization, so the auto-donate split never references an
// unliked charity.
func (s *LikedOrganizationService) Unlike(ctx context.Context, userID int64, ein string) error {
	if err := s.Liked.Unlike(ctx, userID, ein); err != nil {
		return err
	}
	if org, err := s.Orgs.GetByEIN(ctx, ein); err == nil {
		if err := s.Prefs.Deactivate(ctx, userID, org.ID); err != nil &&
			!apperrors.Is(err, apperrors.KindNotFound) {
			s.Logger.WithError(err).WithFields(logrus.Fields{
				"user_id": userID,
				"ein":     ein,
			}).Warn("deactivate allocation on unlike failed")
		}
	}
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "ein": ein}).Info("organization unliked")
	return nil
}

func (s *LikedOrganizationService) List(ctx context.Context, userID int64) ([]entity.UserOrganization, error) {
	return s.Liked.ListByUser(ctx, userID)
}

func (s *LikedOrganizationService) IsLiked(ctx context.Context, userID int64, ein string) (bool, error) {
	return s.Liked.IsLiked(ctx, userID, ein)
}

// SetAllocation points an auto-donate share at a liked organization.
// Percent is in hundredths of a percent; 6000 means 60%.
func (s *LikedOrganizationService) SetAllocation(ctx context.Context, userID int64, ein string, percent int64) (*entity.Preference, error) {
	snapshot, err := s.Liked.GetByEIN(ctx, userID, ein)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return nil, apperrors.Validation("organization must be liked before allocating to it")
		}
		return nil, err
	}
	org, err := s.Orgs.FindOrCreateByEIN(ctx, ein, entity.Organization{
		Name:        snapshot.Name,
		Description: snapshot.Description,
		Category:    everyorg.MapCategory(snapshot.Tags),
		Website:     snapshot.WebsiteURL,
		LogoURL:     snapshot.LogoURL,
		Verified:    true,
	})
	if err != nil {
		return nil, err
	}
	p, err := s.Prefs.SetAllocation(ctx, userID, org.ID, percent)
	if err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{
		"user_id":         userID,
		"organization_id": org.ID,
		"percent":         percent,
	}).Info("allocation set")
	return p, nil
}

func (s *LikedOrganizationService) DeactivateAllocation(ctx context.Context, userID int64, ein string) error {
	org, err := s.Orgs.GetByEIN(ctx, ein)
	if err != nil {
		return err
	}
	return s.Prefs.Deactivate(ctx, userID, org.ID)
}

func (s *LikedOrganizationService) Allocations(ctx context.Context, userID int64) ([]entity.Preference, error) {
	return s.Prefs.ListByUser(ctx, userID)
}

func (s *LikedOrganizationService) ActiveAllocations(ctx context.Context, userID int64) ([]entity.Preference, error) {
	return s.Prefs.ListActive(ctx, userID)
}
