package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/yourrightpocket/charityround/internal/domain/entity"
	repo "github.com/yourrightpocket/charityround/internal/domain/repository"
	"github.com/yourrightpocket/charityround/internal/infrastructure/everyorg"
	"github.com/yourrightpocket/charityround/pkg/apperrors"
	"github.com/yourrightpocket/charityround/pkg/helpers"
)

// OrganizationService serves the charity directory: the local verified
// catalog plus live Every.org search and browse, with short-lived Redis
// caching in front of the external API.
type OrganizationService struct {
	Orgs      repo.OrganizationRepository
	Directory *everyorg.Client
	Redis     *redis.Client
	CacheTTL  time.Duration
	Logger    *logrus.Logger
}

func directoryCacheKey(kind, term string, take, page int) string {
	return fmt.Sprintf("directory:%s:%s:%d:%d", kind, strings.ToLower(term), take, page)
}

func (s *OrganizationService) cached(ctx context.Context, key string, fetch func() ([]everyorg.Nonprofit, error)) ([]everyorg.Nonprofit, error) {
	if s.Redis != nil {
		var hit []everyorg.Nonprofit
		ok, err := helpers.RedisGetJSON(ctx, s.Redis, key, &hit)
		if err != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("directory cache read failed")
		} else if ok {
			return hit, nil
		}
	}
	results, err := fetch()
	if err != nil {
		return nil, err
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, key, results, s.CacheTTL); err != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("directory cache write failed")
		}
	}
	return results, nil
}

func (s *OrganizationService) Search(ctx context.Context, term string, take int) ([]everyorg.Nonprofit, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperrors.Validation("search term is required")
	}
	return s.cached(ctx, directoryCacheKey("search", term, take, 1), func() ([]everyorg.Nonprofit, error) {
		return s.Directory.Search(ctx, term, take)
	})
}

func (s *OrganizationService) Browse(ctx context.Context, cause string, take, page int) ([]everyorg.Nonprofit, error) {
	cause = strings.ToLower(strings.TrimSpace(cause))
	valid := false
	for _, c := range everyorg.Causes() {
		if c == cause {
			valid = true
			break
		}
	}
	if !valid {
		return nil, apperrors.Validation("unknown cause")
	}
	return s.cached(ctx, directoryCacheKey("browse", cause, take, page), func() ([]everyorg.Nonprofit, error) {
		return s.Directory.Browse(ctx, cause, take, page)
	})
}

func (s *OrganizationService) NonprofitDetails(ctx context.Context, identifier string) (*everyorg.Nonprofit, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, apperrors.Validation("identifier is required")
	}
	return s.Directory.GetNonprofit(ctx, identifier)
}

func (s *OrganizationService) Causes() []string {
	return everyorg.Causes()
}

func (s *OrganizationService) Categories() []entity.Category {
	return entity.Categories()
}

// SyncFromDirectory pulls a nonprofit into the local catalog, creating
// or refreshing the canonical row. Every.org entries come in verified.
func (s *OrganizationService) SyncFromDirectory(ctx context.Context, identifier string) (*entity.Organization, error) {
	np, err := s.NonprofitDetails(ctx, identifier)
	if err != nil {
		return nil, err
	}
	org, err := s.Orgs.Upsert(ctx, entity.Organization{
		Name:        np.Name,
		Description: np.Description,
		Category:    everyorg.MapCategory(np.Tags),
		EIN:         np.EIN,
		Website:     np.WebsiteURL,
		LogoURL:     np.LogoURL,
		Verified:    true,
	})
	if err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{
		"organization_id": org.ID,
		"ein":             org.EIN,
	}).Info("organization synced from directory")
	return org, nil
}

func (s *OrganizationService) Get(ctx context.Context, id int64) (*entity.Organization, error) {
	return s.Orgs.GetByID(ctx, id)
}

func (s *OrganizationService) ListVerified(ctx context.Context, category string) ([]entity.Organization, error) {
	cat := entity.Category(strings.ToLower(strings.TrimSpace(category)))
	if cat != "" {
		known := false
		for _, c := range entity.Categories() {
			if c == cat {
				known = true
				break
			}
		}
		if !known {
			return nil, apperrors.Validation("unknown category")
		}
	}
	return s.Orgs.ListVerified(ctx, cat)
}

func (s *OrganizationService) Stats(ctx context.Context) (*repo.OrganizationStats, error) {
	return s.Orgs.Stats(ctx)
}

func (s *OrganizationService) ImpactMetrics(ctx context.Context, organizationIDs []int64) ([]entity.ImpactMetric, error) {
	return s.Orgs.ImpactMetrics(ctx, organizationIDs)
}
