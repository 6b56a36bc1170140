package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yourrightpocket/charityround/internal/domain/entity"
	"github.com/yourrightpocket/charityround/internal/domain/repository"
	"github.com/yourrightpocket/charityround/pkg/apperrors"
)

const userOrgColumns = `id, user_id, ein, name, COALESCE(description, ''), COALESCE(website_url, ''),
	COALESCE(logo_url, ''), COALESCE(profile_url, ''), COALESCE(slug, ''), COALESCE(location, ''),
	COALESCE(ntee_code, ''), COALESCE(ntee_code_meaning, ''), is_disbursable, tags, matched_terms,
	liked_at, created_at, updated_at`

func scanUserOrganization(row pgx.Row) (*entity.UserOrganization, error) {
	uo := &entity.UserOrganization{}
	err := row.Scan(&uo.ID, &uo.UserID, &uo.EIN, &uo.Name, &uo.Description, &uo.WebsiteURL,
		&uo.LogoURL, &uo.ProfileURL, &uo.Slug, &uo.Location, &uo.NTEECode, &uo.NTEECodeMeaning,
		&uo.IsDisbursable, &uo.Tags, &uo.MatchedTerms, &uo.LikedAt, &uo.CreatedAt, &uo.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return uo, nil
}

type UserOrganizationRepository struct {
	pool *pgxpool.Pool
}

func NewUserOrganizationRepository(pool *pgxpool.Pool) *UserOrganizationRepository {
	return &UserOrganizationRepository{pool: pool}
}

func (r *UserOrganizationRepository) Like(ctx context.Context, uo *entity.UserOrganization) error {
	if uo.Tags == nil {
		uo.Tags = []string{}
	}
	if uo.MatchedTerms == nil {
		uo.MatchedTerms = []string{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO user_organizations
			(user_id, ein, name, description, website_url, logo_url, profile_url, slug, location,
			 ntee_code, ntee_code_meaning, is_disbursable, tags, matched_terms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (user_id, ein) DO NOTHING
		RETURNING id, liked_at, created_at, updated_at
	`, uo.UserID, uo.EIN, uo.Name, uo.Description, uo.WebsiteURL, uo.LogoURL, uo.ProfileURL,
		uo.Slug, uo.Location, uo.NTEECode, uo.NTEECodeMeaning, uo.IsDisbursable, uo.Tags, uo.MatchedTerms)
	if err := row.Scan(&uo.ID, &uo.LikedAt, &uo.CreatedAt, &uo.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.Conflict("organization already liked")
		}
		return err
	}
	return nil
}

func (r *UserOrganizationRepository) Unlike(ctx context.Context, userID int64, ein string) error {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM user_organizations WHERE user_id = $1 AND ein = $2
	`, userID, ein)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperrors.NotFound("liked organization not found")
	}
	return nil
}

func (r *UserOrganizationRepository) ListByUser(ctx context.Context, userID int64) ([]entity.UserOrganization, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userOrgColumns+`
		FROM user_organizations
		WHERE user_id = $1
		ORDER BY liked_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []entity.UserOrganization
	for rows.Next() {
		uo, err := scanUserOrganization(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, *uo)
	}
	return orgs, rows.Err()
}

func (r *UserOrganizationRepository) GetByEIN(ctx context.Context, userID int64, ein string) (*entity.UserOrganization, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userOrgColumns+`
		FROM user_organizations
		WHERE user_id = $1 AND ein = $2
	`, userID, ein)
	uo, err := scanUserOrganization(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("liked organization not found")
		}
		return nil, err
	}
	return uo, nil
}

func (r *UserOrganizationRepository) IsLiked(ctx context.Context, userID int64, ein string) (bool, error) {
	var liked bool
	row := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM user_organizations WHERE user_id = $1 AND ein = $2)
	`, userID, ein)
	if err := row.Scan(&liked); err != nil {
		return false, err
	}
	return liked, nil
}

var _ repository.UserOrganizationRepository = (*UserOrganizationRepository)(nil)
