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

const orgColumns = `id, name, COALESCE(description, ''), category, COALESCE(ein, ''), COALESCE(website, ''), COALESCE(logo_url, ''), verified, total_received, created_at, updated_at`

func scanOrganization(row pgx.Row) (*entity.Organization, error) {
	o := &entity.Organization{}
	err := row.Scan(&o.ID, &o.Name, &o.Description, &o.Category, &o.EIN, &o.Website,
		&o.LogoURL, &o.Verified, &o.TotalReceived, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

type OrganizationRepository struct {
	pool *pgxpool.Pool
}

func NewOrganizationRepository(pool *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{pool: pool}
}

func (r *OrganizationRepository) FindOrCreateByEIN(ctx context.Context, ein string, defaults entity.Organization) (*entity.Organization, error) {
	if ein == "" {
		return nil, apperrors.Validation("ein is required")
	}
	// ON CONFLICT DO NOTHING plus a re-select keeps a concurrent insert
	// of the same EIN from failing either caller.
	row := r.pool.QueryRow(ctx, `
		INSERT INTO organizations (name, description, category, ein, website, logo_url, verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (ein) DO NOTHING
		RETURNING `+orgColumns+`
	`, defaults.Name, defaults.Description, defaults.Category, ein, defaults.Website, defaults.LogoURL, defaults.Verified)
	o, err := scanOrganization(row)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return r.GetByEIN(ctx, ein)
}

func (r *OrganizationRepository) Upsert(ctx context.Context, org entity.Organization) (*entity.Organization, error) {
	if org.EIN != "" {
		row := r.pool.QueryRow(ctx, `
			UPDATE organizations
			SET name = $2, description = $3, category = $4, website = $5, logo_url = $6, verified = $7, updated_at = now()
			WHERE ein = $1
			RETURNING `+orgColumns+`
		`, org.EIN, org.Name, org.Description, org.Category, org.Website, org.LogoURL, org.Verified)
		o, err := scanOrganization(row)
		if err == nil {
			return o, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	// Directory entries without an EIN de-duplicate by exact name.
	row := r.pool.QueryRow(ctx, `
		UPDATE organizations
		SET description = $2, category = $3, ein = NULLIF($4, ''), website = $5, logo_url = $6, verified = $7, updated_at = now()
		WHERE name = $1 AND ein IS NULL
		RETURNING `+orgColumns+`
	`, org.Name, org.Description, org.Category, org.EIN, org.Website, org.LogoURL, org.Verified)
	o, err := scanOrganization(row)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	row = r.pool.QueryRow(ctx, `
		INSERT INTO organizations (name, description, category, ein, website, logo_url, verified)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
		ON CONFLICT (ein) DO UPDATE
		SET name = EXCLUDED.name, description = EXCLUDED.description, category = EXCLUDED.category,
		    website = EXCLUDED.website, logo_url = EXCLUDED.logo_url, verified = EXCLUDED.verified,
		    updated_at = now()
		RETURNING `+orgColumns+`
	`, org.Name, org.Description, org.Category, org.EIN, org.Website, org.LogoURL, org.Verified)
	return scanOrganization(row)
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id int64) (*entity.Organization, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orgColumns+` FROM organizations WHERE id = $1`, id)
	o, err := scanOrganization(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("organization not found")
		}
		return nil, err
	}
	return o, nil
}

func (r *OrganizationRepository) GetByEIN(ctx context.Context, ein string) (*entity.Organization, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orgColumns+` FROM organizations WHERE ein = $1`, ein)
	o, err := scanOrganization(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("organization not found")
		}
		return nil, err
	}
	return o, nil
}

func (r *OrganizationRepository) ListVerified(ctx context.Context, category entity.Category) ([]entity.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE verified = TRUE`
	args := []any{}
	if category != "" {
		query += ` AND category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY total_received DESC, name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []entity.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, *o)
	}
	return orgs, rows.Err()
}

func (r *OrganizationRepository) Stats(ctx context.Context) (*repository.OrganizationStats, error) {
	s := &repository.OrganizationStats{}
	row := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_received), 0), COALESCE(AVG(total_received), 0)::BIGINT
		FROM organizations
		WHERE verified = TRUE
	`)
	if err := row.Scan(&s.TotalOrganizations, &s.TotalDonations, &s.AverageDonations); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *OrganizationRepository) ImpactMetrics(ctx context.Context, organizationIDs []int64) ([]entity.ImpactMetric, error) {
	if len(organizationIDs) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, organization_id, metric_name, metric_value, COALESCE(unit, ''), COALESCE(description, ''), created_at
		FROM impact_metrics
		WHERE organization_id = ANY($1)
		ORDER BY created_at DESC
	`, organizationIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metrics []entity.ImpactMetric
	for rows.Next() {
		var m entity.ImpactMetric
		if err := rows.Scan(&m.ID, &m.OrganizationID, &m.MetricName, &m.MetricValue, &m.Unit, &m.Description, &m.CreatedAt); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

var _ repository.OrganizationRepository = (*OrganizationRepository)(nil)
