package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yourrightpocket/charityround/internal/domain/entity"
	"github.com/yourrightpocket/charityround/internal/domain/repository"
	"github.com/yourrightpocket/charityround/pkg/apperrors"
)

type PreferenceRepository struct {
	pool *pgxpool.Pool
}

func NewPreferenceRepository(pool *pgxpool.Pool) *PreferenceRepository {
	return &PreferenceRepository{pool: pool}
}

func (r *PreferenceRepository) SetAllocation(ctx context.Context, userID, organizationID, percent int64) (*entity.Preference, error) {
	if percent <= 0 || percent > entity.MaxAllocationPercent {
		return nil, apperrors.Validation("allocation percent out of range")
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock the user's preference rows so two concurrent writes cannot
	// both pass the 100% check.
	rows, err := tx.Query(ctx, `
		SELECT organization_id, allocation_percent
		FROM user_charity_preferences
		WHERE user_id = $1 AND is_active = TRUE
		FOR UPDATE
	`, userID)
	if err != nil {
		return nil, err
	}
	var total int64
	for rows.Next() {
		var orgID, pct int64
		if err := rows.Scan(&orgID, &pct); err != nil {
			rows.Close()
			return nil, err
		}
		if orgID != organizationID {
			total += pct
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if total+percent > entity.MaxAllocationPercent {
		return nil, apperrors.AllocationOverflow("active allocations would exceed 100%")
	}

	p := &entity.Preference{UserID: userID, OrganizationID: organizationID, Percent: percent, IsActive: true}
	row := tx.QueryRow(ctx, `
		INSERT INTO user_charity_preferences (user_id, organization_id, allocation_percent, is_active)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (user_id, organization_id) DO UPDATE
		SET allocation_percent = EXCLUDED.allocation_percent, is_active = TRUE, updated_at = now()
		RETURNING id, created_at, updated_at
	`, userID, organizationID, percent)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PreferenceRepository) Deactivate(ctx context.Context, userID, organizationID int64) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE user_charity_preferences
		SET is_active = FALSE, updated_at = now()
		WHERE user_id = $1 AND organization_id = $2 AND is_active = TRUE
	`, userID, organizationID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperrors.NotFound("preference not found")
	}
	return nil
}

func (r *PreferenceRepository) ListActive(ctx context.Context, userID int64) ([]entity.Preference, error) {
	return r.list(ctx, userID, true)
}

func (r *PreferenceRepository) ListByUser(ctx context.Context, userID int64) ([]entity.Preference, error) {
	return r.list(ctx, userID, false)
}

func (r *PreferenceRepository) list(ctx context.Context, userID int64, activeOnly bool) ([]entity.Preference, error) {
	query := `
		SELECT id, user_id, organization_id, allocation_percent, is_active, created_at, updated_at
		FROM user_charity_preferences
		WHERE user_id = $1
	`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY allocation_percent DESC, organization_id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prefs []entity.Preference
	for rows.Next() {
		var p entity.Preference
		if err := rows.Scan(&p.ID, &p.UserID, &p.OrganizationID, &p.Percent, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		prefs = append(prefs, p)
	}
	return prefs, rows.Err()
}

var _ repository.PreferenceRepository = (*PreferenceRepository)(nil)
