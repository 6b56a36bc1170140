package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yourrightpocket/charityround/internal/domain/entity"
	"github.com/yourrightpocket/charityround/internal/domain/repository"
)

type DashboardRepository struct {
	pool *pgxpool.Pool
}

func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

func (r *DashboardRepository) Suggestions(ctx context.Context, userID int64, limit int) ([]entity.Organization, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+orgColumns+`
		FROM organizations o
		WHERE o.verified = TRUE
		  AND NOT EXISTS (
			SELECT 1 FROM donations d
			WHERE d.organization_id = o.id AND d.user_id = $1 AND d.status = 'completed'
		  )
		ORDER BY o.total_received DESC, o.name
		LIMIT $2
	`, userID, limit)
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

func (r *DashboardRepository) MonthlyProgress(ctx context.Context, userID int64) (*repository.MonthlyProgress, error) {
	p := &repository.MonthlyProgress{}
	row := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0), COUNT(*)
		FROM donations
		WHERE user_id = $1 AND status = 'completed'
		  AND completed_at >= date_trunc('month', now())
	`, userID)
	if err := row.Scan(&p.MonthlyDonated, &p.MonthlyDonations); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *DashboardRepository) DailyRoundups(ctx context.Context, userID int64) ([]repository.DailyRoundup, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT transaction_date, COALESCE(SUM(roundup_amount), 0)
		FROM transactions
		WHERE user_id = $1 AND transaction_date >= CURRENT_DATE - INTERVAL '30 days'
		GROUP BY transaction_date
		ORDER BY transaction_date
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []repository.DailyRoundup
	for rows.Next() {
		var d repository.DailyRoundup
		if err := rows.Scan(&d.Day, &d.Roundup); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func (r *DashboardRepository) CharityUpdates(ctx context.Context, userID int64, limit int) ([]repository.CharityUpdate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT o.name, COALESCE(o.logo_url, ''), o.category, COALESCE(SUM(d.amount), 0), MAX(d.completed_at)
		FROM donations d
		JOIN organizations o ON o.id = d.organization_id
		WHERE d.user_id = $1 AND d.status = 'completed'
		GROUP BY o.id, o.name, o.logo_url, o.category
		ORDER BY MAX(d.completed_at) DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var updates []repository.CharityUpdate
	for rows.Next() {
		var u repository.CharityUpdate
		if err := rows.Scan(&u.OrganizationName, &u.LogoURL, &u.Category, &u.TotalDonated, &u.LastDonatedAt); err != nil {
			return nil, err
		}
		updates = append(updates, u)
	}
	return updates, rows.Err()
}

func (r *DashboardRepository) DonatedOrganizationIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT organization_id
		FROM donations
		WHERE user_id = $1 AND status = 'completed'
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var _ repository.DashboardRepository = (*DashboardRepository)(nil)
