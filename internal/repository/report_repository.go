package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/nurpe/balance-ledger/internal/model"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// EarningsByProfession sums paid job prices per contractor profession for jobs
// paid in [from, to). Rows are ordered by total descending, then profession
// ascending. A non-positive limit returns every group.
func (r *ReportRepository) EarningsByProfession(ctx context.Context, from, to time.Time, limit int) ([]model.ProfessionEarnings, error) {
	query := `
		SELECT
			p.profession AS profession,
			SUM(j.price) AS total,
			COUNT(*) AS job_count
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.contractor_id
		WHERE j.paid = ?
			AND j.payment_date >= ?
			AND j.payment_date < ?
		GROUP BY p.profession
		ORDER BY total DESC, p.profession ASC
	`
	args := []interface{}{true, from.UTC(), to.UTC()}
	query, args = appendLimit(query, args, limit)

	rows := []model.ProfessionEarnings{}
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// BestClients ranks clients by the total they paid for jobs in [from, to).
// Ties are broken by ascending profile id.
func (r *ReportRepository) BestClients(ctx context.Context, from, to time.Time, limit int) ([]model.ClientSpend, error) {
	query := `
		SELECT
			p.id AS id,
			p.first_name || ' ' || p.last_name AS full_name,
			SUM(j.price) AS paid
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.client_id
		WHERE j.paid = ?
			AND j.payment_date >= ?
			AND j.payment_date < ?
		GROUP BY p.id, p.first_name, p.last_name
		ORDER BY paid DESC, p.id ASC
	`
	args := []interface{}{true, from.UTC(), to.UTC()}
	query, args = appendLimit(query, args, limit)

	rows := []model.ClientSpend{}
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func appendLimit(query string, args []interface{}, limit int) (string, []interface{}) {
	if limit <= 0 {
		return query, args
	}
	return query + " LIMIT ?", append(args, limit)
}
