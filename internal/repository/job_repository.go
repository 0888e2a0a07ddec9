package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/balance-ledger/internal/model"
)

// JobFilter selects jobs joined with their contract. Nil fields are ignored.
type JobFilter struct {
	ID               *uint
	Paid             *bool
	ContractStatuses []model.ContractStatus
	ClientID         *uint
	VisibleTo        *uint
	ForUpdate        bool
	WithContract     bool
}

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) FindJob(ctx context.Context, filter JobFilter) (*model.Job, error) {
	var job model.Job
	if err := r.query(ctx, filter).Select("jobs.*").Take(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) FindJobs(ctx context.Context, filter JobFilter) ([]model.Job, error) {
	jobs := []model.Job{}
	if err := r.query(ctx, filter).Select("jobs.*").Order("jobs.id ASC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// SumPrices adds the prices of every job matching the filter. The sum is done
// in decimal arithmetic rather than by the database to stay exact on every driver.
func (r *JobRepository) SumPrices(ctx context.Context, filter JobFilter) (decimal.Decimal, error) {
	filter.WithContract = false
	filter.ForUpdate = false

	var prices []decimal.Decimal
	if err := r.query(ctx, filter).Pluck("jobs.price", &prices).Error; err != nil {
		return decimal.Zero, err
	}
	return decimal.Sum(decimal.Zero, prices...), nil
}

// MarkPaid flips an unpaid job to paid. It reports gorm.ErrRecordNotFound when
// the job was already paid, so a job can only ever be paid once.
func (r *JobRepository) MarkPaid(ctx context.Context, id uint, paidAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Job{}).
		Where("id = ? AND paid = ?", id, false).
		Updates(map[string]interface{}{
			"paid":         true,
			"payment_date": paidAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *JobRepository) query(ctx context.Context, filter JobFilter) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&model.Job{}).
		Joins("JOIN contracts ON contracts.id = jobs.contract_id")

	if filter.ID != nil {
		q = q.Where("jobs.id = ?", *filter.ID)
	}
	if filter.Paid != nil {
		q = q.Where("jobs.paid = ?", *filter.Paid)
	}
	if len(filter.ContractStatuses) > 0 {
		q = q.Scopes(ContractStatusIn(filter.ContractStatuses...))
	}
	if filter.ClientID != nil {
		q = q.Scopes(OwnedByClient(*filter.ClientID))
	}
	if filter.VisibleTo != nil {
		q = q.Scopes(VisibleTo(*filter.VisibleTo))
	}
	if filter.ForUpdate {
		q = q.Scopes(ForUpdate("jobs"))
	}
	if filter.WithContract {
		q = q.Preload("Contract")
	}
	return q
}
