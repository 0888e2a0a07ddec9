package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/balance-ledger/internal/model"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetProfile(ctx context.Context, id uint) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfilesForUpdate locks the given profiles in ascending id order so that
// concurrent transactions touching the same pair cannot deadlock.
func (r *ProfileRepository) GetProfilesForUpdate(ctx context.Context, ids ...uint) (map[uint]*model.Profile, error) {
	var profiles []model.Profile
	err := r.db.WithContext(ctx).
		Scopes(ForUpdate("profiles")).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}

	result := make(map[uint]*model.Profile, len(profiles))
	for i := range profiles {
		result[profiles[i].ID] = &profiles[i]
	}
	return result, nil
}

func (r *ProfileRepository) UpdateProfileBalance(ctx context.Context, id uint, balance decimal.Decimal) error {
	res := r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("id = ?", id).
		Update("balance", balance)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
