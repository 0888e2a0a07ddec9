package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nurpe/balance-ledger/internal/model"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) FindContract(ctx context.Context, id uint, scopes ...func(*gorm.DB) *gorm.DB) (*model.Contract, error) {
	var contract model.Contract
	err := r.db.WithContext(ctx).
		Scopes(scopes...).
		Where("contracts.id = ?", id).
		Take(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *ContractRepository) FindContracts(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) ([]model.Contract, error) {
	contracts := []model.Contract{}
	err := r.db.WithContext(ctx).
		Scopes(scopes...).
		Order("contracts.id ASC").
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}
