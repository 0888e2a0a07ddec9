package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nurpe/balance-ledger/internal/model"
	"github.com/nurpe/balance-ledger/internal/repository"
)

type ContractService struct {
	store *repository.Store
}

func NewContractService(store *repository.Store) *ContractService {
	return &ContractService{store: store}
}

func (s *ContractService) GetContract(ctx context.Context, requesterID, contractID uint) (*model.Contract, error) {
	contract, err := s.store.Contracts.FindContract(ctx, contractID, repository.VisibleTo(requesterID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return contract, nil
}

// ListContracts returns the requester's contracts that are not terminated.
func (s *ContractService) ListContracts(ctx context.Context, requesterID uint) ([]model.Contract, error) {
	return s.store.Contracts.FindContracts(ctx,
		repository.VisibleTo(requesterID),
		repository.ContractStatusNot(model.ContractStatusTerminated),
	)
}

// ListUnpaidJobs returns unpaid jobs of the requester's in-progress contracts.
func (s *ContractService) ListUnpaidJobs(ctx context.Context, requesterID uint) ([]model.Job, error) {
	unpaid := false
	return s.store.Jobs.FindJobs(ctx, repository.JobFilter{
		Paid:             &unpaid,
		ContractStatuses: []model.ContractStatus{model.ContractStatusInProgress},
		VisibleTo:        &requesterID,
	})
}
