package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the ledger repositories over one connection or one transaction.
type Store struct {
	db        *gorm.DB
	Profiles  *ProfileRepository
	Contracts *ContractRepository
	Jobs      *JobRepository
	Reports   *ReportRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		Profiles:  NewProfileRepository(db),
		Contracts: NewContractRepository(db),
		Jobs:      NewJobRepository(db),
		Reports:   NewReportRepository(db),
	}
}

// Transaction runs fn with a Store bound to a single database transaction.
// Any error returned by fn rolls the transaction back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
