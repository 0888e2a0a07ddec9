package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/nurpe/balance-ledger/internal/model"
)

var migrationStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_contracts_client_status ON contracts (client_id, status);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_contractor_status ON contracts (contractor_id, status);`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_paid_payment_date ON jobs (paid, payment_date);`,
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Profile{}, &model.Contract{}, &model.Job{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
