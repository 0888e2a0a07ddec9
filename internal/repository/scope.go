package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nurpe/balance-ledger/internal/model"
)

// VisibleTo limits a query joined with contracts to rows where the profile
// is either party of the contract.
func VisibleTo(profileID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(contracts.client_id = ? OR contracts.contractor_id = ?)", profileID, profileID)
	}
}

// OwnedByClient limits a query joined with contracts to the client side.
func OwnedByClient(clientID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("contracts.client_id = ?", clientID)
	}
}

func ContractStatusIn(statuses ...model.ContractStatus) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(statuses) == 0 {
			return db
		}
		return db.Where("contracts.status IN ?", statuses)
	}
}

func ContractStatusNot(status model.ContractStatus) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("contracts.status <> ?", status)
	}
}

// ForUpdate takes row locks on table until the surrounding transaction ends.
// SQLite ignores the clause and relies on its database-level writer lock.
func ForUpdate(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: table}})
	}
}
