package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleClient     Role = "client"
	RoleContractor Role = "contractor"
)

// Profile is a party of the ledger. Balance is never negative at a transaction boundary.
type Profile struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	FirstName  string          `json:"first_name" gorm:"size:128;not null"`
	LastName   string          `json:"last_name" gorm:"size:128;not null"`
	Profession string          `json:"profession" gorm:"size:128;not null"`
	Balance    decimal.Decimal `json:"balance" gorm:"type:numeric(12,2);not null;default:0;check:chk_profiles_balance,balance >= 0"`
	Role       Role            `json:"role" gorm:"type:varchar(16);not null;check:chk_profiles_role,role IN ('client','contractor')"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
