package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Job is a billable unit of work. Once Paid is set the job is terminal:
// price, paid flag and payment date never change again.
type Job struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null;check:chk_jobs_price,price > 0"`
	Paid        bool            `json:"paid" gorm:"not null;default:false"`
	PaymentDate *time.Time      `json:"payment_date"`
	ContractID  uint            `json:"contract_id" gorm:"not null;index"`
	Contract    *Contract       `json:"contract,omitempty" gorm:"foreignKey:ContractID"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
