package model

import "time"

type ContractStatus string

const (
	ContractStatusNew        ContractStatus = "new"
	ContractStatusInProgress ContractStatus = "in_progress"
	ContractStatusTerminated ContractStatus = "terminated"
)

// Contract binds exactly one client and one contractor.
type Contract struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Terms        string         `json:"terms" gorm:"type:text;not null"`
	Status       ContractStatus `json:"status" gorm:"type:varchar(16);not null;index;check:chk_contracts_status,status IN ('new','in_progress','terminated')"`
	ClientID     uint           `json:"client_id" gorm:"not null;index"`
	ContractorID uint           `json:"contractor_id" gorm:"not null;index"`
	Client       *Profile       `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Contractor   *Profile       `json:"contractor,omitempty" gorm:"foreignKey:ContractorID"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// IsPayable reports whether jobs under the contract can be paid.
func (c Contract) IsPayable() bool {
	return c.Status == ContractStatusInProgress
}
