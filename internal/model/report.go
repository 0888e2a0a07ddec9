package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReportFormat string

const (
	ReportFormatXLSX ReportFormat = "xlsx"
	ReportFormatPDF  ReportFormat = "pdf"
)

type ProfessionEarnings struct {
	Profession string          `json:"profession"`
	Total      decimal.Decimal `json:"total"`
	JobCount   int64           `json:"job_count"`
}

type ClientSpend struct {
	ID       uint            `json:"id"`
	FullName string          `json:"fullName"`
	Paid     decimal.Decimal `json:"paid"`
}

type BestProfession struct {
	Profession *string `json:"profession"`
}

type EarningsReport struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Professions []ProfessionEarnings
	Clients     []ClientSpend
	GeneratedAt time.Time
}
