package service

import (
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/balance-ledger/internal/model"
	"github.com/nurpe/balance-ledger/internal/repository"
	"github.com/nurpe/balance-ledger/internal/repository/testutil"
)

type fixture struct {
	db        *gorm.DB
	store     *repository.Store
	contracts *ContractService
	payments  *PaymentService
	deposits  *DepositService
	reports   *ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.DB(t)
	store := repository.NewStore(database)
	log := zerolog.New(io.Discard)
	return &fixture{
		db:        database,
		store:     store,
		contracts: NewContractService(store),
		payments:  NewPaymentService(store, log),
		deposits:  NewDepositService(store, decimal.RequireFromString("0.25"), log),
		reports:   NewReportService(store, stubGenerator("xlsx"), stubGenerator("pdf"), 2),
	}
}

func (f *fixture) profile(t *testing.T, id uint) *model.Profile {
	t.Helper()
	p := testutil.Profile(t, f.db, id)
	return &p
}

func (f *fixture) balance(t *testing.T, id uint) string {
	t.Helper()
	return testutil.Profile(t, f.db, id).Balance.String()
}

type stubGenerator string

func (g stubGenerator) Generate(model.EarningsReport) ([]byte, error) {
	return []byte(g), nil
}

func amount(raw string) *decimal.Decimal {
	d := decimal.RequireFromString(raw)
	return &d
}
