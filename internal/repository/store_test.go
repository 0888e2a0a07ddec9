package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nurpe/balance-ledger/internal/model"
	"github.com/nurpe/balance-ledger/internal/repository/testutil"
)

func ptr[T any](v T) *T {
	return &v
}

func TestFindContractRespectsVisibility(t *testing.T) {
	store := NewStore(testutil.DB(t))
	ctx := context.Background()

	contract, err := store.Contracts.FindContract(ctx, 2, VisibleTo(6))
	require.NoError(t, err)
	assert.Equal(t, uint(1), contract.ClientID)

	_, err = store.Contracts.FindContract(ctx, 2, VisibleTo(3))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFindContractsExcludesTerminated(t *testing.T) {
	store := NewStore(testutil.DB(t))

	contracts, err := store.Contracts.FindContracts(context.Background(), VisibleTo(1), ContractStatusNot(model.ContractStatusTerminated))
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	assert.Equal(t, uint(2), contracts[0].ID)
}

func TestFindJobsFiltersUnpaidInProgress(t *testing.T) {
	store := NewStore(testutil.DB(t))

	jobs, err := store.Jobs.FindJobs(context.Background(), JobFilter{
		Paid:             ptr(false),
		ContractStatuses: []model.ContractStatus{model.ContractStatusInProgress},
		VisibleTo:        ptr(uint(7)),
	})
	require.NoError(t, err)

	ids := make([]uint, 0, len(jobs))
	for _, job := range jobs {
		ids = append(ids, job.ID)
	}
	assert.Equal(t, []uint{4, 5}, ids)
}

func TestFindJobWithContract(t *testing.T) {
	store := NewStore(testutil.DB(t))

	job, err := store.Jobs.FindJob(context.Background(), JobFilter{ID: ptr(uint(2)), WithContract: true})
	require.NoError(t, err)
	require.NotNil(t, job.Contract)
	assert.Equal(t, uint(6), job.Contract.ContractorID)
	assert.True(t, job.Price.Equal(decimal.NewFromInt(201)))
}

func TestSumPrices(t *testing.T) {
	store := NewStore(testutil.DB(t))

	total, err := store.Jobs.SumPrices(context.Background(), JobFilter{
		Paid:             ptr(false),
		ContractStatuses: []model.ContractStatus{model.ContractStatusInProgress},
		ClientID:         ptr(uint(4)),
	})
	require.NoError(t, err)
	assert.Equal(t, "250", total.String())
}

func TestMarkPaidOnlyOnce(t *testing.T) {
	store := NewStore(testutil.DB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Jobs.MarkPaid(ctx, 2, now))
	assert.ErrorIs(t, store.Jobs.MarkPaid(ctx, 2, now), gorm.ErrRecordNotFound)
}

func TestTransactionRollsBack(t *testing.T) {
	database := testutil.DB(t)
	store := NewStore(database)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Transaction(ctx, func(tx *Store) error {
		if err := tx.Profiles.UpdateProfileBalance(ctx, 1, decimal.NewFromInt(1)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	profile := testutil.Profile(t, database, 1)
	assert.Equal(t, "1150", profile.Balance.String())
}

func TestBalanceCheckConstraint(t *testing.T) {
	store := NewStore(testutil.DB(t))

	err := store.Profiles.UpdateProfileBalance(context.Background(), 1, decimal.NewFromInt(-1))
	assert.Error(t, err)
}

func TestEarningsByProfession(t *testing.T) {
	store := NewStore(testutil.DB(t))
	from := time.Date(2020, 8, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2020, 8, 18, 0, 0, 0, 0, time.UTC)

	rows, err := store.Reports.EarningsByProfession(context.Background(), from, to, 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Programmer", rows[0].Profession)
	assert.Equal(t, "2562", rows[0].Total.String())
	assert.Equal(t, int64(5), rows[0].JobCount)
	assert.Equal(t, "Fighter", rows[1].Profession)
	assert.Equal(t, "Musician", rows[2].Profession)
}

func TestBestClients(t *testing.T) {
	store := NewStore(testutil.DB(t))
	from := time.Date(2020, 8, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2020, 8, 18, 0, 0, 0, 0, time.UTC)

	rows, err := store.Reports.BestClients(context.Background(), from, to, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, uint(4), rows[0].ID)
	assert.Equal(t, "Ash Kethcum", rows[0].FullName)
	assert.Equal(t, "2020", rows[0].Paid.String())
	// profiles 1 and 2 both paid 442; the lower id wins the tie
	assert.Equal(t, uint(1), rows[1].ID)
	assert.Equal(t, "442", rows[1].Paid.String())
}
