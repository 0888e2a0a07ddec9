package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nurpe/balance-ledger/internal/repository/testutil"
)

func TestPayJobMovesFunds(t *testing.T) {
	f := newFixture(t)

	job, err := f.payments.PayJob(context.Background(), f.profile(t, 1), 2)
	require.NoError(t, err)

	assert.True(t, job.Paid)
	require.NotNil(t, job.PaymentDate)
	require.NotNil(t, job.Contract)
	assert.Equal(t, uint(6), job.Contract.ContractorID)

	assert.Equal(t, "949", f.balance(t, 1))
	assert.Equal(t, "1415", f.balance(t, 6))
}

func TestPayJobConservesTotal(t *testing.T) {
	f := newFixture(t)
	clientBefore := testutil.Profile(t, f.db, 2).Balance
	contractorBefore := testutil.Profile(t, f.db, 6).Balance

	job, err := f.payments.PayJob(context.Background(), f.profile(t, 2), 3)
	require.NoError(t, err)

	clientAfter := testutil.Profile(t, f.db, 2).Balance
	contractorAfter := testutil.Profile(t, f.db, 6).Balance

	assert.True(t, clientAfter.Equal(clientBefore.Sub(job.Price)))
	assert.True(t, contractorAfter.Equal(contractorBefore.Add(job.Price)))
	assert.True(t, clientAfter.Add(contractorAfter).Equal(clientBefore.Add(contractorBefore)))
}

func TestPayJobTwiceIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.payments.PayJob(ctx, f.profile(t, 1), 2)
	require.NoError(t, err)

	_, err = f.payments.PayJob(ctx, f.profile(t, 1), 2)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "949", f.balance(t, 1))
}

func TestPayJobInsufficientFunds(t *testing.T) {
	f := newFixture(t)

	_, err := f.payments.PayJob(context.Background(), f.profile(t, 4), 15)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	assert.Equal(t, "1.3", f.balance(t, 4))
	assert.Equal(t, "1214", f.balance(t, 6))
	assert.False(t, testutil.Job(t, f.db, 15).Paid)
}

func TestPayJobRejections(t *testing.T) {
	cases := []struct {
		name      string
		requester uint
		jobID     uint
		wantErr   error
	}{
		{name: "contractor cannot pay", requester: 6, jobID: 2, wantErr: ErrUnauthorized},
		{name: "other client's job", requester: 2, jobID: 2, wantErr: ErrNotFound},
		{name: "terminated contract", requester: 1, jobID: 1, wantErr: ErrNotFound},
		{name: "already paid", requester: 1, jobID: 7, wantErr: ErrNotFound},
		{name: "missing job", requester: 1, jobID: 999, wantErr: ErrNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.payments.PayJob(context.Background(), f.profile(t, tc.requester), tc.jobID)
			assert.ErrorIs(t, err, tc.wantErr)

			assert.Equal(t, "1150", f.balance(t, 1))
			assert.Equal(t, "231.11", f.balance(t, 2))
			assert.Equal(t, "1214", f.balance(t, 6))
		})
	}
}

func TestPayJobConcurrentRequestsPayOnce(t *testing.T) {
	f := newFixture(t)
	client := f.profile(t, 1)

	const attempts = 5
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.payments.PayJob(context.Background(), client, 2)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, "949", f.balance(t, 1))
	assert.Equal(t, "1415", f.balance(t, 6))
}

func TestPayJobStoreFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	err := f.db.Callback().Update().Before("gorm:update").Register("test:fail_jobs", func(db *gorm.DB) {
		if db.Statement.Table == "jobs" {
			_ = db.AddError(errors.New("disk full"))
		}
	})
	require.NoError(t, err)

	_, err = f.payments.PayJob(context.Background(), f.profile(t, 1), 2)
	assert.ErrorIs(t, err, ErrTransactionFailed)

	assert.Equal(t, "1150", f.balance(t, 1))
	assert.Equal(t, "1214", f.balance(t, 6))
	assert.False(t, testutil.Job(t, f.db, 2).Paid)
}
