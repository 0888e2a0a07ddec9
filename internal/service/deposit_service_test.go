package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepositIncreasesBalance(t *testing.T) {
	f := newFixture(t)

	result, err := f.deposits.Deposit(context.Background(), DepositInput{TargetID: 1, Amount: amount("10")})
	require.NoError(t, err)
	require.False(t, result.NoContent)
	require.NotNil(t, result.Profile)

	assert.Equal(t, "1160", result.Profile.Balance.String())
	assert.Equal(t, "1160", f.balance(t, 1))
}

func TestDepositZeroIsNoop(t *testing.T) {
	f := newFixture(t)

	result, err := f.deposits.Deposit(context.Background(), DepositInput{TargetID: 1, Amount: amount("0")})
	require.NoError(t, err)
	assert.True(t, result.NoContent)
	assert.Nil(t, result.Profile)
	assert.Equal(t, "1150", f.balance(t, 1))
}

func TestDepositCapBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// client 1 owes 201 on in-progress contracts, so the cap is 50.25
	_, err := f.deposits.Deposit(ctx, DepositInput{TargetID: 1, Amount: amount("50.26")})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "1150", f.balance(t, 1))

	result, err := f.deposits.Deposit(ctx, DepositInput{TargetID: 1, Amount: amount("50.25")})
	require.NoError(t, err)
	assert.Equal(t, "1200.25", result.Profile.Balance.String())
}

func TestDepositAcceptsTrailingZeroScale(t *testing.T) {
	f := newFixture(t)

	result, err := f.deposits.Deposit(context.Background(), DepositInput{TargetID: 1, Amount: amount("10.500")})
	require.NoError(t, err)
	assert.Equal(t, "1160.5", result.Profile.Balance.String())
	assert.Equal(t, "1160.5", f.balance(t, 1))
}

func TestDepositRejections(t *testing.T) {
	cases := []struct {
		name    string
		input   DepositInput
		wantErr error
	}{
		{name: "missing amount", input: DepositInput{TargetID: 1}, wantErr: ErrInvalidInput},
		{name: "negative amount", input: DepositInput{TargetID: 1, Amount: amount("-5")}, wantErr: ErrInvalidInput},
		{name: "sub-cent amount", input: DepositInput{TargetID: 1, Amount: amount("0.004")}, wantErr: ErrInvalidInput},
		{name: "three decimal places", input: DepositInput{TargetID: 1, Amount: amount("10.005")}, wantErr: ErrInvalidInput},
		{name: "unknown profile", input: DepositInput{TargetID: 999, Amount: amount("1")}, wantErr: ErrNotFound},
		{name: "contractor target", input: DepositInput{TargetID: 6, Amount: amount("1")}, wantErr: ErrNotFound},
		{name: "nothing outstanding", input: DepositInput{TargetID: 3, Amount: amount("1")}, wantErr: ErrForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.deposits.Deposit(context.Background(), tc.input)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, "1150", f.balance(t, 1))
		})
	}
}

func TestOutstandingTotalIgnoresPaidAndInactive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	total, err := f.deposits.OutstandingTotal(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "201", total.String())

	_, err = f.payments.PayJob(ctx, f.profile(t, 1), 2)
	require.NoError(t, err)

	total, err = f.deposits.OutstandingTotal(ctx, 1)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	_, err = f.deposits.Deposit(ctx, DepositInput{TargetID: 1, Amount: amount("1")})
	assert.ErrorIs(t, err, ErrForbidden)
}
