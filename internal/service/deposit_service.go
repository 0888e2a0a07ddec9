package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/nurpe/balance-ledger/internal/model"
	"github.com/nurpe/balance-ledger/internal/repository"
)

// moneyScale matches the numeric(12,2) balance column.
const moneyScale = 2

type DepositInput struct {
	TargetID uint
	Amount   *decimal.Decimal
}

// DepositResult carries the refreshed profile. NoContent is set for a zero
// amount, which is accepted without touching the ledger.
type DepositResult struct {
	Profile   *model.Profile
	NoContent bool
}

type DepositService struct {
	store    *repository.Store
	capRatio decimal.Decimal
	log      zerolog.Logger
}

func NewDepositService(store *repository.Store, capRatio decimal.Decimal, log zerolog.Logger) *DepositService {
	return &DepositService{store: store, capRatio: capRatio, log: log}
}

// Deposit tops up a client balance. The amount may not exceed capRatio of the
// client's outstanding total, computed when the call starts.
func (s *DepositService) Deposit(ctx context.Context, input DepositInput) (*DepositResult, error) {
	ctx, span := tracer.Start(ctx, "DepositService.Deposit", trace.WithAttributes(
		attribute.Int64("profile.id", int64(input.TargetID)),
	))
	defer span.End()

	if input.Amount == nil {
		return nil, fmt.Errorf("%w: amount is required", ErrInvalidInput)
	}
	amount := *input.Amount
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	}
	if !amount.Equal(amount.Round(moneyScale)) {
		return nil, fmt.Errorf("%w: amount has more than %d decimal places", ErrInvalidInput, moneyScale)
	}
	if amount.IsZero() {
		return &DepositResult{NoContent: true}, nil
	}

	target, err := s.store.Profiles.GetProfile(ctx, input.TargetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := AuthorizeClient(target); err != nil {
		return nil, ErrNotFound
	}

	outstanding, err := s.OutstandingTotal(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	if outstanding.IsZero() {
		return nil, fmt.Errorf("%w: no outstanding jobs to deposit against", ErrForbidden)
	}
	allowance := outstanding.Mul(s.capRatio)
	if amount.GreaterThan(allowance) {
		return nil, fmt.Errorf("%w: deposit %s exceeds allowance %s", ErrForbidden, amount, allowance)
	}

	var updated *model.Profile
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		locked, err := tx.Profiles.GetProfilesForUpdate(ctx, target.ID)
		if err != nil {
			return err
		}
		profile := locked[target.ID]
		if profile == nil {
			return ErrNotFound
		}
		if err := tx.Profiles.UpdateProfileBalance(ctx, profile.ID, profile.Balance.Add(amount)); err != nil {
			return fmt.Errorf("credit client %d: %w", profile.ID, err)
		}
		updated, err = tx.Profiles.GetProfile(ctx, profile.ID)
		return err
	})
	if err != nil {
		err = transactionError(err)
		if errors.Is(err, ErrTransactionFailed) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "transaction failed")
			s.log.Error().Err(err).Uint("profile_id", target.ID).Msg("deposit failed")
		}
		return nil, err
	}

	s.log.Info().
		Uint("profile_id", updated.ID).
		Str("amount", amount.String()).
		Msg("deposit applied")
	return &DepositResult{Profile: updated}, nil
}

// OutstandingTotal sums the prices of the client's unpaid jobs under
// in-progress contracts.
func (s *DepositService) OutstandingTotal(ctx context.Context, clientID uint) (decimal.Decimal, error) {
	unpaid := false
	return s.store.Jobs.SumPrices(ctx, repository.JobFilter{
		Paid:             &unpaid,
		ContractStatuses: []model.ContractStatus{model.ContractStatusInProgress},
		ClientID:         &clientID,
	})
}
