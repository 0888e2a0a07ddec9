package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/nurpe/balance-ledger/internal/model"
	"github.com/nurpe/balance-ledger/internal/repository"
)

type PaymentService struct {
	store *repository.Store
	log   zerolog.Logger
	now   func() time.Time
}

func NewPaymentService(store *repository.Store, log zerolog.Logger) *PaymentService {
	return &PaymentService{
		store: store,
		log:   log,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// PayJob moves the job price from the requesting client to the contract's
// contractor and marks the job paid. Debit, credit and the paid flag commit
// together or not at all.
func (s *PaymentService) PayJob(ctx context.Context, requester *model.Profile, jobID uint) (*model.Job, error) {
	ctx, span := tracer.Start(ctx, "PaymentService.PayJob", trace.WithAttributes(
		attribute.Int64("job.id", int64(jobID)),
	))
	defer span.End()

	if err := AuthorizeClient(requester); err != nil {
		return nil, err
	}

	var paid *model.Job
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		unpaid := false
		job, err := tx.Jobs.FindJob(ctx, repository.JobFilter{
			ID:               &jobID,
			Paid:             &unpaid,
			ContractStatuses: []model.ContractStatus{model.ContractStatusInProgress},
			ClientID:         &requester.ID,
			ForUpdate:        true,
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		contract, err := tx.Contracts.FindContract(ctx, job.ContractID)
		if err != nil {
			return fmt.Errorf("load contract %d: %w", job.ContractID, err)
		}
		if !contract.IsPayable() || contract.ClientID != requester.ID {
			return ErrNotFound
		}

		profiles, err := tx.Profiles.GetProfilesForUpdate(ctx, contract.ClientID, contract.ContractorID)
		if err != nil {
			return fmt.Errorf("lock profiles: %w", err)
		}
		client, contractor := profiles[contract.ClientID], profiles[contract.ContractorID]
		if client == nil || contractor == nil || client.ID == contractor.ID {
			return fmt.Errorf("contract %d has invalid parties", contract.ID)
		}

		if client.Balance.LessThan(job.Price) {
			return fmt.Errorf("%w: balance %s, price %s", ErrInsufficientFunds, client.Balance, job.Price)
		}

		if err := tx.Profiles.UpdateProfileBalance(ctx, client.ID, client.Balance.Sub(job.Price)); err != nil {
			return fmt.Errorf("debit client %d: %w", client.ID, err)
		}
		if err := tx.Profiles.UpdateProfileBalance(ctx, contractor.ID, contractor.Balance.Add(job.Price)); err != nil {
			return fmt.Errorf("credit contractor %d: %w", contractor.ID, err)
		}
		if err := tx.Jobs.MarkPaid(ctx, job.ID, s.now()); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("mark job %d paid: %w", job.ID, err)
		}

		paid, err = tx.Jobs.FindJob(ctx, repository.JobFilter{ID: &job.ID, WithContract: true})
		return err
	})
	if err != nil {
		err = transactionError(err)
		if errors.Is(err, ErrTransactionFailed) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "transaction failed")
			s.log.Error().Err(err).Uint("job_id", jobID).Uint("profile_id", requester.ID).Msg("pay job failed")
		}
		return nil, err
	}

	s.log.Info().
		Uint("job_id", paid.ID).
		Uint("client_id", requester.ID).
		Str("price", paid.Price.String()).
		Msg("job paid")
	return paid, nil
}
