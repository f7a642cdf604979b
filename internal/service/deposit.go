package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository"
)

type depositService struct {
	txm         repository.TxManager
	depositRepo repository.DepositRepository
	ledgerRepo  repository.LedgerRepository
	notifier    Notifier
}

func NewDepositService(
	txm repository.TxManager,
	depositRepo repository.DepositRepository,
	ledgerRepo repository.LedgerRepository,
	notifier Notifier,
) DepositService {
	return &depositService{
		txm:         txm,
		depositRepo: depositRepo,
		ledgerRepo:  ledgerRepo,
		notifier:    notifier,
	}
}

// HoldDeposit marks the deposit held without moving funds. No prior-state
// precondition: this is the admin override path.
func (s *depositService) HoldDeposit(ctx context.Context, depositID int32, reason string) error {
	logger.EnterMethod("depositService.HoldDeposit", "depositID", depositID)

	d, err := s.depositRepo.GetByID(ctx, depositID)
	if err != nil {
		logger.ExitMethodWithError("depositService.HoldDeposit", err, "depositID", depositID)
		return err
	}
	if err := s.depositRepo.Hold(ctx, depositID, reason); err != nil {
		logger.ExitMethodWithError("depositService.HoldDeposit", err, "depositID", depositID)
		return err
	}

	s.notifier.Dispatch(d.UserID, "DEPOSIT_HELD", map[string]string{
		"deposit_id": fmt.Sprintf("%d", depositID),
		"reason":     reason,
	})
	logger.ExitMethod("depositService.HoldDeposit", "depositID", depositID)
	return nil
}

func (s *depositService) ReleaseDeposit(ctx context.Context, depositID int32, reason string) error {
	return s.release(ctx, depositID, 0, reason, domain.DepositStatusReleased)
}

func (s *depositService) ReleasePartialDeposit(ctx context.Context, depositID int32, partialAmountCents int32, reason string) error {
	if partialAmountCents <= 0 {
		return domain.ErrAmountOutOfRange
	}
	return s.release(ctx, depositID, partialAmountCents, reason, domain.DepositStatusPartialRefund)
}

// release credits the depositor and flips the deposit out of HELD in one
// transaction. amountCents == 0 means the full deposit amount.
func (s *depositService) release(ctx context.Context, depositID, amountCents int32, reason string, to domain.DepositStatus) error {
	logger.EnterMethod("depositService.release", "depositID", depositID, "amountCents", amountCents, "to", to)

	d, err := s.depositRepo.GetByID(ctx, depositID)
	if err != nil {
		logger.ExitMethodWithError("depositService.release", err, "depositID", depositID)
		return err
	}
	if amountCents == 0 {
		amountCents = d.AmountCents
	}
	if amountCents > d.AmountCents {
		logger.ExitMethodWithError("depositService.release", domain.ErrAmountOutOfRange,
			"depositID", depositID, "amountCents", amountCents, "depositCents", d.AmountCents)
		return domain.ErrAmountOutOfRange
	}
	if d.Status != domain.DepositStatusHeld {
		return domain.ErrInvalidState
	}

	err = s.txm.WithTx(ctx, func(txCtx context.Context) error {
		if txErr := s.depositRepo.Transition(txCtx, depositID, to, reason); txErr != nil {
			return txErr
		}
		credit := &domain.WalletTransaction{
			Reference:       uuid.NewString(),
			UserID:          d.UserID,
			Type:            domain.TransactionTypeDepositRelease,
			AmountCents:     amountCents,
			Currency:        d.Currency,
			Status:          domain.TransactionStatusCompleted,
			Availability:    domain.AvailabilityAvailable,
			RelatedRentalID: &d.RentalID,
			NetAmountCents:  amountCents,
			Description:     fmt.Sprintf("Security deposit release for rental %d", d.RentalID),
		}
		if txErr := s.ledgerRepo.CreateTransaction(txCtx, credit); txErr != nil {
			return txErr
		}
		return s.ledgerRepo.IncrementBalance(txCtx, d.UserID, int64(amountCents))
	})
	if err != nil {
		logger.ExitMethodWithError("depositService.release", err, "depositID", depositID)
		return err
	}

	kind := "DEPOSIT_RELEASED"
	if to == domain.DepositStatusPartialRefund {
		kind = "DEPOSIT_PARTIALLY_RELEASED"
	}
	s.notifier.Dispatch(d.UserID, kind, map[string]string{
		"deposit_id":   fmt.Sprintf("%d", depositID),
		"amount_cents": fmt.Sprintf("%d", amountCents),
		"reason":       reason,
	})

	logger.ExitMethod("depositService.release", "depositID", depositID, "amountCents", amountCents)
	return nil
}

func (s *depositService) GetDeposit(ctx context.Context, depositID int32) (*domain.Deposit, error) {
	return s.depositRepo.GetByID(ctx, depositID)
}
