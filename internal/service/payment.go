package service

import (
	"context"
	"fmt"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository"
)

type paymentService struct {
	txm          repository.TxManager
	rentalRepo   repository.RentalRepository
	depositRepo  repository.DepositRepository
	timelineRepo repository.TimelineRepository
	notifier     Notifier
}

func NewPaymentService(
	txm repository.TxManager,
	rentalRepo repository.RentalRepository,
	depositRepo repository.DepositRepository,
	timelineRepo repository.TimelineRepository,
	notifier Notifier,
) PaymentService {
	return &paymentService{
		txm:          txm,
		rentalRepo:   rentalRepo,
		depositRepo:  depositRepo,
		timelineRepo: timelineRepo,
		notifier:     notifier,
	}
}

// HandleCaptureResult converts the gateway's capture outcome into the
// lifecycle precondition handover depends on: a captured payment moves
// APPROVED to AWAITING_HANDOVER and places the security deposit in
// custody; a failed capture cancels the rental.
func (s *paymentService) HandleCaptureResult(ctx context.Context, rentalID int32, captured bool, gatewayRef string) error {
	logger.EnterMethod("paymentService.HandleCaptureResult", "rentalID", rentalID, "captured", captured)

	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		logger.ExitMethodWithError("paymentService.HandleCaptureResult", err, "rentalID", rentalID)
		return err
	}

	if !captured {
		err = s.txm.WithTx(ctx, func(txCtx context.Context) error {
			if txErr := s.rentalRepo.MarkCancelled(txCtx, rentalID); txErr != nil {
				return txErr
			}
			return s.timelineRepo.Append(txCtx, rentalID, domain.EventPaymentFailed, rt.RenterID, map[string]string{
				"gateway_ref": gatewayRef,
			})
		})
		if err != nil {
			logger.ExitMethodWithError("paymentService.HandleCaptureResult", err, "rentalID", rentalID)
			return err
		}
		s.notifier.Dispatch(rt.RenterID, "PAYMENT_FAILED", map[string]string{
			"rental_id": fmt.Sprintf("%d", rentalID),
		})
		logger.ExitMethod("paymentService.HandleCaptureResult", "rentalID", rentalID, "outcome", "cancelled")
		return nil
	}

	err = s.txm.WithTx(ctx, func(txCtx context.Context) error {
		if txErr := s.rentalRepo.MarkAwaitingHandover(txCtx, rentalID); txErr != nil {
			return txErr
		}
		if rt.Pricing.SecurityDepositCents > 0 {
			deposit := &domain.Deposit{
				RentalID:    rentalID,
				UserID:      rt.RenterID,
				AmountCents: rt.Pricing.SecurityDepositCents,
				Currency:    rt.Pricing.Currency,
				Status:      domain.DepositStatusHeld,
				Reason:      "payment captured",
			}
			if txErr := s.depositRepo.Create(txCtx, deposit); txErr != nil {
				return txErr
			}
		}
		return s.timelineRepo.Append(txCtx, rentalID, domain.EventPaymentCaptured, rt.RenterID, map[string]string{
			"gateway_ref": gatewayRef,
		})
	})
	if err != nil {
		logger.ExitMethodWithError("paymentService.HandleCaptureResult", err, "rentalID", rentalID)
		return err
	}

	for _, userID := range []int32{rt.RenterID, rt.OwnerID} {
		s.notifier.Dispatch(userID, "AWAITING_HANDOVER", map[string]string{
			"rental_id": fmt.Sprintf("%d", rentalID),
		})
	}
	logger.ExitMethod("paymentService.HandleCaptureResult", "rentalID", rentalID, "outcome", "awaiting_handover")
	return nil
}
