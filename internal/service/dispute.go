package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository"
)

type disputeService struct {
	txm          repository.TxManager
	rentalRepo   repository.RentalRepository
	disputeRepo  repository.DisputeRepository
	ledgerRepo   repository.LedgerRepository
	timelineRepo repository.TimelineRepository
	notifier     Notifier
}

func NewDisputeService(
	txm repository.TxManager,
	rentalRepo repository.RentalRepository,
	disputeRepo repository.DisputeRepository,
	ledgerRepo repository.LedgerRepository,
	timelineRepo repository.TimelineRepository,
	notifier Notifier,
) DisputeService {
	return &disputeService{
		txm:          txm,
		rentalRepo:   rentalRepo,
		disputeRepo:  disputeRepo,
		ledgerRepo:   ledgerRepo,
		timelineRepo: timelineRepo,
		notifier:     notifier,
	}
}

func (s *disputeService) RaiseDispute(ctx context.Context, rentalID, userID int32, reason string, evidence []string) (*domain.Dispute, error) {
	logger.EnterMethod("disputeService.RaiseDispute", "rentalID", rentalID, "userID", userID)

	if strings.TrimSpace(reason) == "" {
		return nil, domain.ErrValidation
	}

	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		logger.ExitMethodWithError("disputeService.RaiseDispute", err, "rentalID", rentalID)
		return nil, err
	}
	party := rt.PartyOf(userID)
	if party == "" {
		return nil, domain.ErrUnauthorized
	}
	if rt.Status != domain.RentalStatusActive && rt.Status != domain.RentalStatusCompleted {
		return nil, domain.ErrInvalidState
	}
	if _, err := s.disputeRepo.GetOpenByRental(ctx, rentalID); err == nil {
		return nil, domain.ErrDisputeAlreadyOpen
	} else if err != domain.ErrDisputeNotFound {
		return nil, err
	}

	d := &domain.Dispute{
		RentalID:    rentalID,
		Status:      domain.DisputeStatusOpen,
		InitiatedBy: party,
		InitiatorID: userID,
		Reason:      reason,
		Evidence:    evidence,
		InitiatedAt: time.Now(),
	}

	err = s.txm.WithTx(ctx, func(txCtx context.Context) error {
		if txErr := s.rentalRepo.MarkDisputed(txCtx, rentalID); txErr != nil {
			return txErr
		}
		if txErr := s.disputeRepo.Create(txCtx, d); txErr != nil {
			return txErr
		}
		return s.timelineRepo.Append(txCtx, rentalID, domain.EventDisputeOpened, userID, map[string]string{
			"reason":       reason,
			"initiated_by": string(party),
		})
	})
	if err != nil {
		logger.ExitMethodWithError("disputeService.RaiseDispute", err, "rentalID", rentalID)
		return nil, err
	}

	// The evidence record is appended outside the opening transaction so
	// a large evidence list cannot fail the dispute itself.
	if len(evidence) > 0 {
		if err := s.timelineRepo.Append(ctx, rentalID, domain.EventDisputeEvidenceRecorded, userID, map[string]string{
			"evidence_count": fmt.Sprintf("%d", len(evidence)),
		}); err != nil {
			logger.Warn("Failed to record dispute evidence event", "rentalID", rentalID, "error", err)
		}
	}

	other := rt.OwnerID
	if party == domain.RentalPartyOwner {
		other = rt.RenterID
	}
	s.notifier.Dispatch(other, "DISPUTE_OPENED", map[string]string{
		"rental_id":  fmt.Sprintf("%d", rentalID),
		"dispute_id": fmt.Sprintf("%d", d.ID),
		"reason":     reason,
	})

	logger.ExitMethod("disputeService.RaiseDispute", "disputeID", d.ID)
	return d, nil
}

func (s *disputeService) ResolveDispute(ctx context.Context, rentalID, moderatorID int32, decision string, refundCents, ownerCompCents int32) error {
	logger.EnterMethod("disputeService.ResolveDispute", "rentalID", rentalID, "moderatorID", moderatorID,
		"refundCents", refundCents, "ownerCompCents", ownerCompCents)

	if refundCents < 0 || ownerCompCents < 0 {
		return domain.ErrAmountOutOfRange
	}

	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		logger.ExitMethodWithError("disputeService.ResolveDispute", err, "rentalID", rentalID)
		return err
	}
	if refundCents+ownerCompCents > rt.Pricing.SecurityDepositCents {
		return domain.ErrAmountOutOfRange
	}

	d, err := s.disputeRepo.GetOpenByRental(ctx, rentalID)
	if err != nil {
		logger.ExitMethodWithError("disputeService.ResolveDispute", err, "rentalID", rentalID)
		return err
	}

	now := time.Now()
	err = s.txm.WithTx(ctx, func(txCtx context.Context) error {
		if txErr := s.rentalRepo.CompleteFromDispute(txCtx, rentalID, now); txErr != nil {
			return txErr
		}
		if txErr := s.disputeRepo.Resolve(txCtx, d.ID, moderatorID, decision, refundCents, ownerCompCents, now); txErr != nil {
			return txErr
		}

		if refundCents > 0 {
			refund := &domain.WalletTransaction{
				Reference:       uuid.NewString(),
				UserID:          rt.RenterID,
				Type:            domain.TransactionTypeDepositRefund,
				AmountCents:     refundCents,
				Currency:        rt.Pricing.Currency,
				Status:          domain.TransactionStatusCompleted,
				Availability:    domain.AvailabilityAvailable,
				RelatedRentalID: &rt.ID,
				RelatedItemID:   &rt.ItemID,
				NetAmountCents:  refundCents,
				Description:     fmt.Sprintf("Deposit refund from dispute %d", d.ID),
			}
			if txErr := s.ledgerRepo.CreateTransaction(txCtx, refund); txErr != nil {
				return txErr
			}
		}

		if ownerCompCents > 0 {
			comp := &domain.WalletTransaction{
				Reference:       uuid.NewString(),
				UserID:          rt.OwnerID,
				Type:            domain.TransactionTypeRentalIncome,
				AmountCents:     ownerCompCents,
				Currency:        rt.Pricing.Currency,
				Status:          domain.TransactionStatusCompleted,
				Availability:    domain.AvailabilityAvailable,
				RelatedRentalID: &rt.ID,
				RelatedItemID:   &rt.ItemID,
				NetAmountCents:  ownerCompCents,
				Description:     fmt.Sprintf("Owner compensation from dispute %d", d.ID),
			}
			if txErr := s.ledgerRepo.CreateTransaction(txCtx, comp); txErr != nil {
				return txErr
			}
			// Counter cache only; the ledger entry above stays the truth.
			if txErr := s.ledgerRepo.IncrementBalance(txCtx, rt.OwnerID, int64(ownerCompCents)); txErr != nil {
				return txErr
			}
		}

		return s.timelineRepo.Append(txCtx, rentalID, domain.EventDisputeResolved, moderatorID, map[string]string{
			"decision":                 decision,
			"refund_cents":             fmt.Sprintf("%d", refundCents),
			"owner_compensation_cents": fmt.Sprintf("%d", ownerCompCents),
		})
	})
	if err != nil {
		logger.ExitMethodWithError("disputeService.ResolveDispute", err, "rentalID", rentalID)
		return err
	}

	if forfeited := rt.Pricing.SecurityDepositCents - refundCents - ownerCompCents; forfeited > 0 {
		logger.Info("Dispute resolution leaves forfeited deposit remainder",
			"rentalID", rentalID, "disputeID", d.ID, "forfeitedCents", forfeited)
	}

	for _, userID := range []int32{rt.RenterID, rt.OwnerID} {
		s.notifier.Dispatch(userID, "DISPUTE_RESOLVED", map[string]string{
			"rental_id":  fmt.Sprintf("%d", rentalID),
			"dispute_id": fmt.Sprintf("%d", d.ID),
			"decision":   decision,
		})
	}

	logger.ExitMethod("disputeService.ResolveDispute", "rentalID", rentalID, "disputeID", d.ID)
	return nil
}

func (s *disputeService) GetDispute(ctx context.Context, rentalID int32) (*domain.Dispute, error) {
	return s.disputeRepo.GetOpenByRental(ctx, rentalID)
}
