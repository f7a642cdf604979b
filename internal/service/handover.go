package service

import (
	"context"
	"fmt"
	"time"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository"
)

type handoverService struct {
	txm          repository.TxManager
	rentalRepo   repository.RentalRepository
	timelineRepo repository.TimelineRepository
	notifier     Notifier
}

func NewHandoverService(
	txm repository.TxManager,
	rentalRepo repository.RentalRepository,
	timelineRepo repository.TimelineRepository,
	notifier Notifier,
) HandoverService {
	return &handoverService{
		txm:          txm,
		rentalRepo:   rentalRepo,
		timelineRepo: timelineRepo,
		notifier:     notifier,
	}
}

func (s *handoverService) ConfirmByRenter(ctx context.Context, rentalID, userID int32) (*HandoverResult, error) {
	return s.confirm(ctx, rentalID, userID, domain.RentalPartyRenter)
}

func (s *handoverService) ConfirmByOwner(ctx context.Context, rentalID, userID int32) (*HandoverResult, error) {
	return s.confirm(ctx, rentalID, userID, domain.RentalPartyOwner)
}

func (s *handoverService) confirm(ctx context.Context, rentalID, userID int32, party domain.RentalParty) (*HandoverResult, error) {
	logger.EnterMethod("handoverService.confirm", "rentalID", rentalID, "userID", userID, "party", party)

	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		logger.ExitMethodWithError("handoverService.confirm", err, "rentalID", rentalID)
		return nil, err
	}
	if rt.PartyOf(userID) != party {
		logger.ExitMethodWithError("handoverService.confirm", domain.ErrUnauthorized, "rentalID", rentalID, "userID", userID)
		return nil, domain.ErrUnauthorized
	}

	// Fast-path precondition checks on the loaded copy. The repository
	// CAS re-checks them atomically, so a stale read here cannot let a
	// duplicate confirmation through.
	if rt.Handover.ConfirmedBy(party) {
		return nil, domain.ErrAlreadyConfirmed
	}
	if rt.Status != domain.RentalStatusAwaitingHandover {
		return nil, domain.ErrInvalidState
	}

	now := time.Now()
	var bothConfirmed bool
	err = s.txm.WithTx(ctx, func(txCtx context.Context) error {
		var txErr error
		bothConfirmed, txErr = s.rentalRepo.ConfirmHandover(txCtx, rentalID, party, now)
		if txErr != nil {
			return txErr
		}

		event := domain.EventHandoverConfirmedByRenter
		if party == domain.RentalPartyOwner {
			event = domain.EventHandoverConfirmedByOwner
		}
		if txErr := s.timelineRepo.Append(txCtx, rentalID, event, userID, nil); txErr != nil {
			return txErr
		}
		if bothConfirmed {
			return s.timelineRepo.Append(txCtx, rentalID, domain.EventRentalActivated, userID, map[string]string{
				"actual_start": now.Format(time.RFC3339),
			})
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("handoverService.confirm", err, "rentalID", rentalID)
		return nil, err
	}

	other := rt.OwnerID
	if party == domain.RentalPartyOwner {
		other = rt.RenterID
	}
	kind := "HANDOVER_CONFIRMED"
	if bothConfirmed {
		kind = "RENTAL_ACTIVATED"
	}
	s.notifier.Dispatch(other, kind, map[string]string{
		"rental_id":    fmt.Sprintf("%d", rentalID),
		"confirmed_by": string(party),
	})

	updated, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		// The confirmation itself committed; fall back to the pre-image.
		updated = rt
	}

	logger.ExitMethod("handoverService.confirm", "rentalID", rentalID, "bothConfirmed", bothConfirmed)
	return &HandoverResult{Rental: updated, BothConfirmed: bothConfirmed}, nil
}
