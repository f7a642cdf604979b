package service

import (
	"context"
	"fmt"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository"
	"renthub-backend/internal/utils"
)

type rentalService struct {
	rentalRepo         repository.RentalRepository
	timelineRepo       repository.TimelineRepository
	platformFeePercent int
	defaultCurrency    string
}

func NewRentalService(rentalRepo repository.RentalRepository, timelineRepo repository.TimelineRepository, platformFeePercent int, defaultCurrency string) RentalService {
	return &rentalService{
		rentalRepo:         rentalRepo,
		timelineRepo:       timelineRepo,
		platformFeePercent: platformFeePercent,
		defaultCurrency:    defaultCurrency,
	}
}

// CreateRental records an agreed rental with its pricing snapshot. The
// rental starts in APPROVED and waits for the payment capture event to
// move it toward handover.
func (s *rentalService) CreateRental(ctx context.Context, renterID int32, in CreateRentalInput) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.CreateRental", "renterID", renterID, "ownerID", in.OwnerID, "itemID", in.ItemID)

	if in.OwnerID <= 0 || in.ItemID <= 0 {
		return nil, fmt.Errorf("%w: owner and item are required", domain.ErrValidation)
	}
	if in.OwnerID == renterID {
		return nil, fmt.Errorf("%w: cannot rent own item", domain.ErrValidation)
	}

	pricing, err := utils.ComputePricing(in.Start, in.End, in.DailyRateCents, in.SecurityDepositCents, s.platformFeePercent, s.defaultCurrency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	rental := &domain.Rental{
		OwnerID:        in.OwnerID,
		RenterID:       renterID,
		ItemID:         in.ItemID,
		Status:         domain.RentalStatusApproved,
		RequestedStart: in.Start,
		RequestedEnd:   in.End,
		Pricing:        pricing,
	}
	if err := s.rentalRepo.Create(ctx, rental); err != nil {
		logger.ExitMethodWithError("rentalService.CreateRental", err, "renterID", renterID)
		return nil, err
	}

	logger.ExitMethod("rentalService.CreateRental", "rentalID", rental.ID)
	return rental, nil
}

func (s *rentalService) GetRental(ctx context.Context, userID, rentalID int32) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.PartyOf(userID) == "" {
		return nil, domain.ErrUnauthorized
	}
	return rt, nil
}

func (s *rentalService) GetTimeline(ctx context.Context, userID, rentalID int32) ([]domain.TimelineEvent, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.PartyOf(userID) == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.timelineRepo.ListByRental(ctx, rentalID)
}

func (s *rentalService) ListRentals(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	return s.rentalRepo.ListByRenter(ctx, userID, status, page, pageSize)
}

func (s *rentalService) ListLendings(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	return s.rentalRepo.ListByOwner(ctx, userID, status, page, pageSize)
}
