package service

import (
	"context"
	"testing"

	"renthub-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func heldDeposit() *domain.Deposit {
	return &domain.Deposit{
		ID:          3,
		RentalID:    1,
		UserID:      10,
		AmountCents: 5000,
		Currency:    "USD",
		Status:      domain.DepositStatusHeld,
	}
}

func TestDepositService_ReleaseDeposit(t *testing.T) {
	ctx := context.Background()

	t.Run("FullRelease", func(t *testing.T) {
		depositRepo := new(MockDepositRepo)
		ledgerRepo := new(MockLedgerRepo)
		notifier := &recordingNotifier{}
		svc := NewDepositService(&fakeTxManager{}, depositRepo, ledgerRepo, notifier)

		depositRepo.On("GetByID", ctx, int32(3)).Return(heldDeposit(), nil)
		depositRepo.On("Transition", ctx, int32(3), domain.DepositStatusReleased, "rental completed").Return(nil)

		var credit *domain.WalletTransaction
		ledgerRepo.On("CreateTransaction", ctx, mock.AnythingOfType("*domain.WalletTransaction")).
			Run(func(args mock.Arguments) {
				credit = args.Get(1).(*domain.WalletTransaction)
			}).Return(nil)
		ledgerRepo.On("IncrementBalance", ctx, int32(10), int64(5000)).Return(nil)

		err := svc.ReleaseDeposit(ctx, 3, "rental completed")
		assert.NoError(t, err)

		assert.Equal(t, int32(5000), credit.AmountCents)
		assert.Equal(t, domain.TransactionTypeDepositRelease, credit.Type)
		assert.Equal(t, domain.AvailabilityAvailable, credit.Availability)
		assert.NotEmpty(t, credit.Reference)

		assert.Equal(t, []string{"DEPOSIT_RELEASED"}, notifier.kinds())
		assert.Equal(t, int32(10), notifier.calls[0].userID)
	})

	t.Run("PartialRelease", func(t *testing.T) {
		depositRepo := new(MockDepositRepo)
		ledgerRepo := new(MockLedgerRepo)
		notifier := &recordingNotifier{}
		svc := NewDepositService(&fakeTxManager{}, depositRepo, ledgerRepo, notifier)

		depositRepo.On("GetByID", ctx, int32(3)).Return(heldDeposit(), nil)
		depositRepo.On("Transition", ctx, int32(3), domain.DepositStatusPartialRefund, "minor damage").Return(nil)
		ledgerRepo.On("CreateTransaction", ctx, mock.AnythingOfType("*domain.WalletTransaction")).Return(nil)
		ledgerRepo.On("IncrementBalance", ctx, int32(10), int64(2000)).Return(nil)

		err := svc.ReleasePartialDeposit(ctx, 3, 2000, "minor damage")
		assert.NoError(t, err)
		assert.Equal(t, []string{"DEPOSIT_PARTIALLY_RELEASED"}, notifier.kinds())
	})

	t.Run("PartialAboveDepositRejected", func(t *testing.T) {
		depositRepo := new(MockDepositRepo)
		ledgerRepo := new(MockLedgerRepo)
		svc := NewDepositService(&fakeTxManager{}, depositRepo, ledgerRepo, &recordingNotifier{})

		depositRepo.On("GetByID", ctx, int32(3)).Return(heldDeposit(), nil)

		err := svc.ReleasePartialDeposit(ctx, 3, 9000, "damage")
		assert.ErrorIs(t, err, domain.ErrAmountOutOfRange)
		depositRepo.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		ledgerRepo.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
	})

	t.Run("NonPositivePartialRejected", func(t *testing.T) {
		depositRepo := new(MockDepositRepo)
		svc := NewDepositService(&fakeTxManager{}, depositRepo, new(MockLedgerRepo), &recordingNotifier{})

		err := svc.ReleasePartialDeposit(ctx, 3, 0, "damage")
		assert.ErrorIs(t, err, domain.ErrAmountOutOfRange)
		depositRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("AlreadyReleasedRejected", func(t *testing.T) {
		depositRepo := new(MockDepositRepo)
		svc := NewDepositService(&fakeTxManager{}, depositRepo, new(MockLedgerRepo), &recordingNotifier{})

		d := heldDeposit()
		d.Status = domain.DepositStatusReleased
		depositRepo.On("GetByID", ctx, int32(3)).Return(d, nil)

		err := svc.ReleaseDeposit(ctx, 3, "again")
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("NotFound", func(t *testing.T) {
		depositRepo := new(MockDepositRepo)
		svc := NewDepositService(&fakeTxManager{}, depositRepo, new(MockLedgerRepo), &recordingNotifier{})

		depositRepo.On("GetByID", ctx, int32(3)).Return(nil, domain.ErrDepositNotFound)

		err := svc.ReleaseDeposit(ctx, 3, "done")
		assert.ErrorIs(t, err, domain.ErrDepositNotFound)
	})
}

func TestDepositService_HoldDeposit(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		depositRepo := new(MockDepositRepo)
		notifier := &recordingNotifier{}
		svc := NewDepositService(&fakeTxManager{}, depositRepo, new(MockLedgerRepo), notifier)

		depositRepo.On("GetByID", ctx, int32(3)).Return(heldDeposit(), nil)
		depositRepo.On("Hold", ctx, int32(3), "damage claim pending").Return(nil)

		err := svc.HoldDeposit(ctx, 3, "damage claim pending")
		assert.NoError(t, err)
		assert.Equal(t, []string{"DEPOSIT_HELD"}, notifier.kinds())
	})
}
