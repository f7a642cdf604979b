package service

import (
	"context"
	"time"

	"renthub-backend/internal/domain"
)

// HandoverResult tells the caller whether their confirmation was the
// activating one, so the UI can distinguish "waiting for the other party"
// from "active now".
type HandoverResult struct {
	Rental        *domain.Rental
	BothConfirmed bool
}

type HandoverService interface {
	ConfirmByRenter(ctx context.Context, rentalID, userID int32) (*HandoverResult, error)
	ConfirmByOwner(ctx context.Context, rentalID, userID int32) (*HandoverResult, error)
}

type DisputeService interface {
	RaiseDispute(ctx context.Context, rentalID, userID int32, reason string, evidence []string) (*domain.Dispute, error)
	ResolveDispute(ctx context.Context, rentalID, moderatorID int32, decision string, refundCents, ownerCompCents int32) error
	GetDispute(ctx context.Context, rentalID int32) (*domain.Dispute, error)
}

type DepositService interface {
	HoldDeposit(ctx context.Context, depositID int32, reason string) error
	ReleaseDeposit(ctx context.Context, depositID int32, reason string) error
	ReleasePartialDeposit(ctx context.Context, depositID int32, partialAmountCents int32, reason string) error
	GetDeposit(ctx context.Context, depositID int32) (*domain.Deposit, error)
}

type WalletService interface {
	GetWalletBalance(ctx context.Context, userID int32) (*domain.WalletBalance, error)
	GetTransactions(ctx context.Context, userID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error)
}

// CreateRentalInput carries the agreed terms for a new rental. Pricing
// is snapshotted from these at creation and never recomputed afterward.
type CreateRentalInput struct {
	OwnerID              int32
	ItemID               int32
	Start                time.Time
	End                  time.Time
	DailyRateCents       int32
	SecurityDepositCents int32
}

type RentalService interface {
	CreateRental(ctx context.Context, renterID int32, in CreateRentalInput) (*domain.Rental, error)
	GetRental(ctx context.Context, userID, rentalID int32) (*domain.Rental, error)
	GetTimeline(ctx context.Context, userID, rentalID int32) ([]domain.TimelineEvent, error)
	ListRentals(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error)
	ListLendings(ctx context.Context, userID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error)
}

// PaymentService ingests the payment gateway's capture result. The
// gateway's own state machine stays external; only the outcome enters
// the lifecycle here.
type PaymentService interface {
	HandleCaptureResult(ctx context.Context, rentalID int32, captured bool, gatewayRef string) error
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

// Notifier is the fire-and-forget side channel invoked on every state
// transition. Dispatch never blocks the caller and never reports failure;
// each delivery channel gets at most one attempt and failures are logged.
type Notifier interface {
	Dispatch(userID int32, eventKind string, payload map[string]string)
}

type EmailSender interface {
	Send(ctx context.Context, toEmail, toName, subject, body string) error
}

type PushSender interface {
	Send(ctx context.Context, deviceToken, title, body string, data map[string]string) error
}
