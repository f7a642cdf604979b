package repository

import (
	"context"
	"time"

	"renthub-backend/internal/domain"
)

// TxManager groups repository calls into one atomic commit. Repositories
// participate by reading the transaction out of the context; nested calls
// join the enclosing transaction.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id int32) (*domain.Rental, error)

	// ConfirmHandover applies one party's handover confirmation as a
	// compare-and-swap: it fails with a domain error unless the rental is
	// AWAITING_HANDOVER and the party has not confirmed before. When the
	// other party's flag is already set, the same statement flips the
	// rental to ACTIVE and stamps the actual start. Returns whether this
	// confirmation was the activating one.
	ConfirmHandover(ctx context.Context, rentalID int32, party domain.RentalParty, now time.Time) (bool, error)

	// Status transitions below are compare-and-swaps on the expected prior
	// status; a mismatch surfaces domain.ErrInvalidState (or
	// domain.ErrRentalNotFound when the row is missing) with no mutation.
	MarkAwaitingHandover(ctx context.Context, rentalID int32) error
	MarkCancelled(ctx context.Context, rentalID int32) error
	MarkDisputed(ctx context.Context, rentalID int32) error
	CompleteFromDispute(ctx context.Context, rentalID int32, now time.Time) error

	ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error)
	ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Rental, int32, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error)
}

type LedgerRepository interface {
	// CreateTransaction appends one immutable ledger entry.
	CreateTransaction(ctx context.Context, tx *domain.WalletTransaction) error
	GetWalletBalance(ctx context.Context, userID int32) (*domain.WalletBalance, error)
	ListTransactions(ctx context.Context, userID int32, page, pageSize int32) ([]domain.WalletTransaction, int32, error)

	// ReleasePending advances COMPLETED credits from PENDING to AVAILABLE
	// for entries created before the cutoff. Forward-only; returns the
	// user ID of each advanced entry, one element per entry.
	ReleasePending(ctx context.Context, before time.Time) ([]int32, error)

	// IncrementBalance adjusts the cached per-user balance counter. The
	// counter is an optimization only; the ledger stays authoritative.
	IncrementBalance(ctx context.Context, userID int32, deltaCents int64) error
}

type DisputeRepository interface {
	Create(ctx context.Context, d *domain.Dispute) error
	GetByID(ctx context.Context, id int32) (*domain.Dispute, error)
	// GetOpenByRental returns the rental's non-resolved dispute, or
	// domain.ErrDisputeNotFound when there is none.
	GetOpenByRental(ctx context.Context, rentalID int32) (*domain.Dispute, error)
	// Resolve stamps the resolution onto a non-resolved dispute as a
	// compare-and-swap on status.
	Resolve(ctx context.Context, disputeID, moderatorID int32, decision string, refundCents, ownerCompCents int32, now time.Time) error
	ListByRental(ctx context.Context, rentalID int32) ([]domain.Dispute, error)
}

type DepositRepository interface {
	Create(ctx context.Context, d *domain.Deposit) error
	GetByID(ctx context.Context, id int32) (*domain.Deposit, error)
	// Hold sets HELD unconditionally (admin intervention, no prior-state
	// precondition).
	Hold(ctx context.Context, depositID int32, reason string) error
	// Transition moves a deposit out of HELD as a compare-and-swap;
	// domain.ErrInvalidState when the deposit is not currently held.
	Transition(ctx context.Context, depositID int32, to domain.DepositStatus, reason string) error
}

type TimelineRepository interface {
	// Append writes the next event for the rental, assigning the next
	// sequence number. Append-only; rows are never updated.
	Append(ctx context.Context, rentalID int32, event string, actorID int32, details map[string]string) error
	ListByRental(ctx context.Context, rentalID int32) ([]domain.TimelineEvent, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}
