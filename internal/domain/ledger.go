package domain

import "time"

type TransactionType string

const (
	TransactionTypeRentalPayment  TransactionType = "RENTAL_PAYMENT"
	TransactionTypeRentalIncome   TransactionType = "RENTAL_INCOME"
	TransactionTypeDepositRelease TransactionType = "DEPOSIT_RELEASE"
	TransactionTypeDepositRefund  TransactionType = "DEPOSIT_REFUND"
	TransactionTypeFee            TransactionType = "FEE"
	TransactionTypeWithdrawal     TransactionType = "WITHDRAWAL"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// AvailabilityStatus is a ledger entry's custody state. It may advance
// exactly once, PENDING->AVAILABLE or LOCKED->AVAILABLE, never backward.
type AvailabilityStatus string

const (
	AvailabilityAvailable AvailabilityStatus = "AVAILABLE"
	AvailabilityPending   AvailabilityStatus = "PENDING"
	AvailabilityLocked    AvailabilityStatus = "LOCKED"
)

// WalletTransaction is an immutable record of one monetary movement
// affecting one user's wallet. Entries are appended, never mutated,
// except for the forward-only availability transition.
type WalletTransaction struct {
	ID              int32              `json:"id"`
	Reference       string             `json:"reference"` // uuid, stable across retries
	UserID          int32              `json:"user_id"`
	Type            TransactionType    `json:"type"`
	AmountCents     int32              `json:"amount_cents"` // positive for credit, negative for debit
	Currency        string             `json:"currency"`
	Status          TransactionStatus  `json:"status"`
	Availability    AvailabilityStatus `json:"availability_status"`
	RelatedRentalID *int32             `json:"related_rental_id,omitempty"`
	RelatedItemID   *int32             `json:"related_item_id,omitempty"`
	NetAmountCents  int32              `json:"net_amount_cents"`
	Description     string             `json:"description"`
	CreatedOn       time.Time          `json:"created_on"`
	ProcessedOn     *time.Time         `json:"processed_on,omitempty"`
}

// WalletBalance is the read-model computed from completed ledger credits.
// Total is always the sum of the three buckets.
type WalletBalance struct {
	AvailableCents int64  `json:"available_cents"`
	PendingCents   int64  `json:"pending_cents"`
	LockedCents    int64  `json:"locked_cents"`
	TotalCents     int64  `json:"total_cents"`
	Currency       string `json:"currency"`
}
