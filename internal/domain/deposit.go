package domain

import "time"

type DepositStatus string

const (
	DepositStatusHeld          DepositStatus = "HELD"
	DepositStatusReleased      DepositStatus = "RELEASED"
	DepositStatusPartialRefund DepositStatus = "PARTIAL_REFUND"
)

// Deposit is the custody record for a rental's security deposit. Funds
// leave custody through full release, partial release, or a dispute
// resolution split; the record itself is never deleted.
type Deposit struct {
	ID          int32         `json:"id"`
	RentalID    int32         `json:"rental_id"`
	UserID      int32         `json:"user_id"` // depositor (the renter)
	AmountCents int32         `json:"amount_cents"`
	Currency    string        `json:"currency"`
	Status      DepositStatus `json:"status"`
	Reason      string        `json:"reason,omitempty"`
	CreatedOn   time.Time     `json:"created_on"`
	UpdatedOn   time.Time     `json:"updated_on"`
}
