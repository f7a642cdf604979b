package domain

import "time"

type DisputeStatus string

const (
	DisputeStatusOpen        DisputeStatus = "OPEN"
	DisputeStatusUnderReview DisputeStatus = "UNDER_REVIEW"
	DisputeStatusResolved    DisputeStatus = "RESOLVED"
)

// Dispute is a claim raised by one rental party, resolved by a moderator
// who decides how the security deposit splits between renter refund and
// owner compensation. A rental holds at most one non-resolved dispute.
type Dispute struct {
	ID          int32         `json:"id"`
	RentalID    int32         `json:"rental_id"`
	Status      DisputeStatus `json:"status"`
	InitiatedBy RentalParty   `json:"initiated_by"`
	InitiatorID int32         `json:"initiator_id"`
	Reason      string        `json:"reason"`
	Evidence    []string      `json:"evidence,omitempty"`
	InitiatedAt time.Time     `json:"initiated_at"`

	// Resolution fields, set once when status becomes RESOLVED.
	ModeratorID            *int32     `json:"moderator_id,omitempty"`
	Decision               string     `json:"decision,omitempty"`
	RefundAmountCents      int32      `json:"refund_amount_cents"`
	OwnerCompensationCents int32      `json:"owner_compensation_cents"`
	ResolvedAt             *time.Time `json:"resolved_at,omitempty"`
}
