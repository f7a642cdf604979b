package domain

import "time"

// Timeline event names. The timeline is an append-only log keyed by
// (rental_id, seq); rows are never updated or deleted.
const (
	EventHandoverConfirmedByRenter = "HANDOVER_CONFIRMED_BY_RENTER"
	EventHandoverConfirmedByOwner  = "HANDOVER_CONFIRMED_BY_OWNER"
	EventRentalActivated           = "RENTAL_ACTIVATED"
	EventDisputeOpened             = "DISPUTE_OPENED"
	EventDisputeEvidenceRecorded   = "DISPUTE_EVIDENCE_RECORDED"
	EventDisputeResolved           = "DISPUTE_RESOLVED"
	EventPaymentCaptured           = "PAYMENT_CAPTURED"
	EventPaymentFailed             = "PAYMENT_FAILED"
	EventDepositHeld               = "DEPOSIT_HELD"
	EventDepositReleased           = "DEPOSIT_RELEASED"
	EventDepositPartiallyReleased  = "DEPOSIT_PARTIALLY_RELEASED"
)

type TimelineEvent struct {
	ID        int64             `json:"id"`
	RentalID  int32             `json:"rental_id"`
	Seq       int32             `json:"seq"`
	Event     string            `json:"event"`
	ActorID   int32             `json:"actor_id"`
	Details   map[string]string `json:"details,omitempty"`
	CreatedOn time.Time         `json:"created_on"`
}
