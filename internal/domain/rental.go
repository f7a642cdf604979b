package domain

import "time"

type RentalStatus string

const (
	RentalStatusPending          RentalStatus = "PENDING"
	RentalStatusApproved         RentalStatus = "APPROVED"
	RentalStatusAwaitingHandover RentalStatus = "AWAITING_HANDOVER"
	RentalStatusActive           RentalStatus = "ACTIVE"
	RentalStatusDisputed         RentalStatus = "DISPUTED"
	RentalStatusCompleted        RentalStatus = "COMPLETED"
	RentalStatusRejected         RentalStatus = "REJECTED"
	RentalStatusCancelled        RentalStatus = "CANCELLED"
)

// IsTerminal reports whether no further lifecycle transition is legal.
func (s RentalStatus) IsTerminal() bool {
	return s == RentalStatusCompleted || s == RentalStatusRejected || s == RentalStatusCancelled
}

type RentalParty string

const (
	RentalPartyRenter RentalParty = "RENTER"
	RentalPartyOwner  RentalParty = "OWNER"
)

func (p RentalParty) Other() RentalParty {
	if p == RentalPartyRenter {
		return RentalPartyOwner
	}
	return RentalPartyRenter
}

// Pricing is the cost snapshot captured when the rental request is approved.
// All money movement for the rental uses this snapshot, not live item prices.
type Pricing struct {
	DailyRateCents       int32  `json:"daily_rate_cents"`
	SubtotalCents        int32  `json:"subtotal_cents"`
	PlatformFeeCents     int32  `json:"platform_fee_cents"`
	SecurityDepositCents int32  `json:"security_deposit_cents"`
	TotalCents           int32  `json:"total_cents"`
	Currency             string `json:"currency"`
}

// Handover tracks the dual confirmation that activates a rental.
// Each flag is set at most once and never unset.
type Handover struct {
	RenterConfirmed   bool       `json:"renter_confirmed"`
	RenterConfirmedAt *time.Time `json:"renter_confirmed_at,omitempty"`
	OwnerConfirmed    bool       `json:"owner_confirmed"`
	OwnerConfirmedAt  *time.Time `json:"owner_confirmed_at,omitempty"`
}

// ConfirmedBy reports whether the given party has already confirmed.
func (h Handover) ConfirmedBy(p RentalParty) bool {
	if p == RentalPartyRenter {
		return h.RenterConfirmed
	}
	return h.OwnerConfirmed
}

type Rental struct {
	ID             int32        `json:"id"`
	OwnerID        int32        `json:"owner_id"`
	RenterID       int32        `json:"renter_id"`
	ItemID         int32        `json:"item_id"`
	Status         RentalStatus `json:"status"`
	RequestedStart time.Time    `json:"requested_start"`
	RequestedEnd   time.Time    `json:"requested_end"`
	ConfirmedStart *time.Time   `json:"confirmed_start,omitempty"`
	ConfirmedEnd   *time.Time   `json:"confirmed_end,omitempty"`
	ActualStart    *time.Time   `json:"actual_start,omitempty"`
	ActualEnd      *time.Time   `json:"actual_end,omitempty"`
	Pricing        Pricing      `json:"pricing"`
	Handover       Handover     `json:"handover"`
	CreatedOn      time.Time    `json:"created_on"`
	UpdatedOn      time.Time    `json:"updated_on"`
}

// PartyOf returns which side of the rental the user is on, or "" if neither.
func (r *Rental) PartyOf(userID int32) RentalParty {
	switch userID {
	case r.RenterID:
		return RentalPartyRenter
	case r.OwnerID:
		return RentalPartyOwner
	}
	return ""
}
