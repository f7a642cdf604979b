package domain

import "errors"

var (
	ErrRentalNotFound       = errors.New("rental not found")
	ErrDepositNotFound      = errors.New("deposit not found")
	ErrDisputeNotFound      = errors.New("dispute not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUnauthorized         = errors.New("caller is not a party to this rental")
	ErrInvalidState         = errors.New("operation not allowed in the current state")
	ErrAlreadyConfirmed     = errors.New("handover already confirmed by this party")
	ErrDisputeAlreadyOpen   = errors.New("rental already has an open dispute")
	ErrAmountOutOfRange     = errors.New("amount out of range")
	ErrValidation           = errors.New("validation failed")
)
