package domain

import "time"

type User struct {
	ID          int32  `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url"`
	DeviceToken string `json:"-"` // FCM registration token, empty when push is not set up
	// BalanceCents is a cached counter only. The ledger is the source of
	// truth; this value is rebuilt from it and must never be treated as
	// authoritative.
	BalanceCents        int64      `json:"balance_cents"`
	LastBalanceUpdateOn *time.Time `json:"last_balance_update_on,omitempty"`
	CreatedOn           time.Time  `json:"created_on"`
	UpdatedOn           time.Time  `json:"updated_on"`
}
