package entity

import "time"

// ReferralCode is the single redeemable code a user may own. The code column
// stores the signed token verbatim; validation compares the presented token
// against it. No soft delete: a revoked code must free the user_id unique
// slot so a new code can be issued.
type ReferralCode struct {
	ID        string `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	UserID string `gorm:"uniqueIndex;not null"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	Code string `gorm:"size:512;unique;not null"`
}
