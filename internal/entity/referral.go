package entity

import "time"

// Referral is a directed edge from the referring user to a user who
// registered with that referrer's code. Edges are append-only history; they
// are never updated.
type Referral struct {
	CreatedAt time.Time

	ReferrerID string `gorm:"primaryKey"`
	Referrer   User   `gorm:"foreignKey:ReferrerID"`

	ReferredID string `gorm:"primaryKey"`
	Referred   User   `gorm:"foreignKey:ReferredID"`
}
