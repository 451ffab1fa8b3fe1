package model

import "time"

// PushSubscription holds a browser push subscription. Subscribers are
// notified when one of their floor plans is bumped to a new version.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	FloorPlans []*FloorPlan `gorm:"many2many:subscription_plan_mapping;"`
}
