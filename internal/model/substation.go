package model

import "time"

// Substation represents a facility site that contains floors.
type Substation struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Address   string    `gorm:"size:256" json:"address"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`

	// Associations
	Floors []Floor `gorm:"foreignKey:SubstationID" json:"floors,omitempty"`
}
