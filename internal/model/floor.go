package model

import "time"

// Floor represents one level of a substation. Each floor owns at most one
// floor plan.
type Floor struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	SubstationID int64     `gorm:"index;not null" json:"substationId"`
	Name         string    `gorm:"size:128;not null" json:"name"`
	Level        int       `json:"level"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" json:"updatedAt"`

	// Associations
	Substation Substation `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
