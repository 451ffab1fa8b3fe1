package model

import (
	"time"

	"gorm.io/datatypes"
)

// Equipment occupies a contiguous U-slot range inside exactly one rack:
// [StartU, StartU+HeightU-1], 1-based from the rack bottom. Placement is
// validated by the slot allocator before any write.
type Equipment struct {
	ID         int64          `gorm:"primaryKey" json:"id"`
	RackID     int64          `gorm:"index;not null" json:"rackId"`
	Name       string         `gorm:"size:128;not null" json:"name"`
	StartU     int            `gorm:"not null" json:"startU"`
	HeightU    int            `gorm:"not null" json:"heightU"`
	Attributes datatypes.JSON `json:"attributes,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`

	// Associations
	Rack Rack `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// EndU returns the highest U index this equipment covers.
func (e Equipment) EndU() int {
	return e.StartU + e.HeightU - 1
}
