package model

import (
	"time"

	"gorm.io/datatypes"
)

// FloorPlanElement is a non-rack drawable (wall, door, window, column, ...).
// Properties is an opaque payload whose shape depends on ElementType; it is
// stored and round-tripped as-is so unknown element types survive untouched.
type FloorPlanElement struct {
	ID          int64          `gorm:"primaryKey" json:"id"`
	FloorPlanID int64          `gorm:"index;not null" json:"floorPlanId"`
	ElementType string         `gorm:"size:64;not null" json:"elementType"`
	Properties  datatypes.JSON `json:"properties"`
	// Defaults are applied in code on create; a default tag here would make
	// gorm drop an explicit false/0.
	ZIndex    int       `gorm:"not null" json:"zIndex"`
	IsVisible bool      `gorm:"not null" json:"isVisible"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Associations
	FloorPlan FloorPlan `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
