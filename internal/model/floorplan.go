package model

import "time"

// FloorPlan is the aggregate root for one floor's 2D layout. Version is
// bumped exactly once per successful mutating call and is read by clients to
// detect that the plan changed since they last loaded it.
type FloorPlan struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	FloorID         int64     `gorm:"uniqueIndex;not null" json:"floorId"`
	Name            string    `gorm:"size:128;not null" json:"name"`
	CanvasWidth     int       `gorm:"not null;default:800" json:"canvasWidth"`
	CanvasHeight    int       `gorm:"not null;default:600" json:"canvasHeight"`
	GridSize        int       `gorm:"not null;default:10" json:"gridSize"`
	BackgroundColor string    `gorm:"size:32;default:'#ffffff'" json:"backgroundColor"`
	Version         int64     `gorm:"not null;default:1" json:"version"`
	CreatedAt       time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"not null" json:"updatedAt"`

	// Associations
	Elements []FloorPlanElement `gorm:"foreignKey:FloorPlanID" json:"elements,omitempty"`
	Racks    []Rack             `gorm:"foreignKey:FloorPlanID" json:"racks,omitempty"`
}
