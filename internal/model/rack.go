package model

import "time"

// Rack is a physical rack drawn on a floor plan. Name is unique within its
// plan (exact, case-sensitive). TotalU is the vertical slot capacity; usage
// figures are derived from equipment on read, never stored.
type Rack struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	FloorPlanID int64     `gorm:"not null;uniqueIndex:idx_plan_rack_name,priority:1" json:"floorPlanId"`
	Name        string    `gorm:"size:128;not null;uniqueIndex:idx_plan_rack_name,priority:2" json:"name"`
	Code        string    `gorm:"size:64" json:"code,omitempty"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Width       float64   `gorm:"not null;default:60" json:"width"`
	Height      float64   `gorm:"not null;default:100" json:"height"`
	Rotation    float64   `gorm:"not null;default:0" json:"rotation"`
	TotalU      int       `gorm:"not null;default:12" json:"totalU"`
	FrontImage  string    `gorm:"size:256" json:"frontImage,omitempty"`
	RearImage   string    `gorm:"size:256" json:"rearImage,omitempty"`
	SortOrder   int       `gorm:"not null;default:0" json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Associations
	FloorPlan FloorPlan   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Equipment []Equipment `gorm:"foreignKey:RackID" json:"equipment,omitempty"`
}
