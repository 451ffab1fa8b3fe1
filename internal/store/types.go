package store

import "gorm.io/datatypes"

// BulkUpdateRequest is one atomic batch of floor-plan edits. Every field is
// independently omittable; an empty request is valid and still bumps the
// plan version.
type BulkUpdateRequest struct {
	// BaseVersion, when set, must match the plan's current version or the
	// whole call fails with a version conflict. Omitted means
	// last-writer-wins, which older clients rely on.
	BaseVersion *int64 `json:"baseVersion,omitempty"`

	DeletedElementIDs []int64       `json:"deletedElementIds,omitempty"`
	DeletedRackIDs    []int64       `json:"deletedRackIds,omitempty"`
	Elements          []ElementEdit `json:"elements,omitempty"`
	Racks             []RackEdit    `json:"racks,omitempty"`

	// Plan-level settings; only fields present are overwritten.
	CanvasWidth     *int    `json:"canvasWidth,omitempty"`
	CanvasHeight    *int    `json:"canvasHeight,omitempty"`
	GridSize        *int    `json:"gridSize,omitempty"`
	BackgroundColor *string `json:"backgroundColor,omitempty"`
}

// ElementEdit upserts one drawable element. A present ID means update in
// place; absent means create. Properties is opaque and stored as-is.
type ElementEdit struct {
	ID          *int64         `json:"id,omitempty"`
	ElementType string         `json:"elementType"`
	Properties  datatypes.JSON `json:"properties,omitempty"`
	ZIndex      *int           `json:"zIndex,omitempty"`
	IsVisible   *bool          `json:"isVisible,omitempty"`
}

// RackEdit upserts one rack. A present ID means update in place; absent
// means create, with defaults width 60, height 100, rotation 0, totalU 12.
type RackEdit struct {
	ID         *int64   `json:"id,omitempty"`
	Name       *string  `json:"name,omitempty"`
	Code       *string  `json:"code,omitempty"`
	X          *float64 `json:"x,omitempty"`
	Y          *float64 `json:"y,omitempty"`
	Width      *float64 `json:"width,omitempty"`
	Height     *float64 `json:"height,omitempty"`
	Rotation   *float64 `json:"rotation,omitempty"`
	TotalU     *int     `json:"totalU,omitempty"`
	FrontImage *string  `json:"frontImage,omitempty"`
	RearImage  *string  `json:"rearImage,omitempty"`
	SortOrder  *int     `json:"sortOrder,omitempty"`
}

// EquipmentEdit is a partial update of one equipment item.
type EquipmentEdit struct {
	Name       *string        `json:"name,omitempty"`
	StartU     *int           `json:"startU,omitempty"`
	HeightU    *int           `json:"heightU,omitempty"`
	Attributes datatypes.JSON `json:"attributes,omitempty"`
}

// BulkUpdateResult reports a committed bulk transaction.
type BulkUpdateResult struct {
	FloorPlanID int64 `json:"id"`
	NewVersion  int64 `json:"newVersion"`
}
