package store

import (
	"errors"
	"fmt"
)

// Entity kinds used by NotFoundError.
const (
	KindFloorPlan = "floor plan"
	KindElement   = "floor plan element"
	KindRack      = "rack"
	KindEquipment = "equipment"
)

// NotFoundError reports a referenced entity that does not exist. It always
// aborts the enclosing operation.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// NameConflictError reports a duplicate rack name within one floor plan,
// naming the rack that already holds it.
type NameConflictError struct {
	Name   string
	RackID int64
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("rack name %q is already taken by rack %d in this floor plan", e.Name, e.RackID)
}

// VersionConflictError reports a stale BaseVersion on a bulk request.
type VersionConflictError struct {
	FloorPlanID int64
	Expected    int64
	Actual      int64
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("floor plan %d is at version %d, request was based on version %d",
		e.FloorPlanID, e.Actual, e.Expected)
}

var (
	// ErrRackNameRequired is returned when a rack create carries no name.
	ErrRackNameRequired = errors.New("rack name is required")

	// ErrInvalidTotalU is returned when a rack capacity below 1 is requested.
	ErrInvalidTotalU = errors.New("rack totalU must be at least 1")

	// ErrRackNotEmpty is returned when deleting a rack that still owns
	// equipment through the single-rack endpoint.
	ErrRackNotEmpty = errors.New("rack still owns equipment")

	// ErrFloorPlanExists is returned when a floor already has a plan.
	ErrFloorPlanExists = errors.New("floor already has a floor plan")
)
