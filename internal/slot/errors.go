package slot

import "fmt"

// OutOfRangeReason classifies why a placement missed the rack entirely.
type OutOfRangeReason string

const (
	ReasonBelowRack         OutOfRangeReason = "below rack"
	ReasonNonPositiveHeight OutOfRangeReason = "non-positive height"
	ReasonExceedsCapacity   OutOfRangeReason = "exceeds capacity"
)

// OutOfRangeError reports a placement that violates the rack's bounds.
type OutOfRangeError struct {
	Reason  OutOfRangeReason
	StartU  int
	HeightU int
	TotalU  int
}

func (e *OutOfRangeError) Error() string {
	switch e.Reason {
	case ReasonBelowRack:
		return fmt.Sprintf("placement out of range: startU %d is below the rack (minimum 1)", e.StartU)
	case ReasonNonPositiveHeight:
		return fmt.Sprintf("placement out of range: heightU %d must be at least 1", e.HeightU)
	default:
		return fmt.Sprintf("placement out of range: end U %d exceeds rack capacity %d",
			e.StartU+e.HeightU-1, e.TotalU)
	}
}

// ConflictError reports an overlap with an existing occupant, including the
// range it holds so the caller can render a precise message.
type ConflictError struct {
	Occupant Occupant
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("placement conflicts with %q (id %d) occupying U%d-U%d",
		e.Occupant.Name, e.Occupant.ID, e.Occupant.StartU, e.Occupant.EndU())
}
