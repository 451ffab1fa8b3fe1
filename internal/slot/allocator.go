// Package slot validates rack U-slot placements and enumerates free space.
// It operates on plain occupant values so callers decide where the data comes
// from; nothing in here mutates state.
package slot

import (
	"sort"

	"rackplan-backend/internal/geometry"
)

// Occupant is the slice of an equipment row the allocator cares about.
type Occupant struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	StartU  int    `json:"startU"`
	HeightU int    `json:"heightU"`
}

// EndU returns the highest U index the occupant covers.
func (o Occupant) EndU() int {
	return o.StartU + o.HeightU - 1
}

// Range is a maximal contiguous run of free U slots, endpoints inclusive.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ValidatePlacement checks a proposed placement [startU, startU+heightU-1]
// against the rack capacity and the given occupants. excludeID removes the
// entity being moved/resized from consideration; pass 0 for a fresh create.
//
// Range checks run before any overlap test. On collision the returned error
// names the lowest-starting conflicting occupant.
func ValidatePlacement(totalU int, occupants []Occupant, startU, heightU int, excludeID int64) error {
	if startU < 1 {
		return &OutOfRangeError{Reason: ReasonBelowRack, StartU: startU, HeightU: heightU, TotalU: totalU}
	}
	if heightU < 1 {
		return &OutOfRangeError{Reason: ReasonNonPositiveHeight, StartU: startU, HeightU: heightU, TotalU: totalU}
	}
	endU := startU + heightU - 1
	if endU > totalU {
		return &OutOfRangeError{Reason: ReasonExceedsCapacity, StartU: startU, HeightU: heightU, TotalU: totalU}
	}

	sorted := make([]Occupant, 0, len(occupants))
	for _, o := range occupants {
		if excludeID != 0 && o.ID == excludeID {
			continue
		}
		sorted = append(sorted, o)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartU < sorted[j].StartU })

	for _, o := range sorted {
		if geometry.IntervalsOverlap(startU, endU, o.StartU, o.EndU()) {
			return &ConflictError{Occupant: o}
		}
	}
	return nil
}

// FreeRanges returns every maximal run of unoccupied U slots in [1, totalU],
// in ascending order. A fully occupied rack yields an empty slice; an empty
// rack yields the single range {1, totalU}.
func FreeRanges(totalU int, occupants []Occupant) []Range {
	if totalU < 1 {
		return []Range{}
	}

	occupied := make([]bool, totalU+1) // index 0 unused
	for _, o := range occupants {
		for u := o.StartU; u <= o.EndU(); u++ {
			if u >= 1 && u <= totalU {
				occupied[u] = true
			}
		}
	}

	ranges := []Range{}
	start := 0
	for u := 1; u <= totalU; u++ {
		if !occupied[u] {
			if start == 0 {
				start = u
			}
			continue
		}
		if start != 0 {
			ranges = append(ranges, Range{Start: start, End: u - 1})
			start = 0
		}
	}
	if start != 0 {
		ranges = append(ranges, Range{Start: start, End: totalU})
	}
	return ranges
}

// UsedU sums the slots covered by all occupants.
func UsedU(occupants []Occupant) int {
	total := 0
	for _, o := range occupants {
		total += o.HeightU
	}
	return total
}
