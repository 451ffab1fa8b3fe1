// Package geometry holds the pure coordinate helpers shared by the slot
// allocator and the plan editor: grid snapping, U-slot/pixel conversion and
// interval overlap tests. Nothing in here touches storage.
package geometry

import "math"

// SnapToGrid rounds both coordinates to the nearest multiple of gridSize.
// A non-positive gridSize disables snapping and returns the input unchanged.
func SnapToGrid(x, y, gridSize float64) (float64, float64) {
	if gridSize <= 0 {
		return x, y
	}
	return math.Round(x/gridSize) * gridSize, math.Round(y/gridSize) * gridSize
}

// UToPixelOffset converts a 1-based U index into a vertical pixel offset
// measured downward from the rack's top edge. U 1 is the bottom-most slot,
// so U totalU sits at offset 0.
func UToPixelOffset(u, totalU int, uHeightPx float64) float64 {
	return float64(totalU-u) * uHeightPx
}

// PixelOffsetToU is the inverse of UToPixelOffset. The result is clamped to
// [1, totalU], so out-of-canvas input never yields an out-of-range slot.
func PixelOffsetToU(offset float64, totalU int, uHeightPx float64) int {
	if uHeightPx <= 0 || totalU < 1 {
		return 1
	}
	u := totalU - int(math.Floor(offset/uHeightPx))
	if u < 1 {
		return 1
	}
	if u > totalU {
		return totalU
	}
	return u
}

// IntervalsOverlap reports whether the inclusive integer intervals
// [startA, endA] and [startB, endB] share at least one point.
func IntervalsOverlap(startA, endA, startB, endB int) bool {
	return !(endA < startB || startA > endB)
}
