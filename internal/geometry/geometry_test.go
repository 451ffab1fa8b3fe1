package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapToGrid(t *testing.T) {
	testCases := []struct {
		name       string
		x, y       float64
		gridSize   float64
		expX, expY float64
	}{
		{name: "Already on grid", x: 20, y: 40, gridSize: 10, expX: 20, expY: 40},
		{name: "Rounds down", x: 23, y: 41, gridSize: 10, expX: 20, expY: 40},
		{name: "Rounds up", x: 27, y: 46, gridSize: 10, expX: 30, expY: 50},
		{name: "Midpoint rounds away from zero", x: 25, y: 35, gridSize: 10, expX: 30, expY: 40},
		{name: "Negative coordinates", x: -13, y: -17, gridSize: 5, expX: -15, expY: -15},
		{name: "Zero grid disables snapping", x: 13.7, y: 9.2, gridSize: 0, expX: 13.7, expY: 9.2},
		{name: "Negative grid disables snapping", x: 13.7, y: 9.2, gridSize: -4, expX: 13.7, expY: 9.2},
		{name: "Fractional grid", x: 1.3, y: 1.4, gridSize: 0.5, expX: 1.5, expY: 1.5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gotX, gotY := SnapToGrid(tc.x, tc.y, tc.gridSize)
			assert.InDelta(t, tc.expX, gotX, 1e-9)
			assert.InDelta(t, tc.expY, gotY, 1e-9)
		})
	}
}

func TestUToPixelOffset(t *testing.T) {
	// U 1 is the bottom slot: a 42U rack with 20px slots puts it 820px down.
	assert.InDelta(t, 820.0, UToPixelOffset(1, 42, 20), 1e-9)
	// Top slot sits flush with the rack's top edge.
	assert.InDelta(t, 0.0, UToPixelOffset(42, 42, 20), 1e-9)
	assert.InDelta(t, 100.0, UToPixelOffset(7, 12, 20), 1e-9)
}

func TestPixelOffsetToU(t *testing.T) {
	testCases := []struct {
		name     string
		offset   float64
		totalU   int
		uHeight  float64
		expected int
	}{
		{name: "Top edge is top slot", offset: 0, totalU: 12, uHeight: 20, expected: 12},
		{name: "Bottom slot", offset: 220, totalU: 12, uHeight: 20, expected: 1},
		{name: "Middle of a slot", offset: 110, totalU: 12, uHeight: 20, expected: 7},
		{name: "Above the rack clamps to totalU", offset: -50, totalU: 12, uHeight: 20, expected: 12},
		{name: "Below the rack clamps to 1", offset: 9999, totalU: 12, uHeight: 20, expected: 1},
		{name: "Degenerate slot height", offset: 40, totalU: 12, uHeight: 0, expected: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, PixelOffsetToU(tc.offset, tc.totalU, tc.uHeight))
		})
	}
}

func TestPixelOffsetRoundTrip(t *testing.T) {
	const totalU, uHeight = 42, 22.0
	for u := 1; u <= totalU; u++ {
		offset := UToPixelOffset(u, totalU, uHeight)
		assert.Equal(t, u, PixelOffsetToU(offset, totalU, uHeight), "u=%d", u)
	}
}

func TestIntervalsOverlap(t *testing.T) {
	testCases := []struct {
		name                           string
		startA, endA, startB, endB     int
		expected                       bool
	}{
		{name: "Disjoint below", startA: 1, endA: 2, startB: 4, endB: 6, expected: false},
		{name: "Disjoint above", startA: 8, endA: 10, startB: 4, endB: 6, expected: false},
		{name: "Touching endpoints overlap", startA: 1, endA: 4, startB: 4, endB: 6, expected: true},
		{name: "Contained", startA: 5, endA: 5, startB: 4, endB: 6, expected: true},
		{name: "Containing", startA: 1, endA: 10, startB: 4, endB: 6, expected: true},
		{name: "Partial", startA: 3, endA: 5, startB: 4, endB: 6, expected: true},
		{name: "Adjacent do not overlap", startA: 1, endA: 3, startB: 4, endB: 6, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IntervalsOverlap(tc.startA, tc.endA, tc.startB, tc.endB))
			// Overlap is symmetric.
			assert.Equal(t, tc.expected, IntervalsOverlap(tc.startB, tc.endB, tc.startA, tc.endA))
		})
	}
}
