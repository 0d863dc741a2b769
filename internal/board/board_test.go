package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSafeSquare(t *testing.T) {
	safe := []int{0, 8, 13, 21, 26, 34, 39, 47}
	for _, pos := range safe {
		assert.True(t, IsSafeSquare(pos), "cell %d must be safe", pos)
	}

	assert.False(t, IsSafeSquare(1))
	assert.False(t, IsSafeSquare(10))
	assert.False(t, IsSafeSquare(51))
	assert.False(t, IsSafeSquare(HomePosition))
	assert.False(t, IsSafeSquare(FinalPathStart))
}

func TestOnPerimeter(t *testing.T) {
	assert.False(t, OnPerimeter(HomePosition))
	assert.True(t, OnPerimeter(0))
	assert.True(t, OnPerimeter(PerimeterLength-1))
	assert.False(t, OnPerimeter(PerimeterLength))
	assert.False(t, OnPerimeter(Goal))
}

func TestOnFinalPath(t *testing.T) {
	assert.False(t, OnFinalPath(PerimeterLength-1))
	assert.True(t, OnFinalPath(FinalPathStart))
	assert.True(t, OnFinalPath(Goal-1))
	assert.False(t, OnFinalPath(Goal))
}

func TestEntryOffsets(t *testing.T) {
	// Every color has an entry cell, each on the perimeter and a quarter apart.
	assert.Len(t, EntryOffsets, MaxPlayers)

	for i, color := range Colors {
		offset, ok := EntryOffsets[color]
		assert.True(t, ok)
		assert.Equal(t, i*PerimeterLength/MaxPlayers, offset)
	}
}
