package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMap() [][]string {
	return [][]string{
		{"S", "E", "E"},
		{"W", "E", "E"},
		{"E", "E", "F"},
	}
}

func TestGrid_CellCentersAreWithinBounds(t *testing.T) {
	t.Parallel()

	maps := map[string][][]string{
		"square": sampleMap(),
		"wide":   {{"S", "E", "E", "E", "E", "F"}},
		"tall":   {{"S"}, {"W"}, {"E"}, {"F"}},
	}

	for name, m := range maps {
		t.Run(name, func(t *testing.T) {
			grid, err := Validate(m, 0)
			require.NoError(t, err)

			for row := 0; row < grid.Rows(); row++ {
				for col := 0; col < grid.Cols(); col++ {
					x, z := grid.CellCenter(row, col)
					assert.True(t, grid.IsWithinBounds(x, z), "center of (%d,%d) = (%v,%v) must be inside", row, col, x, z)

					cell, ok := grid.CellAt(x, z)
					require.True(t, ok)
					assert.Equal(t, Cell{Row: row, Col: col}, cell)
				}
			}
		})
	}
}

func TestGrid_BoundsAreCenteredAndHalfOpen(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	grid, err := Validate(sampleMap(), 10)
	require.NoError(t, err)

	// --- Assert ---
	ex, ez := grid.Extent()
	assert.Equal(t, 30.0, ex)
	assert.Equal(t, 30.0, ez)

	assert.True(t, grid.IsWithinBounds(-15, -15), "min corner is inclusive")
	assert.False(t, grid.IsWithinBounds(15, 0), "max X edge is exclusive")
	assert.False(t, grid.IsWithinBounds(0, 15), "max Z edge is exclusive")
	assert.True(t, grid.IsWithinBounds(14.999, 14.999))
	assert.False(t, grid.IsWithinBounds(1000, 1000))
	assert.False(t, grid.IsWithinBounds(-15.001, 0))
}

func TestGrid_CellCenterFormula(t *testing.T) {
	t.Parallel()

	grid, err := Validate(sampleMap(), 10)
	require.NoError(t, err)

	x, z := grid.CellCenter(0, 0)
	assert.Equal(t, -10.0, x)
	assert.Equal(t, -10.0, z)

	x, z = grid.CellCenter(2, 2)
	assert.Equal(t, 10.0, x)
	assert.Equal(t, 10.0, z)

	// Row drives X, column drives Z.
	x, z = grid.CellCenter(2, 0)
	assert.Equal(t, 10.0, x)
	assert.Equal(t, -10.0, z)
}

func TestGrid_FinishRect(t *testing.T) {
	t.Parallel()

	grid, err := Validate(sampleMap(), 10)
	require.NoError(t, err)

	assert.Equal(t, Rect{MinX: 5, MaxX: 15, MinZ: 5, MaxZ: 15}, grid.CellRect(2, 2))
	assert.True(t, grid.IsFinish(grid.CellCenter(2, 2)))
	assert.True(t, grid.IsFinish(5, 5))
	assert.False(t, grid.IsFinish(4.99, 5))
	assert.False(t, grid.IsFinish(grid.CellCenter(0, 0)))
}

func TestGrid_AtOutOfRangeIsEmpty(t *testing.T) {
	t.Parallel()

	grid, err := Validate(sampleMap(), 10)
	require.NoError(t, err)

	assert.Equal(t, Wall, grid.At(1, 0))
	assert.Equal(t, Start, grid.At(0, 0))
	assert.Equal(t, Empty, grid.At(-1, 0))
	assert.Equal(t, Empty, grid.At(3, 3))
}
