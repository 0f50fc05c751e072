package sim

import (
	"math"

	"github.com/vk/mazeharness/internal/model"
)

// laserSteps is how many samples the ray takes per cell.
const laserSteps = 20

// Laser measures the distance to the nearest wall straight ahead.
type Laser struct {
	MaxDistance float64
}

// Distance marches a ray from (x, z) along heading and returns the distance
// to the first wall cell, or MaxDistance if none is hit. Space outside the
// grid is open.
func (l Laser) Distance(grid *model.Grid, x, z, heading float64) float64 {
	if grid == nil || l.MaxDistance <= 0 {
		return l.MaxDistance
	}
	step := grid.CellSize() / laserSteps
	dx, dz := math.Sin(heading), math.Cos(heading)
	for d := step; d <= l.MaxDistance; d += step {
		if isWall(grid, x+dx*d, z+dz*d) {
			return d
		}
	}
	return l.MaxDistance
}

func isWall(grid *model.Grid, x, z float64) bool {
	if !grid.IsWithinBounds(x, z) {
		return false
	}
	cell, ok := grid.CellAt(x, z)
	return ok && grid.At(cell.Row, cell.Col) == model.Wall
}
