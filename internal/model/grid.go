// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Grid structure, the validated and immutable level that
// every later stage of an attempt reads from.
//
// Why centered coordinates?
//
// The simulation places the level floor at the world origin. Centering the grid
// extent on the origin keeps the floor, the perimeter sensor, and the geometric
// bounds check in one frame of reference, so the trigger-driven boundary check
// and the per-tick check can never disagree about where the edge is.
package model

import "math"

// DefaultCellSize is the world size of one grid cell when none is configured.
const DefaultCellSize = 10.0

// Cell addresses a single grid cell.
type Cell struct {
	Row int
	Col int
}

// Rect is a half-open world rectangle: [MinX, MaxX) x [MinZ, MaxZ).
type Rect struct {
	MinX, MaxX float64
	MinZ, MaxZ float64
}

// Contains reports whether the world point lies inside the rectangle.
func (r Rect) Contains(x, z float64) bool {
	return x >= r.MinX && x < r.MaxX && z >= r.MinZ && z < r.MaxZ
}

// Grid is the normalized level. It is never mutated after Validate returns it.
type Grid struct {
	cells    [][]CellKind
	rows     int
	cols     int
	cellSize float64
	start    Cell
	finish   Cell
}

// Rows returns the number of rows (world X axis).
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns (world Z axis).
func (g *Grid) Cols() int { return g.cols }

// CellSize returns the world size of one cell.
func (g *Grid) CellSize() float64 { return g.cellSize }

// Start returns the start cell.
func (g *Grid) Start() Cell { return g.start }

// Finish returns the finish cell.
func (g *Grid) Finish() Cell { return g.finish }

// At returns the kind of the cell at row, col. Out-of-range addresses are
// reported as Empty.
func (g *Grid) At(row, col int) CellKind {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return Empty
	}
	return g.cells[row][col]
}

// Extent returns the world size of the grid along X and Z.
func (g *Grid) Extent() (x, z float64) {
	return float64(g.rows) * g.cellSize, float64(g.cols) * g.cellSize
}

// origin returns the world coordinate of the grid's minimum corner.
func (g *Grid) origin() (x, z float64) {
	ex, ez := g.Extent()
	return -ex / 2, -ez / 2
}

// CellCenter returns the world center of the cell at row, col.
func (g *Grid) CellCenter(row, col int) (x, z float64) {
	ox, oz := g.origin()
	half := g.cellSize / 2
	return ox + float64(row)*g.cellSize + half, oz + float64(col)*g.cellSize + half
}

// CellRect returns the world rectangle covered by the cell at row, col.
func (g *Grid) CellRect(row, col int) Rect {
	ox, oz := g.origin()
	minX := ox + float64(row)*g.cellSize
	minZ := oz + float64(col)*g.cellSize
	return Rect{
		MinX: minX,
		MaxX: minX + g.cellSize,
		MinZ: minZ,
		MaxZ: minZ + g.cellSize,
	}
}

// Bounds returns the world rectangle covered by the whole grid.
func (g *Grid) Bounds() Rect {
	ox, oz := g.origin()
	ex, ez := g.Extent()
	return Rect{MinX: ox, MaxX: ox + ex, MinZ: oz, MaxZ: oz + ez}
}

// IsWithinBounds reports whether the world point lies inside the level.
func (g *Grid) IsWithinBounds(x, z float64) bool {
	return g.Bounds().Contains(x, z)
}

// CellAt maps a world point to the cell containing it. ok is false when the
// point is outside the grid.
func (g *Grid) CellAt(x, z float64) (cell Cell, ok bool) {
	if !g.IsWithinBounds(x, z) {
		return Cell{}, false
	}
	ox, oz := g.origin()
	row := int(math.Floor((x - ox) / g.cellSize))
	col := int(math.Floor((z - oz) / g.cellSize))
	// Guard against float rounding pushing an in-bounds point onto the far edge.
	row = min(max(row, 0), g.rows-1)
	col = min(max(col, 0), g.cols-1)
	return Cell{Row: row, Col: col}, true
}

// IsFinish reports whether the world point lies inside the finish cell.
func (g *Grid) IsFinish(x, z float64) bool {
	return g.CellRect(g.finish.Row, g.finish.Col).Contains(x, z)
}
