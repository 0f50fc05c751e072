// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file implements map validation: the only way to obtain a Grid.
package model

import (
	"errors"
	"fmt"
)

// ErrInvalidMap is wrapped by every error returned from Validate.
var ErrInvalidMap = errors.New("invalid map")

// Validate checks a raw symbol map and converts it into a Grid. The map must
// be non-empty and rectangular, and it must contain exactly one start and
// exactly one finish symbol. A non-positive cellSize selects DefaultCellSize.
func Validate(m [][]string, cellSize float64) (*Grid, error) {
	if len(m) == 0 {
		return nil, fmt.Errorf("%w: map must contain at least one row", ErrInvalidMap)
	}
	if len(m[0]) == 0 {
		return nil, fmt.Errorf("%w: map must contain at least one column", ErrInvalidMap)
	}
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}

	rows, cols := len(m), len(m[0])
	cells := make([][]CellKind, rows)
	var starts, finishes []Cell

	for row, symbols := range m {
		if symbols == nil {
			return nil, fmt.Errorf("%w: map row %d is null", ErrInvalidMap, row)
		}
		if len(symbols) != cols {
			return nil, fmt.Errorf("%w: map must be rectangular (row %d has %d cells, expected %d)", ErrInvalidMap, row, len(symbols), cols)
		}

		cells[row] = make([]CellKind, cols)
		for col, symbol := range symbols {
			kind := KindForSymbol(symbol)
			cells[row][col] = kind
			switch kind {
			case Start:
				starts = append(starts, Cell{Row: row, Col: col})
			case Finish:
				finishes = append(finishes, Cell{Row: row, Col: col})
			}
		}
	}

	if len(starts) != 1 {
		return nil, fmt.Errorf("%w: map must contain exactly one %s (Start), found %d", ErrInvalidMap, SymbolStart, len(starts))
	}
	if len(finishes) != 1 {
		return nil, fmt.Errorf("%w: map must contain exactly one %s (Finish), found %d", ErrInvalidMap, SymbolFinish, len(finishes))
	}

	return &Grid{
		cells:    cells,
		rows:     rows,
		cols:     cols,
		cellSize: cellSize,
		start:    starts[0],
		finish:   finishes[0],
	}, nil
}
