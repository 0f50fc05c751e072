// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the cell kinds a level is built from and the mapping from
// request map symbols to those kinds.
package model

// CellKind is the type of a single grid cell.
type CellKind int

const (
	Empty CellKind = iota
	Wall
	Start
	Finish
)

// Map symbols understood by the validator. Anything else is an empty cell.
const (
	SymbolWall   = "W"
	SymbolStart  = "S"
	SymbolFinish = "F"
	SymbolEmpty  = "E"
)

// String implements fmt.Stringer.
func (k CellKind) String() string {
	switch k {
	case Wall:
		return "wall"
	case Start:
		return "start"
	case Finish:
		return "finish"
	default:
		return "empty"
	}
}

// KindForSymbol maps a request map symbol to its cell kind. The mapping is
// total; unrecognized symbols are Empty.
func KindForSymbol(symbol string) CellKind {
	switch symbol {
	case SymbolWall:
		return Wall
	case SymbolStart:
		return Start
	case SymbolFinish:
		return Finish
	default:
		return Empty
	}
}
