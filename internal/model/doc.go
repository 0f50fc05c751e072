// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the normalized, immutable representation of a maze
// level. Its core purpose is to turn the raw symbol map from a run request into
// a strongly-typed grid with a single, well-defined world coordinate system.
//
// # Core Concepts
//
//   - CellKind: the closed set of cell types (Empty, Wall, Start, Finish). The
//     symbol mapping is total: unknown symbols are Empty, never an error.
//
//   - Grid: the validated level. It is created once per request and is
//     read-only afterwards, so it can be shared by the terminal evaluator, the
//     boundary sensor callback, and the scene adapter without locking.
//
// # Coordinates
//
// Grid rows map to the world X axis and columns to the world Z axis. The grid
// extent is centered on the origin, so a grid of R rows and C columns with cell
// size s spans [-R*s/2, +R*s/2) on X and [-C*s/2, +C*s/2) on Z. Every interval
// is half-open; IsWithinBounds is the single source of truth for "inside the
// level".
package model
