// Package gridgraph treats a 2D grid of cells as a graph.
//
// What:
//
//   - GridGraph wraps a rectangular [][]int grid with a tunable LandThreshold.
//   - Index and Coordinate convert between (x,y) and row-major indices.
//   - Step moves one cell in a compass direction when the target exists.
//   - ConnectedComponents finds the regions of cells with value ≥ LandThreshold.
//
// The Chimera unit-cell grid is one GridGraph: its values count the working
// qubits of each cell, and its land is the set of fully working cells.
//
// Complexity:
//
//   - NewGridGraph:        O(W×H), Memory: O(W×H).
//   - Index, Coordinate, InBounds, Step: O(1).
//   - ConnectedComponents: O(W×H×d), Memory: O(W×H)    (d = 4 or 8 neighbors).
//
// Errors:
//
//   - ErrEmptyGrid: input grid has no rows or no columns.
//   - ErrNonRectangular: rows have differing lengths.
package gridgraph
