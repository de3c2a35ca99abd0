// Package mapper turns a consolidation problem into a weighted qubit table
// whose minimum-energy state encodes an optimal placement.
//
// Three strategies are provided:
//
//   - Triangle: a single triangle of chains carries every assignment and
//     capacity variable; one OneMaxBar per server derives the activation bit.
//   - Matrix: one pair of triangles per server and metric pair, a MultiMaxBar
//     on the west edge for the assignment constraint and one OneMaxBar per
//     server on the east edge for activation. Used when there is more than
//     one metric.
//   - Qubo: one qubit per variable on a fully connected topology, used as a
//     reference for the penalty arithmetic of the other two.
//
// Every strategy places all variables on pairwise disjoint qubits, imposes
// the same penalty classes with analytically derived scalings, ties the
// qubits of every multi-qubit variable together and records the index
// tables a decoder needs. A strategy either returns a complete mapping or
// an error matching ErrInfeasibleEmbedding; it never returns a partial one.
package mapper
