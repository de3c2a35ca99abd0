// Package matrix provides the row-major Dense store behind weight tables.
//
// What:
//
//   - Dense keeps r×c float64 values in one flat slice.
//   - At, Set and Add are bounds-checked and return wrapped sentinels.
//   - Row exposes one row as a slice view for tight scanning loops.
//
// Numeric policy:
//
//   - Set and Add reject NaN and ±Inf results with ErrNaNInf and leave the
//     stored value unchanged.
//
// Complexity:
//
//   - NewDense: O(r×c) time and memory.
//   - At, Set, Add, Row: O(1).
//
// Errors:
//
//   - ErrBadShape: non-positive dimensions.
//   - ErrOutOfRange: row or column outside the matrix.
//   - ErrNaNInf: non-finite value.
package matrix
