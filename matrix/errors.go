// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// Public indexers return these sentinels wrapped with method context; tests
// match them via errors.Is.

package matrix

import "errors"

var (
	// ErrBadShape is returned when requested shape is invalid (r<=0 or c<=0).
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// Public indexers (At/Set/Add/Row) MUST return this, not panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	// Set and Add refuse to store one.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")
)
