package chimera

import (
	"errors"
	"fmt"
)

// ErrQubitRange indicates a qubit id outside [0, NrQubits).
var ErrQubitRange = errors.New("chimera: qubit id out of range")

// InvariantError reports a broken structural invariant of the embedding code.
// It travels through panic, never through an error return: a mapping built
// past a broken invariant would silently corrupt every downstream result.
type InvariantError struct {
	Op     string // operation that detected the violation, e.g. "Qubit.GoEast"
	Detail string // human readable description
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated in %s: %s", e.Op, e.Detail)
}

// Invariant panics with an *InvariantError built from op and the formatted detail.
func Invariant(op, format string, args ...any) {
	panic(&InvariantError{Op: op, Detail: fmt.Sprintf(format, args...)})
}

// Check panics with an *InvariantError when cond is false.
func Check(cond bool, op, format string, args ...any) {
	if !cond {
		Invariant(op, format, args...)
	}
}
