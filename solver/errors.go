package solver

import "errors"

var (
	// ErrTooManyQubits indicates a weight table with more free qubits than
	// the exhaustive search accepts.
	ErrTooManyQubits = errors.New("solver: too many free qubits")

	// ErrAssignment indicates a fixed tenant placement that does not match
	// the problem.
	ErrAssignment = errors.New("solver: invalid assignment")
)
