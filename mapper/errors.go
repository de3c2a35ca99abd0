package mapper

import (
	"errors"
	"fmt"
)

var (
	// ErrInfeasibleEmbedding matches every capacity-exhaustion failure of a
	// mapper: the problem is valid but does not fit the hardware.
	ErrInfeasibleEmbedding = errors.New("mapper: infeasible embedding")

	// ErrNotEnoughQubits indicates that the structure needed for the
	// problem does not fit on the grid.
	ErrNotEnoughQubits = errors.New("mapper: not enough qubits")

	// ErrTooManyBrokenChains indicates that defective qubits leave no
	// usable chain for some variable.
	ErrTooManyBrokenChains = errors.New("mapper: too many broken chains")

	// ErrNoConvergence indicates that triangle sizing did not reach a fixed
	// point within the configured number of iterations.
	ErrNoConvergence = errors.New("mapper: chain sizing did not converge")

	// ErrEmptyProblem indicates a problem without tenants or servers.
	ErrEmptyProblem = errors.New("mapper: problem needs at least one tenant and one server")

	// ErrUnknownMapper indicates a name ByName does not know.
	ErrUnknownMapper = errors.New("mapper: unknown mapper")
)

// infeasible wraps cause so that it matches both itself and
// ErrInfeasibleEmbedding.
func infeasible(op string, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrInfeasibleEmbedding, cause)
}
