package consolidation

import "errors"

var (
	// ErrDimension indicates tables whose shape disagrees with the declared
	// tenant, server or metric counts.
	ErrDimension = errors.New("consolidation: dimension mismatch")

	// ErrNegative indicates a negative count, consumption, capacity or cost.
	ErrNegative = errors.New("consolidation: negative value")

	// ErrStep indicates a non-positive minimum capacity step.
	ErrStep = errors.New("consolidation: capacity step must be positive")

	// ErrGeneratorConfig indicates an unusable generator configuration.
	ErrGeneratorConfig = errors.New("consolidation: invalid generator configuration")
)
