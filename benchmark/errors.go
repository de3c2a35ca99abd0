package benchmark

import "errors"

var (
	// ErrConfig indicates an unusable sweep configuration.
	ErrConfig = errors.New("benchmark: invalid configuration")

	// ErrMismatch indicates an embedded solution that disagrees with the
	// direct one. It means the embedding is wrong, not the problem.
	ErrMismatch = errors.New("benchmark: linear and quadratic solutions differ")
)
