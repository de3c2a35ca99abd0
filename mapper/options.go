package mapper

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/quboembed/chimera"
	"github.com/katalvlaran/quboembed/logging"
)

const (
	// DefaultMaxIterations bounds the triangle sizing fixed point of the
	// matrix mapper.
	DefaultMaxIterations = 16

	// DefaultMaxTriangleChains is the largest triangle the triangle mapper
	// builds: seven diagonal cells anchored in the second grid column.
	DefaultMaxTriangleChains = 28
)

// Options configures the grid based mappers. The Qubo mapper only reads
// Logger; it always builds its own fully connected topology.
type Options struct {
	// Topology is the hardware graph variables are placed on.
	Topology chimera.Topology

	// MaxIterations caps the rounds of the matrix mapper's chain sizing.
	// Reaching the cap fails the mapping with ErrNoConvergence.
	MaxIterations int

	// MaxTriangleChains caps the triangle mapper's clique size.
	MaxTriangleChains int

	// Logger receives Debug records about sizing and scalings.
	Logger *zap.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the default grid with its defect set, the default
// caps and a no-op logger.
func DefaultOptions() Options {
	return Options{
		Topology:          chimera.Default(),
		MaxIterations:     DefaultMaxIterations,
		MaxTriangleChains: DefaultMaxTriangleChains,
		Logger:            logging.Nop(),
	}
}

// WithTopology places variables on t instead of the default grid.
// Panics if t is nil.
func WithTopology(t chimera.Topology) Option {
	if t == nil {
		panic("mapper: WithTopology: topology must be non-nil")
	}
	return func(o *Options) { o.Topology = t }
}

// WithMaxIterations sets the fixed point cap. Panics if n < 1.
func WithMaxIterations(n int) Option {
	if n < 1 {
		panic("mapper: WithMaxIterations: n must be >= 1")
	}
	return func(o *Options) { o.MaxIterations = n }
}

// WithMaxTriangleChains sets the clique ceiling of the triangle mapper.
// Panics unless n is a positive multiple of four.
func WithMaxTriangleChains(n int) Option {
	if n <= 0 || n%chimera.ColumnSize != 0 {
		panic("mapper: WithMaxTriangleChains: n must be a positive multiple of 4")
	}
	return func(o *Options) { o.MaxTriangleChains = n }
}

// WithLogger routes Debug records to l; nil selects a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.Logger = logging.OrNop(l) }
}

func resolve(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
