package solver

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/quboembed/consolidation"
	"github.com/katalvlaran/quboembed/logging"
)

const (
	// DefaultMaxQubits is the largest number of free qubits Minimize
	// enumerates: 2^26 states.
	DefaultMaxQubits = 26

	// maxQubitsCeiling keeps the enumeration counter inside an int64.
	maxQubitsCeiling = 62
)

// Options configures a Context.
type Options struct {
	// MaxQubits bounds the free qubits of Minimize.
	MaxQubits int

	// Tolerance is the margin an energy or cost must improve by to replace
	// the incumbent.
	Tolerance float64

	// Logger receives Debug records about every search.
	Logger *zap.Logger
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the default ceiling, consolidation.Tolerance and a
// no-op logger.
func DefaultOptions() Options {
	return Options{
		MaxQubits: DefaultMaxQubits,
		Tolerance: consolidation.Tolerance,
		Logger:    logging.Nop(),
	}
}

// WithMaxQubits sets the enumeration ceiling. Panics unless 1 <= n <= 62.
func WithMaxQubits(n int) Option {
	if n < 1 || n > maxQubitsCeiling {
		panic("solver: WithMaxQubits: n must be in [1,62]")
	}
	return func(o *Options) { o.MaxQubits = n }
}

// WithTolerance sets the improvement margin. Panics if eps < 0.
func WithTolerance(eps float64) Option {
	if eps < 0 {
		panic("solver: WithTolerance: eps must be >= 0")
	}
	return func(o *Options) { o.Tolerance = eps }
}

// WithLogger routes Debug records to l; nil selects a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.Logger = logging.OrNop(l) }
}
