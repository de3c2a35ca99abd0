package benchmark

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/quboembed/consolidation"
	"github.com/katalvlaran/quboembed/logging"
	"github.com/katalvlaran/quboembed/mapper"
	"github.com/katalvlaran/quboembed/solver"
)

// Runner executes sweeps for one Config. A Runner may run several sweeps,
// one at a time or concurrently.
type Runner struct {
	cfg        Config
	log        *zap.Logger
	metrics    MetricsObserver
	solverOpts []solver.Option
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger routes Debug records about every shape to l.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.log = logging.OrNop(l) }
}

// WithMetrics reports sweep progress to o.
func WithMetrics(o MetricsObserver) Option {
	return func(r *Runner) {
		if o != nil {
			r.metrics = o
		}
	}
}

// WithSolverOptions configures the solver context each worker creates for
// cross validation.
func WithSolverOptions(opts ...solver.Option) Option {
	return func(r *Runner) { r.solverOpts = append(r.solverOpts, opts...) }
}

// NewRunner validates cfg.
func NewRunner(cfg Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Runner{cfg: cfg, log: logging.Nop(), metrics: NoopMetricsObserver{}}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Config returns the sweep configuration.
func (r *Runner) Config() Config { return r.cfg }

type shape struct {
	servers, metrics, tenants int
}

// shapes lists the swept shapes, servers outermost and tenants innermost.
func (r *Runner) shapes() []shape {
	out := make([]shape, 0, r.cfg.MaxServers*r.cfg.MaxMetrics*r.cfg.MaxTenants)
	for s := 1; s <= r.cfg.MaxServers; s++ {
		for m := 1; m <= r.cfg.MaxMetrics; m++ {
			for t := 1; t <= r.cfg.MaxTenants; t++ {
				out = append(out, shape{servers: s, metrics: m, tenants: t})
			}
		}
	}
	return out
}

// problem draws instance i of the shape at position job.
func (r *Runner) problem(job, i int, sh shape) *consolidation.Problem {
	seed := consolidation.DeriveSeed(r.cfg.Seed, uint64(job*r.cfg.Instances+i))
	g := lo.Must(consolidation.NewGenerator(r.cfg.Generator, seed))
	return g.Produce(sh.tenants, sh.servers, sh.metrics)
}

func (r *Runner) mappers() []mapper.Mapper {
	return lo.Map(r.cfg.Mappers, func(name string, _ int) mapper.Mapper {
		return lo.Must(mapper.ByName(name))
	})
}

// forEach runs fn on every shape with at most Parallelism workers. The
// first error cancels the remaining shapes.
func (r *Runner) forEach(ctx context.Context, fn func(ctx context.Context, job int, sh shape) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Parallelism)
	for job, sh := range r.shapes() {
		job, sh := job, sh
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			err := fn(ctx, job, sh)
			r.metrics.OnShape(time.Since(start))
			return err
		})
	}
	return g.Wait()
}

// mapped reports whether m embeds p. Only capacity exhaustion counts as
// not mapped; any other error aborts the sweep.
func (r *Runner) mapped(m mapper.Mapper, p *consolidation.Problem) (*consolidation.Mapping, error) {
	start := time.Now()
	cm, err := m.Transform(p)
	if errors.Is(err, mapper.ErrInfeasibleEmbedding) {
		r.metrics.OnInstance(m.Name(), false, time.Since(start))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s on %s: %w", m.Name(), p, err)
	}
	r.metrics.OnInstance(m.Name(), true, time.Since(start))
	return cm, nil
}

// crossValidate compares the direct and embedded solutions of p. It
// reports false when the embedding is too large to solve exhaustively.
func crossValidate(ctx context.Context, sc *solver.Context, m mapper.Mapper, p *consolidation.Problem) (bool, error) {
	quadratic, _, err := sc.SolveQuadratic(ctx, m, p)
	if errors.Is(err, solver.ErrTooManyQubits) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	linear, err := sc.SolveLinear(ctx, p)
	if err != nil {
		return false, err
	}
	if !linear.Equivalent(quadratic) {
		return false, fmt.Errorf("%s on %s: linear %s, quadratic %s: %w", m.Name(), p, linear, quadratic, ErrMismatch)
	}
	return true, nil
}
