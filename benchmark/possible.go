package benchmark

import (
	"context"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/katalvlaran/quboembed/solver"
)

// PossibleReport is the outcome of MappingPossible.
type PossibleReport struct {
	Config Config
	// Mapped[name][s-1][m-1][t-1] counts the instances with s servers, m
	// metrics and t tenants that mapper name embedded.
	Mapped map[string][][][]int
	// MaxTenants[name][s-1][m-1] is the MaxTenants of the matching row of
	// Mapped.
	MaxTenants map[string][][]int
	// Validated and Skipped count cross validated instances and instances
	// too large to cross validate.
	Validated, Skipped int
}

// MaxTenants returns the largest tenant count t such that for every count
// up to t more than threshold of the instances mapped. mapped[t-1] holds
// the count for t tenants.
func MaxTenants(mapped []int, instances int, threshold float64) int {
	best := 0
	for i, n := range mapped {
		if float64(n)/float64(instances) <= threshold {
			break
		}
		best = i + 1
	}
	return best
}

type possibleResult struct {
	mapped             []int // per mapper
	validated, skipped int
}

// MappingPossible counts, per mapper and shape, how many generated
// problems embed on the grid, cross validating them when configured.
func (r *Runner) MappingPossible(ctx context.Context) (*PossibleReport, error) {
	shapes := r.shapes()
	results := make([]possibleResult, len(shapes))
	err := r.forEach(ctx, func(ctx context.Context, job int, sh shape) error {
		mappers := r.mappers()
		sc := solver.New(r.solverOpts...)
		res := possibleResult{mapped: make([]int, len(mappers))}
		for i := 0; i < r.cfg.Instances; i++ {
			p := r.problem(job, i, sh)
			for k, m := range mappers {
				cm, err := r.mapped(m, p)
				if err != nil {
					return err
				}
				if cm == nil {
					continue
				}
				res.mapped[k]++
				if !r.cfg.CrossValidate {
					continue
				}
				ok, err := crossValidate(ctx, sc, m, p)
				if err != nil {
					return err
				}
				r.metrics.OnValidation(m.Name(), ok)
				if ok {
					res.validated++
				} else {
					res.skipped++
				}
			}
		}
		r.log.Debug("shape done",
			zap.Int("servers", sh.servers), zap.Int("metrics", sh.metrics), zap.Int("tenants", sh.tenants),
			zap.Ints("mapped", res.mapped))
		results[job] = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	rep := &PossibleReport{
		Config:     r.cfg,
		Mapped:     make(map[string][][][]int, len(r.cfg.Mappers)),
		MaxTenants: make(map[string][][]int, len(r.cfg.Mappers)),
		Validated:  lo.SumBy(results, func(res possibleResult) int { return res.validated }),
		Skipped:    lo.SumBy(results, func(res possibleResult) int { return res.skipped }),
	}
	for k, name := range r.cfg.Mappers {
		counts := make([][][]int, r.cfg.MaxServers)
		best := make([][]int, r.cfg.MaxServers)
		for s := range counts {
			counts[s] = make([][]int, r.cfg.MaxMetrics)
			best[s] = make([]int, r.cfg.MaxMetrics)
			for m := range counts[s] {
				counts[s][m] = make([]int, r.cfg.MaxTenants)
			}
		}
		for job, sh := range shapes {
			counts[sh.servers-1][sh.metrics-1][sh.tenants-1] = results[job].mapped[k]
		}
		for s := range counts {
			for m := range counts[s] {
				best[s][m] = MaxTenants(counts[s][m], r.cfg.Instances, r.cfg.Threshold)
			}
		}
		rep.Mapped[name] = counts
		rep.MaxTenants[name] = best
	}
	return rep, nil
}
