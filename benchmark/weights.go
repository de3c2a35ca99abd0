package benchmark

import (
	"context"

	"github.com/samber/lo"
)

// WeightStats summarizes the weights of one embedded instance.
type WeightStats struct {
	Mapper                    string
	Tenants, Servers, Metrics int
	// MaxLinear and MaxCoupling are the largest absolute bias and coupling.
	MaxLinear, MaxCoupling float64
	// MinLinear and MinCoupling are the smallest non-zero absolute bias and
	// coupling, +Inf when there is none.
	MinLinear, MinCoupling float64
}

// Max returns the largest absolute weight of the instance.
func (w WeightStats) Max() float64 { return max(w.MaxLinear, w.MaxCoupling) }

// WeightReport is the outcome of MaxWeights.
type WeightReport struct {
	// Rows lists every embedded instance in sweep order.
	Rows []WeightStats
	// Max is the largest absolute weight per mapper over all rows.
	Max map[string]float64
}

// MaxWeights embeds every generated problem and records its weight range,
// which bounds the precision the hardware would need.
func (r *Runner) MaxWeights(ctx context.Context) (*WeightReport, error) {
	results := make([][]WeightStats, len(r.shapes()))
	err := r.forEach(ctx, func(_ context.Context, job int, sh shape) error {
		mappers := r.mappers()
		var rows []WeightStats
		for i := 0; i < r.cfg.Instances; i++ {
			p := r.problem(job, i, sh)
			for _, m := range mappers {
				cm, err := r.mapped(m, p)
				if err != nil {
					return err
				}
				if cm == nil {
					continue
				}
				rows = append(rows, WeightStats{
					Mapper:      m.Name(),
					Tenants:     sh.tenants,
					Servers:     sh.servers,
					Metrics:     sh.metrics,
					MaxLinear:   cm.MaxAbsWeight(true, false),
					MaxCoupling: cm.MaxAbsWeight(false, true),
					MinLinear:   cm.MinAbsWeightAboveZero(true, false),
					MinCoupling: cm.MinAbsWeightAboveZero(false, true),
				})
			}
		}
		results[job] = rows
		return nil
	})
	if err != nil {
		return nil, err
	}

	rows := lo.Flatten(results)
	rep := &WeightReport{Rows: rows, Max: make(map[string]float64, len(r.cfg.Mappers))}
	for _, name := range r.cfg.Mappers {
		rep.Max[name] = 0
	}
	for name, group := range lo.GroupBy(rows, func(w WeightStats) string { return w.Mapper }) {
		rep.Max[name] = lo.Max(lo.Map(group, func(w WeightStats, _ int) float64 { return w.Max() }))
	}
	return rep, nil
}
