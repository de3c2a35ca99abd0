package solver

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/katalvlaran/quboembed/consolidation"
	"github.com/katalvlaran/quboembed/logging"
)

// SolveLinear solves p directly: every tenant on exactly one server, no
// server loaded above its capacity in any metric, minimal summed cost of
// the servers in use. It returns consolidation.Infeasible() when no
// placement exists.
//
// The search places tenants in order of decreasing total consumption and
// prunes any branch whose cost already reaches the incumbent; since costs
// are non-negative the partial cost is an admissible bound.
func (c *Context) SolveLinear(ctx context.Context, p *consolidation.Problem) (consolidation.Solution, error) {
	const op = "Context.SolveLinear"
	if err := p.Validate(); err != nil {
		return consolidation.Solution{}, fmt.Errorf("%s: %w", op, err)
	}
	e := newBBEngine(ctx, p, c.opts.Tolerance)
	if err := e.search(0); err != nil {
		return consolidation.Solution{}, fmt.Errorf("%s: %w", op, err)
	}
	c.stats.Nodes += e.nodes
	c.opts.Logger.Debug("solved linear",
		logging.Problem(p.NrTenants, p.NrServers, p.NrMetrics),
		zap.Int64("nodes", e.nodes),
		zap.Stringer("solution", e.best))
	return e.best, nil
}

// bbEngine holds the search state of SolveLinear.
type bbEngine struct {
	ctx context.Context
	p   *consolidation.Problem
	tol float64

	order    []int       // tenants in branching order
	load     [][]float64 // [server][metric]
	hosted   []int       // tenants per server
	assigned []int       // server per tenant
	cost     float64

	best  consolidation.Solution
	nodes int64
}

func newBBEngine(ctx context.Context, p *consolidation.Problem, tol float64) *bbEngine {
	e := &bbEngine{
		ctx:      ctx,
		p:        p,
		tol:      tol,
		order:    make([]int, p.NrTenants),
		load:     make([][]float64, p.NrServers),
		hosted:   make([]int, p.NrServers),
		assigned: make([]int, p.NrTenants),
		best:     consolidation.Infeasible(),
	}
	total := make([]float64, p.NrTenants)
	for t := range e.order {
		e.order[t] = t
		e.assigned[t] = -1
		for _, v := range p.Consumption[t] {
			total[t] += v
		}
	}
	sort.SliceStable(e.order, func(i, j int) bool { return total[e.order[i]] > total[e.order[j]] })
	for s := range e.load {
		e.load[s] = make([]float64, p.NrMetrics)
	}
	return e
}

func (e *bbEngine) fits(t, s int) bool {
	for m, v := range e.p.Consumption[t] {
		if e.load[s][m]+v-e.p.Capacity[s][m] > e.tol {
			return false
		}
	}
	return true
}

func (e *bbEngine) place(t, s int, sign float64) {
	for m, v := range e.p.Consumption[t] {
		e.load[s][m] += sign * v
	}
}

func (e *bbEngine) search(depth int) error {
	e.nodes++
	if e.nodes%checkEvery == 0 {
		if err := e.ctx.Err(); err != nil {
			return err
		}
	}
	if e.best.Feasible && e.cost >= e.best.MinTotalCost-e.tol {
		return nil
	}
	if depth == len(e.order) {
		e.best = consolidation.Solution{
			Feasible:       true,
			MinTotalCost:   e.cost,
			AssignedServer: append([]int{}, e.assigned...),
		}
		return nil
	}

	t := e.order[depth]
	for s := 0; s < e.p.NrServers; s++ {
		if !e.fits(t, s) {
			continue
		}
		opening := e.hosted[s] == 0
		if opening {
			e.cost += e.p.Cost[s]
		}
		e.place(t, s, 1)
		e.hosted[s]++
		e.assigned[t] = s

		err := e.search(depth + 1)

		e.assigned[t] = -1
		e.hosted[s]--
		e.place(t, s, -1)
		if opening {
			e.cost -= e.p.Cost[s]
		}
		if err != nil {
			return err
		}
	}
	return nil
}
