package solver

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/quboembed/chimera"
	"github.com/katalvlaran/quboembed/consolidation"
	"github.com/katalvlaran/quboembed/mapper"
)

// SolveQuadratic embeds p with m, finds a ground state of the embedding and
// decodes it. Embedding failures are returned unchanged, so
// errors.Is(err, mapper.ErrInfeasibleEmbedding) tells a problem that does
// not fit the hardware from one without a placement.
func (c *Context) SolveQuadratic(ctx context.Context, m mapper.Mapper, p *consolidation.Problem) (
	consolidation.Solution, consolidation.Diagnostics, error) {
	return c.solveEmbedded(ctx, "Context.SolveQuadratic", m, p, nil)
}

// SolveQuadraticWithAssignment is SolveQuadratic with every tenant
// variable fixed in advance: tenant t runs on server assignment[t], or on
// none when assignment[t] is -1. The remaining auxiliary and capacity
// qubits are minimized.
func (c *Context) SolveQuadraticWithAssignment(ctx context.Context, m mapper.Mapper, p *consolidation.Problem,
	assignment []int) (consolidation.Solution, consolidation.Diagnostics, error) {
	const op = "Context.SolveQuadraticWithAssignment"
	if len(assignment) != p.NrTenants {
		return consolidation.Solution{}, consolidation.Diagnostics{},
			fmt.Errorf("%s: %d entries for %d tenants: %w", op, len(assignment), p.NrTenants, ErrAssignment)
	}
	for t, s := range assignment {
		if s < -1 || s >= p.NrServers {
			return consolidation.Solution{}, consolidation.Diagnostics{},
				fmt.Errorf("%s: tenant %d on server %d: %w", op, t, s, ErrAssignment)
		}
	}
	return c.solveEmbedded(ctx, op, m, p, assignment)
}

func (c *Context) solveEmbedded(ctx context.Context, op string, m mapper.Mapper, p *consolidation.Problem,
	assignment []int) (consolidation.Solution, consolidation.Diagnostics, error) {
	cm, err := m.Transform(p)
	if err != nil {
		return consolidation.Solution{}, consolidation.Diagnostics{}, err
	}
	var fixed map[chimera.Qubit]int8
	if assignment != nil {
		fixed = fixTenants(cm, assignment)
	}
	a, err := c.Minimize(ctx, cm.Mapping, fixed)
	if err != nil {
		return consolidation.Solution{}, consolidation.Diagnostics{}, fmt.Errorf("%s(%s): %w", op, m.Name(), err)
	}
	sol, diag := consolidation.Decode(p, cm, a.Values)
	c.opts.Logger.Debug("solved quadratic",
		zap.String("mapper", m.Name()),
		zap.Stringer("solution", sol),
		zap.Bool("consistent", diag.Consistent),
		zap.Float64("energy", a.Energy))
	return sol, diag, nil
}

// fixTenants pins every qubit of every tenant variable.
func fixTenants(cm *consolidation.Mapping, assignment []int) map[chimera.Qubit]int8 {
	fixed := make(map[chimera.Qubit]int8)
	for t, server := range assignment {
		for s := 0; s < cm.NrServers(); s++ {
			var v int8
			if s == server {
				v = 1
			}
			for _, q := range groupOf(cm, cm.TenantIndex(t, s)) {
				fixed[q] = v
			}
		}
	}
	return fixed
}

// groupOf returns the consistency group holding q, or q alone.
func groupOf(cm *consolidation.Mapping, q chimera.Qubit) []chimera.Qubit {
	for _, g := range cm.ConsistentGroups() {
		if g.Contains(uint32(q)) {
			out := make([]chimera.Qubit, 0, g.GetCardinality())
			for it := g.Iterator(); it.HasNext(); {
				out = append(out, chimera.Qubit(it.Next()))
			}
			return out
		}
	}
	return []chimera.Qubit{q}
}
