package mapper

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"go.uber.org/zap"

	"github.com/katalvlaran/quboembed/blocks"
	"github.com/katalvlaran/quboembed/chimera"
	"github.com/katalvlaran/quboembed/consolidation"
	"github.com/katalvlaran/quboembed/logging"
	"github.com/katalvlaran/quboembed/penalty"
	"github.com/katalvlaran/quboembed/variable"
)

// TriangleTopLeft anchors the single triangle of the triangle mapper in the
// second grid column, leaving the first column to the activation bars.
const TriangleTopLeft chimera.Qubit = chimera.CellSize

// Triangle places every assignment and capacity variable on one south-west
// triangle and derives server activation with one OneMaxBar per server
// stacked down the first grid column.
type Triangle struct {
	opts Options
}

// NewTriangle returns a triangle mapper.
func NewTriangle(opts ...Option) *Triangle {
	return &Triangle{opts: resolve(opts)}
}

// Name implements Mapper.
func (*Triangle) Name() string { return "triangle" }

// NrTriangleChains returns the clique size p needs: two candidate chains
// per assignment variable, of which only one is used, plus room for the
// capacity variables and one broken chain per defective qubit beyond what
// the unused candidates absorb, rounded up to a multiple of four.
func (tm *Triangle) NrTriangleChains(p *consolidation.Problem) int {
	assignVars := p.NrTenants * p.NrServers
	capVars := 0
	for s := 0; s < p.NrServers; s++ {
		for m := 0; m < p.NrMetrics; m++ {
			capVars += penalty.NrCapacityVars(p.MinCapacityStep, p.Capacity[s][m])
		}
	}
	extra := capVars + nrDefective(tm.opts.Topology)
	n := 2 * assignVars
	if extra > assignVars {
		n += extra - assignVars
	}
	return penalty.RoundUpFour(n)
}

func nrDefective(topo chimera.Topology) int {
	n := 0
	for q := 0; q < topo.NrQubits(); q++ {
		if topo.IsDefective(chimera.Qubit(q)) {
			n++
		}
	}
	return n
}

// Place builds the blocks for p and assigns qubits to every variable.
func (tm *Triangle) Place(p *consolidation.Problem) (*Layout, error) {
	const op = "Triangle.Place"
	if err := checkProblem(op, p); err != nil {
		return nil, err
	}
	topo := tm.opts.Topology
	log := tm.opts.Logger.With(zap.String("mapper", tm.Name()), logging.Problem(p.NrTenants, p.NrServers, p.NrMetrics))

	nrChains := tm.NrTriangleChains(p)
	log.Debug("sized triangle", zap.Int("chains", nrChains))
	if nrChains > tm.opts.MaxTriangleChains {
		return nil, infeasible(op, fmt.Errorf("%d chains above %d: %w",
			nrChains, tm.opts.MaxTriangleChains, ErrNotEnoughQubits))
	}
	tri, err := blocks.NewTriangle(topo, blocks.SouthWest, TriangleTopLeft, nrChains)
	if err != nil {
		return nil, infeasible(op, fmt.Errorf("%w: %w", ErrNotEnoughQubits, err))
	}

	flags, err := assignmentChains(tri, p.NrTenants*p.NrServers)
	if err != nil {
		return nil, infeasible(op, err)
	}
	bars, err := activationBars(topo, p, flags)
	if err != nil {
		return nil, infeasible(op, fmt.Errorf("%w: %w", ErrNotEnoughQubits, err))
	}

	l := newLayout(p)
	c := 0
	for s := 0; s < p.NrServers; s++ {
		for t := 0; t < p.NrTenants; t++ {
			for !flags[c] {
				c++
			}
			v := variable.New(tri.Chain(c)...)
			v.Add(bars[s].Input(t))
			tri.MarkAsUsed(c)
			l.Tenant[t][s] = v
			c++
		}
	}
	for s := 0; s < p.NrServers; s++ {
		for m := 0; m < p.NrMetrics; m++ {
			for _, k := range penalty.CapacityValues(p.MinCapacityStep, p.Capacity[s][m]) {
				chain, _, err := tri.MarkUnusedOkChain()
				if err != nil {
					return nil, infeasible(op, err)
				}
				l.Capacity[s][m] = append(l.Capacity[s][m], variable.NewCapacity(k, chain...))
			}
		}
	}
	l.ActivationAux = auxTable(p.NrServers, p.NrTenants)
	for s, bar := range bars {
		for t := 0; t < p.NrTenants; t++ {
			l.ActivationAux[s][t] = variable.New(bar.Auxiliaries(t)...)
		}
		l.Server[s] = variable.New(bar.Output())
	}
	l.assertNoOverlap(op)
	log.Debug("placed variables", zap.Int("brokenChains", tri.NrBrokenChains()))
	return l, nil
}

// assignmentChains picks, for each of n assignment variables, the first
// intact chain of the candidate pair (2i, 2i+1). The result flags the
// chosen chains.
func assignmentChains(tri *blocks.Triangle, n int) ([]bool, error) {
	flags := make([]bool, 2*n)
	for i := 0; i < n; i++ {
		switch {
		case tri.ChainOK(2 * i):
			flags[2*i] = true
		case tri.ChainOK(2*i + 1):
			flags[2*i+1] = true
		default:
			return nil, fmt.Errorf("chains %d and %d: %w", 2*i, 2*i+1, ErrTooManyBrokenChains)
		}
	}
	return flags, nil
}

// activationBars stacks one bar per server down the first grid column;
// each bar starts where the previous one ended.
func activationBars(topo chimera.Topology, p *consolidation.Problem, flags []bool) ([]*blocks.OneMaxBar, error) {
	bars := make([]*blocks.OneMaxBar, p.NrServers)
	occupied := roaring.New()
	n := p.NrTenants
	for s := range bars {
		top := chimera.Qubit(0).GoSouthHalf(s * n)
		bar, err := blocks.NewOneMaxBar(topo, top, n, flags[2*s*n:2*(s+1)*n], occupied)
		if err != nil {
			return nil, err
		}
		occupied.Or(bar.Qubits())
		bars[s] = bar
	}
	return bars, nil
}

// Transform implements Mapper.
func (tm *Triangle) Transform(p *consolidation.Problem) (*consolidation.Mapping, error) {
	l, err := tm.Place(p)
	if err != nil {
		return nil, err
	}
	cm := consolidation.NewMapping(tm.opts.Topology, p.NrTenants, p.NrServers)
	var sc scalings
	sc.assignment = imposeOneHot(cm, p, l)
	sc.capacity = imposeCapacity(cm, p, l)
	sc.activation = imposeActivationCascade(cm, p, l)
	imposeGoal(cm, p, l)
	sc.chain = imposeChainConsistency(cm, l)
	record(cm, l)
	sc.log(tm.opts.Logger, tm.Name(), p)
	return cm, nil
}
