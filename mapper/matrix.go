package mapper

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/quboembed/blocks"
	"github.com/katalvlaran/quboembed/chimera"
	"github.com/katalvlaran/quboembed/consolidation"
	"github.com/katalvlaran/quboembed/logging"
	"github.com/katalvlaran/quboembed/penalty"
	"github.com/katalvlaran/quboembed/variable"
)

// Matrix tiles one pair of opposing triangles per server and metric pair.
// Row s of the tiling holds the capacity constraints of server s; a
// MultiMaxBar west of the tiling enforces that every tenant is placed and
// one OneMaxBar per server east of it derives server activation.
//
// Problems with an odd metric count are padded with a zero metric first,
// so the Layout returned by Place may carry one metric more than the input.
type Matrix struct {
	opts Options
}

// NewMatrix returns a matrix mapper.
func NewMatrix(opts ...Option) *Matrix {
	return &Matrix{opts: resolve(opts)}
}

// Name implements Mapper.
func (*Matrix) Name() string { return "matrix" }

// TriangleMatrixTopLeft returns the anchor of the triangle tiling: east of
// the assignment bar, and one cell row down when the bar needs more than
// one cell column.
func TriangleMatrixTopLeft(p *consolidation.Problem) (chimera.Qubit, error) {
	east := (p.NrTenants-1)/2 + 1
	south := 0
	if p.NrTenants > 4 {
		south = 1
	}
	if east >= chimera.GridWidth {
		return 0, fmt.Errorf("TriangleMatrixTopLeft(%d tenants): %w", p.NrTenants, ErrNotEnoughQubits)
	}
	return chimera.Qubit(0).GoEast(east).GoSouth(south), nil
}

// cellWidth returns the diagonal cell count of a triangle holding
// requiredChains chains.
func cellWidth(requiredChains int) int {
	return penalty.RoundUpFour(requiredChains) / chimera.ColumnSize
}

// SufficientSpace reports whether the tiling for p (with an even metric
// count) plus the activation bar column fits east and south of topLeft.
func SufficientSpace(p *consolidation.Problem, topLeft chimera.Qubit, requiredChains int) bool {
	w := cellWidth(requiredChains)
	east := (p.NrMetrics / 2) * (w + 1)
	south := p.NrServers*w - 1
	return topLeft.CellCol()+east < chimera.GridWidth && topLeft.CellRow()+south < chimera.GridWidth
}

// CreateTriangles builds the tiling for p anchored at topLeft: for server s
// and metrics m, m+1 a south-west triangle and the north-east triangle one
// cell east of it. The result is indexed [server][metric].
func CreateTriangles(topo chimera.Topology, p *consolidation.Problem, topLeft chimera.Qubit,
	requiredChains int) ([][]*blocks.Triangle, error) {
	chimera.Check(p.NrMetrics%2 == 0, "CreateTriangles", "odd metric count %d", p.NrMetrics)
	n := penalty.RoundUpFour(requiredChains)
	w := n / chimera.ColumnSize
	out := make([][]*blocks.Triangle, p.NrServers)
	for s := range out {
		out[s] = make([]*blocks.Triangle, p.NrMetrics)
		for m := 0; m < p.NrMetrics; m += 2 {
			sw := topLeft.GoEast((m / 2) * (w + 1)).GoSouth(s * w)
			t1, err := blocks.NewTriangle(topo, blocks.SouthWest, sw, n)
			if err != nil {
				return nil, err
			}
			t2, err := blocks.NewTriangle(topo, blocks.NorthEast, sw.GoEast(1), n)
			if err != nil {
				return nil, err
			}
			out[s][m], out[s][m+1] = t1, t2
		}
	}
	return out, nil
}

func maxBrokenChains(tris [][]*blocks.Triangle) int {
	worst := 0
	for _, row := range tris {
		for _, t := range row {
			worst = max(worst, t.NrBrokenChains())
		}
	}
	return worst
}

// RequiredChains sizes the triangles for p anchored at topLeft. Bigger
// triangles can cover more defective qubits, so the size is iterated from
// an assumed broken chain count until the count measured on the resulting
// tiling agrees with the assumption. The result is not rounded.
//
// Stage 1 (Bound): maxCap is the largest capacity chain count of any
// server and metric.
// Stage 2 (Size): with b broken chains assumed, a triangle needs 2·n
// chains, or n + maxCap + b once tenants and capacity no longer fit in 2·n.
// Stage 3 (Measure): tile the grid with that size and count the worst
// broken chain total over all triangles; it becomes the next assumption.
// Stage 4 (Stop): a fixed point returns the size. Running out of space
// (ErrNotEnoughQubits) or of Options.MaxIterations (ErrNoConvergence) fails
// with ErrInfeasibleEmbedding.
//
// The first round assumes -1 broken chains so it never matches on entry.
// Complexity: O(I·S·M·T) for I rounds over S×M triangles of T qubits each.
func (mm *Matrix) RequiredChains(p *consolidation.Problem, topLeft chimera.Qubit) (int, error) {
	const op = "Matrix.RequiredChains"
	maxCap := 0
	for s := 0; s < p.NrServers; s++ {
		for m := 0; m < p.NrMetrics; m++ {
			maxCap = max(maxCap, penalty.NrCapacityVars(p.MinCapacityStep, p.Capacity[s][m]))
		}
	}
	n := p.NrTenants
	assumed, actual, required := 0, -1, -1
	for i := 0; assumed != actual; i++ {
		if i == mm.opts.MaxIterations {
			return 0, infeasible(op, fmt.Errorf("%d iterations, last %d broken after assuming %d: %w",
				i, actual, assumed, ErrNoConvergence))
		}
		assumed = actual
		required = 2 * n
		if maxCap+assumed > n {
			required = n + maxCap + assumed
		}
		if !SufficientSpace(p, topLeft, required) {
			return 0, infeasible(op, fmt.Errorf("%d chains at %d: %w", required, topLeft, ErrNotEnoughQubits))
		}
		tris, err := CreateTriangles(mm.opts.Topology, p, topLeft, required)
		if err != nil {
			return 0, infeasible(op, fmt.Errorf("%w: %w", ErrNotEnoughQubits, err))
		}
		actual = maxBrokenChains(tris)
		mm.opts.Logger.Debug("sizing round",
			zap.Int("round", i), zap.Int("assumedBroken", assumed),
			zap.Int("chains", required), zap.Int("actualBroken", actual))
	}
	return required, nil
}

// TenantChains picks for every server and tenant the candidate chain 2t if
// it is intact in all metric triangles of the server, else 2t+1. The result
// is indexed [server][chain].
func TenantChains(p *consolidation.Problem, tris [][]*blocks.Triangle) ([][]bool, error) {
	out := make([][]bool, p.NrServers)
	for s := range out {
		out[s] = make([]bool, 2*p.NrTenants)
		for t := 0; t < p.NrTenants; t++ {
			first, second := true, true
			for _, tri := range tris[s] {
				first = first && tri.ChainOK(2*t)
				second = second && tri.ChainOK(2*t+1)
			}
			switch {
			case first:
				out[s][2*t] = true
			case second:
				out[s][2*t+1] = true
			default:
				return nil, fmt.Errorf("server %d tenant %d: %w", s, t, ErrTooManyBrokenChains)
			}
		}
	}
	return out, nil
}

// Place pads p to an even metric count, builds the blocks and assigns
// qubits to every variable.
func (mm *Matrix) Place(p *consolidation.Problem) (*Layout, error) {
	const op = "Matrix.Place"
	if err := checkProblem(op, p); err != nil {
		return nil, err
	}
	return mm.place(p.PadMetrics())
}

func (mm *Matrix) place(p *consolidation.Problem) (*Layout, error) {
	const op = "Matrix.Place"
	topo := mm.opts.Topology
	log := mm.opts.Logger.With(zap.String("mapper", mm.Name()), logging.Problem(p.NrTenants, p.NrServers, p.NrMetrics))

	topLeft, err := TriangleMatrixTopLeft(p)
	if err != nil {
		return nil, infeasible(op, err)
	}
	required, err := mm.RequiredChains(p, topLeft)
	if err != nil {
		return nil, err
	}
	w := cellWidth(required)
	log.Debug("sized triangles", zap.Int("chains", required), zap.Int("cellWidth", w))

	tris, err := CreateTriangles(topo, p, topLeft, required)
	if err != nil {
		return nil, infeasible(op, fmt.Errorf("%w: %w", ErrNotEnoughQubits, err))
	}
	flags, err := TenantChains(p, tris)
	if err != nil {
		return nil, infeasible(op, err)
	}

	barTop := chimera.Qubit(0)
	if p.NrTenants > 4 {
		barTop = barTop.GoSouth(1)
	}
	assignBar, err := blocks.NewMultiMaxBar(topo, barTop, p.NrServers, p.NrTenants, flags, w)
	if err != nil {
		return nil, infeasible(op, fmt.Errorf("%w: %w", ErrNotEnoughQubits, err))
	}

	east := (p.NrTenants+1)/2 + (p.NrMetrics/2)*(w+1)
	if east >= chimera.GridWidth {
		return nil, infeasible(op, fmt.Errorf("activation bars at column %d: %w", east, ErrNotEnoughQubits))
	}
	actTop := chimera.Qubit(0).GoEast(east).GoSouth(barTop.CellRow())
	actBars := make([]*blocks.OneMaxBar, p.NrServers)
	for s := range actBars {
		bar, err := blocks.NewOneMaxBar(topo, actTop.GoSouth(s*w), p.NrTenants, flags[s], nil)
		if err != nil {
			return nil, infeasible(op, fmt.Errorf("%w: %w", ErrNotEnoughQubits, err))
		}
		actBars[s] = bar
	}

	l := newLayout(p)
	for t := 0; t < p.NrTenants; t++ {
		for s := 0; s < p.NrServers; s++ {
			v := variable.New(assignBar.InputQubits(s, t)...)
			v.Add(actBars[s].Input(t))
			c := 2 * t
			if !flags[s][c] {
				c++
			}
			for _, tri := range tris[s] {
				v.Add(tri.Chain(c)...)
				tri.MarkAsUsed(c)
			}
			l.Tenant[t][s] = v
		}
	}
	for s := 0; s < p.NrServers; s++ {
		for m := 0; m < p.NrMetrics; m++ {
			for _, k := range penalty.CapacityValues(p.MinCapacityStep, p.Capacity[s][m]) {
				chain, _, err := tris[s][m].MarkUnusedOkChain()
				if err != nil {
					return nil, infeasible(op, err)
				}
				l.Capacity[s][m] = append(l.Capacity[s][m], variable.NewCapacity(k, chain...))
			}
		}
	}
	l.ActivationAux = auxTable(p.NrServers, p.NrTenants)
	l.AssignmentAux = auxTable(p.NrServers, p.NrTenants)
	for s, bar := range actBars {
		for t := 0; t < p.NrTenants; t++ {
			l.ActivationAux[s][t] = variable.New(bar.Auxiliaries(t)...)
			l.AssignmentAux[s][t] = variable.New(assignBar.Auxiliaries(s, t)...)
		}
		l.Server[s] = variable.New(bar.Output())
	}
	l.assertNoOverlap(op)
	return l, nil
}

// imposeAssignmentCascade carries the running maximum of each tenant's
// assignment variables across servers through the assignment auxiliaries
// and rewards the final maximum, so that every tenant is placed at least
// once. A second placement is not penalized; decoding reads the first.
func imposeAssignmentCascade(m variable.Weights, p *consolidation.Problem, l *Layout) float64 {
	s := penalty.AssignmentScaling(p.Cost)
	last := p.NrServers - 1
	for t := 0; t < p.NrTenants; t++ {
		penalty.Equality(m, l.Tenant[t][0], l.AssignmentAux[0][t], s)
		for server := 1; server < p.NrServers; server++ {
			penalty.Max(m, l.Tenant[t][server], l.AssignmentAux[server-1][t], l.AssignmentAux[server][t], s)
		}
		l.AssignmentAux[last][t].AddWeight(m, -s)
	}
	return s
}

// Transform implements Mapper.
func (mm *Matrix) Transform(p *consolidation.Problem) (*consolidation.Mapping, error) {
	if err := checkProblem("Matrix.Transform", p); err != nil {
		return nil, err
	}
	padded := p.PadMetrics()
	l, err := mm.place(padded)
	if err != nil {
		return nil, err
	}
	cm := consolidation.NewMapping(mm.opts.Topology, p.NrTenants, p.NrServers)
	var sc scalings
	sc.assignment = imposeAssignmentCascade(cm, padded, l)
	sc.capacity = imposeCapacity(cm, padded, l)
	sc.activation = imposeActivationCascade(cm, padded, l)
	imposeGoal(cm, padded, l)
	sc.chain = imposeChainConsistency(cm, l)
	record(cm, l)
	sc.log(mm.opts.Logger, mm.Name(), p)
	return cm, nil
}
