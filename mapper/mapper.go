package mapper

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/quboembed/consolidation"
	"github.com/katalvlaran/quboembed/penalty"
	"github.com/katalvlaran/quboembed/variable"
)

// Mapper transforms a consolidation problem into a weighted qubit table.
// Implementations are stateless between calls; every Transform owns its
// weight store and blocks.
type Mapper interface {
	Name() string
	Transform(p *consolidation.Problem) (*consolidation.Mapping, error)
}

// Layout is the placement of every logical variable of a problem.
//
// Tenant is indexed [tenant][server], Capacity [server][metric] and both
// auxiliary tables [server][tenant]. AssignmentAux is only used by the
// matrix mapper and ActivationAux is empty for the Qubo mapper. Server
// variables share their qubit with the last activation auxiliary of their
// server on the grid mappers.
type Layout struct {
	Tenant        [][]*variable.LogicalVariable
	Capacity      [][][]*variable.CapacityVariable
	ActivationAux [][]*variable.LogicalVariable
	AssignmentAux [][]*variable.LogicalVariable
	Server        []*variable.LogicalVariable
}

func newLayout(p *consolidation.Problem) *Layout {
	l := &Layout{
		Tenant:   make([][]*variable.LogicalVariable, p.NrTenants),
		Capacity: make([][][]*variable.CapacityVariable, p.NrServers),
		Server:   make([]*variable.LogicalVariable, p.NrServers),
	}
	for t := range l.Tenant {
		l.Tenant[t] = make([]*variable.LogicalVariable, p.NrServers)
	}
	for s := range l.Capacity {
		l.Capacity[s] = make([][]*variable.CapacityVariable, p.NrMetrics)
	}
	return l
}

func auxTable(nrServers, nrTenants int) [][]*variable.LogicalVariable {
	aux := make([][]*variable.LogicalVariable, nrServers)
	for s := range aux {
		aux[s] = make([]*variable.LogicalVariable, nrTenants)
	}
	return aux
}

// Variables lists every variable that owns its qubits exclusively, in the
// order tenant, capacity, activation auxiliary, assignment auxiliary.
// Server variables are appended only when they do not share a qubit with an
// activation auxiliary.
func (l *Layout) Variables() []*variable.LogicalVariable {
	var out []*variable.LogicalVariable
	for _, row := range l.Tenant {
		out = append(out, row...)
	}
	for _, metrics := range l.Capacity {
		for _, vars := range metrics {
			for _, v := range vars {
				out = append(out, v.LogicalVariable)
			}
		}
	}
	for _, row := range l.ActivationAux {
		out = append(out, row...)
	}
	for _, row := range l.AssignmentAux {
		out = append(out, row...)
	}
	if len(l.ActivationAux) == 0 {
		out = append(out, l.Server...)
	}
	return out
}

// assertNoOverlap panics when two variables share a qubit.
func (l *Layout) assertNoOverlap(op string) {
	variable.AssertDisjoint(op, l.Variables()...)
}

// imposeOneHot rewards every assignment variable with -s and punishes each
// pair of assignments of the same tenant with 2s: the energy is -s for a
// tenant placed exactly once and at least zero otherwise.
func imposeOneHot(m variable.Weights, p *consolidation.Problem, l *Layout) float64 {
	s := penalty.AssignmentScaling(p.Cost)
	for t := range l.Tenant {
		for _, v := range l.Tenant[t] {
			v.AddWeight(m, -s)
		}
		for s1 := 0; s1 < p.NrServers; s1++ {
			for s2 := s1 + 1; s2 < p.NrServers; s2++ {
				l.Tenant[t][s1].AddConnectionWeight(m, 2*s, l.Tenant[t][s2])
			}
		}
	}
	return s
}

// imposeCapacity adds one squared slack penalty per server and metric.
func imposeCapacity(m variable.Weights, p *consolidation.Problem, l *Layout) float64 {
	s := penalty.CapacityScaling(p.MaxServerCost(), p.MinCapacityStep)
	xs := make([]*variable.LogicalVariable, p.NrTenants)
	cs := make([]float64, p.NrTenants)
	for server := 0; server < p.NrServers; server++ {
		for metric := 0; metric < p.NrMetrics; metric++ {
			for t := 0; t < p.NrTenants; t++ {
				xs[t] = l.Tenant[t][server]
				cs[t] = p.Consumption[t][metric]
			}
			penalty.SumEquality(m, xs, cs, l.Capacity[server][metric], s)
		}
	}
	return s
}

// imposeActivationCascade chains the running maximum of every server's
// assignment variables through its activation auxiliaries, so that the
// last auxiliary is set exactly when the server hosts a tenant.
func imposeActivationCascade(m variable.Weights, p *consolidation.Problem, l *Layout) float64 {
	s := penalty.ActivationScaling(p.MaxServerCost())
	for server, aux := range l.ActivationAux {
		penalty.Equality(m, l.Tenant[0][server], aux[0], s)
		for t := 1; t < p.NrTenants; t++ {
			penalty.Max(m, l.Tenant[t][server], aux[t-1], aux[t], s)
		}
	}
	return s
}

// imposeGoal charges every active server its cost.
func imposeGoal(m variable.Weights, p *consolidation.Problem, l *Layout) {
	for s, v := range l.Server {
		v.AddWeight(m, p.Cost[s])
	}
}

// imposeChainConsistency ties every multi-qubit variable together. It must
// run after every other penalty since the scalings read the final weights
// around each chain. It returns the largest scaling used.
func imposeChainConsistency(m variable.Weights, l *Layout) float64 {
	var top float64
	for _, v := range l.Variables() {
		top = max(top, penalty.ImposeChainConsistency(m, v))
	}
	return top
}

// record fills the decoder tables of cm from l.
func record(cm *consolidation.Mapping, l *Layout) {
	for t, row := range l.Tenant {
		for s, v := range row {
			cm.SetTenantIndex(t, s, v.First())
		}
	}
	for s, v := range l.Server {
		cm.SetServerIndex(s, v.First())
	}
	for _, v := range l.Variables() {
		cm.AddConsistentGroup(v.Bitmap())
	}
	if len(l.ActivationAux) > 0 {
		for _, v := range l.Server {
			cm.AddConsistentGroup(v.Bitmap())
		}
	}
}

func checkProblem(op string, p *consolidation.Problem) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if p.NrTenants == 0 || p.NrServers == 0 {
		return fmt.Errorf("%s(%s): %w", op, p, ErrEmptyProblem)
	}
	return nil
}

// scalings groups the penalty magnitudes for a single Debug record.
type scalings struct {
	assignment, capacity, activation, chain float64
}

func (s scalings) log(l *zap.Logger, name string, p *consolidation.Problem) {
	l.Debug("penalties imposed",
		zap.String("mapper", name),
		zap.Stringer("problem", p),
		zap.Float64("assignment", s.assignment),
		zap.Float64("capacity", s.capacity),
		zap.Float64("activation", s.activation),
		zap.Float64("chain", s.chain),
	)
}

// Names lists the mappers ByName knows.
var Names = []string{"triangle", "matrix", "qubo"}

// ByName returns the mapper registered under name.
func ByName(name string, opts ...Option) (Mapper, error) {
	switch name {
	case "triangle":
		return NewTriangle(opts...), nil
	case "matrix":
		return NewMatrix(opts...), nil
	case "qubo":
		return NewQubo(opts...), nil
	}
	return nil, fmt.Errorf("ByName(%q): %w", name, ErrUnknownMapper)
}

// ForProblem returns the grid mapper suited to p: the triangle mapper for a
// single metric, the matrix mapper otherwise.
func ForProblem(p *consolidation.Problem, opts ...Option) Mapper {
	if p.NrMetrics <= 1 {
		return NewTriangle(opts...)
	}
	return NewMatrix(opts...)
}
