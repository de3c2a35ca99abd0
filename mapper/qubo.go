package mapper

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/quboembed/chimera"
	"github.com/katalvlaran/quboembed/consolidation"
	"github.com/katalvlaran/quboembed/penalty"
	"github.com/katalvlaran/quboembed/variable"
)

// Qubo places every variable on its own qubit of a fully connected
// topology: assignment variables first (tenant-major), then server
// activation, then capacity slices. Activation is a direct penalty between
// each assignment and its server instead of a max cascade.
type Qubo struct {
	opts Options
}

// NewQubo returns a fully connected mapper. WithTopology has no effect.
func NewQubo(opts ...Option) *Qubo {
	return &Qubo{opts: resolve(opts)}
}

// Name implements Mapper.
func (*Qubo) Name() string { return "qubo" }

// NrQubits returns the size of the fully connected topology for p.
func (*Qubo) NrQubits(p *consolidation.Problem) int {
	n := p.NrTenants*p.NrServers + p.NrServers
	for s := 0; s < p.NrServers; s++ {
		for m := 0; m < p.NrMetrics; m++ {
			n += penalty.NrCapacityVars(p.MinCapacityStep, p.Capacity[s][m])
		}
	}
	return n
}

// Place assigns one qubit per variable.
func (qm *Qubo) Place(p *consolidation.Problem) (*Layout, error) {
	if err := checkProblem("Qubo.Place", p); err != nil {
		return nil, err
	}
	l := newLayout(p)
	next := chimera.Qubit(0)
	take := func() chimera.Qubit {
		q := next
		next++
		return q
	}
	for t := range l.Tenant {
		for s := range l.Tenant[t] {
			l.Tenant[t][s] = variable.New(take())
		}
	}
	for s := range l.Server {
		l.Server[s] = variable.New(take())
	}
	for s := range l.Capacity {
		for m := range l.Capacity[s] {
			for _, k := range penalty.CapacityValues(p.MinCapacityStep, p.Capacity[s][m]) {
				l.Capacity[s][m] = append(l.Capacity[s][m], variable.NewCapacity(k, take()))
			}
		}
	}
	l.assertNoOverlap("Qubo.Place")
	return l, nil
}

// imposeDirectActivation adds s·x·(1 − y) for every assignment x of server
// activation y: hosting a tenant on an inactive server costs s.
func imposeDirectActivation(m variable.Weights, p *consolidation.Problem, l *Layout) float64 {
	s := penalty.ActivationScaling(p.MaxServerCost())
	for t := range l.Tenant {
		for server, x := range l.Tenant[t] {
			x.AddWeight(m, s)
			x.AddConnectionWeight(m, -s, l.Server[server])
		}
	}
	return s
}

// Transform implements Mapper.
func (qm *Qubo) Transform(p *consolidation.Problem) (*consolidation.Mapping, error) {
	l, err := qm.Place(p)
	if err != nil {
		return nil, err
	}
	topo := chimera.NewFullyConnected(qm.NrQubits(p))
	cm := consolidation.NewMapping(topo, p.NrTenants, p.NrServers)
	var sc scalings
	sc.assignment = imposeOneHot(cm, p, l)
	sc.capacity = imposeCapacity(cm, p, l)
	sc.activation = imposeDirectActivation(cm, p, l)
	imposeGoal(cm, p, l)
	sc.chain = imposeChainConsistency(cm, l)
	record(cm, l)
	sc.log(qm.opts.Logger, qm.Name(), p)
	qm.opts.Logger.Debug("fully connected topology", zap.Int("qubits", topo.NrQubits()))
	return cm, nil
}
