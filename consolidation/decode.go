package consolidation

import (
	"github.com/katalvlaran/quboembed/chimera"
)

// Diagnostics reports how well a qubit assignment respects the structure
// of the embedding, beyond the feasibility captured by Solution.
type Diagnostics struct {
	// Consistent is false when some consistency group mixes values.
	Consistent bool
	// AllAssigned is false when some tenant has no server.
	AllAssigned bool
	// CapacitiesRespected is false when an assignment overloads a server.
	CapacitiesRespected bool
	// ActivationConsistent is true when exactly the servers hosting
	// tenants are active.
	ActivationConsistent bool
	// ServerActivated[s] is the value of the activation qubit of s.
	ServerActivated []bool
	// Energy of the assignment under the mapping's weights.
	Energy float64
}

// Decode reads a 0/1 assignment of the mapping's qubits back into a
// Solution. A tenant runs on the first server whose assignment qubit is
// set; the cost is that of the servers whose activation qubit is set. The
// solution is feasible when every tenant is placed and no capacity is
// exceeded.
func Decode(p *Problem, m *Mapping, values []int8) (Solution, Diagnostics) {
	chimera.Check(len(values) == m.NrQubits(), "Decode",
		"%d values for %d qubits", len(values), m.NrQubits())
	d := Diagnostics{
		Consistent:           consistent(m.Index, values),
		AllAssigned:          true,
		CapacitiesRespected:  true,
		ActivationConsistent: true,
		ServerActivated:      make([]bool, p.NrServers),
		Energy:               m.Energy(values),
	}

	assigned := make([]int, p.NrTenants)
	for t := range assigned {
		assigned[t] = -1
		for s := 0; s < p.NrServers; s++ {
			if values[m.TenantIndex(t, s)] == 1 {
				assigned[t] = s
				break
			}
		}
		if assigned[t] == -1 {
			d.AllAssigned = false
		}
	}

	hosting := make([]bool, p.NrServers)
	for _, s := range assigned {
		if s >= 0 {
			hosting[s] = true
		}
	}
	for s := 0; s < p.NrServers; s++ {
		for metric := 0; metric < p.NrMetrics && d.CapacitiesRespected; metric++ {
			load := 0.0
			for t, at := range assigned {
				if at == s {
					load += p.Consumption[t][metric]
				}
			}
			if load-p.Capacity[s][metric] > Tolerance {
				d.CapacitiesRespected = false
			}
		}
		d.ServerActivated[s] = values[m.ServerIndex(s)] == 1
		if d.ServerActivated[s] != hosting[s] {
			d.ActivationConsistent = false
		}
	}

	return Solution{
		Feasible:       d.AllAssigned && d.CapacitiesRespected,
		MinTotalCost:   p.TotalCost(d.ServerActivated),
		AssignedServer: assigned,
	}, d
}

// consistent reports whether every group of x is uniformly 0 or 1.
func consistent(x *Index, values []int8) bool {
	for _, g := range x.ConsistentGroups() {
		it := g.Iterator()
		first := values[it.Next()]
		for it.HasNext() {
			if values[it.Next()] != first {
				return false
			}
		}
	}
	return true
}
