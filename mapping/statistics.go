// SPDX-License-Identifier: MIT

package mapping

import (
	"math"

	"github.com/katalvlaran/quboembed/chimera"
)

// MaxAbsWeight returns the largest absolute weight among the selected cell
// kinds: linear biases, couplings, or both. Zero when nothing is selected.
func (m *Mapping) MaxAbsWeight(linear, coupling bool) float64 {
	var best float64
	m.scan(linear, coupling, func(w float64) {
		best = math.Max(best, math.Abs(w))
	})
	return best
}

// MinAbsWeightAboveZero returns the smallest strictly positive absolute
// weight among the selected cell kinds, or +Inf when there is none.
func (m *Mapping) MinAbsWeightAboveZero(linear, coupling bool) float64 {
	best := math.Inf(1)
	m.scan(linear, coupling, func(w float64) {
		if a := math.Abs(w); a > 0 {
			best = math.Min(best, a)
		}
	})
	return best
}

// scan visits every canonical cell of the selected kinds that the topology
// allows to carry a weight.
func (m *Mapping) scan(linear, coupling bool, visit func(w float64)) {
	for i := 0; i < m.NrQubits(); i++ {
		row := m.row("Mapping.scan", i)
		if linear {
			visit(row[i])
		}
		if !coupling {
			continue
		}
		for _, j := range m.topo.Neighbors(chimera.Qubit(i)) {
			if int(j) > i {
				visit(row[j])
			}
		}
	}
}
