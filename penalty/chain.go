package penalty

import (
	"math"

	"github.com/katalvlaran/quboembed/chimera"
	"github.com/katalvlaran/quboembed/variable"
)

// PessimisticLocalEnergy bounds from above the energy contribution of q
// taking value v: its bias plus, per coupler, the worse of the two
// possible neighbor values.
func PessimisticLocalEnergy(m variable.Weights, q chimera.Qubit, v int) float64 {
	return localEnergy(m, q, v, math.Max)
}

// OptimisticLocalEnergy bounds the same contribution from below.
func OptimisticLocalEnergy(m variable.Weights, q chimera.Qubit, v int) float64 {
	return localEnergy(m, q, v, math.Min)
}

func localEnergy(m variable.Weights, q chimera.Qubit, v int, pick func(a, b float64) float64) float64 {
	chimera.Check(v == 0 || v == 1, "penalty.localEnergy", "value %d is not binary", v)
	x := float64(v)
	e := x * m.Weight(q)
	for _, n := range m.Topology().Neighbors(q) {
		e += pick(0, x*m.ConnectionWeight(q, n))
	}
	return e
}

// ChainScaling returns the equality weight that makes every consistent
// assignment of v's qubits cheaper than any inconsistent one: the gap
// between the best pessimistic consistent energy and the optimistic energy
// of a free assignment, plus EpsilonWeight.
//
// Stage 1 (Consistent): sum the pessimistic local energy of every qubit
// with all of them at 0, then with all at 1; the smaller sum bounds the
// best consistent assignment from above.
// Stage 2 (Free): sum, per qubit, the lower of its optimistic energies at
// 0 and 1; this bounds every assignment, broken or not, from below.
// Stage 3 (Gap): an equality penalty larger than the difference makes a
// broken chain never pay off.
//
// Complexity: O(|v|·d) for d couplers per qubit.
func ChainScaling(m variable.Weights, v *variable.LogicalVariable) float64 {
	var allZero, allOne, free float64
	for _, q := range v.Qubits() {
		allZero += PessimisticLocalEnergy(m, q, 0)
		allOne += PessimisticLocalEnergy(m, q, 1)
		free += math.Min(OptimisticLocalEnergy(m, q, 0), OptimisticLocalEnergy(m, q, 1))
	}
	return math.Min(allZero, allOne) - free + EpsilonWeight
}

// ImposeChainConsistency ties the qubits of v together with an equality
// penalty on every internal coupler and returns the scaling used. Single
// qubit variables are left untouched and yield zero.
func ImposeChainConsistency(m variable.Weights, v *variable.LogicalVariable) float64 {
	if v.Len() < 2 {
		return 0
	}
	pairs := v.InternalPairs(m.Topology())
	chimera.Check(len(pairs) > 0, "penalty.ImposeChainConsistency",
		"qubits %v share no coupler", v.Qubits())
	s := ChainScaling(m, v)
	for _, p := range pairs {
		EqualityQubits(m, p[0], p[1], s)
	}
	return s
}
