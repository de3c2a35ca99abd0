package penalty

import (
	"math"

	"github.com/samber/lo"

	"github.com/katalvlaran/quboembed/chimera"
	"github.com/katalvlaran/quboembed/variable"
)

const (
	// EpsilonWeight makes one weight strictly bigger than another.
	EpsilonWeight = 1.0 / 8.0
	// MaxCapacityPerVar caps the capacity a single capacity variable represents.
	MaxCapacityPerVar = 4.0
	// Tolerance for comparing accumulated float64 quantities.
	Tolerance = 1e-10
)

// Equality adds s·(v1 + v2 − 2·v1·v2): zero when both agree, s otherwise.
func Equality(m variable.Weights, v1, v2 *variable.LogicalVariable, s float64) {
	v1.AddWeight(m, s)
	v2.AddWeight(m, s)
	v1.AddConnectionWeight(m, -2*s, v2)
}

// EqualityQubits is Equality on two coupled physical qubits.
func EqualityQubits(m variable.Weights, q1, q2 chimera.Qubit, s float64) {
	m.AddWeight(q1, q1, s)
	m.AddWeight(q2, q2, s)
	m.AddWeight(q1, q2, -2*s)
}

// Max adds s·(in1 + in2 + out + in1·in2 − 2·in1·out − 2·in2·out), which is
// zero exactly when out = max(in1, in2) and at least s otherwise.
func Max(m variable.Weights, in1, in2, out *variable.LogicalVariable, s float64) {
	in1.AddWeight(m, s)
	in2.AddWeight(m, s)
	out.AddWeight(m, s)
	in1.AddConnectionWeight(m, s, in2)
	in1.AddConnectionWeight(m, -2*s, out)
	in2.AddConnectionWeight(m, -2*s, out)
}

// SumEquality adds s·(Σ c_t·x_t − Σ k_j·y_j)² where x are the weighted
// variables xs with coefficients cs and y the capacity variables ys with
// their capacities k.
func SumEquality(m variable.Weights, xs []*variable.LogicalVariable, cs []float64,
	ys []*variable.CapacityVariable, s float64) {
	chimera.Check(len(xs) == len(cs), "penalty.SumEquality", "%d variables, %d coefficients", len(xs), len(cs))
	for t, x := range xs {
		x.AddWeight(m, s*cs[t]*cs[t])
	}
	for t1 := range xs {
		for t2 := t1 + 1; t2 < len(xs); t2++ {
			xs[t1].AddConnectionWeight(m, 2*s*cs[t1]*cs[t2], xs[t2])
		}
	}
	for _, y := range ys {
		y.AddWeight(m, s*y.Capacity*y.Capacity)
	}
	for j1 := range ys {
		for j2 := j1 + 1; j2 < len(ys); j2++ {
			ys[j1].AddConnectionWeight(m, 2*s*ys[j1].Capacity*ys[j2].Capacity, ys[j2].LogicalVariable)
		}
	}
	for t, x := range xs {
		for _, y := range ys {
			x.AddConnectionWeight(m, -2*s*cs[t]*y.Capacity, y.LogicalVariable)
		}
	}
}

// CapacityValues decomposes capacity into slices starting at step and
// doubling up to MaxCapacityPerVar; the last slice takes the remainder.
// Every value 0, step, 2·step, ..., capacity is a subset sum of the result.
func CapacityValues(step, capacity float64) []float64 {
	chimera.Check(step > 0, "penalty.CapacityValues", "non-positive step %g", step)
	var out []float64
	remaining, perVar := capacity, step
	for remaining > Tolerance {
		v := math.Min(remaining, perVar)
		out = append(out, v)
		remaining -= v
		perVar = math.Min(2*perVar, MaxCapacityPerVar)
	}
	chimera.Check(math.Abs(lo.Sum(out)-math.Max(capacity, 0)) < Tolerance,
		"penalty.CapacityValues", "slices %v do not add up to %g", out, capacity)
	return out
}

// NrCapacityVars returns len(CapacityValues(step, capacity)) without
// allocating.
func NrCapacityVars(step, capacity float64) int {
	chimera.Check(step > 0, "penalty.NrCapacityVars", "non-positive step %g", step)
	n := 0
	remaining, perVar := capacity, step
	for remaining > Tolerance {
		n++
		remaining -= math.Min(remaining, perVar)
		perVar = math.Min(2*perVar, MaxCapacityPerVar)
	}
	return n
}

// RoundUpFour rounds n up to the next multiple of four.
func RoundUpFour(n int) int {
	if r := n % 4; r != 0 {
		return n + 4 - r
	}
	return n
}

// AssignmentScaling outweighs switching off every server at once.
func AssignmentScaling(costs []float64) float64 {
	return lo.Sum(costs) + EpsilonWeight
}

// CapacityScaling outweighs the costliest server at the smallest capacity
// violation, which is one step squared.
func CapacityScaling(maxServerCost, minCapacityStep float64) float64 {
	return EpsilonWeight + maxServerCost/(minCapacityStep*minCapacityStep)
}

// ActivationScaling outweighs the cost of the costliest server.
func ActivationScaling(maxServerCost float64) float64 {
	return maxServerCost + EpsilonWeight
}
