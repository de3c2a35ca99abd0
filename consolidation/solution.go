package consolidation

import (
	"fmt"
	"math"
)

// Tolerance for comparing costs and consumption sums.
const Tolerance = 1e-10

// Solution is the outcome of solving a Problem.
// AssignedServer[t] is the server of tenant t, or -1 when t is unassigned.
// MinTotalCost and AssignedServer are meaningful only when Feasible.
type Solution struct {
	Feasible       bool
	MinTotalCost   float64
	AssignedServer []int
}

// Infeasible is the solution of a problem without a valid placement.
func Infeasible() Solution {
	return Solution{MinTotalCost: -1}
}

// Equivalent reports whether two solutions of the same problem agree on
// feasibility and, when feasible, on the minimal cost. Assignments may differ.
func (s Solution) Equivalent(o Solution) bool {
	if s.Feasible != o.Feasible {
		return false
	}
	return !s.Feasible || math.Abs(s.MinTotalCost-o.MinTotalCost) <= Tolerance
}

// String renders feasibility, cost and assignment on one line.
func (s Solution) String() string {
	if !s.Feasible {
		return "infeasible"
	}
	return fmt.Sprintf("feasible cost=%g assignment=%v", s.MinTotalCost, s.AssignedServer)
}
