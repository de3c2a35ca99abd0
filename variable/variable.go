package variable

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/katalvlaran/quboembed/chimera"
)

// Weights is the weight store a variable writes to and reads from.
// *mapping.Mapping satisfies it.
type Weights interface {
	Topology() chimera.Topology
	Weight(q chimera.Qubit) float64
	ConnectionWeight(a, b chimera.Qubit) float64
	AddWeight(a, b chimera.Qubit, delta float64)
}

// LogicalVariable is one binary problem variable realized by a set of qubits.
type LogicalVariable struct {
	qubits *roaring.Bitmap
}

// New returns a variable over the given qubits.
func New(qubits ...chimera.Qubit) *LogicalVariable {
	v := &LogicalVariable{qubits: roaring.New()}
	v.Add(qubits...)
	return v
}

// FromBitmap returns a variable over a copy of bm.
func FromBitmap(bm *roaring.Bitmap) *LogicalVariable {
	return &LogicalVariable{qubits: bm.Clone()}
}

// Add extends the qubit set.
func (v *LogicalVariable) Add(qubits ...chimera.Qubit) {
	for _, q := range qubits {
		if q < 0 {
			chimera.Invariant("LogicalVariable.Add", "negative qubit %d", q)
		}
		v.qubits.Add(uint32(q))
	}
}

// Len returns the number of qubits.
func (v *LogicalVariable) Len() int { return int(v.qubits.GetCardinality()) }

// Contains reports whether q represents v.
func (v *LogicalVariable) Contains(q chimera.Qubit) bool {
	return q >= 0 && v.qubits.Contains(uint32(q))
}

// First returns the lowest qubit id. It panics on an empty variable.
func (v *LogicalVariable) First() chimera.Qubit {
	chimera.Check(!v.qubits.IsEmpty(), "LogicalVariable.First", "variable has no qubits")
	return chimera.Qubit(v.qubits.Minimum())
}

// Qubits lists the qubits in ascending order.
func (v *LogicalVariable) Qubits() []chimera.Qubit {
	out := make([]chimera.Qubit, 0, v.qubits.GetCardinality())
	it := v.qubits.Iterator()
	for it.HasNext() {
		out = append(out, chimera.Qubit(it.Next()))
	}
	return out
}

// Bitmap returns a copy of the qubit set.
func (v *LogicalVariable) Bitmap() *roaring.Bitmap { return v.qubits.Clone() }

// AddWeight adds w to the linear bias of the variable. The whole weight goes
// to the lowest qubit.
func (v *LogicalVariable) AddWeight(m Weights, w float64) {
	q := v.First()
	m.AddWeight(q, q, w)
}

// Weight returns the summed linear bias over all qubits of v.
func (v *LogicalVariable) Weight(m Weights) float64 {
	var sum float64
	it := v.qubits.Iterator()
	for it.HasNext() {
		sum += m.Weight(chimera.Qubit(it.Next()))
	}
	return sum
}

// AddConnectionWeight adds w to the coupling between v and other. The whole
// weight goes to the first coupled pair in ascending order; it panics when
// the two variables are not adjacent.
func (v *LogicalVariable) AddConnectionWeight(m Weights, w float64, other *LogicalVariable) {
	a, b, ok := chimera.ConnectedPair(m.Topology(), v.Qubits(), other.Qubits())
	if !ok {
		chimera.Invariant("LogicalVariable.AddConnectionWeight",
			"variables %v and %v share no coupler", v.Qubits(), other.Qubits())
	}
	m.AddWeight(a, b, w)
}

// ConnectionWeight returns the summed coupling over every coupled pair of
// qubits between v and other. It panics when the variables overlap.
func (v *LogicalVariable) ConnectionWeight(m Weights, other *LogicalVariable) float64 {
	if v.qubits.Intersects(other.qubits) {
		chimera.Invariant("LogicalVariable.ConnectionWeight",
			"variables %v and %v overlap", v.Qubits(), other.Qubits())
	}
	topo := m.Topology()
	var sum float64
	for _, a := range v.Qubits() {
		for _, b := range other.Qubits() {
			if topo.IsConnected(a, b) {
				sum += m.ConnectionWeight(a, b)
			}
		}
	}
	return sum
}

// InternalPairs lists every coupled pair (a, b), a < b, inside v.
func (v *LogicalVariable) InternalPairs(topo chimera.Topology) [][2]chimera.Qubit {
	qs := v.Qubits()
	var out [][2]chimera.Qubit
	for i, a := range qs {
		for _, b := range qs[i+1:] {
			if topo.IsConnected(a, b) {
				out = append(out, [2]chimera.Qubit{a, b})
			}
		}
	}
	return out
}

// CapacityVariable is a variable standing for one slice of a server's
// capacity in one metric.
type CapacityVariable struct {
	*LogicalVariable
	Capacity float64
}

// NewCapacity returns a capacity variable of the given size over qubits.
func NewCapacity(capacity float64, qubits ...chimera.Qubit) *CapacityVariable {
	return &CapacityVariable{LogicalVariable: New(qubits...), Capacity: capacity}
}

// Union returns the union of all qubit sets.
func Union(vars ...*LogicalVariable) *roaring.Bitmap {
	bms := make([]*roaring.Bitmap, 0, len(vars))
	for _, v := range vars {
		bms = append(bms, v.qubits)
	}
	return roaring.FastOr(bms...)
}

// Overlaps reports whether any qubit represents two of vars.
func Overlaps(vars ...*LogicalVariable) bool {
	var total uint64
	for _, v := range vars {
		total += v.qubits.GetCardinality()
	}
	return total != Union(vars...).GetCardinality()
}

// AssertDisjoint panics when vars overlap; op names the caller.
func AssertDisjoint(op string, vars ...*LogicalVariable) {
	chimera.Check(!Overlaps(vars...), op, "%d variables share qubits", len(vars))
}
