// SPDX-License-Identifier: MIT

package mapping

import (
	"github.com/katalvlaran/quboembed/chimera"
	"github.com/katalvlaran/quboembed/matrix"
)

// Entry is one non-zero cell of the upper-triangular weight table.
// I == J denotes a linear bias.
type Entry struct {
	I, J  chimera.Qubit
	Value float64
}

// Mapping is the weight table of one embedded problem, an n×n matrix.Dense
// of which only the upper triangle (row <= col) is ever written.
type Mapping struct {
	topo chimera.Topology
	w    *matrix.Dense
}

// New allocates a zero weight table over topo. It panics when topo has no
// qubits.
// Complexity: O(n²) memory.
func New(topo chimera.Topology) *Mapping {
	w, err := matrix.NewDense(topo.NrQubits(), topo.NrQubits())
	if err != nil {
		chimera.Invariant("mapping.New", "%v", err)
	}
	return &Mapping{topo: topo, w: w}
}

// Topology returns the topology the table was built on.
func (m *Mapping) Topology() chimera.Topology { return m.topo }

// NrQubits returns the table dimension.
func (m *Mapping) NrQubits() int { return m.w.Rows() }

// canonical orders a pair into its upper-triangular cell.
func canonical(a, b chimera.Qubit) (row, col int) {
	if a > b {
		a, b = b, a
	}
	return int(a), int(b)
}

// at reads the canonical cell of (a, b); a store error is an invariant
// violation of op.
func (m *Mapping) at(op string, a, b chimera.Qubit) float64 {
	i, j := canonical(a, b)
	v, err := m.w.At(i, j)
	if err != nil {
		chimera.Invariant(op, "%v", err)
	}
	return v
}

// row returns the view of table row i.
func (m *Mapping) row(op string, i int) []float64 {
	r, err := m.w.Row(i)
	if err != nil {
		chimera.Invariant(op, "%v", err)
	}
	return r
}

// Weight returns the linear bias of q.
// Complexity: O(1).
func (m *Mapping) Weight(q chimera.Qubit) float64 {
	return m.at("Mapping.Weight", q, q)
}

// ConnectionWeight returns the coupling between a and b in either order.
// It panics when the topology does not couple them.
// Complexity: O(1).
func (m *Mapping) ConnectionWeight(a, b chimera.Qubit) float64 {
	if !m.topo.IsConnected(a, b) {
		chimera.Invariant("Mapping.ConnectionWeight", "qubits %d and %d are not connected", a, b)
	}
	return m.at("Mapping.ConnectionWeight", a, b)
}

// AddWeight accumulates delta on the bias of a (a == b) or on the coupling
// (a, b). The pair must be coupled and the resulting weight must stay finite
// and inside the topology's interval; each is checked and panics when broken.
// Complexity: O(1).
func (m *Mapping) AddWeight(a, b chimera.Qubit, delta float64) {
	if a != b && !m.topo.IsConnected(a, b) {
		chimera.Invariant("Mapping.AddWeight", "qubits %d and %d are not connected", a, b)
	}
	i, j := canonical(a, b)
	w, err := m.w.Add(i, j, delta)
	if err != nil {
		chimera.Invariant("Mapping.AddWeight", "%v", err)
	}
	if w > m.topo.MaxWeight() {
		chimera.Invariant("Mapping.AddWeight", "weight %g on (%d,%d) above %g", w, a, b, m.topo.MaxWeight())
	}
	if w < m.topo.MinWeight() {
		chimera.Invariant("Mapping.AddWeight", "weight %g on (%d,%d) below %g", w, a, b, m.topo.MinWeight())
	}
}

// Entries lists every non-zero canonical cell in row-major order.
// Complexity: O(n²).
func (m *Mapping) Entries() []Entry {
	var out []Entry
	n := m.NrQubits()
	for i := 0; i < n; i++ {
		row := m.row("Mapping.Entries", i)
		for j := i; j < n; j++ {
			if row[j] != 0 {
				out = append(out, Entry{I: chimera.Qubit(i), J: chimera.Qubit(j), Value: row[j]})
			}
		}
	}
	return out
}

// ActiveQubits lists, ascending, the qubits carrying a non-zero bias or
// taking part in a non-zero coupling.
func (m *Mapping) ActiveQubits() []chimera.Qubit {
	n := m.NrQubits()
	active := make([]bool, n)
	for _, e := range m.Entries() {
		active[e.I] = true
		active[e.J] = true
	}
	out := make([]chimera.Qubit, 0, n)
	for q, ok := range active {
		if ok {
			out = append(out, chimera.Qubit(q))
		}
	}
	return out
}

// Energy evaluates Σ w_ij·x_i·x_j over the canonical cells for the 0/1
// assignment values, indexed by qubit id.
func (m *Mapping) Energy(values []int8) float64 {
	n := m.NrQubits()
	chimera.Check(len(values) == n, "Mapping.Energy",
		"got %d values for %d qubits", len(values), n)
	var e float64
	for i := 0; i < n; i++ {
		if values[i] == 0 {
			continue
		}
		row := m.row("Mapping.Energy", i)
		for j := i; j < n; j++ {
			if values[j] != 0 {
				e += row[j]
			}
		}
	}
	return e
}

// FromEntries rebuilds a table over topo from parsed entries. Unlike
// AddWeight it reports bad input as errors: entries come from files, not
// from embedding code.
func FromEntries(topo chimera.Topology, entries []Entry) (*Mapping, error) {
	m := New(topo)
	for _, e := range entries {
		if e.I < 0 || int(e.I) >= m.NrQubits() || e.J < 0 || int(e.J) >= m.NrQubits() {
			return nil, entryErrorf(e, chimera.ErrQubitRange)
		}
		if e.I != e.J && !topo.IsConnected(e.I, e.J) {
			return nil, entryErrorf(e, ErrNotConnected)
		}
		i, j := canonical(e.I, e.J)
		cur, err := m.w.At(i, j)
		if err != nil {
			return nil, entryErrorf(e, err)
		}
		w := cur + e.Value
		if w > topo.MaxWeight() || w < topo.MinWeight() {
			return nil, entryErrorf(e, ErrWeightRange)
		}
		if err := m.w.Set(i, j, w); err != nil {
			return nil, entryErrorf(e, err)
		}
	}
	return m, nil
}
