package chimera

import (
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"

	"github.com/katalvlaran/quboembed/gridgraph"
)

// Topology is the connectivity capability a weight store is built on.
// Implementations must be symmetric and irreflexive in IsConnected.
type Topology interface {
	// NrQubits is the number of addressable qubits, ids in [0, NrQubits).
	NrQubits() int
	// MinWeight and MaxWeight bound every accumulated weight.
	MinWeight() float64
	MaxWeight() float64
	// IsConnected reports whether a coupler exists between a and b.
	IsConnected(a, b Qubit) bool
	// Neighbors lists the qubits coupled with q in ascending order.
	Neighbors(q Qubit) []Qubit
	// IsDefective reports whether q is unusable hardware.
	IsDefective(q Qubit) bool
}

// DefaultDefective is the defect set of the modeled processor.
var DefaultDefective = []Qubit{35, 154, 410}

// Default weight interval: unbounded.
var (
	DefaultMinWeight = math.Inf(-1)
	DefaultMaxWeight = math.Inf(1)
)

// Option configures a Chimera or FullyConnected topology.
type Option func(*options)

type options struct {
	defective []Qubit
	minWeight float64
	maxWeight float64
}

func defaultOptions() options {
	return options{
		defective: DefaultDefective,
		minWeight: DefaultMinWeight,
		maxWeight: DefaultMaxWeight,
	}
}

// WithDefective replaces the default defect set. Pass no qubits for an
// intact grid.
func WithDefective(qubits ...Qubit) Option {
	return func(o *options) {
		o.defective = append([]Qubit(nil), qubits...)
	}
}

// WithWeightRange bounds every weight accumulated on the topology.
// It panics when min > max or either bound is NaN.
func WithWeightRange(min, max float64) Option {
	if math.IsNaN(min) || math.IsNaN(max) || min > max {
		panic(fmt.Sprintf("chimera: WithWeightRange(%g, %g): invalid interval", min, max))
	}
	return func(o *options) {
		o.minWeight = min
		o.maxWeight = max
	}
}

// Chimera is the 8×8 grid of unit cells. It is immutable after construction
// and safe for concurrent use.
type Chimera struct {
	defective *bitset.BitSet
	minWeight float64
	maxWeight float64
}

// NewChimera builds the grid. It returns ErrQubitRange when a defective qubit
// lies outside the grid.
func NewChimera(opts ...Option) (*Chimera, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Chimera{
		defective: bitset.New(NrQubits),
		minWeight: o.minWeight,
		maxWeight: o.maxWeight,
	}
	for _, q := range o.defective {
		if !q.Valid() {
			return nil, fmt.Errorf("NewChimera: defective qubit %d: %w", q, ErrQubitRange)
		}
		c.defective.Set(uint(q))
	}
	return c, nil
}

// Default returns the grid with the default defect set and unbounded weights.
func Default() *Chimera {
	c, err := NewChimera()
	if err != nil {
		panic(err)
	}
	return c
}

// NrQubits implements Topology.
func (c *Chimera) NrQubits() int { return NrQubits }

// MinWeight implements Topology.
func (c *Chimera) MinWeight() float64 { return c.minWeight }

// MaxWeight implements Topology.
func (c *Chimera) MaxWeight() float64 { return c.maxWeight }

// IsDefective implements Topology.
func (c *Chimera) IsDefective(q Qubit) bool {
	return q.Valid() && c.defective.Test(uint(q))
}

// Defective returns the defect set in ascending order.
func (c *Chimera) Defective() []Qubit {
	out := make([]Qubit, 0, c.defective.Count())
	for i, ok := c.defective.NextSet(0); ok; i, ok = c.defective.NextSet(i + 1) {
		out = append(out, Qubit(i))
	}
	return out
}

// CellGrid returns the unit-cell grid valued with the number of working
// qubits per cell. Its land (LandThreshold == CellSize) is the set of fully
// working cells, joined orthogonally like inter-cell couplers.
// Complexity: O(NrQubits).
func (c *Chimera) CellGrid() *gridgraph.GridGraph {
	values := make([][]int, GridWidth)
	for y := range values {
		values[y] = make([]int, GridWidth)
	}
	for q := Qubit(0); q < NrQubits; q++ {
		if !c.IsDefective(q) {
			values[q.CellRow()][q.CellCol()]++
		}
	}
	gg, err := gridgraph.NewGridGraph(values, gridgraph.GridOptions{LandThreshold: CellSize, Conn: gridgraph.Conn4})
	if err != nil {
		Invariant("Chimera.CellGrid", "%v", err)
	}
	return gg
}

// IntactRegions groups the fully working cells into orthogonally connected
// regions and lists the corner qubit of every cell, regions ordered by their
// first cell.
func (c *Chimera) IntactRegions() [][]Qubit {
	comps := c.CellGrid().ConnectedComponents()
	out := make([][]Qubit, len(comps))
	for i, comp := range comps {
		out[i] = make([]Qubit, len(comp))
		for k, cell := range comp {
			out[i][k] = Qubit(cell * CellSize)
		}
	}
	return out
}

// IsIntact reports whether none of qubits is defective.
func (c *Chimera) IsIntact(qubits ...Qubit) bool {
	for _, q := range qubits {
		if c.IsDefective(q) {
			return false
		}
	}
	return true
}

// IsConnected implements Topology.
//
// Complexity: O(1).
func (c *Chimera) IsConnected(a, b Qubit) bool {
	if !a.Valid() || !b.Valid() || a == b {
		return false
	}
	if a > b {
		a, b = b, a
	}
	switch {
	case a.SameCell(b):
		return a.IsLeft() != b.IsLeft()
	case a.IsLeft() && b.IsLeft():
		return b-a == RowStride
	case a.IsRight() && b.IsRight():
		return b-a == CellSize && a.CellRow() == b.CellRow()
	}
	return false
}

// Neighbors implements Topology. Interior left qubits have north and south
// partners plus the right column of their cell; right qubits have east and
// west partners plus the left column.
func (c *Chimera) Neighbors(q Qubit) []Qubit {
	Check(q.Valid(), "Chimera.Neighbors", "qubit %d out of range", q)
	out := make([]Qubit, 0, ColumnSize+2)
	if q.IsLeft() {
		if q.CanGoNorth() {
			out = append(out, q.GoNorth(1))
		}
		for _, r := range q.RightColumn() {
			out = append(out, r)
		}
		if q.CanGoSouth() {
			out = append(out, q.GoSouth(1))
		}
		return out
	}
	if q.CanGoWest() {
		out = append(out, q.GoWest(1))
	}
	for _, l := range q.LeftColumn() {
		out = append(out, l)
	}
	if q.CanGoEast() {
		out = append(out, q.GoEast(1))
	}
	return out
}

// FullyConnected is a virtual topology where all distinct qubits couple.
type FullyConnected struct {
	n         int
	minWeight float64
	maxWeight float64
}

// NewFullyConnected builds a topology of n qubits. Only WithWeightRange is
// honored; a fully connected topology has no defects.
func NewFullyConnected(n int, opts ...Option) *FullyConnected {
	Check(n >= 0, "NewFullyConnected", "negative size %d", n)
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &FullyConnected{n: n, minWeight: o.minWeight, maxWeight: o.maxWeight}
}

// NrQubits implements Topology.
func (f *FullyConnected) NrQubits() int { return f.n }

// MinWeight implements Topology.
func (f *FullyConnected) MinWeight() float64 { return f.minWeight }

// MaxWeight implements Topology.
func (f *FullyConnected) MaxWeight() float64 { return f.maxWeight }

// IsDefective implements Topology.
func (f *FullyConnected) IsDefective(Qubit) bool { return false }

// IsConnected implements Topology.
func (f *FullyConnected) IsConnected(a, b Qubit) bool {
	return a != b && a >= 0 && b >= 0 && int(a) < f.n && int(b) < f.n
}

// Neighbors implements Topology.
func (f *FullyConnected) Neighbors(q Qubit) []Qubit {
	out := make([]Qubit, 0, f.n)
	for i := 0; i < f.n; i++ {
		if Qubit(i) != q {
			out = append(out, Qubit(i))
		}
	}
	return out
}

// ConnectedPair returns the first pair (a, b) with a from as and b from bs
// that t couples, scanning both lists in the given order.
func ConnectedPair(t Topology, as, bs []Qubit) (Qubit, Qubit, bool) {
	for _, a := range as {
		for _, b := range bs {
			if t.IsConnected(a, b) {
				return a, b, true
			}
		}
	}
	return 0, 0, false
}
