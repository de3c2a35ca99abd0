package blocks

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"

	"github.com/katalvlaran/quboembed/chimera"
)

// Direction selects on which side of its diagonal a triangle extends.
type Direction int

const (
	// NorthEast triangles extend east of the diagonal; chains leave towards
	// the east and the north.
	NorthEast Direction = iota
	// SouthWest triangles extend south of the diagonal; chains leave towards
	// the west and the south.
	SouthWest
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case NorthEast:
		return "north-east"
	case SouthWest:
		return "south-west"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Triangle is a clique of nrChains chains over a staircase of cells.
// Chain bookkeeping (used / intact) is mutable; geometry is fixed.
type Triangle struct {
	dir       Direction
	topLeft   chimera.Qubit
	nrChains  int
	cellWidth int

	qubits   *roaring.Bitmap
	chains   [][]chimera.Qubit
	used     *bitset.BitSet
	ok       *bitset.BitSet
	nrBroken int
}

// NewTriangle lays out a triangle anchored at the upper-left qubit topLeft of
// its first diagonal cell. Chains touching a defective qubit of topo are
// marked broken and are never handed out.
func NewTriangle(topo chimera.Topology, dir Direction, topLeft chimera.Qubit, nrChains int) (*Triangle, error) {
	if nrChains <= 0 || nrChains%chimera.ColumnSize != 0 {
		return nil, fmt.Errorf("NewTriangle(%d chains): %w", nrChains, ErrChainCount)
	}
	w := nrChains / chimera.ColumnSize
	if !topLeft.Valid() || !topLeft.IsCellCorner() ||
		topLeft.CellRow()+w > chimera.GridWidth || topLeft.CellCol()+w > chimera.GridWidth {
		return nil, fmt.Errorf("NewTriangle(%s at %d, width %d): %w", dir, topLeft, w, ErrAnchor)
	}

	t := &Triangle{
		dir:       dir,
		topLeft:   topLeft,
		nrChains:  nrChains,
		cellWidth: w,
		qubits:    roaring.New(),
		chains:    make([][]chimera.Qubit, nrChains),
		used:      bitset.New(uint(nrChains)),
		ok:        bitset.New(uint(nrChains)),
	}
	for _, cell := range t.Cells() {
		for _, q := range cell.CellQubits() {
			t.qubits.Add(uint32(q))
		}
	}
	for c := 0; c < nrChains; c++ {
		chain := t.layoutChain(c)
		intact := true
		for _, q := range chain {
			chimera.Check(t.qubits.Contains(uint32(q)), "NewTriangle",
				"chain %d leaves the footprint at qubit %d", c, q)
			if topo.IsDefective(q) {
				intact = false
			}
		}
		t.chains[c] = chain
		if intact {
			t.ok.Set(uint(c))
		} else {
			t.nrBroken++
		}
	}
	return t, nil
}

// Cells returns the upper-left qubit of every footprint cell: the diagonal
// plus, for diagonal cell k, the w-1-k cells east (north-east) or south
// (south-west) of it.
func (t *Triangle) Cells() []chimera.Qubit {
	var cells []chimera.Qubit
	diag := t.topLeft
	for k := 0; k < t.cellWidth; k++ {
		cells = append(cells, diag)
		off := diag
		for s := 0; s < t.cellWidth-1-k; s++ {
			if t.dir == NorthEast {
				off = off.GoEast(1)
			} else {
				off = off.GoSouth(1)
			}
			cells = append(cells, off)
		}
		if k < t.cellWidth-1 {
			diag = diag.GoEast(1).GoSouth(1)
		}
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i] < cells[j] })
	return cells
}

// layoutChain computes the qubits of chain c in ascending order.
func (t *Triangle) layoutChain(c int) []chimera.Qubit {
	k, off := c/chimera.ColumnSize, c%chimera.ColumnSize
	stepsX, stepsY := t.cellWidth-1-k, k
	if t.dir == SouthWest {
		stepsX, stepsY = k, t.cellWidth-1-k
	}
	left := (t.topLeft + chimera.Qubit(off)).GoEast(k).GoSouth(k)
	right := left.RightOpposite()

	chain := []chimera.Qubit{left, right}
	h, v := right, left
	for s := 0; s < stepsX; s++ {
		if t.dir == NorthEast {
			h = h.GoEast(1)
		} else {
			h = h.GoWest(1)
		}
		chain = append(chain, h)
	}
	for s := 0; s < stepsY; s++ {
		if t.dir == NorthEast {
			v = v.GoNorth(1)
		} else {
			v = v.GoSouth(1)
		}
		chain = append(chain, v)
	}
	sort.Slice(chain, func(i, j int) bool { return chain[i] < chain[j] })
	return chain
}

// Direction returns the orientation of t.
func (t *Triangle) Direction() Direction { return t.dir }

// TopLeft returns the anchor qubit.
func (t *Triangle) TopLeft() chimera.Qubit { return t.topLeft }

// NrChains returns the clique size.
func (t *Triangle) NrChains() int { return t.nrChains }

// CellWidth returns the number of diagonal cells.
func (t *Triangle) CellWidth() int { return t.cellWidth }

// NrBrokenChains returns how many chains touch a defective qubit.
func (t *Triangle) NrBrokenChains() int { return t.nrBroken }

// Qubits returns a copy of the footprint.
func (t *Triangle) Qubits() *roaring.Bitmap { return t.qubits.Clone() }

// Chain returns the qubits of chain c in ascending order.
func (t *Triangle) Chain(c int) []chimera.Qubit {
	t.checkIndex("Triangle.Chain", c)
	return append([]chimera.Qubit(nil), t.chains[c]...)
}

// ChainOK reports whether chain c avoids every defective qubit.
func (t *Triangle) ChainOK(c int) bool {
	t.checkIndex("Triangle.ChainOK", c)
	return t.ok.Test(uint(c))
}

// ChainUsed reports whether chain c has been handed out.
func (t *Triangle) ChainUsed(c int) bool {
	t.checkIndex("Triangle.ChainUsed", c)
	return t.used.Test(uint(c))
}

// MarkAsUsed reserves chain c. Reserving a chain twice panics.
func (t *Triangle) MarkAsUsed(c int) {
	t.checkIndex("Triangle.MarkAsUsed", c)
	chimera.Check(!t.used.Test(uint(c)), "Triangle.MarkAsUsed", "chain %d already used", c)
	t.used.Set(uint(c))
}

// MarkUnusedOkChain reserves the lowest intact chain not yet used and
// returns its qubits and index.
func (t *Triangle) MarkUnusedOkChain() ([]chimera.Qubit, int, error) {
	free := t.ok.Difference(t.used)
	c, found := free.NextSet(0)
	if !found {
		return nil, -1, fmt.Errorf("Triangle(%s at %d): %w", t.dir, t.topLeft, ErrNoUnusedChain)
	}
	t.used.Set(c)
	return t.Chain(int(c)), int(c), nil
}

func (t *Triangle) checkIndex(op string, c int) {
	chimera.Check(c >= 0 && c < t.nrChains, op, "chain %d outside [0,%d)", c, t.nrChains)
}
