package blocks

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/katalvlaran/quboembed/chimera"
)

// OneMaxBar computes the maximum of its inputs down a column of half cells.
// Half cell i holds input i in its right column; auxiliary chain i carries
// the maximum of inputs 0..i.
type OneMaxBar struct {
	topLeft chimera.Qubit
	inputs  []chimera.Qubit
	aux     [][]chimera.Qubit
	qubits  *roaring.Bitmap
}

// NewOneMaxBar lays out a bar of nrInputs half cells starting at topLeft.
// inputChains has two flags per input (upper, lower row of the half cell's
// right column) of which exactly one is set; it selects the row the input
// chain arrives on. occupied lists qubits owned by other blocks.
func NewOneMaxBar(topo chimera.Topology, topLeft chimera.Qubit, nrInputs int,
	inputChains []bool, occupied *roaring.Bitmap) (*OneMaxBar, error) {
	chimera.Check(nrInputs > 0, "NewOneMaxBar", "need at least one input, got %d", nrInputs)
	chimera.Check(len(inputChains) == 2*nrInputs, "NewOneMaxBar",
		"%d chain flags for %d inputs", len(inputChains), nrInputs)

	if !topLeft.Valid() || !topLeft.IsLeft() {
		return nil, fmt.Errorf("NewOneMaxBar(%d): anchor not in a left column: %w", topLeft, ErrBarSpace)
	}
	unusable := roaring.New()
	if occupied != nil {
		unusable.Or(occupied)
	}
	isFree := func(q chimera.Qubit) bool {
		return !unusable.Contains(uint32(q)) && !topo.IsDefective(q)
	}

	b := &OneMaxBar{
		topLeft: topLeft,
		inputs:  make([]chimera.Qubit, nrInputs),
		aux:     make([][]chimera.Qubit, nrInputs),
		qubits:  roaring.New(),
	}
	corner := topLeft
	for i := 0; i < nrInputs; i++ {
		upper, lower := inputChains[2*i], inputChains[2*i+1]
		chimera.Check(upper != lower, "NewOneMaxBar", "input %d needs exactly one chain flag", i)

		rightUpper, rightLower := corner.RightOpposite(), (corner + 1).RightOpposite()
		input, rightAux := rightLower, rightUpper
		if upper {
			input, rightAux = rightUpper, rightLower
		}
		leftAux := corner
		if !isFree(corner) {
			leftAux = corner + 1
		}
		if !isFree(leftAux) || topo.IsDefective(input) || topo.IsDefective(rightAux) {
			return nil, fmt.Errorf("NewOneMaxBar(%d): half cell %d: %w", topLeft, corner, ErrDefectiveQubit)
		}
		aux := []chimera.Qubit{leftAux, rightAux}
		more := i < nrInputs-1
		if !corner.IsCellCorner() && more {
			if !leftAux.CanGoSouth() {
				return nil, fmt.Errorf("NewOneMaxBar(%d, %d inputs): %w", topLeft, nrInputs, ErrBarSpace)
			}
			link := leftAux.GoSouth(1)
			if topo.IsDefective(link) {
				return nil, fmt.Errorf("NewOneMaxBar(%d): link %d: %w", topLeft, link, ErrDefectiveQubit)
			}
			aux = append(aux, link)
		}
		sortQubits(aux)
		for _, q := range aux {
			unusable.Add(uint32(q))
			b.qubits.Add(uint32(q))
		}
		b.qubits.Add(uint32(input))
		b.inputs[i] = input
		b.aux[i] = aux
		if more {
			corner = corner.GoSouthHalf(1)
		}
	}
	b.assertWiring(topo)
	return b, nil
}

// assertWiring checks the couplers the max gadgets rely on.
func (b *OneMaxBar) assertWiring(topo chimera.Topology) {
	for i, aux := range b.aux {
		assertChain(topo, "OneMaxBar", aux)
		assertTouch(topo, "OneMaxBar", []chimera.Qubit{b.inputs[i]}, aux)
		if i > 0 {
			assertTouch(topo, "OneMaxBar", []chimera.Qubit{b.inputs[i]}, b.aux[i-1])
			assertTouch(topo, "OneMaxBar", b.aux[i-1], aux)
		}
	}
}

// TopLeft returns the anchor of the bar.
func (b *OneMaxBar) TopLeft() chimera.Qubit { return b.topLeft }

// NrInputs returns the number of inputs.
func (b *OneMaxBar) NrInputs() int { return len(b.inputs) }

// Input returns the qubit receiving input i.
func (b *OneMaxBar) Input(i int) chimera.Qubit { return b.inputs[i] }

// Auxiliaries returns the chain carrying the maximum of inputs 0..i.
func (b *OneMaxBar) Auxiliaries(i int) []chimera.Qubit {
	return append([]chimera.Qubit(nil), b.aux[i]...)
}

// Output returns the qubit reading the overall maximum: the lowest qubit of
// the last auxiliary chain.
func (b *OneMaxBar) Output() chimera.Qubit { return b.aux[len(b.aux)-1][0] }

// Qubits returns a copy of every qubit the bar occupies.
func (b *OneMaxBar) Qubits() *roaring.Bitmap { return b.qubits.Clone() }

// MultiMaxBar computes nrInputs maxima over nrGroups groups: output i is the
// maximum of input i across all groups. Inputs of one group sit on a
// staircase of right-column qubits; group g+1 starts max(minDist, height)
// cells below group g.
type MultiMaxBar struct {
	topLeft  chimera.Qubit
	nrGroups int
	nrInputs int
	inputs   [][][]chimera.Qubit
	aux      [][][]chimera.Qubit
	qubits   *roaring.Bitmap
}

// NewMultiMaxBar lays out the bar. inputChains[g] carries two flags per
// input as for NewOneMaxBar. Any defective qubit under the bar fails the
// layout with ErrDefectiveQubit.
//
// Stage 1 (Shape): a group is height = ⌈2·nrInputs/4⌉ cells tall and wide;
// groups start dist = max(minGroupDistance, height) cells apart. The bar
// must fit below and right of topLeft, else ErrBarSpace.
// Stage 2 (Inputs): input i of group g enters on a right-column qubit of
// the staircase cell height-(i/2+1) columns east of the group corner, on
// the row its chain flag selects, and runs east to the last column.
// Stage 3 (Auxiliaries): the cell of that entry qubit gives the auxiliary
// chain its first free left and right qubits. Every group but the last
// extends the left one dist cells south, down to the matching cell of the
// next group, which carries the running maximum forward.
// Stage 4 (Verify): reject defects, then assert that each chain is
// connected and touches its input and the previous group's auxiliary.
//
// Complexity: O(G·I·(W+dist)) qubits placed for G groups of I inputs on a
// W cell wide staircase.
func NewMultiMaxBar(topo chimera.Topology, topLeft chimera.Qubit, nrGroups, nrInputs int,
	inputChains [][]bool, minGroupDistance int) (*MultiMaxBar, error) {
	chimera.Check(nrGroups > 0 && nrInputs > 0, "NewMultiMaxBar",
		"need groups and inputs, got %d×%d", nrGroups, nrInputs)
	chimera.Check(len(inputChains) == nrGroups, "NewMultiMaxBar",
		"%d flag groups for %d groups", len(inputChains), nrGroups)

	height := (2*nrInputs + chimera.ColumnSize - 1) / chimera.ColumnSize
	dist := max(minGroupDistance, height)
	if !topLeft.Valid() || !topLeft.IsCellCorner() ||
		topLeft.CellRow()+dist*(nrGroups-1)+height > chimera.GridWidth ||
		topLeft.CellCol()+height > chimera.GridWidth {
		return nil, fmt.Errorf("NewMultiMaxBar(%d, %d×%d): %w", topLeft, nrGroups, nrInputs, ErrBarSpace)
	}

	b := &MultiMaxBar{
		topLeft:  topLeft,
		nrGroups: nrGroups,
		nrInputs: nrInputs,
		inputs:   make([][][]chimera.Qubit, nrGroups),
		aux:      make([][][]chimera.Qubit, nrGroups),
		qubits:   roaring.New(),
	}
	leftmost := func(g, i int) chimera.Qubit {
		flags := inputChains[g]
		chimera.Check(len(flags) == 2*nrInputs && flags[2*i] != flags[2*i+1], "NewMultiMaxBar",
			"group %d input %d needs exactly one chain flag", g, i)
		row := 2*i + 1
		if flags[2*i] {
			row = 2 * i
		}
		top := topLeft.GoSouth(dist * g)
		return (top + chimera.ColumnSize).GoEast(height - (i/2 + 1)).GoSouthQubitwise(row)
	}

	for g := 0; g < nrGroups; g++ {
		b.inputs[g] = make([][]chimera.Qubit, nrInputs)
		for i := 0; i < nrInputs; i++ {
			q := leftmost(g, i)
			in := []chimera.Qubit{q}
			for col := height - (i/2 + 1); col < height-1; col++ {
				q = q.GoEast(1)
				in = append(in, q)
			}
			b.inputs[g][i] = in
			b.occupy(in)
		}
	}
	for g := 0; g < nrGroups; g++ {
		b.aux[g] = make([][]chimera.Qubit, nrInputs)
		for i := 0; i < nrInputs; i++ {
			q := leftmost(g, i)
			left, okL := b.firstFree(q.LeftColumn())
			right, okR := b.firstFree(q.RightColumn())
			chimera.Check(okL && okR, "NewMultiMaxBar", "cell of qubit %d is full", q)
			aux := []chimera.Qubit{left, right}
			if g < nrGroups-1 {
				link := left
				for s := 0; s < dist; s++ {
					link = link.GoSouth(1)
					aux = append(aux, link)
				}
			}
			sortQubits(aux)
			b.aux[g][i] = aux
			b.occupy(aux)
		}
	}

	it := b.qubits.Iterator()
	for it.HasNext() {
		if q := chimera.Qubit(it.Next()); topo.IsDefective(q) {
			return nil, fmt.Errorf("NewMultiMaxBar(%d): qubit %d: %w", topLeft, q, ErrDefectiveQubit)
		}
	}
	b.assertWiring(topo)
	return b, nil
}

func (b *MultiMaxBar) occupy(qs []chimera.Qubit) {
	for _, q := range qs {
		chimera.Check(!b.qubits.Contains(uint32(q)), "NewMultiMaxBar", "qubit %d assigned twice", q)
		b.qubits.Add(uint32(q))
	}
}

func (b *MultiMaxBar) firstFree(column [chimera.ColumnSize]chimera.Qubit) (chimera.Qubit, bool) {
	for _, q := range column {
		if !b.qubits.Contains(uint32(q)) {
			return q, true
		}
	}
	return 0, false
}

// assertWiring checks every coupler the assignment gadgets rely on.
func (b *MultiMaxBar) assertWiring(topo chimera.Topology) {
	for g := 0; g < b.nrGroups; g++ {
		for i := 0; i < b.nrInputs; i++ {
			assertChain(topo, "MultiMaxBar", b.inputs[g][i])
			assertChain(topo, "MultiMaxBar", b.aux[g][i])
			assertTouch(topo, "MultiMaxBar", b.inputs[g][i], b.aux[g][i])
			if g > 0 {
				assertTouch(topo, "MultiMaxBar", b.inputs[g][i], b.aux[g-1][i])
				assertTouch(topo, "MultiMaxBar", b.aux[g-1][i], b.aux[g][i])
			}
		}
	}
}

// TopLeft returns the anchor of the bar.
func (b *MultiMaxBar) TopLeft() chimera.Qubit { return b.topLeft }

// InputQubits returns the chain receiving input i of group g.
func (b *MultiMaxBar) InputQubits(g, i int) []chimera.Qubit {
	return append([]chimera.Qubit(nil), b.inputs[g][i]...)
}

// Auxiliaries returns the chain carrying the maximum of input i over groups 0..g.
func (b *MultiMaxBar) Auxiliaries(g, i int) []chimera.Qubit {
	return append([]chimera.Qubit(nil), b.aux[g][i]...)
}

// Output returns the chain carrying the maximum of input i over all groups.
func (b *MultiMaxBar) Output(i int) []chimera.Qubit { return b.Auxiliaries(b.nrGroups-1, i) }

// Qubits returns a copy of every qubit the bar occupies.
func (b *MultiMaxBar) Qubits() *roaring.Bitmap { return b.qubits.Clone() }
