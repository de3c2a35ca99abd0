package blocks_test

import (
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/quboembed/blocks"
	"github.com/katalvlaran/quboembed/chimera"
)

type q = chimera.Qubit

//----------------------------------------------------------------------------//
// Triangle
//----------------------------------------------------------------------------//

func TestTriangle_Geometry(t *testing.T) {
	topo := chimera.Default()
	cases := []struct {
		name   string
		dir    blocks.Direction
		anchor q
		chains int
		cells  []q
		probe  map[int][]q
	}{
		{
			name: "NorthEast8", dir: blocks.NorthEast, anchor: 8, chains: 8,
			cells: []q{8, 16, 80},
			probe: map[int][]q{0: {8, 12, 20}, 4: {16, 80, 84}},
		},
		{
			name: "SouthWest8", dir: blocks.SouthWest, anchor: 8, chains: 8,
			cells: []q{8, 72, 80},
			probe: map[int][]q{0: {8, 12, 72}, 3: {11, 15, 75}, 4: {76, 80, 84}, 7: {79, 83, 87}},
		},
		{
			name: "NorthEast80", dir: blocks.NorthEast, anchor: 80, chains: 16,
			probe: map[int][]q{4: {88, 152, 156, 164, 172}},
		},
		{
			name: "SouthWest80", dir: blocks.SouthWest, anchor: 80, chains: 16,
			probe: map[int][]q{4: {148, 152, 156, 216, 280}},
		},
		{
			name: "SingleCell", dir: blocks.NorthEast, anchor: 0, chains: 4,
			cells: []q{0},
			probe: map[int][]q{0: {0, 4}, 3: {3, 7}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr, err := blocks.NewTriangle(topo, tc.dir, tc.anchor, tc.chains)
			require.NoError(t, err)
			assert.Equal(t, tc.chains/4, tr.CellWidth())
			if tc.cells != nil {
				assert.Equal(t, tc.cells, tr.Cells())
				assert.Equal(t, uint64(8*len(tc.cells)), tr.Qubits().GetCardinality())
			}
			for c, want := range tc.probe {
				assert.Equal(t, want, tr.Chain(c), "chain %d", c)
			}
			assert.Zero(t, tr.NrBrokenChains())
		})
	}
}

// Every pair of chains of a triangle must be coupled: the triangle is a clique.
func TestTriangle_Clique(t *testing.T) {
	topo := chimera.Default()
	for _, dir := range []blocks.Direction{blocks.NorthEast, blocks.SouthWest} {
		tr, err := blocks.NewTriangle(topo, dir, 8, 16)
		require.NoError(t, err)
		for a := 0; a < tr.NrChains(); a++ {
			for b := a + 1; b < tr.NrChains(); b++ {
				_, _, ok := chimera.ConnectedPair(topo, tr.Chain(a), tr.Chain(b))
				assert.True(t, ok, "%s chains %d and %d", dir, a, b)
			}
		}
	}
}

func TestTriangle_Errors(t *testing.T) {
	topo := chimera.Default()
	_, err := blocks.NewTriangle(topo, blocks.NorthEast, 0, 6)
	assert.ErrorIs(t, err, blocks.ErrChainCount)
	_, err = blocks.NewTriangle(topo, blocks.NorthEast, 9, 4)
	assert.ErrorIs(t, err, blocks.ErrAnchor)
	_, err = blocks.NewTriangle(topo, blocks.SouthWest, 56, 8)
	assert.ErrorIs(t, err, blocks.ErrAnchor)
	_, err = blocks.NewTriangle(topo, blocks.SouthWest, 448, 8)
	assert.ErrorIs(t, err, blocks.ErrAnchor)
}

func TestTriangle_ChainBookkeeping(t *testing.T) {
	tr, err := blocks.NewTriangle(chimera.Default(), blocks.NorthEast, 152, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, tr.NrBrokenChains())
	assert.False(t, tr.ChainOK(2))

	tr.MarkAsUsed(1)
	assert.True(t, tr.ChainUsed(1))
	assert.Panics(t, func() { tr.MarkAsUsed(1) })

	chain, idx, err := tr.MarkUnusedOkChain()
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Equal(t, []q{152, 156}, chain)

	_, idx, err = tr.MarkUnusedOkChain()
	require.NoError(t, err)
	assert.Equal(t, 3, idx)

	_, _, err = tr.MarkUnusedOkChain()
	assert.ErrorIs(t, err, blocks.ErrNoUnusedChain)
}

//----------------------------------------------------------------------------//
// OneMaxBar
//----------------------------------------------------------------------------//

func TestOneMaxBar(t *testing.T) {
	topo := chimera.Default()

	b, err := blocks.NewOneMaxBar(topo, 0, 2, []bool{true, false, false, true}, nil)
	require.NoError(t, err)
	assert.Equal(t, q(4), b.Input(0))
	assert.Equal(t, q(7), b.Input(1))
	assert.Equal(t, []q{0, 5}, b.Auxiliaries(0))
	assert.Equal(t, []q{2, 6}, b.Auxiliaries(1))
	assert.Equal(t, q(2), b.Output())
	assert.Equal(t, []uint32{0, 2, 4, 5, 6, 7}, b.Qubits().ToArray())

	b, err = blocks.NewOneMaxBar(topo, 0, 3, []bool{true, false, true, false, true, false}, nil)
	require.NoError(t, err)
	assert.Equal(t, []q{2, 7, 66}, b.Auxiliaries(1))
	assert.Equal(t, q(68), b.Input(2))
	assert.Equal(t, []q{64, 69}, b.Auxiliaries(2))
	assert.Equal(t, q(64), b.Output())

	b, err = blocks.NewOneMaxBar(topo, 0, 3, []bool{true, false, true, false, true, false}, roaring.BitmapOf(64))
	require.NoError(t, err)
	assert.Equal(t, []q{65, 69}, b.Auxiliaries(2))
	assert.Equal(t, q(65), b.Output())
}

func TestOneMaxBar_Errors(t *testing.T) {
	topo := chimera.Default()
	_, err := blocks.NewOneMaxBar(topo, 450, 3, []bool{true, false, true, false, true, false}, nil)
	assert.ErrorIs(t, err, blocks.ErrBarSpace)

	_, err = blocks.NewOneMaxBar(topo, 0, 1, []bool{true, false}, roaring.BitmapOf(0, 1))
	assert.ErrorIs(t, err, blocks.ErrDefectiveQubit)

	assert.Panics(t, func() {
		_, _ = blocks.NewOneMaxBar(topo, 0, 1, []bool{true, true}, nil)
	})
}

//----------------------------------------------------------------------------//
// MultiMaxBar
//----------------------------------------------------------------------------//

func TestMultiMaxBar_TwoGroups(t *testing.T) {
	flags := [][]bool{{true, false, true, false}, {false, true, false, true}}
	b, err := blocks.NewMultiMaxBar(chimera.Default(), 0, 2, 2, flags, 1)
	require.NoError(t, err)

	assert.Equal(t, []q{4}, b.InputQubits(0, 0))
	assert.Equal(t, []q{6}, b.InputQubits(0, 1))
	assert.Equal(t, []q{69}, b.InputQubits(1, 0))
	assert.Equal(t, []q{71}, b.InputQubits(1, 1))

	assert.Equal(t, []q{0, 5, 64}, b.Auxiliaries(0, 0))
	assert.Equal(t, []q{1, 7, 65}, b.Auxiliaries(0, 1))
	assert.Equal(t, []q{66, 68}, b.Output(0))
	assert.Equal(t, []q{67, 70}, b.Output(1))
	assert.Equal(t, uint64(14), b.Qubits().GetCardinality())
}

// Groups start max(minGroupDistance, height) cells apart; the running
// maximum of group 0 reaches group 1 through a chain of that length.
func TestMultiMaxBar_GroupDistance(t *testing.T) {
	flags := [][]bool{{true, false, true, false}, {false, true, false, true}}
	b, err := blocks.NewMultiMaxBar(chimera.Default(), 0, 2, 2, flags, 3)
	require.NoError(t, err)

	assert.Equal(t, []q{197}, b.InputQubits(1, 0))
	assert.Equal(t, []q{199}, b.InputQubits(1, 1))
	assert.Equal(t, []q{0, 5, 64, 128, 192}, b.Auxiliaries(0, 0))
	assert.Equal(t, []q{1, 7, 65, 129, 193}, b.Auxiliaries(0, 1))
	assert.Equal(t, []q{194, 196}, b.Output(0))
	assert.Equal(t, []q{195, 198}, b.Output(1))
	assert.Equal(t, uint64(18), b.Qubits().GetCardinality())

	_, err = blocks.NewMultiMaxBar(chimera.Default(), 0, 2, 2, flags, 8)
	assert.ErrorIs(t, err, blocks.ErrBarSpace)
}

func TestMultiMaxBar_Staircase(t *testing.T) {
	flags := [][]bool{{true, false, true, false, true, false}}
	b, err := blocks.NewMultiMaxBar(chimera.Default(), 0, 1, 3, flags, 1)
	require.NoError(t, err)

	assert.Equal(t, []q{12}, b.InputQubits(0, 0))
	assert.Equal(t, []q{14}, b.InputQubits(0, 1))
	assert.Equal(t, []q{68, 76}, b.InputQubits(0, 2))
	assert.Equal(t, []q{8, 13}, b.Output(0))
	assert.Equal(t, []q{9, 15}, b.Output(1))
	assert.Equal(t, []q{64, 69}, b.Output(2))
}

func TestMultiMaxBar_Errors(t *testing.T) {
	flags := make([][]bool, 9)
	for g := range flags {
		flags[g] = []bool{true, false}
	}
	_, err := blocks.NewMultiMaxBar(chimera.Default(), 0, 9, 1, flags, 1)
	assert.ErrorIs(t, err, blocks.ErrBarSpace)

	broken, err := chimera.NewChimera(chimera.WithDefective(5))
	require.NoError(t, err)
	_, err = blocks.NewMultiMaxBar(broken, 0, 2, 2,
		[][]bool{{true, false, true, false}, {false, true, false, true}}, 1)
	assert.ErrorIs(t, err, blocks.ErrDefectiveQubit)
}
