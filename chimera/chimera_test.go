package chimera_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/quboembed/chimera"
)

//----------------------------------------------------------------------------//
// Qubit navigation
//----------------------------------------------------------------------------//

func TestQubit_CellArithmetic(t *testing.T) {
	q := chimera.Qubit(157) // cell row 2, cell col 3, right column, row 1
	assert.Equal(t, 19, q.Cell())
	assert.Equal(t, 2, q.CellRow())
	assert.Equal(t, 3, q.CellCol())
	assert.Equal(t, 5, q.Offset())
	assert.Equal(t, 1, q.Row())
	assert.True(t, q.IsRight())
	assert.Equal(t, chimera.Qubit(152), q.CellCorner())
	assert.Equal(t, [4]chimera.Qubit{152, 153, 154, 155}, q.LeftColumn())
	assert.Equal(t, [4]chimera.Qubit{156, 157, 158, 159}, q.RightColumn())
	assert.Equal(t, chimera.Qubit(156), chimera.Qubit(152).RightOpposite())
}

func TestQubit_CanGo(t *testing.T) {
	cases := []struct {
		q                        chimera.Qubit
		north, south, east, west bool
	}{
		{0, false, true, true, false},
		{63, false, true, false, true},
		{64, true, true, true, false},
		{447, true, true, false, true},
		{448, true, false, true, false},
		{511, true, false, false, true},
		{100, true, true, true, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.north, tc.q.CanGoNorth(), "north %d", tc.q)
		assert.Equal(t, tc.south, tc.q.CanGoSouth(), "south %d", tc.q)
		assert.Equal(t, tc.east, tc.q.CanGoEast(), "east %d", tc.q)
		assert.Equal(t, tc.west, tc.q.CanGoWest(), "west %d", tc.q)
	}
}

func TestQubit_Go(t *testing.T) {
	q := chimera.Qubit(8)
	assert.Equal(t, chimera.Qubit(80), q.GoSouth(1))
	assert.Equal(t, chimera.Qubit(24), q.GoEast(2))
	assert.Equal(t, chimera.Qubit(0), q.GoWest(1))
	assert.Equal(t, chimera.Qubit(8), q.GoSouth(3).GoNorth(3))
	assert.Equal(t, q, q.GoEast(0))

	assert.PanicsWithError(t,
		"invariant violated in Qubit.GoNorth: qubit 8 is in the top grid row",
		func() { q.GoNorth(1) })
	assert.Panics(t, func() { chimera.Qubit(56).GoEast(1) })
	assert.Panics(t, func() { chimera.Qubit(4).RightOpposite() })
}

func TestQubit_GoSouthHalf(t *testing.T) {
	cases := []struct {
		from  chimera.Qubit
		steps int
		want  chimera.Qubit
	}{
		{0, 1, 2},
		{0, 2, 64},
		{0, 3, 66},
		{1, 1, 3},
		{2, 1, 64},
		{3, 1, 65},
		{4, 1, 6},
		{6, 1, 68},
		{7, 1, 69},
		{8, 4, 136},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.from.GoSouthHalf(tc.steps), "from %d steps %d", tc.from, tc.steps)
	}
}

func TestQubit_GoSouthQubitwise(t *testing.T) {
	assert.Equal(t, chimera.Qubit(5), chimera.Qubit(4).GoSouthQubitwise(1))
	assert.Equal(t, chimera.Qubit(7), chimera.Qubit(4).GoSouthQubitwise(3))
	assert.Equal(t, chimera.Qubit(68), chimera.Qubit(4).GoSouthQubitwise(4))
	assert.Equal(t, chimera.Qubit(70), chimera.Qubit(4).GoSouthQubitwise(6))
	assert.Equal(t, chimera.Qubit(64), chimera.Qubit(3).GoSouthQubitwise(1))
	assert.Panics(t, func() { chimera.Qubit(511).GoSouthQubitwise(1) })
}

//----------------------------------------------------------------------------//
// Topology
//----------------------------------------------------------------------------//

func TestChimera_IsConnected(t *testing.T) {
	c := chimera.Default()
	cases := []struct {
		a, b chimera.Qubit
		want bool
	}{
		{0, 4, true},   // same cell, opposite columns
		{3, 7, true},   // same cell
		{0, 1, false},  // same column
		{4, 5, false},  // same column
		{0, 64, true},  // vertical coupler
		{4, 68, false}, // right column does not couple vertically
		{4, 12, true},  // horizontal coupler
		{0, 8, false},  // left column does not couple horizontally
		{60, 68, false},
		{0, 65, false},
		{9, 9, false},
		{-1, 4, false},
		{508, 512, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, c.IsConnected(tc.a, tc.b), "%d-%d", tc.a, tc.b)
		assert.Equal(t, tc.want, c.IsConnected(tc.b, tc.a), "%d-%d symmetric", tc.b, tc.a)
	}
}

func TestChimera_Neighbors(t *testing.T) {
	c := chimera.Default()
	assert.Equal(t, []chimera.Qubit{4, 5, 6, 7, 64}, c.Neighbors(0))
	assert.Equal(t, []chimera.Qubit{9, 76, 77, 78, 79, 137}, c.Neighbors(73))
	assert.Equal(t, []chimera.Qubit{64, 65, 66, 67, 76}, c.Neighbors(68))
	for _, q := range []chimera.Qubit{0, 73, 100, 511} {
		for _, n := range c.Neighbors(q) {
			assert.True(t, c.IsConnected(q, n))
		}
	}
}

func TestChimera_Defective(t *testing.T) {
	c := chimera.Default()
	assert.Equal(t, []chimera.Qubit{35, 154, 410}, c.Defective())
	assert.True(t, c.IsDefective(154))
	assert.False(t, c.IsIntact(1, 35))
	assert.True(t, c.IsIntact(1, 2, 3))

	intact, err := chimera.NewChimera(chimera.WithDefective())
	require.NoError(t, err)
	assert.Empty(t, intact.Defective())

	_, err = chimera.NewChimera(chimera.WithDefective(512))
	assert.True(t, errors.Is(err, chimera.ErrQubitRange))
}

func TestChimera_CellGrid(t *testing.T) {
	g := chimera.Default().CellGrid()
	require.Equal(t, chimera.GridWidth, g.Width)
	require.Equal(t, chimera.GridWidth, g.Height)
	assert.Equal(t, 8, g.CellValues[0][0])
	assert.Equal(t, 7, g.CellValues[0][4], "qubit 35")
	assert.Equal(t, 7, g.CellValues[2][3], "qubit 154")
	assert.Equal(t, 7, g.CellValues[6][3], "qubit 410")

	regions := chimera.Default().IntactRegions()
	require.Len(t, regions, 1)
	assert.Len(t, regions[0], 61)
	assert.Equal(t, chimera.Qubit(0), regions[0][0])
}

func TestChimera_IntactRegionsSplit(t *testing.T) {
	// one broken qubit in every cell of grid column 1
	var broken []chimera.Qubit
	for row := 0; row < chimera.GridWidth; row++ {
		broken = append(broken, chimera.Qubit(row*chimera.RowStride+chimera.CellSize))
	}
	c, err := chimera.NewChimera(chimera.WithDefective(broken...))
	require.NoError(t, err)

	regions := c.IntactRegions()
	require.Len(t, regions, 2)
	assert.Len(t, regions[0], 8)
	assert.Len(t, regions[1], 48)
	assert.Equal(t, chimera.Qubit(0), regions[0][0])
	assert.Equal(t, chimera.Qubit(16), regions[1][0])
	for _, q := range regions[0] {
		assert.Equal(t, 0, q.CellCol())
	}
}

func TestWithWeightRange(t *testing.T) {
	c, err := chimera.NewChimera(chimera.WithWeightRange(-2, 2))
	require.NoError(t, err)
	assert.Equal(t, -2.0, c.MinWeight())
	assert.Equal(t, 2.0, c.MaxWeight())
	assert.Panics(t, func() { chimera.WithWeightRange(1, -1) })
}

func TestFullyConnected(t *testing.T) {
	f := chimera.NewFullyConnected(3)
	assert.Equal(t, 3, f.NrQubits())
	assert.True(t, f.IsConnected(0, 2))
	assert.False(t, f.IsConnected(1, 1))
	assert.False(t, f.IsConnected(1, 3))
	assert.Equal(t, []chimera.Qubit{0, 2}, f.Neighbors(1))
	assert.False(t, f.IsDefective(0))
}

func TestConnectedPair(t *testing.T) {
	c := chimera.Default()
	a, b, ok := chimera.ConnectedPair(c, []chimera.Qubit{1, 0}, []chimera.Qubit{64, 5})
	require.True(t, ok)
	assert.Equal(t, chimera.Qubit(1), a)
	assert.Equal(t, chimera.Qubit(5), b)

	_, _, ok = chimera.ConnectedPair(c, []chimera.Qubit{0}, []chimera.Qubit{1, 2})
	assert.False(t, ok)
}
