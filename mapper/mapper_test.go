package mapper_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/quboembed/blocks"
	"github.com/katalvlaran/quboembed/chimera"
	"github.com/katalvlaran/quboembed/consolidation"
	"github.com/katalvlaran/quboembed/mapper"
	"github.com/katalvlaran/quboembed/variable"
)

const tol = 1e-10

func qubits(v *variable.LogicalVariable) []chimera.Qubit { return v.Qubits() }

func sorted(qs ...chimera.Qubit) []chimera.Qubit {
	return variable.New(qs...).Qubits()
}

// groundState enumerates every assignment of the active qubits of cm and
// returns one of minimum energy.
func groundState(t *testing.T, cm *consolidation.Mapping) []int8 {
	t.Helper()
	active := cm.ActiveQubits()
	require.LessOrEqual(t, len(active), 20, "too many qubits to enumerate")
	x := make([]int8, cm.NrQubits())
	best := make([]int8, cm.NrQubits())
	bestE := math.Inf(1)
	for mask := 0; mask < 1<<len(active); mask++ {
		for i, q := range active {
			x[q] = int8(mask >> i & 1)
		}
		if e := cm.Energy(x); e < bestE-tol {
			bestE = e
			copy(best, x)
		}
	}
	return best
}

// single is the 1×1×1 problem: consumption c, capacity 1, cost 2, step 0.5.
func single(c float64) *consolidation.Problem {
	p := consolidation.NewProblem(1, 1, 1, 0.5)
	p.SetConsumption(0, 0, c)
	p.SetCapacity(0, 0, 1)
	p.SetCost(0, 2)
	return p
}

// Triangle mapper fixtures.

func tp1() *consolidation.Problem {
	p := consolidation.NewProblem(1, 1, 1, 0.25)
	p.SetConsumption(0, 0, 1)
	p.SetCapacity(0, 0, 0.25)
	p.SetCost(0, 0.5)
	return p
}

func tp2() *consolidation.Problem {
	p := consolidation.NewProblem(10, 1, 1, 0.25)
	for t := 0; t < 10; t++ {
		p.SetConsumption(t, 0, float64(1+t))
	}
	p.SetCapacity(0, 0, 0.25)
	p.SetCost(0, 1)
	return p
}

func tp3() *consolidation.Problem {
	p := consolidation.NewProblem(5, 1, 1, 0.25)
	for t := 0; t < 5; t++ {
		p.SetConsumption(t, 0, 1.5+0.25*float64(t))
	}
	p.SetCapacity(0, 0, 3.25)
	p.SetCost(0, 5)
	return p
}

func tp4() *consolidation.Problem {
	p := consolidation.NewProblem(5, 2, 3, 0.25)
	for t := 0; t < 5; t++ {
		for m := 0; m < 3; m++ {
			p.SetConsumption(t, m, 0.25)
		}
	}
	for s := 0; s < 2; s++ {
		for m := 0; m < 3; m++ {
			p.SetCapacity(s, m, 3.25)
		}
		p.SetCost(s, 0.5)
	}
	return p
}

func tp5() *consolidation.Problem {
	p := consolidation.NewProblem(1, 2, 2, 0.5)
	p.SetConsumption(0, 0, 0.5)
	p.SetConsumption(0, 1, 1.5)
	for s := 0; s < 2; s++ {
		for m := 0; m < 2; m++ {
			p.SetCapacity(s, m, 0.5)
		}
	}
	p.SetCost(0, 1)
	p.SetCost(1, 1.5)
	return p
}

func tp6() *consolidation.Problem {
	p := consolidation.NewProblem(3, 4, 1, 0.5)
	for t, c := range []float64{1, 2.5, 0.5} {
		p.SetConsumption(t, 0, c)
	}
	for s, c := range []float64{2.5, 0.5, 1, 2.5} {
		p.SetCapacity(s, 0, c)
	}
	for s, c := range []float64{0, 0, 2.5, 0.5} {
		p.SetCost(s, c)
	}
	return p
}

func TestTriangle_NrTriangleChains(t *testing.T) {
	tm := mapper.NewTriangle()
	cases := []struct {
		name string
		p    *consolidation.Problem
		want int
	}{
		{"one tenant", tp1(), 8},
		{"ten tenants", tp2(), 20},
		{"four capacity vars", tp3(), 12},
		{"three metrics", tp4(), 40},
		{"two servers", tp5(), 12},
		{"four servers", tp6(), 24},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tm.NrTriangleChains(tc.p))
		})
	}

	intact, err := chimera.NewChimera(chimera.WithDefective())
	require.NoError(t, err)
	assert.Equal(t, 4, mapper.NewTriangle(mapper.WithTopology(intact)).NrTriangleChains(tp1()))
}

func TestTriangle_Place(t *testing.T) {
	tm := mapper.NewTriangle()

	t.Run("one tenant", func(t *testing.T) {
		l, err := tm.Place(tp1())
		require.NoError(t, err)
		assert.Equal(t, sorted(4, 8, 12, 72), qubits(l.Tenant[0][0]))
		require.Len(t, l.Capacity[0][0], 1)
		assert.Equal(t, sorted(9, 13, 73), qubits(l.Capacity[0][0][0].LogicalVariable))
		assert.InDelta(t, 0.25, l.Capacity[0][0][0].Capacity, tol)
		assert.Equal(t, sorted(0, 5), qubits(l.ActivationAux[0][0]))
		assert.Equal(t, sorted(0), qubits(l.Server[0]))
		assert.Nil(t, l.AssignmentAux)
	})

	t.Run("ten tenants", func(t *testing.T) {
		l, err := tm.Place(tp2())
		require.NoError(t, err)
		assert.Equal(t, sorted(4, 8, 12, 72, 136, 200, 264), qubits(l.Tenant[0][0]))
		assert.Equal(t, sorted(6, 10, 14, 74, 138, 202, 266), qubits(l.Tenant[1][0]))
		// chain 10 crosses defective qubit 154, tenant 5 takes chain 11
		assert.Equal(t, sorted(135, 143, 151, 155, 159, 219, 283), qubits(l.Tenant[5][0]))
		assert.Equal(t, sorted(9, 13, 73, 137, 201, 265), qubits(l.Capacity[0][0][0].LogicalVariable))
		assert.Equal(t, sorted(64, 69), qubits(l.ActivationAux[0][2]))
		assert.Equal(t, sorted(258), qubits(l.Server[0]))
	})

	t.Run("capacity slices", func(t *testing.T) {
		l, err := tm.Place(tp3())
		require.NoError(t, err)
		want := [][]chimera.Qubit{
			sorted(9, 13, 73, 137),
			sorted(11, 15, 75, 139),
			sorted(77, 81, 85, 145),
			sorted(79, 83, 87, 147),
		}
		require.Len(t, l.Capacity[0][0], len(want))
		for i, v := range l.Capacity[0][0] {
			assert.Equal(t, want[i], qubits(v.LogicalVariable), "slice %d", i)
		}
		assert.Equal(t, sorted(128), qubits(l.Server[0]))
	})

	t.Run("two servers", func(t *testing.T) {
		l, err := tm.Place(tp5())
		require.NoError(t, err)
		assert.Equal(t, sorted(6, 10, 14, 74, 138), qubits(l.Tenant[0][1]))
		assert.Equal(t, sorted(77, 81, 85, 145), qubits(l.Capacity[1][1][0].LogicalVariable))
		assert.Equal(t, sorted(2, 7), qubits(l.ActivationAux[1][0]))
		assert.Equal(t, sorted(2), qubits(l.Server[1]))
	})
}

func TestTriangle_PlaceFourServers(t *testing.T) {
	l, err := mapper.NewTriangle().Place(tp6())
	require.NoError(t, err)
	tri, err := blocks.NewTriangle(chimera.Default(), blocks.SouthWest, mapper.TriangleTopLeft, 24)
	require.NoError(t, err)

	chains := []int{0, 2, 4, 6, 8, 11, 12, 14, 16, 18, 20, 22}
	inputs := []chimera.Qubit{4, 6, 68, 70, 132, 135, 196, 198, 260, 262, 324, 326}
	for s := 0; s < 4; s++ {
		for tenant := 0; tenant < 3; tenant++ {
			i := 3*s + tenant
			want := append(tri.Chain(chains[i]), inputs[i])
			assert.Equal(t, sorted(want...), qubits(l.Tenant[tenant][s]), "tenant %d server %d", tenant, s)
		}
	}

	capChains := [][]int{{1, 3, 5}, {7}, {9, 13}, {15, 17, 19}}
	capValues := [][]float64{{0.5, 1, 1}, {0.5}, {0.5, 0.5}, {0.5, 1, 1}}
	for s := range capChains {
		require.Len(t, l.Capacity[s][0], len(capChains[s]), "server %d", s)
		for i, c := range capChains[s] {
			v := l.Capacity[s][0][i]
			assert.Equal(t, tri.Chain(c), qubits(v.LogicalVariable), "server %d slice %d", s, i)
			assert.InDelta(t, capValues[s][i], v.Capacity, tol)
		}
	}

	aux := [][][]chimera.Qubit{
		{{0, 5}, {2, 7, 66}, {64, 69}},
		{{67, 71, 131}, {128, 133}, {130, 134}},
		{{192, 197}, {194, 199, 258}, {256, 261}},
		{{259, 263, 323}, {320, 325}, {322, 327}},
	}
	for s := range aux {
		for tenant, want := range aux[s] {
			assert.Equal(t, sorted(want...), qubits(l.ActivationAux[s][tenant]), "server %d input %d", s, tenant)
		}
	}
	for s, want := range []chimera.Qubit{64, 130, 256, 322} {
		assert.Equal(t, want, l.Server[s].First())
	}
	assert.False(t, variable.Overlaps(l.Variables()...))
}

func TestTriangle_Infeasible(t *testing.T) {
	_, err := mapper.NewTriangle().Transform(tp4())
	require.Error(t, err)
	assert.ErrorIs(t, err, mapper.ErrInfeasibleEmbedding)
	assert.ErrorIs(t, err, mapper.ErrNotEnoughQubits)

	_, err = mapper.NewTriangle(mapper.WithMaxTriangleChains(8)).Transform(tp5())
	assert.ErrorIs(t, err, mapper.ErrNotEnoughQubits)
}

func TestTransform_InvalidProblem(t *testing.T) {
	empty := consolidation.NewProblem(0, 1, 1, 0.5)
	bad := single(0.5)
	bad.Cost = nil
	for _, m := range []mapper.Mapper{mapper.NewTriangle(), mapper.NewMatrix(), mapper.NewQubo()} {
		t.Run(m.Name(), func(t *testing.T) {
			cm, err := m.Transform(empty)
			assert.Nil(t, cm)
			assert.ErrorIs(t, err, mapper.ErrEmptyProblem)
			assert.NotErrorIs(t, err, mapper.ErrInfeasibleEmbedding)

			_, err = m.Transform(bad)
			assert.ErrorIs(t, err, consolidation.ErrDimension)
		})
	}
}

func TestTriangle_GroundState(t *testing.T) {
	cases := []struct {
		name        string
		consumption float64
		feasible    bool
	}{
		{"fits", 0.5, true},
		{"too big", 1.5, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := single(tc.consumption)
			cm, err := mapper.NewTriangle().Transform(p)
			require.NoError(t, err)
			sol, diag := consolidation.Decode(p, cm, groundState(t, cm))
			assert.True(t, diag.Consistent)
			assert.True(t, diag.ActivationConsistent)
			assert.Equal(t, tc.feasible, sol.Feasible)
			if tc.feasible {
				assert.InDelta(t, 2, sol.MinTotalCost, tol)
				assert.Equal(t, []int{0}, sol.AssignedServer)
			} else {
				assert.Equal(t, []int{-1}, sol.AssignedServer)
			}
		})
	}
}

func TestTriangle_Index(t *testing.T) {
	p := tp5()
	cm, err := mapper.NewTriangle().Transform(p)
	require.NoError(t, err)
	assert.Equal(t, chimera.Qubit(4), cm.TenantIndex(0, 0))
	assert.Equal(t, chimera.Qubit(6), cm.TenantIndex(0, 1))
	assert.Equal(t, chimera.Qubit(2), cm.ServerIndex(1))
	// tenant, capacity, activation auxiliary and server groups
	assert.Len(t, cm.ConsistentGroups(), 2+4+2+2)
	for _, g := range cm.ConsistentGroups() {
		assert.False(t, g.IsEmpty())
	}
}

// Matrix mapper fixtures.

func mp1() *consolidation.Problem {
	p := consolidation.NewProblem(1, 2, 2, 0.5)
	p.SetConsumption(0, 0, 1)
	p.SetConsumption(0, 1, 0.5)
	for s := 0; s < 2; s++ {
		p.SetCapacity(s, 0, 0.5)
		p.SetCapacity(s, 1, 0.5)
	}
	p.SetCost(0, 1)
	p.SetCost(1, 0.5)
	return p
}

func mp2() *consolidation.Problem {
	p := consolidation.NewProblem(1, 3, 4, 0.5)
	for m, c := range []float64{1, 1.5, 0, 0.5} {
		p.SetConsumption(0, m, c)
	}
	caps := [][]float64{{1, 0.5, 1.5, 0.5}, {1.5, 0.5, 0.5, 0.5}, {1, 0.5, 0.5, 1}}
	for s, row := range caps {
		for m, c := range row {
			p.SetCapacity(s, m, c)
		}
	}
	for s, c := range []float64{1, 3, 5} {
		p.SetCost(s, c)
	}
	return p
}

func mp34(cap0 float64) *consolidation.Problem {
	p := consolidation.NewProblem(4, 1, 2, 0.5)
	cons := [][]float64{{1, 1.5}, {2, 2.5}, {0, 0.5}, {1, 1.5}}
	for tenant, row := range cons {
		for m, c := range row {
			p.SetConsumption(tenant, m, c)
		}
	}
	p.SetCapacity(0, 0, cap0)
	p.SetCapacity(0, 1, 1.5)
	p.SetCost(0, 1)
	return p
}

func mp3() *consolidation.Problem { return mp34(3) }
func mp4() *consolidation.Problem { return mp34(4) }

func TestTriangleMatrixTopLeft(t *testing.T) {
	for i, tc := range []struct {
		p    *consolidation.Problem
		want chimera.Qubit
	}{{mp1(), 8}, {mp2(), 8}, {mp3(), 16}, {mp4(), 16}} {
		got, err := mapper.TriangleMatrixTopLeft(tc.p)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "problem %d", i+1)
	}

	wide := consolidation.NewProblem(6, 1, 2, 0.5)
	got, err := mapper.TriangleMatrixTopLeft(wide)
	require.NoError(t, err)
	assert.Equal(t, chimera.Qubit(88), got)

	_, err = mapper.TriangleMatrixTopLeft(consolidation.NewProblem(15, 1, 2, 0.5))
	assert.ErrorIs(t, err, mapper.ErrNotEnoughQubits)
}

func TestSufficientSpace(t *testing.T) {
	p := mp1()
	cases := []struct {
		topLeft chimera.Qubit
		chains  int
		want    bool
	}{
		{8, 4, true},
		{40, 4, true},
		{48, 4, false},
		{424, 4, true},
		{488, 4, false},
		{424, 5, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, mapper.SufficientSpace(p, tc.topLeft, tc.chains),
			"anchor %d, %d chains", tc.topLeft, tc.chains)
	}
}

func TestCreateTriangles(t *testing.T) {
	cell := func(corners ...chimera.Qubit) []uint32 {
		var out []chimera.Qubit
		for _, c := range corners {
			qs := c.CellQubits()
			out = append(out, qs[:]...)
		}
		bm := variable.New(out...).Bitmap()
		return bm.ToArray()
	}

	tris, err := mapper.CreateTriangles(chimera.Default(), mp1(), 0, 3)
	require.NoError(t, err)
	require.Len(t, tris, 2)
	assert.Equal(t, cell(0), tris[0][0].Qubits().ToArray())
	assert.Equal(t, cell(8), tris[0][1].Qubits().ToArray())
	assert.Equal(t, cell(64), tris[1][0].Qubits().ToArray())
	assert.Equal(t, cell(72), tris[1][1].Qubits().ToArray())

	tris, err = mapper.CreateTriangles(chimera.Default(), mp2(), 0, 5)
	require.NoError(t, err)
	require.Len(t, tris, 3)
	assert.Equal(t, cell(0, 64, 72), tris[0][0].Qubits().ToArray())
	assert.Equal(t, cell(8, 16, 80), tris[0][1].Qubits().ToArray())
	assert.Equal(t, cell(24, 88, 96), tris[0][2].Qubits().ToArray())
	assert.Equal(t, cell(32, 40, 104), tris[0][3].Qubits().ToArray())
	assert.Equal(t, cell(288, 296, 360), tris[2][3].Qubits().ToArray())

	assert.Panics(t, func() { _, _ = mapper.CreateTriangles(chimera.Default(), tp4(), 0, 4) })
}

func TestMatrix_RequiredChains(t *testing.T) {
	mm := mapper.NewMatrix()
	cases := []struct {
		name    string
		p       *consolidation.Problem
		topLeft chimera.Qubit
		want    int
	}{
		{"no defects", mp1(), 0, 2},
		{"defect in second cell", mp1(), 24, 3},
		{"two capacity vars low", mp2(), 192, 3},
		{"two capacity vars", mp2(), 0, 4},
		{"two capacity vars shifted", mp2(), 8, 4},
		{"three capacity vars", mp3(), 0, 8},
		{"three capacity vars shifted", mp3(), 16, 8},
		{"four capacity vars", mp4(), 0, 8},
		{"four capacity vars shifted", mp4(), 16, 9},
		{"four capacity vars far", mp4(), 24, 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := mm.RequiredChains(tc.p, tc.topLeft)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMatrix_RequiredChainsCap(t *testing.T) {
	_, err := mapper.NewMatrix(mapper.WithMaxIterations(1)).RequiredChains(mp1(), 24)
	assert.ErrorIs(t, err, mapper.ErrNoConvergence)
	assert.ErrorIs(t, err, mapper.ErrInfeasibleEmbedding)

	got, err := mapper.NewMatrix(mapper.WithMaxIterations(2)).RequiredChains(mp1(), 24)
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	_, err = mapper.NewMatrix().RequiredChains(mp1(), 48)
	assert.ErrorIs(t, err, mapper.ErrNotEnoughQubits)
}

func TestTenantChains(t *testing.T) {
	tris, err := mapper.CreateTriangles(chimera.Default(), mp1(), 144, 2)
	require.NoError(t, err)
	flags, err := mapper.TenantChains(mp1(), tris)
	require.NoError(t, err)
	assert.Equal(t, [][]bool{{true, false}, {true, false}}, flags)

	p := mp3()
	n, err := mapper.NewMatrix().RequiredChains(p, 88)
	require.NoError(t, err)
	tris, err = mapper.CreateTriangles(chimera.Default(), p, 88, n)
	require.NoError(t, err)
	flags, err = mapper.TenantChains(p, tris)
	require.NoError(t, err)
	assert.Equal(t, [][]bool{{true, false, false, true, true, false, true, false}}, flags)
}

func TestMatrix_Place(t *testing.T) {
	mm := mapper.NewMatrix()

	t.Run("one tenant two servers", func(t *testing.T) {
		l, err := mm.Place(mp1())
		require.NoError(t, err)
		assert.Equal(t, sorted(4, 8, 12, 16, 20, 28), qubits(l.Tenant[0][0]))
		assert.Equal(t, sorted(68, 72, 76, 80, 84, 92), qubits(l.Tenant[0][1]))
		assert.Equal(t, sorted(9, 13), qubits(l.Capacity[0][0][0].LogicalVariable))
		assert.Equal(t, sorted(17, 21), qubits(l.Capacity[0][1][0].LogicalVariable))
		assert.Equal(t, sorted(0, 5, 64), qubits(l.AssignmentAux[0][0]))
		assert.Equal(t, sorted(65, 69), qubits(l.AssignmentAux[1][0]))
		assert.Equal(t, sorted(24, 29), qubits(l.ActivationAux[0][0]))
		assert.Equal(t, sorted(88, 93), qubits(l.ActivationAux[1][0]))
		assert.Equal(t, chimera.Qubit(88), l.Server[1].First())
	})

	t.Run("three servers four metrics", func(t *testing.T) {
		l, err := mm.Place(mp2())
		require.NoError(t, err)
		base := []chimera.Qubit{4, 8, 12, 16, 20, 24, 28, 32, 36, 44}
		for s := 0; s < 3; s++ {
			want := make([]chimera.Qubit, len(base))
			for i, q := range base {
				want[i] = q + chimera.Qubit(64*s)
			}
			assert.Equal(t, sorted(want...), qubits(l.Tenant[0][s]), "server %d", s)
		}
		union := func(vars []*variable.CapacityVariable) []chimera.Qubit {
			lv := make([]*variable.LogicalVariable, len(vars))
			for i, v := range vars {
				lv[i] = v.LogicalVariable
			}
			return variable.FromBitmap(variable.Union(lv...)).Qubits()
		}
		assert.Equal(t, sorted(9, 10, 13, 14), union(l.Capacity[0][0]))
		assert.Equal(t, sorted(17, 21), union(l.Capacity[0][1]))
		assert.Equal(t, sorted(25, 26, 29, 30), union(l.Capacity[0][2]))
		assert.Equal(t, sorted(33, 37), union(l.Capacity[0][3]))
		assert.Equal(t, sorted(73, 74, 77, 78), union(l.Capacity[1][0]))
		assert.Equal(t, sorted(161, 162, 165, 166), union(l.Capacity[2][3]))
		assert.Equal(t, sorted(0, 5, 64), qubits(l.AssignmentAux[0][0]))
		assert.Equal(t, sorted(65, 69, 129), qubits(l.AssignmentAux[1][0]))
		assert.Equal(t, sorted(128, 133), qubits(l.AssignmentAux[2][0]))
	})

	t.Run("four tenants", func(t *testing.T) {
		l, err := mm.Place(mp3())
		require.NoError(t, err)
		assert.Equal(t, sorted(12, 16, 20, 24, 28, 36, 44, 80), qubits(l.Tenant[0][0]))
		assert.Equal(t, sorted(14, 18, 22, 26, 30, 38, 46, 82), qubits(l.Tenant[1][0]))
		assert.Equal(t, sorted(32, 68, 76, 84, 88, 92, 96, 100, 108), qubits(l.Tenant[2][0]))
		assert.Equal(t, sorted(8, 13), qubits(l.AssignmentAux[0][0]))
		assert.Equal(t, sorted(9, 15), qubits(l.AssignmentAux[0][1]))
		assert.Equal(t, sorted(64, 69), qubits(l.AssignmentAux[0][2]))
		assert.Equal(t, sorted(65, 71), qubits(l.AssignmentAux[0][3]))
	})

	t.Run("odd metric count is padded", func(t *testing.T) {
		p := consolidation.NewProblem(1, 2, 3, 0.5)
		for m, c := range []float64{1, 0.5, 1} {
			p.SetConsumption(0, m, c)
		}
		for s := 0; s < 2; s++ {
			for m := 0; m < 3; m++ {
				p.SetCapacity(s, m, 0.5)
			}
			p.SetCost(s, 1)
		}
		l, err := mm.Place(p)
		require.NoError(t, err)
		require.Len(t, l.Capacity[0], 4)
		assert.Empty(t, l.Capacity[0][3])
		assert.Equal(t, 3, p.NrMetrics, "input untouched")
	})
}

func TestMatrix_NotEnoughQubits(t *testing.T) {
	p := consolidation.NewProblem(8, 4, 4, 0.5)
	for s := 0; s < 4; s++ {
		for m := 0; m < 4; m++ {
			p.SetCapacity(s, m, 2)
		}
	}
	cm, err := mapper.NewMatrix().Transform(p)
	assert.Nil(t, cm)
	assert.ErrorIs(t, err, mapper.ErrInfeasibleEmbedding)
	assert.ErrorIs(t, err, mapper.ErrNotEnoughQubits)
}

func TestMatrix_GroundState(t *testing.T) {
	build := func(c0, c1 float64) *consolidation.Problem {
		p := consolidation.NewProblem(1, 1, 2, 0.5)
		p.SetConsumption(0, 0, c0)
		p.SetConsumption(0, 1, c1)
		p.SetCapacity(0, 0, 0.5)
		p.SetCapacity(0, 1, 0.5)
		p.SetCost(0, 1.5)
		return p
	}
	cases := []struct {
		name     string
		p        *consolidation.Problem
		feasible bool
	}{
		{"fits", build(0.5, 0.5), true},
		{"second metric overloaded", build(0.5, 1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cm, err := mapper.NewMatrix().Transform(tc.p)
			require.NoError(t, err)
			sol, diag := consolidation.Decode(tc.p, cm, groundState(t, cm))
			assert.True(t, diag.Consistent)
			assert.Equal(t, tc.feasible, sol.Feasible)
			if tc.feasible {
				assert.InDelta(t, 1.5, sol.MinTotalCost, tol)
			}
		})
	}
}

func TestQubo_Weights(t *testing.T) {
	qm := mapper.NewQubo()
	p := single(0.5)
	assert.Equal(t, 4, qm.NrQubits(p))
	cm, err := qm.Transform(p)
	require.NoError(t, err)

	// one-hot -2.125, capacity 8.125·0.25, activation +2.125
	assert.InDelta(t, 2.03125, cm.Weight(0), tol)
	assert.InDelta(t, 2, cm.Weight(1), tol)
	assert.InDelta(t, 2.03125, cm.Weight(2), tol)
	assert.InDelta(t, 2.03125, cm.Weight(3), tol)
	assert.InDelta(t, -2.125, cm.ConnectionWeight(0, 1), tol)
	assert.InDelta(t, -4.0625, cm.ConnectionWeight(0, 2), tol)
	assert.InDelta(t, -4.0625, cm.ConnectionWeight(0, 3), tol)
	assert.InDelta(t, 4.0625, cm.ConnectionWeight(2, 3), tol)
	assert.Zero(t, cm.ConnectionWeight(1, 2))

	assert.Equal(t, chimera.Qubit(0), cm.TenantIndex(0, 0))
	assert.Equal(t, chimera.Qubit(1), cm.ServerIndex(0))
	assert.Len(t, cm.ConsistentGroups(), 4)
}

func TestQubo_GroundState(t *testing.T) {
	// Server 0 is cheaper but only server 1 holds both tenants.
	p := consolidation.NewProblem(2, 2, 1, 0.5)
	p.SetConsumption(0, 0, 0.5)
	p.SetConsumption(1, 0, 1)
	p.SetCapacity(0, 0, 1)
	p.SetCapacity(1, 0, 1.5)
	p.SetCost(0, 1)
	p.SetCost(1, 1.5)

	l, err := mapper.NewQubo().Place(p)
	require.NoError(t, err)
	assert.Equal(t, chimera.Qubit(3), l.Tenant[1][1].First())
	assert.Equal(t, chimera.Qubit(5), l.Server[1].First())
	assert.Len(t, l.Variables(), 4+2+4)

	cm, err := mapper.NewQubo().Transform(p)
	require.NoError(t, err)
	sol, diag := consolidation.Decode(p, cm, groundState(t, cm))
	assert.True(t, sol.Feasible)
	assert.InDelta(t, 1.5, sol.MinTotalCost, tol)
	assert.Equal(t, []int{1, 1}, sol.AssignedServer)
	assert.True(t, diag.ActivationConsistent)

	for _, c := range []float64{0.5, 1.5} {
		sp := single(c)
		cm, err := mapper.NewQubo().Transform(sp)
		require.NoError(t, err)
		sol, _ := consolidation.Decode(sp, cm, groundState(t, cm))
		assert.Equal(t, c <= 1, sol.Feasible, "consumption %g", c)
	}
}

func TestByName(t *testing.T) {
	for _, name := range mapper.Names {
		m, err := mapper.ByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, m.Name())
	}
	_, err := mapper.ByName("spiral")
	assert.ErrorIs(t, err, mapper.ErrUnknownMapper)

	assert.Equal(t, "triangle", mapper.ForProblem(tp1()).Name())
	assert.Equal(t, "matrix", mapper.ForProblem(mp1()).Name())
}

func TestOptions(t *testing.T) {
	assert.Panics(t, func() { mapper.WithTopology(nil) })
	assert.Panics(t, func() { mapper.WithMaxIterations(0) })
	assert.Panics(t, func() { mapper.WithMaxTriangleChains(6) })
	assert.NotPanics(t, func() { mapper.WithLogger(nil) })

	d := mapper.DefaultOptions()
	assert.Equal(t, mapper.DefaultMaxIterations, d.MaxIterations)
	assert.Equal(t, mapper.DefaultMaxTriangleChains, d.MaxTriangleChains)
	assert.NotNil(t, d.Logger)
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	_, err := mapper.NewMatrix(mapper.WithLogger(zap.New(core))).Transform(mp1())
	require.NoError(t, err)

	assert.NotZero(t, logs.FilterMessage("sizing round").Len())
	entries := logs.FilterMessage("penalties imposed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "matrix", fields["mapper"])
	assert.InDelta(t, 1.625, fields["assignment"], tol)
}
