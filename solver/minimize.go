package solver

import (
	"context"
	"fmt"
	"math"
	"math/bits"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/quboembed/chimera"
	"github.com/katalvlaran/quboembed/mapping"
)

// checkEvery is the number of search steps between cancellation checks.
const checkEvery = 1 << 12

// Assignment is one value per qubit of a weight table together with the
// energy of those values.
type Assignment struct {
	Values []int8
	Energy float64
}

// Minimize returns a minimum energy assignment of m. Qubits in fixed keep
// their value, every other active qubit is enumerated and inactive qubits
// stay 0. Among equal energies the first assignment in Gray code order
// wins. Fixed values other than 0 and 1 panic.
//
// Stage 1 (Validate): apply fixed values; more than Options.MaxQubits free
// active qubits returns ErrTooManyQubits.
// Stage 2 (Reduce): fold every weight touching a fixed qubit into the free
// biases or a constant offset, leaving a k×k symmetric matrix.
// Stage 3 (Enumerate): step i of the reflected Gray code flips free qubit
// TrailingZeros(i), so each of the 2^k states costs one O(k) energy delta.
// ctx is polled every 4096 states.
// Stage 4 (Finalize): the winner's energy is recomputed from the matrix,
// not taken from the running sum.
//
// Complexity: O(2^k·k) time for k free active qubits, O(k²) memory.
func (c *Context) Minimize(ctx context.Context, m *mapping.Mapping, fixed map[chimera.Qubit]int8) (Assignment, error) {
	const op = "Context.Minimize"
	n := m.NrQubits()
	values := make([]int8, n)
	for q, v := range fixed {
		chimera.Check(int(q) >= 0 && int(q) < n, op, "fixed qubit %d outside [0,%d)", q, n)
		chimera.Check(v == 0 || v == 1, op, "fixed qubit %d has value %d", q, v)
		values[q] = v
	}
	var free []chimera.Qubit
	for _, q := range m.ActiveQubits() {
		if _, ok := fixed[q]; !ok {
			free = append(free, q)
		}
	}
	if len(free) > c.opts.MaxQubits {
		return Assignment{}, fmt.Errorf("%s: %d free qubits above %d: %w",
			op, len(free), c.opts.MaxQubits, ErrTooManyQubits)
	}

	e := newGrayEngine(m, free, values)
	if err := e.run(ctx, c.opts.Tolerance); err != nil {
		return Assignment{}, fmt.Errorf("%s: %w", op, err)
	}
	for i, q := range free {
		values[q] = e.best[i]
	}
	energy := e.energy(e.best)
	c.stats.Minimizations++
	c.stats.States += e.states
	c.opts.Logger.Debug("minimized",
		zap.Int("freeQubits", len(free)),
		zap.Int("fixedQubits", len(fixed)),
		zap.Int64("states", e.states),
		zap.Float64("energy", energy))
	return Assignment{Values: values, Energy: energy}, nil
}

// grayEngine holds the weights restricted to the free qubits. Couplings to
// fixed qubits set to 1 are folded into the free biases; weights among
// fixed qubits make up the constant offset.
type grayEngine struct {
	k        int
	q        *mat.SymDense // biases on the diagonal, couplings off it
	diag     []float64
	coupling []float64 // row-major k×k copy of q with a zero diagonal
	offset   float64

	best   []int8
	states int64
}

func newGrayEngine(m *mapping.Mapping, free []chimera.Qubit, values []int8) *grayEngine {
	k := len(free)
	pos := make([]int, m.NrQubits())
	for i := range pos {
		pos[i] = -1
	}
	for i, q := range free {
		pos[q] = i
	}

	e := &grayEngine{k: k, diag: make([]float64, k), coupling: make([]float64, k*k), best: make([]int8, k)}
	if k > 0 {
		e.q = mat.NewSymDense(k, nil)
	}
	for _, en := range m.Entries() {
		a, b := pos[en.I], pos[en.J]
		switch {
		case en.I == en.J && a >= 0:
			e.diag[a] += en.Value
		case en.I == en.J:
			e.offset += en.Value * float64(values[en.I])
		case a >= 0 && b >= 0:
			e.coupling[a*k+b] += en.Value
			e.coupling[b*k+a] += en.Value
		case a >= 0:
			e.diag[a] += en.Value * float64(values[en.J])
		case b >= 0:
			e.diag[b] += en.Value * float64(values[en.I])
		default:
			e.offset += en.Value * float64(values[en.I]*values[en.J])
		}
	}
	for a := 0; a < k; a++ {
		e.q.SetSym(a, a, e.diag[a])
		for b := a + 1; b < k; b++ {
			e.q.SetSym(a, b, e.coupling[a*k+b])
		}
	}
	return e
}

// energy evaluates offset + Σ diag·x + Σ_{a<b} q_ab·x_a·x_b. For 0/1
// vectors xᵀQx counts every coupling twice and every bias once.
func (e *grayEngine) energy(x []int8) float64 {
	if e.k == 0 {
		return e.offset
	}
	v := mat.NewVecDense(e.k, nil)
	lin := 0.0
	for i, b := range x {
		if b == 1 {
			v.SetVec(i, 1)
			lin += e.diag[i]
		}
	}
	return e.offset + (mat.Inner(v, e.q, v)+lin)/2
}

// delta returns the energy change of flipping free qubit a in x.
func (e *grayEngine) delta(x []int8, a int) float64 {
	field := e.diag[a]
	row := e.coupling[a*e.k : (a+1)*e.k]
	for b, xb := range x {
		if xb == 1 {
			field += row[b]
		}
	}
	if x[a] == 1 {
		return -field
	}
	return field
}

// run walks all 2^k assignments flipping one qubit per step.
func (e *grayEngine) run(ctx context.Context, tol float64) error {
	x := make([]int8, e.k)
	cur, best := e.offset, e.offset
	e.states = 1
	total := uint64(1) << e.k
	for i := uint64(1); i < total; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		a := bits.TrailingZeros64(i)
		cur += e.delta(x, a)
		x[a] ^= 1
		e.states++
		if cur < best-tol {
			best = cur
			copy(e.best, x)
		}
	}
	if math.IsNaN(best) {
		chimera.Invariant("Context.Minimize", "energy is NaN")
	}
	return nil
}
