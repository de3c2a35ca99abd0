package matrix

import (
	"fmt"
	"math"
	"strings"
)

// denseErrorf wraps an underlying error with Dense method context.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a row-major matrix of float64 values.
// r is rows, c is columns, and data holds r*c elements in row-major order.
type Dense struct {
	r, c int       // number of rows and columns
	data []float64 // flat backing storage, length == r*c
}

// NewDense creates an r×c Dense matrix initialized to zeros.
// Stage 1 (Validate): ensure rows and cols > 0.
// Stage 2 (Prepare): allocate flat backing slice.
// Complexity: O(r*c) time and memory.
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("NewDense(%d,%d): %w", rows, cols, ErrBadShape)
	}
	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// Rows returns the number of rows in the matrix.
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns in the matrix.
func (m *Dense) Cols() int { return m.c }

// indexOf computes the flat index for (row, col) or returns ErrOutOfRange
// tagged with the calling method.
// Complexity: O(1).
func (m *Dense) indexOf(method string, row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, denseErrorf(method, row, col, ErrOutOfRange)
	}
	return row*m.c + col, nil
}

// At retrieves the element at (row, col).
// Complexity: O(1).
func (m *Dense) At(row, col int) (float64, error) {
	idx, err := m.indexOf("At", row, col)
	if err != nil {
		return 0, err
	}
	return m.data[idx], nil
}

// Set assigns v at (row, col).
// Stage 1 (Validate): bounds check via indexOf, then finiteness of v.
// Stage 2 (Execute): write into data slice.
// Complexity: O(1).
func (m *Dense) Set(row, col int, v float64) error {
	idx, err := m.indexOf("Set", row, col)
	if err != nil {
		return err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return denseErrorf("Set", row, col, ErrNaNInf)
	}
	m.data[idx] = v
	return nil
}

// Add accumulates delta on (row, col) and returns the new value.
// Stage 1 (Validate): bounds check via indexOf.
// Stage 2 (Execute): sum, refuse a non-finite result, store.
// Complexity: O(1).
func (m *Dense) Add(row, col int, delta float64) (float64, error) {
	idx, err := m.indexOf("Add", row, col)
	if err != nil {
		return 0, err
	}
	v := m.data[idx] + delta
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return m.data[idx], denseErrorf("Add", row, col, ErrNaNInf)
	}
	m.data[idx] = v
	return v, nil
}

// Row returns row i as a view into the backing slice. Callers must not
// write through it.
// Complexity: O(1).
func (m *Dense) Row(i int) ([]float64, error) {
	if i < 0 || i >= m.r {
		return nil, denseErrorf("Row", i, 0, ErrOutOfRange)
	}
	return m.data[i*m.c : (i+1)*m.c : (i+1)*m.c], nil
}

// String implements fmt.Stringer for easy debugging.
// Complexity: O(r*c).
func (m *Dense) String() string {
	var sb strings.Builder
	for i := 0; i < m.r; i++ {
		sb.WriteByte('[')
		for j := 0; j < m.c; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%g", m.data[i*m.c+j])
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}
