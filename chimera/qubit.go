package chimera

import "github.com/katalvlaran/quboembed/gridgraph"

// Grid geometry of the Chimera hardware.
const (
	// CellSize is the number of qubits per unit cell.
	CellSize = 8
	// ColumnSize is the number of qubits per cell column (left or right).
	ColumnSize = 4
	// GridWidth is the number of cells per grid row and per grid column.
	GridWidth = 8
	// RowStride is the id distance between vertically adjacent cells.
	RowStride = GridWidth * CellSize
	// NrQubits is the total number of qubits of the grid.
	NrQubits = GridWidth * RowStride
)

// cells is the unit-cell grid every Qubit navigates on. Cell index
// cellRow*GridWidth + cellCol is its row-major index and the id of a cell's
// corner qubit is that index times CellSize.
var cells = gridgraph.Uniform(GridWidth, GridWidth, CellSize,
	gridgraph.GridOptions{LandThreshold: CellSize, Conn: gridgraph.Conn4})

// Qubit is a qubit id on the Chimera grid. The zero value is the upper-left
// qubit of the upper-left cell.
type Qubit int

// Valid reports whether q lies on the grid.
func (q Qubit) Valid() bool { return q >= 0 && q < NrQubits }

// Cell returns the linear cell index (cellRow*GridWidth + cellCol).
func (q Qubit) Cell() int { return int(q) / CellSize }

// CellRow returns the grid row of the cell containing q.
func (q Qubit) CellRow() int {
	_, y := cells.Coordinate(q.Cell())
	return y
}

// CellCol returns the grid column of the cell containing q.
func (q Qubit) CellCol() int {
	x, _ := cells.Coordinate(q.Cell())
	return x
}

// Offset returns the position of q inside its cell, 0..7.
func (q Qubit) Offset() int { return int(q) % CellSize }

// Row returns the row of q inside its cell column, 0..3.
func (q Qubit) Row() int { return int(q) % ColumnSize }

// IsLeft reports whether q belongs to the left (vertically coupled) column.
func (q Qubit) IsLeft() bool { return q.Offset() < ColumnSize }

// IsRight reports whether q belongs to the right (horizontally coupled) column.
func (q Qubit) IsRight() bool { return !q.IsLeft() }

// IsCellCorner reports whether q is the upper-left qubit of its cell.
func (q Qubit) IsCellCorner() bool { return q.Offset() == 0 }

// IsAtBottom reports whether q is the last qubit of its cell column.
func (q Qubit) IsAtBottom() bool { return q.Row() == ColumnSize-1 }

// SameCell reports whether q and other belong to the same unit cell.
func (q Qubit) SameCell(other Qubit) bool { return q.Cell() == other.Cell() }

// CellCorner returns the upper-left qubit of the cell containing q.
func (q Qubit) CellCorner() Qubit { return q - Qubit(q.Offset()) }

// RightOpposite returns the right-column qubit on the same row as the
// left-column qubit q.
func (q Qubit) RightOpposite() Qubit {
	Check(q.IsLeft(), "Qubit.RightOpposite", "qubit %d is not in a left column", q)
	return q + ColumnSize
}

// LeftColumn returns the four left-column qubits of q's cell, ascending.
func (q Qubit) LeftColumn() [ColumnSize]Qubit {
	c := q.CellCorner()
	return [ColumnSize]Qubit{c, c + 1, c + 2, c + 3}
}

// RightColumn returns the four right-column qubits of q's cell, ascending.
func (q Qubit) RightColumn() [ColumnSize]Qubit {
	c := q.CellCorner() + ColumnSize
	return [ColumnSize]Qubit{c, c + 1, c + 2, c + 3}
}

// CellQubits returns all eight qubits of q's cell, ascending.
func (q Qubit) CellQubits() [CellSize]Qubit {
	var out [CellSize]Qubit
	c := q.CellCorner()
	for i := range out {
		out[i] = c + Qubit(i)
	}
	return out
}

// CanGoNorth reports whether the cell north of q exists.
func (q Qubit) CanGoNorth() bool { return q.canStep(gridgraph.North) }

// CanGoSouth reports whether the cell south of q exists.
func (q Qubit) CanGoSouth() bool { return q.canStep(gridgraph.South) }

// CanGoEast reports whether the cell east of q exists.
func (q Qubit) CanGoEast() bool { return q.canStep(gridgraph.East) }

// CanGoWest reports whether the cell west of q exists.
func (q Qubit) CanGoWest() bool { return q.canStep(gridgraph.West) }

// GoNorth moves steps cells north keeping the in-cell offset.
func (q Qubit) GoNorth(steps int) Qubit { return q.walk("Qubit.GoNorth", gridgraph.North, "top grid row", steps) }

// GoSouth moves steps cells south keeping the in-cell offset.
func (q Qubit) GoSouth(steps int) Qubit { return q.walk("Qubit.GoSouth", gridgraph.South, "bottom grid row", steps) }

// GoEast moves steps cells east keeping the in-cell offset.
func (q Qubit) GoEast(steps int) Qubit { return q.walk("Qubit.GoEast", gridgraph.East, "last grid column", steps) }

// GoWest moves steps cells west keeping the in-cell offset.
func (q Qubit) GoWest(steps int) Qubit { return q.walk("Qubit.GoWest", gridgraph.West, "first grid column", steps) }

func (q Qubit) canStep(d [2]int) bool {
	if !q.Valid() {
		return false
	}
	_, ok := cells.Step(q.Cell(), d)
	return ok
}

// walk moves q steps cells along d on the cell grid. Leaving the grid past
// edge is an invariant violation of op.
func (q Qubit) walk(op string, d [2]int, edge string, steps int) Qubit {
	for i := 0; i < steps; i++ {
		if !q.Valid() {
			Invariant(op, "qubit %d is off the grid", q)
		}
		to, ok := cells.Step(q.Cell(), d)
		if !ok {
			Invariant(op, "qubit %d is in the %s", q, edge)
		}
		q = Qubit(to*CellSize + q.Offset())
	}
	return q
}

// GoSouthHalf moves steps half cells south. A half cell covers two rows of
// both columns; leaving the lower half of a cell enters the upper half of
// the cell below.
func (q Qubit) GoSouthHalf(steps int) Qubit {
	for i := 0; i < steps; i++ {
		if q.Row() < 2 {
			q += 2
			continue
		}
		q = q.GoSouth(1) - 2
	}
	return q
}

// GoSouthQubitwise moves steps rows down inside the current cell column,
// continuing at the top of the same column of the cell below.
func (q Qubit) GoSouthQubitwise(steps int) Qubit {
	for i := 0; i < steps; i++ {
		if q.IsAtBottom() {
			q += RowStride - ColumnSize + 1
		} else {
			q++
		}
		Check(q.Valid(), "Qubit.GoSouthQubitwise", "walked off the grid at %d", q)
	}
	return q
}
