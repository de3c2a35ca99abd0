package gridgraph

// Compass offsets, {dx, dy} with y growing southwards.
var (
	North = [2]int{0, -1}
	East  = [2]int{1, 0}
	South = [2]int{0, 1}
	West  = [2]int{-1, 0}
)

// NewGridGraph constructs a GridGraph from a non-empty, rectangular 2D slice.
// It deep-copies the input to ensure immutability.
// Returns ErrEmptyGrid if grid has no rows or no columns,
// ErrNonRectangular if any row length differs.
// Algorithmic complexity: O(W×H) time and memory.
func NewGridGraph(values [][]int, opts GridOptions) (*GridGraph, error) {
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	h, w := len(values), len(values[0])
	for _, row := range values {
		if len(row) != w {
			return nil, ErrNonRectangular
		}
	}
	// Deep copy to prevent external mutation
	cells := make([][]int, h)
	for y := 0; y < h; y++ {
		cells[y] = make([]int, w)
		copy(cells[y], values[y])
	}
	var offsets [][2]int
	if opts.Conn == Conn8 {
		offsets = [][2]int{{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}}
	} else {
		offsets = [][2]int{North, East, South, West}
	}

	return &GridGraph{
		Width:           w,
		Height:          h,
		CellValues:      cells,
		Conn:            opts.Conn,
		LandThreshold:   opts.LandThreshold,
		neighborOffsets: offsets,
	}, nil
}

// Uniform builds a w×h grid with every cell set to value. It panics on
// non-positive dimensions, which only a programming error can produce.
func Uniform(w, h, value int, opts GridOptions) *GridGraph {
	values := make([][]int, h)
	for y := range values {
		values[y] = make([]int, w)
		for x := range values[y] {
			values[y][x] = value
		}
	}
	gg, err := NewGridGraph(values, opts)
	if err != nil {
		panic(err)
	}
	return gg
}

// InBounds reports whether (x,y) lies within the grid boundaries.
// Complexity: O(1).
func (gg *GridGraph) InBounds(x, y int) bool {
	return x >= 0 && x < gg.Width && y >= 0 && y < gg.Height
}

// NeighborOffsets returns the precomputed neighbor offsets slice.
// Complexity: O(1).
func (gg *GridGraph) NeighborOffsets() [][2]int {
	return gg.neighborOffsets
}

// IsLand reports whether the cell at (x,y) reaches LandThreshold.
func (gg *GridGraph) IsLand(x, y int) bool {
	return gg.CellValues[y][x] >= gg.LandThreshold
}

// Index maps (x,y) to a row-major index: y*Width + x.
// Complexity: O(1).
func (gg *GridGraph) Index(x, y int) int {
	return y*gg.Width + x
}

// Coordinate converts a row-major index back to (x,y).
// Complexity: O(1).
func (gg *GridGraph) Coordinate(idx int) (x, y int) {
	return idx % gg.Width, idx / gg.Width
}

// Step returns the index of the cell one offset away from idx, and false
// when that cell lies outside the grid.
// Complexity: O(1).
func (gg *GridGraph) Step(idx int, d [2]int) (int, bool) {
	x, y := gg.Coordinate(idx)
	x, y = x+d[0], y+d[1]
	if !gg.InBounds(x, y) {
		return 0, false
	}
	return gg.Index(x, y), true
}
