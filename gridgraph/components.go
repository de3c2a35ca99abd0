package gridgraph

// ConnectedComponents finds all contiguous regions of land cells
// (CellValues[y][x] ≥ LandThreshold), according to gg.Conn connectivity.
// Returns a slice of components; each component is a slice of cell indices
// (row-major) in BFS order from its smallest index. Components are ordered
// by their smallest index.
//
// To convert an index back to (x,y), use Coordinate(idx).
//
// Time:   O(W·H·d), where d = 4 or 8.
// Memory: O(W·H) for visited flags and output.
func (gg *GridGraph) ConnectedComponents() [][]int {
	seen := make([]bool, gg.Width*gg.Height)
	var comps [][]int

	for y := 0; y < gg.Height; y++ {
		for x := 0; x < gg.Width; x++ {
			if !gg.IsLand(x, y) {
				continue // water
			}
			i0 := gg.Index(x, y)
			if seen[i0] {
				continue
			}
			// BFS to collect component
			queue := []int{i0}
			seen[i0] = true
			for qi := 0; qi < len(queue); qi++ {
				ux, uy := gg.Coordinate(queue[qi])
				for _, d := range gg.neighborOffsets {
					vx, vy := ux+d[0], uy+d[1]
					if !gg.InBounds(vx, vy) || !gg.IsLand(vx, vy) {
						continue
					}
					if vi := gg.Index(vx, vy); !seen[vi] {
						seen[vi] = true
						queue = append(queue, vi)
					}
				}
			}
			comps = append(comps, queue)
		}
	}
	return comps
}
