// Package chimera models the hardware connectivity graph that QUBO problems
// are embedded into.
//
// What:
//
//   - Qubit is a small value type carrying all cell arithmetic: cell row and
//     column, left/right column membership, in-cell offsets and precondition
//     checked navigation (CanGoEast before GoEast, and so on).
//   - Topology is the connectivity capability consumed by the weight store:
//     qubit count, admissible weight interval and an adjacency predicate.
//   - Chimera is the 8×8 grid of 8-qubit unit cells with a small fixed set of
//     defective qubits. FullyConnected is a virtual topology where every pair
//     of distinct qubits may be coupled.
//
// Layout:
//
//	id = cellRow*64 + cellCol*8 + side*4 + row
//
//	side 0 (left column)  couples vertically with the same row of the cells
//	                      north and south (id ± 64);
//	side 1 (right column) couples horizontally with the same row of the cells
//	                      east and west (id ± 8);
//	inside a cell every left qubit couples with every right qubit.
//
// Errors:
//
//   - Navigation off the grid and other structural misuse are programmer
//     errors. They panic with *InvariantError and are never returned.
//   - ErrQubitRange is returned by constructors that receive qubit ids from
//     callers (WithDefective).
//
// Complexity: every navigation step and adjacency test is O(1).
package chimera
