// Package variable represents logical problem variables as sets of physical
// qubits and distributes weights between the logical and the physical level.
//
// A LogicalVariable with several qubits is a chain: all of its qubits must
// agree at the optimum. Linear weight is placed on the lowest qubit only and
// coupling weight on the first coupled cross pair, so reading the summed
// weight back always returns what was added. Qubit sets are roaring bitmaps;
// disjointness of the variables of one mapping is checked by comparing the
// summed cardinalities with the cardinality of the union.
package variable
