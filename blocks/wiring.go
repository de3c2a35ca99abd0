package blocks

import (
	"sort"

	"github.com/katalvlaran/quboembed/chimera"
)

func sortQubits(qs []chimera.Qubit) {
	sort.Slice(qs, func(i, j int) bool { return qs[i] < qs[j] })
}

// assertChain panics unless qs induce a connected subgraph of topo.
func assertChain(topo chimera.Topology, op string, qs []chimera.Qubit) {
	if len(qs) < 2 {
		return
	}
	reached := map[chimera.Qubit]bool{qs[0]: true}
	frontier := []chimera.Qubit{qs[0]}
	for len(frontier) > 0 {
		cur := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		for _, q := range qs {
			if !reached[q] && topo.IsConnected(cur, q) {
				reached[q] = true
				frontier = append(frontier, q)
			}
		}
	}
	chimera.Check(len(reached) == len(qs), op, "qubits %v do not form a chain", qs)
}

// assertTouch panics unless some qubit of as couples with some qubit of bs.
func assertTouch(topo chimera.Topology, op string, as, bs []chimera.Qubit) {
	_, _, ok := chimera.ConnectedPair(topo, as, bs)
	chimera.Check(ok, op, "chains %v and %v are not coupled", as, bs)
}
