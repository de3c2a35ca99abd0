// Package quboembed turns server consolidation problems into quadratic
// unconstrained binary optimization (QUBO) problems laid out on the qubits
// of a Chimera annealer grid.
//
// 🚀 What is quboembed?
//
//	A library and command line tool that brings together:
//		• Grid geometry: the 8×8 Chimera grid of 512 qubits and its defects
//		• Weight tables: biases and couplings with a compressed wire format
//		• Building blocks: triangle and bar embeddings of logical variables
//		• Mappers: triangle, matrix and fully connected embeddings
//		• Solvers: branch and bound on the problem, exhaustive search on
//		  the embedding
//		• Sweeps: how many tenants each mapper can place, and the weight
//		  range it needs
//
// Under the hood, everything is organized under these subpackages:
//
//	gridgraph/     cell grid indexing & connected regions
//	chimera/       qubit ids, grid navigation & topologies
//	matrix/        dense row-major weight store
//	mapping/       weight table, statistics & weight files
//	variable/      logical variables (chains of qubits)
//	blocks/        triangle and bar building blocks
//	penalty/       penalty weight templates
//	consolidation/ problems, solutions, generator & decoding
//	mapper/        the three embeddings
//	solver/        linear and quadratic solvers
//	benchmark/     parallel sweeps & LaTeX reports
//	logging/       zap logger construction
//	cmd/quboembed  the command line tool
//
// Quick ASCII example, one unit cell:
//
//	    0 ─┬─┬─┬─ 4
//	    1 ─┼─┼─┼─ 5
//	    2 ─┼─┼─┼─ 6
//	    3 ─┴─┴─┴─ 7
//
//	every qubit of the left side couples to every qubit of the right side.
//
//	go install github.com/katalvlaran/quboembed/cmd/quboembed@latest
package quboembed
