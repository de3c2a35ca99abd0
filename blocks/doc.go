// Package blocks lays out the geometric building blocks of an embedding on
// the Chimera grid.
//
// What:
//
//   - Triangle is a staircase of unit cells realizing a clique of chains:
//     every chain couples with every other chain of the same triangle, and
//     the lanes of chain c leave the triangle on its horizontal and vertical
//     borders, where neighboring blocks attach.
//   - OneMaxBar is a vertical bar of half cells computing the running maximum
//     of N inputs with N auxiliary chains; the last auxiliary chain is the
//     output.
//   - MultiMaxBar stacks G groups of N inputs and computes N maxima, one per
//     input index, across the groups.
//
// Chain selection:
//
//	chain c of a triangle of width w (cells) lives on diagonal cell k = c/4,
//	row c%4; north-east triangles extend its lanes east and north,
//	south-west triangles extend them west and south.
//
// Errors:
//
//   - ErrChainCount, ErrAnchor and ErrBarSpace report a block that does not
//     fit the grid; ErrDefectiveQubit a block that would need a broken qubit;
//     ErrNoUnusedChain an exhausted triangle. All of them are capacity
//     conditions the caller may recover from.
//   - Reusing a chain or breaking a block's own connectivity is a programmer
//     error and panics with *chimera.InvariantError.
//
// Complexity: constructing a block is linear in its number of qubits.
package blocks
