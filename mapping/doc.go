// SPDX-License-Identifier: MIT

// Package mapping stores the weights of a QUBO problem laid out on a hardware
// topology and serializes them for an external annealing service.
//
// What:
//
//   - Mapping is a dense row-major n×n table of float64 weights. Only the
//     canonical upper triangle is used: cell (q,q) is the linear bias of
//     qubit q, cell (min(a,b), max(a,b)) the coupling between a and b.
//   - Writes are gated by the topology: a coupling between two uncoupled
//     qubits, or an accumulated weight outside the topology's weight interval,
//     is a programmer error and panics with *chimera.InvariantError.
//   - Statistics (MaxAbsWeight, MinAbsWeightAboveZero) feed the weight range
//     reports of the benchmark driver.
//
// Wire format:
//
//	<description line>
//	i j w      one line per non-zero cell, i ≤ j, row-major order
//
// Files ending in ".zst" or ".lz4" are transparently compressed with zstd or
// an lz4 frame; every other name is written as plain text.
//
// Errors:
//
//   - ErrMalformedLine for unparsable weight-file lines (with line number).
//   - ErrNotConnected and chimera.ErrQubitRange when a parsed file does not fit
//     the topology it is loaded into.
//
// Complexity: New allocates O(n²); AddWeight and the readers are O(1);
// Entries, statistics and Encode scan the upper triangle in O(n²).
package mapping
