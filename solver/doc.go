// Package solver finds optimal solutions of consolidation problems, both
// directly and through an embedded weight table, so that the two can be
// compared.
//
// All state lives in an explicitly created Context; nothing is shared
// between Contexts, so concurrent callers each create their own.
//
//   - Minimize enumerates every assignment of the active qubits of a
//     weight table in Gray code order and returns one of minimum energy.
//     The table is packed into a gonum SymDense over the free qubits.
//   - SolveLinear runs a depth first branch and bound over tenant
//     placements of the unembedded problem.
//   - SolveQuadratic transforms a problem with a mapper, minimizes the
//     resulting table and decodes the ground state.
//   - SolveQuadraticWithAssignment does the same with every tenant
//     placement fixed in advance.
//
// Both searches are exact and exponential; they exist to validate
// embeddings on small instances. Minimize refuses tables with more free
// qubits than the configured ceiling (default 26).
package solver
