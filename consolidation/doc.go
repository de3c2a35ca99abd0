// Package consolidation describes the heterogeneous server consolidation
// problem the mappers embed: tenants with per-metric consumption must each
// be placed on exactly one server without exceeding any server capacity,
// minimizing the summed activation cost of the servers in use.
//
// The package holds the problem descriptor and its YAML form, solutions,
// a deterministic random problem generator, the index tables a mapper
// records (tenant and server qubits, consistency groups) and the decoder
// turning a qubit assignment back into a Solution.
package consolidation
