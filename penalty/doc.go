// Package penalty translates logical constraints into QUBO penalty weights.
//
// Every gadget adds zero energy when its constraint holds and at least its
// scaling factor when it is violated:
//
//	Equality(a, b)      s·(a + b − 2ab)
//	Max(x, y → z)       s·(x + y + z + xy − 2xz − 2yz)
//	SumEquality         s·(Σ c_t·x_t − Σ k_j·y_j)²
//
// Scalings are derived analytically from problem bounds: assignment
// penalties outweigh every server cost together, capacity penalties outweigh
// the costliest server at the smallest capacity step, activation penalties
// outweigh the costliest server. ε = EpsilonWeight keeps every inequality
// strict.
//
// Chains (variables realized by more than one qubit) are held together by
// equality penalties on each internal coupler, scaled above the largest
// energy any inconsistent assignment of the chain could gain. Apply
// ImposeChainConsistency after every other weight is in place.
package penalty
