package consolidation

import "math/rand"

// defaultSeed replaces a zero seed so that the zero value of a
// configuration is still reproducible.
const defaultSeed int64 = 1

// rngFromSeed returns a deterministic *rand.Rand; seed 0 maps to defaultSeed.
func rngFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}
	return rand.New(rand.NewSource(seed))
}

// DeriveSeed mixes a parent seed and a stream id into an independent seed
// (SplitMix64 finalizer). Workers generating problems in parallel each take
// their own stream so that results do not depend on scheduling.
//
// Complexity: O(1).
func DeriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// uniformInt draws from the closed interval [lo, hi].
func uniformInt(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}
