package benchmark_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/quboembed/benchmark"
)

// BenchmarkMappingPossible sweeps up to four tenants on two servers and
// two metrics with both grid mappers.
func BenchmarkMappingPossible(b *testing.B) {
	cfg := benchmark.DefaultConfig()
	cfg.Instances = 4
	cfg.MaxTenants = 4
	cfg.MaxServers = 2
	cfg.MaxMetrics = 2
	r, err := benchmark.NewRunner(cfg)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.MappingPossible(context.Background()); err != nil {
			b.Fatal(err)
		}
	}
}
