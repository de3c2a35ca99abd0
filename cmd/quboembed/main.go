// Command quboembed generates consolidation problems, embeds them on the
// annealer grid, solves them and runs mapping sweeps.
//
//	quboembed generate --tenants 4 --servers 2 --out p.yaml
//	quboembed map p.yaml --out weights.txt.zst
//	quboembed solve p.yaml --mapper qubo
//	quboembed bench possible --config sweep.yaml
//
// Every bench setting can come from the configuration file, from a
// QUBOEMBED_* environment variable (QUBOEMBED_MAX_TENANTS,
// QUBOEMBED_GENERATOR_STEP) or from a flag, later sources winning.
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
