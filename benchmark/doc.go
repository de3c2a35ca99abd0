// Package benchmark sweeps problem shapes to measure how far the mappers
// reach on the default grid and how large the weights they produce get.
//
// A sweep draws Config.Instances random problems for every combination of
// servers, metrics and tenants up to the configured maxima. Problem i of a
// shape is generated from a seed derived from Config.Seed and the position
// of the instance in the sweep, so reports do not depend on Parallelism.
// Instances are evaluated concurrently; every worker owns its mappers,
// generator and solver context.
//
// Progress can be exported through a MetricsObserver; PrometheusObserver
// registers counters and histograms with a prometheus.Registerer.
package benchmark
