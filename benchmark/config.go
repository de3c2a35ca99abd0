package benchmark

import (
	"fmt"
	"runtime"

	"github.com/katalvlaran/quboembed/consolidation"
	"github.com/katalvlaran/quboembed/mapper"
)

// Config describes a sweep. Field tags match the keys of the command line
// configuration file.
type Config struct {
	// Instances is the number of problems drawn per shape.
	Instances int `yaml:"instances" mapstructure:"instances"`
	// MaxTenants, MaxServers and MaxMetrics bound the swept shapes.
	MaxTenants int `yaml:"max_tenants" mapstructure:"max_tenants"`
	MaxServers int `yaml:"max_servers" mapstructure:"max_servers"`
	MaxMetrics int `yaml:"max_metrics" mapstructure:"max_metrics"`
	// Threshold is the share of instances that must map for a tenant count
	// to count as possible.
	Threshold float64 `yaml:"threshold" mapstructure:"threshold"`
	// Parallelism limits concurrent workers.
	Parallelism int `yaml:"parallelism" mapstructure:"parallelism"`
	// Seed roots every generated problem.
	Seed int64 `yaml:"seed" mapstructure:"seed"`
	// Mappers names the mappers under test.
	Mappers []string `yaml:"mappers" mapstructure:"mappers"`
	// CrossValidate solves every mapped instance directly and through the
	// embedding and fails the sweep on disagreement. Embeddings too large
	// for the exhaustive solver are skipped.
	CrossValidate bool `yaml:"cross_validate" mapstructure:"cross_validate"`
	// Generator bounds the random problems.
	Generator consolidation.GeneratorConfig `yaml:"generator" mapstructure:"generator"`
}

// DefaultConfig returns the classic sweep: 100 instances for up to ten
// tenants, servers and metrics with every value in {0, 0.5}.
func DefaultConfig() Config {
	return Config{
		Instances:   100,
		MaxTenants:  10,
		MaxServers:  10,
		MaxMetrics:  10,
		Threshold:   0.9,
		Parallelism: runtime.GOMAXPROCS(0),
		Seed:        1,
		Mappers:     []string{"triangle", "matrix"},
		Generator:   consolidation.DefaultGeneratorConfig(),
	}
}

// Validate checks bounds, the threshold and the mapper names.
func (c Config) Validate() error {
	switch {
	case c.Instances < 1:
		return fmt.Errorf("Config: instances %d: %w", c.Instances, ErrConfig)
	case c.MaxTenants < 1 || c.MaxServers < 1 || c.MaxMetrics < 1:
		return fmt.Errorf("Config: shape bounds %d×%d×%d: %w", c.MaxTenants, c.MaxServers, c.MaxMetrics, ErrConfig)
	case c.Threshold < 0 || c.Threshold >= 1:
		return fmt.Errorf("Config: threshold %g outside [0,1): %w", c.Threshold, ErrConfig)
	case c.Parallelism < 1:
		return fmt.Errorf("Config: parallelism %d: %w", c.Parallelism, ErrConfig)
	case len(c.Mappers) == 0:
		return fmt.Errorf("Config: no mappers: %w", ErrConfig)
	}
	for _, name := range c.Mappers {
		if _, err := mapper.ByName(name); err != nil {
			return fmt.Errorf("Config: %w: %w", ErrConfig, err)
		}
	}
	if err := c.Generator.Validate(); err != nil {
		return fmt.Errorf("Config: %w: %w", ErrConfig, err)
	}
	return nil
}
