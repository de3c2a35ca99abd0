package consolidation

import (
	"fmt"
	"math/rand"
)

// GeneratorConfig bounds the random problems a Generator produces. The
// integer bounds are in units of Step: a consumption drawn as 3 with Step
// 0.5 is 1.5. Bounds are inclusive.
type GeneratorConfig struct {
	Step           float64 `yaml:"step" mapstructure:"step"`
	MinConsumption int     `yaml:"min_consumption" mapstructure:"min_consumption"`
	MaxConsumption int     `yaml:"max_consumption" mapstructure:"max_consumption"`
	MinCapacity    int     `yaml:"min_capacity" mapstructure:"min_capacity"`
	MaxCapacity    int     `yaml:"max_capacity" mapstructure:"max_capacity"`
	MinCost        int     `yaml:"min_cost" mapstructure:"min_cost"`
	MaxCost        int     `yaml:"max_cost" mapstructure:"max_cost"`
}

// DefaultGeneratorConfig keeps every value in {0, 0.5}: squaring such values
// stays exact in float64.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Step:           0.5,
		MaxConsumption: 1,
		MaxCapacity:    1,
		MaxCost:        1,
	}
}

// Validate checks the step and that every interval is non-empty and
// non-negative.
func (c GeneratorConfig) Validate() error {
	if c.Step <= 0 {
		return fmt.Errorf("GeneratorConfig: step %g: %w", c.Step, ErrGeneratorConfig)
	}
	for _, b := range []struct {
		name   string
		lo, hi int
	}{
		{"consumption", c.MinConsumption, c.MaxConsumption},
		{"capacity", c.MinCapacity, c.MaxCapacity},
		{"cost", c.MinCost, c.MaxCost},
	} {
		if b.lo < 0 || b.hi < b.lo {
			return fmt.Errorf("GeneratorConfig: %s bounds [%d,%d]: %w", b.name, b.lo, b.hi, ErrGeneratorConfig)
		}
	}
	return nil
}

// Generator produces random problems on the configured grid. It is not safe
// for concurrent use; give each goroutine its own Generator.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// NewGenerator validates cfg and seeds the generator; seed 0 is a valid,
// fixed seed.
func NewGenerator(cfg GeneratorConfig, seed int64) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg, rng: rngFromSeed(seed)}, nil
}

// Config returns the generator's configuration.
func (g *Generator) Config() GeneratorConfig { return g.cfg }

// Produce draws a problem of the given shape: consumptions first (tenant
// major), then capacities (server major), then costs.
func (g *Generator) Produce(nrTenants, nrServers, nrMetrics int) *Problem {
	c := g.cfg
	p := NewProblem(nrTenants, nrServers, nrMetrics, c.Step)
	for t := 0; t < nrTenants; t++ {
		for m := 0; m < nrMetrics; m++ {
			p.SetConsumption(t, m, float64(uniformInt(g.rng, c.MinConsumption, c.MaxConsumption))*c.Step)
		}
	}
	for s := 0; s < nrServers; s++ {
		for m := 0; m < nrMetrics; m++ {
			p.SetCapacity(s, m, float64(uniformInt(g.rng, c.MinCapacity, c.MaxCapacity))*c.Step)
		}
	}
	for s := 0; s < nrServers; s++ {
		p.SetCost(s, float64(uniformInt(g.rng, c.MinCost, c.MaxCost))*c.Step)
	}
	return p
}
