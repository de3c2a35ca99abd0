package consolidation

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/quboembed/chimera"
)

// Problem is a heterogeneous consolidation instance.
//
// Consumption is indexed [tenant][metric], Capacity [server][metric] and
// Cost [server]. Every capacity and consumption is a multiple of
// MinCapacityStep.
type Problem struct {
	NrTenants       int         `yaml:"tenants"`
	NrServers       int         `yaml:"servers"`
	NrMetrics       int         `yaml:"metrics"`
	MinCapacityStep float64     `yaml:"min_capacity_step"`
	Consumption     [][]float64 `yaml:"consumption"`
	Capacity        [][]float64 `yaml:"capacity"`
	Cost            []float64   `yaml:"cost"`
}

// NewProblem allocates a zero problem of the given shape.
// Negative counts are programmer errors and panic.
func NewProblem(nrTenants, nrServers, nrMetrics int, minCapacityStep float64) *Problem {
	chimera.Check(nrTenants >= 0 && nrServers >= 0 && nrMetrics >= 0, "NewProblem",
		"negative shape %d×%d×%d", nrTenants, nrServers, nrMetrics)
	return &Problem{
		NrTenants:       nrTenants,
		NrServers:       nrServers,
		NrMetrics:       nrMetrics,
		MinCapacityStep: minCapacityStep,
		Consumption:     table(nrTenants, nrMetrics),
		Capacity:        table(nrServers, nrMetrics),
		Cost:            make([]float64, nrServers),
	}
}

func table(rows, cols int) [][]float64 {
	t := make([][]float64, rows)
	for i := range t {
		t[i] = make([]float64, cols)
	}
	return t
}

// SetConsumption sets the consumption of tenant for metric.
func (p *Problem) SetConsumption(tenant, metric int, v float64) {
	chimera.Check(v >= 0, "Problem.SetConsumption", "negative consumption %g", v)
	p.Consumption[tenant][metric] = v
}

// SetCapacity sets the capacity of server for metric.
func (p *Problem) SetCapacity(server, metric int, v float64) {
	chimera.Check(v >= 0, "Problem.SetCapacity", "negative capacity %g", v)
	p.Capacity[server][metric] = v
}

// SetCost sets the activation cost of server.
func (p *Problem) SetCost(server int, v float64) {
	chimera.Check(v >= 0, "Problem.SetCost", "negative cost %g", v)
	p.Cost[server] = v
}

// MaxServerCost returns the largest activation cost, 0 without servers.
func (p *Problem) MaxServerCost() float64 { return lo.Max(p.Cost) }

// TotalCost returns the summed cost of the servers flagged in active.
func (p *Problem) TotalCost(active []bool) float64 {
	return lo.Sum(lo.Filter(p.Cost, func(_ float64, s int) bool { return active[s] }))
}

// Validate checks shapes and signs; problems read from files must pass it
// before they reach a mapper.
func (p *Problem) Validate() error {
	if p.NrTenants < 0 || p.NrServers < 0 || p.NrMetrics < 0 {
		return fmt.Errorf("Validate(%d×%d×%d): %w", p.NrTenants, p.NrServers, p.NrMetrics, ErrNegative)
	}
	if p.MinCapacityStep <= 0 {
		return fmt.Errorf("Validate: step %g: %w", p.MinCapacityStep, ErrStep)
	}
	if err := checkTable("consumption", p.Consumption, p.NrTenants, p.NrMetrics); err != nil {
		return err
	}
	if err := checkTable("capacity", p.Capacity, p.NrServers, p.NrMetrics); err != nil {
		return err
	}
	if len(p.Cost) != p.NrServers {
		return fmt.Errorf("Validate: %d costs for %d servers: %w", len(p.Cost), p.NrServers, ErrDimension)
	}
	for s, c := range p.Cost {
		if c < 0 {
			return fmt.Errorf("Validate: cost[%d]=%g: %w", s, c, ErrNegative)
		}
	}
	return nil
}

func checkTable(name string, t [][]float64, rows, cols int) error {
	if len(t) != rows {
		return fmt.Errorf("Validate: %s has %d rows, want %d: %w", name, len(t), rows, ErrDimension)
	}
	for i, row := range t {
		if len(row) != cols {
			return fmt.Errorf("Validate: %s[%d] has %d columns, want %d: %w", name, i, len(row), cols, ErrDimension)
		}
		for j, v := range row {
			if v < 0 {
				return fmt.Errorf("Validate: %s[%d][%d]=%g: %w", name, i, j, v, ErrNegative)
			}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (p *Problem) Clone() *Problem {
	c := *p
	c.Consumption = cloneTable(p.Consumption)
	c.Capacity = cloneTable(p.Capacity)
	c.Cost = append([]float64(nil), p.Cost...)
	return &c
}

func cloneTable(t [][]float64) [][]float64 {
	out := make([][]float64, len(t))
	for i, row := range t {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// PadMetrics returns p itself when the metric count is even, otherwise a
// copy with one extra metric on which every consumption and capacity is
// zero. The padded problem has the same solutions.
func (p *Problem) PadMetrics() *Problem {
	if p.NrMetrics%2 == 0 {
		return p
	}
	c := p.Clone()
	c.NrMetrics++
	for t := range c.Consumption {
		c.Consumption[t] = append(c.Consumption[t], 0)
	}
	for s := range c.Capacity {
		c.Capacity[s] = append(c.Capacity[s], 0)
	}
	return c
}

// String renders a short shape summary, e.g. "3t×2s×1m step 0.5".
func (p *Problem) String() string {
	return fmt.Sprintf("%dt×%ds×%dm step %g", p.NrTenants, p.NrServers, p.NrMetrics, p.MinCapacityStep)
}

// Describe renders every parameter, one per line.
func (p *Problem) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "minCapacityStep: %g\n", p.MinCapacityStep)
	fmt.Fprintf(&b, "tenants: %d servers: %d metrics: %d\n", p.NrTenants, p.NrServers, p.NrMetrics)
	for t, row := range p.Consumption {
		fmt.Fprintf(&b, "tenant %d consumption: %v\n", t, row)
	}
	for s, row := range p.Capacity {
		fmt.Fprintf(&b, "server %d capacity: %v\n", s, row)
	}
	fmt.Fprintf(&b, "server cost: %v\n", p.Cost)
	return b.String()
}

// LoadProblem decodes and validates a YAML problem.
func LoadProblem(r io.Reader) (*Problem, error) {
	var p Problem
	if err := yaml.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("LoadProblem: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadProblemFile is LoadProblem on a file.
func LoadProblemFile(path string) (*Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadProblem(f)
}

// Save encodes p as YAML.
func (p *Problem) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("Problem.Save: %w", err)
	}
	return enc.Close()
}

// SaveFile is Save to a newly created file.
func (p *Problem) SaveFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return p.Save(f)
}
