// Package automation runs scripted sequences of drops.
package automation

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/scadsim/internal/config"
	"github.com/san-kum/scadsim/internal/physics"
	"github.com/san-kum/scadsim/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario is a named list of shape drops run one after the other.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep overrides the base configuration for one drop. Zero values
// keep the base value.
type ScenarioStep struct {
	Module     string  `yaml:"module"`
	Shape      string  `yaml:"shape"`
	Example    string  `yaml:"example"`
	Part       *string `yaml:"part"`
	Material   *string `yaml:"material"`
	Physical   *bool   `yaml:"physical"`
	Steps      int     `yaml:"steps"`
	DropHeight float64 `yaml:"drop_height"`
	Record     string  `yaml:"record"`
}

// Runner runs one fully resolved configuration.
type Runner interface {
	RunConfig(ctx context.Context, cfg *config.Config) error
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	return &scenario, nil
}

// Apply returns a copy of base with the step's overrides.
func (s ScenarioStep) Apply(base *config.Config) *config.Config {
	cfg := base.Clone()
	if s.Module != "" {
		cfg.Module = s.Module
	}
	if s.Shape != "" {
		cfg.Shape = s.Shape
	}
	if s.Example != "" {
		cfg.Example = s.Example
	}
	if s.Part != nil {
		cfg.Part = s.Part
	}
	if s.Material != nil {
		cfg.Material = s.Material
	}
	if s.Physical != nil {
		cfg.Physical = s.Physical
	}
	if s.Steps > 0 {
		cfg.Sim.Steps = s.Steps
	}
	if s.DropHeight > 0 {
		cfg.Sim.DropHeight = s.DropHeight
	}
	if s.Record != "" {
		cfg.Record = s.Record
	}
	return cfg
}

// RunScenario executes every step in order and stops at the first error.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, r Runner, out io.Writer) error {
	for i, step := range scenario.Steps {
		cfg := step.Apply(base)
		fmt.Fprintf(out, "Running step %d/%d: %s %s/%s\n", i+1, len(scenario.Steps), cfg.Module, cfg.Shape, cfg.Example)

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		if err := r.RunConfig(ctx, cfg); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

// HeightSweep drops one model from evenly spaced heights.
type HeightSweep struct {
	Min, Max float64
	Count    int
	Workers  int
}

type SweepResult struct {
	DropHeight float64
	Outcome    sim.Outcome
}

// RunSweep settles m once per height, concurrently, in direct sessions on b.
func RunSweep(ctx context.Context, sweep HeightSweep, m sim.Spawner, b physics.Backend, set sim.Settings) ([]SweepResult, error) {
	if sweep.Count < 1 {
		return nil, fmt.Errorf("sweep needs at least one height, got %d", sweep.Count)
	}
	if sweep.Max < sweep.Min {
		return nil, fmt.Errorf("sweep range [%g, %g] is empty", sweep.Min, sweep.Max)
	}

	heights := make([]float64, sweep.Count)
	jobs := make([]sim.Job, sweep.Count)
	for i := range heights {
		h := sweep.Min
		if sweep.Count > 1 {
			h += float64(i) * (sweep.Max - sweep.Min) / float64(sweep.Count-1)
		}
		heights[i] = h
		jobs[i] = sim.Job{Name: fmt.Sprintf("h=%.2f", h), Model: atHeight{m, h}}
	}

	outcomes := sim.NewEnsemble(b, sweep.Workers).Run(ctx, jobs, set)
	results := make([]SweepResult, len(outcomes))
	for i, o := range outcomes {
		results[i] = SweepResult{DropHeight: heights[i], Outcome: o}
	}
	return results, nil
}

// atHeight pins the drop height of a spawner regardless of the settings.
type atHeight struct {
	sim.Spawner
	height float64
}

func (a atHeight) ToUniformColourObject(b physics.Backend, s physics.Session, _ float64) (int, error) {
	return a.Spawner.ToUniformColourObject(b, s, a.height)
}
