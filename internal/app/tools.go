package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/san-kum/scadsim/internal/config"
	"github.com/san-kum/scadsim/internal/export"
	"github.com/san-kum/scadsim/internal/model"
	"github.com/san-kum/scadsim/internal/shapes"
	"github.com/san-kum/scadsim/internal/sim"
)

// Preview size of exported SVGs in braille cells.
const (
	PreviewCols = 80
	PreviewRows = 40
)

// Export writes the resolved model as binary STL to stlPath and, when
// svgPath is not empty, a wireframe preview seen from the configured
// camera.
func (a *App) Export(cfg *config.Config, stlPath, svgPath string) (*model.Model, error) {
	m, err := a.Resolve(cfg)
	if err != nil {
		return nil, err
	}
	if err := export.WriteSTL(stlPath, m.Mesh); err != nil {
		return nil, fmt.Errorf("write %s: %w", stlPath, err)
	}
	if svgPath == "" {
		return m, nil
	}

	set, err := sim.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	doc := export.PreviewSVG(m.Mesh, m.Colour, set.Camera, PreviewCols, PreviewRows)
	if err := export.WriteFile(svgPath, doc); err != nil {
		return nil, fmt.Errorf("write %s: %w", svgPath, err)
	}
	return m, nil
}

// Settle drops the configured example of every class in cfg.Module
// headless and reports where each one came to rest. Classes whose model
// cannot be built are reported with their error.
func (a *App) Settle(ctx context.Context, cfg *config.Config, workers int) ([]sim.Outcome, error) {
	mod, err := shapes.LookupModule(cfg.Module)
	if err != nil {
		return nil, err
	}
	set, err := sim.FromConfig(cfg)
	if err != nil {
		return nil, err
	}

	var (
		jobs   []sim.Job
		failed []sim.Outcome
	)
	for _, cls := range mod.Classes() {
		example := cfg.Example
		if _, err := cls.Example(example); err != nil {
			example = config.DefaultExample
		}
		m, err := model.FromShapeClass(cls, example, Selector(cfg))
		if err != nil {
			failed = append(failed, sim.Outcome{Name: cls.Name, Err: err})
			continue
		}
		jobs = append(jobs, sim.Job{Name: cls.Name, Model: m})
	}

	outcomes := append(sim.NewEnsemble(a.backend, workers).Run(ctx, jobs, set), failed...)
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Name < outcomes[j].Name })
	return outcomes, nil
}
