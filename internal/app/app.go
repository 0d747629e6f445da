// Package app wires shape resolution, the physics backend and recording
// into the scadsim commands.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/san-kum/scadsim/internal/config"
	"github.com/san-kum/scadsim/internal/metrics"
	"github.com/san-kum/scadsim/internal/model"
	"github.com/san-kum/scadsim/internal/physics"
	"github.com/san-kum/scadsim/internal/shapes"
	"github.com/san-kum/scadsim/internal/sim"
	"github.com/san-kum/scadsim/internal/storage"
)

type App struct {
	backend physics.Backend
	out     io.Writer
	sleep   sim.SleepFunc
}

type Option func(*App)

// WithOutput redirects the status lines normally written to stdout.
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// WithSleep replaces the pause between steps.
func WithSleep(f sim.SleepFunc) Option {
	return func(a *App) { a.sleep = f }
}

func New(b physics.Backend, opts ...Option) *App {
	a := &App{backend: b, out: os.Stdout, sleep: sim.Sleep}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Selector builds the part filter of cfg.
func Selector(cfg *config.Config) shapes.Selector {
	return shapes.Selector{Part: cfg.Part, Material: cfg.Material, Physical: cfg.Physical}
}

// Resolve finds the configured shape class and builds its model. Nothing
// touches the physics backend.
func (a *App) Resolve(cfg *config.Config) (*model.Model, error) {
	cls, err := shapes.Lookup(cfg.Module, cfg.Shape)
	if err != nil {
		return nil, err
	}
	m, err := model.FromShapeClass(cls, cfg.Example, Selector(cfg))
	if err != nil {
		return nil, err
	}
	slog.Info("model resolved", "module", cfg.Module, "shape", cfg.Shape, "example", cfg.Example,
		"parts", m.Parts, "triangles", m.Mesh.Len())
	return m, nil
}

// Run resolves cfg and drops the model in a new session.
func (a *App) Run(ctx context.Context, cfg *config.Config) (*sim.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m, err := a.Resolve(cfg)
	if err != nil {
		return nil, err
	}
	return a.Simulate(ctx, cfg, m)
}

// RunConfig runs cfg and drops the result.
func (a *App) RunConfig(ctx context.Context, cfg *config.Config) error {
	_, err := a.Run(ctx, cfg)
	return err
}

// Simulate runs the standard simulation for m with the settings in cfg and
// records it when cfg.Record is set.
func (a *App) Simulate(ctx context.Context, cfg *config.Config, m sim.Spawner) (*sim.Result, error) {
	set, err := sim.FromConfig(cfg)
	if err != nil {
		return nil, err
	}

	summary := metrics.Default(set.Gravity.Z)
	s := sim.New(a.backend)
	s.SetOutput(a.out)
	s.SetSleep(a.sleep)
	s.AddObserver(summary)

	var rec *storage.Recorder
	if cfg.Record != "" {
		rec = storage.NewRecorder(storage.DefaultStride)
		s.AddObserver(rec)
	}

	res, err := s.Run(ctx, m, set)
	if err != nil {
		return res, err
	}
	values := summary.Values()
	slog.Info("simulation done", "steps", res.Steps, "closed", res.Closed, "elapsed", res.Elapsed,
		"settle_time", values["settle_time"], "impact_speed", values["impact_speed"])

	if rec != nil {
		id, err := a.save(cfg, res, rec, values)
		if err != nil {
			return res, fmt.Errorf("record run: %w", err)
		}
		fmt.Fprintf(a.out, "run id: %s\n", id)
	}
	return res, nil
}

func (a *App) save(cfg *config.Config, res *sim.Result, rec *storage.Recorder, values map[string]float64) (string, error) {
	st := storage.New(cfg.Record)
	if err := st.Init(); err != nil {
		return "", err
	}
	return st.Save(storage.RunMetadata{
		Module:   cfg.Module,
		Shape:    cfg.Shape,
		Example:  cfg.Example,
		Part:     cfg.Part,
		Material: cfg.Material,
		Physical: cfg.Physical,
		Mode:     cfg.Sim.Mode,
		TimeStep: physics.DefaultTimeStep,
		Steps:    res.Steps,
		Closed:   res.Closed,
		Metrics:  values,
	}, rec)
}
