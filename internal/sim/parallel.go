package sim

import (
	"context"
	"io"
	"math"
	"sync"

	"github.com/san-kum/scadsim/internal/metrics"
	"github.com/san-kum/scadsim/internal/physics"
)

// Job is one model to settle headless.
type Job struct {
	Name  string
	Model Spawner
}

// Outcome describes where a job's body ended up.
type Outcome struct {
	Name     string
	Lowest   float64
	Height   float64
	Sleeping bool
	Steps    int
	Metrics  map[string]float64
	Err      error
}

// Ensemble drops many models concurrently, each in its own direct session
// on a shared backend.
type Ensemble struct {
	backend physics.Backend
	workers int
}

func NewEnsemble(b physics.Backend, workers int) *Ensemble {
	if workers < 1 {
		workers = 1
	}
	return &Ensemble{backend: b, workers: workers}
}

func (e *Ensemble) Run(ctx context.Context, jobs []Job, set Settings) []Outcome {
	set.Mode = physics.Direct
	set.Interval = 0

	outcomes := make([]Outcome, len(jobs))
	sem := make(chan struct{}, e.workers)

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(idx int, job Job) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			outcomes[idx] = e.settle(ctx, job, set)
		}(i, job)
	}

	wg.Wait()
	return outcomes
}

func (e *Ensemble) settle(ctx context.Context, job Job, set Settings) Outcome {
	out := Outcome{Name: job.Name}
	last := &lastFrame{}
	summary := metrics.Default(set.Gravity.Z)

	s := New(e.backend)
	s.SetOutput(io.Discard)
	s.AddObserver(last)
	s.AddObserver(summary)

	res, err := s.Run(ctx, job.Model, set)
	if res != nil {
		out.Steps = res.Steps
	}
	if err != nil {
		out.Err = err
		return out
	}

	out.Metrics = summary.Values()
	out.Lowest = math.Inf(1)
	for _, b := range last.frame.Bodies {
		if b.Kind != physics.KindMesh || b.Static {
			continue
		}
		out.Height = b.Position.Z
		out.Sleeping = b.Sleeping
		for _, t := range b.Mesh.Triangles {
			for _, v := range t {
				out.Lowest = math.Min(out.Lowest, b.ToWorld(v).Z)
			}
		}
	}
	return out
}

type lastFrame struct {
	frame physics.Frame
}

func (l *lastFrame) OnStep(f physics.Frame) { l.frame = f }
