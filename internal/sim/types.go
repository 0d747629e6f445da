package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/scadsim/internal/config"
	"github.com/san-kum/scadsim/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// CompletionMessage is printed once a run finished and released its session.
const CompletionMessage = "Simulation finished and disconnected."

// PlaneAsset is the ground loaded into every session.
const PlaneAsset = "plane.urdf"

// Observer receives the world after every step.
type Observer interface {
	OnStep(f physics.Frame)
}

// Spawner places a model into a session.
type Spawner interface {
	ToUniformColourObject(b physics.Backend, s physics.Session, height float64) (int, error)
}

// SleepFunc pauses between steps. It returns early with ctx.Err() when ctx
// is cancelled.
type SleepFunc func(ctx context.Context, d time.Duration) error

type Settings struct {
	Mode        physics.Mode
	SearchPaths []string
	Gravity     r3.Vec
	Camera      physics.Camera
	Steps       int
	Interval    time.Duration
	DropHeight  float64
}

// DefaultCamera is the debug camera every run starts from: distance 10,
// yaw 30, pitch -25, looking at the origin.
func DefaultCamera() physics.Camera {
	return physics.Camera{
		Distance: config.DefaultCameraDistance,
		Yaw:      config.DefaultCameraYaw,
		Pitch:    config.DefaultCameraPitch,
	}
}

// DefaultSettings returns the settings of the default configuration.
func DefaultSettings() Settings {
	s, _ := FromConfig(config.DefaultConfig())
	return s
}

func FromConfig(cfg *config.Config) (Settings, error) {
	mode, err := physics.ParseMode(cfg.Sim.Mode)
	if err != nil {
		return Settings{}, err
	}
	if cfg.Sim.Steps < 0 {
		return Settings{}, fmt.Errorf("steps must not be negative, got %d", cfg.Sim.Steps)
	}
	return Settings{
		Mode:        mode,
		SearchPaths: append([]string{physics.DataPath}, cfg.Sim.SearchPaths...),
		Gravity:     r3.Vec{Z: cfg.Sim.Gravity},
		Camera:      DefaultCamera(),
		Steps:       cfg.Sim.Steps,
		Interval:    cfg.Interval(),
		DropHeight:  cfg.Sim.DropHeight,
	}, nil
}

type Result struct {
	Steps int
	Time  float64
	// Closed is set when the visualizer window was closed before the last
	// step.
	Closed  bool
	Elapsed time.Duration
}
