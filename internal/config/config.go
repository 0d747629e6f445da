package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultModule     = "anchorscad"
	DefaultShape      = "Cone"
	DefaultExample    = "default"
	DefaultMode       = "gui"
	DefaultSteps      = 4000
	DefaultFrameRate  = 25.0
	DefaultGravity    = -9.8
	DefaultDropHeight = 2.0

	DefaultCameraDistance = 10.0
	DefaultCameraYaw      = 30.0
	DefaultCameraPitch    = -25.0
)

var ErrInvalid = errors.New("invalid config")

// Config is the resolved run configuration. It is read-only once the
// command line has been applied.
type Config struct {
	Module  string `yaml:"module"`
	Shape   string `yaml:"shape"`
	Example string `yaml:"example"`

	// Nil selectors do not filter.
	Part     *string `yaml:"part,omitempty"`
	Material *string `yaml:"material,omitempty"`
	Physical *bool   `yaml:"physical,omitempty"`

	Sim    SimConfig `yaml:"sim"`
	Record string    `yaml:"record,omitempty"`
}

// SimConfig holds the run settings. The debug camera is not configurable;
// every run looks at the origin from the Default camera constants.
type SimConfig struct {
	Mode        string   `yaml:"mode"`
	Steps       int      `yaml:"steps"`
	FrameRate   float64  `yaml:"frame_rate"`
	Gravity     float64  `yaml:"gravity"`
	DropHeight  float64  `yaml:"drop_height"`
	SearchPaths []string `yaml:"search_paths,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Module:  DefaultModule,
		Shape:   DefaultShape,
		Example: DefaultExample,
		Sim: SimConfig{
			Mode:       DefaultMode,
			Steps:      DefaultSteps,
			FrameRate:  DefaultFrameRate,
			Gravity:    DefaultGravity,
			DropHeight: DefaultDropHeight,
		},
	}
}

// Canned is the configuration used when the program is started with no
// arguments at all.
func Canned() *Config {
	cfg := DefaultConfig()
	part, material := "default", "default"
	cfg.Part = &part
	cfg.Material = &material
	return cfg
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of base. Keys missing from the file keep the
// value from base.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Clone returns a copy of c that shares no pointers or slices with it.
func (c *Config) Clone() *Config {
	out := *c
	out.Part = cloneString(c.Part)
	out.Material = cloneString(c.Material)
	out.Physical = cloneBool(c.Physical)
	out.Sim.SearchPaths = append([]string(nil), c.Sim.SearchPaths...)
	return &out
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneBool(p *bool) *bool {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Module == "":
		return fmt.Errorf("%w: module is empty", ErrInvalid)
	case c.Shape == "":
		return fmt.Errorf("%w: shape is empty", ErrInvalid)
	case c.Example == "":
		return fmt.Errorf("%w: example is empty", ErrInvalid)
	case c.Sim.Steps < 0:
		return fmt.Errorf("%w: steps must not be negative, got %d", ErrInvalid, c.Sim.Steps)
	case c.Sim.FrameRate < 0:
		return fmt.Errorf("%w: frame rate must not be negative, got %g", ErrInvalid, c.Sim.FrameRate)
	case c.Sim.DropHeight < 0:
		return fmt.Errorf("%w: drop height must not be negative, got %g", ErrInvalid, c.Sim.DropHeight)
	}
	switch c.Sim.Mode {
	case "gui", "tui", "direct", "headless":
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalid, c.Sim.Mode)
	}
	return nil
}

// Interval is the pause between two simulation steps. A zero frame rate
// runs unpaced.
func (c *Config) Interval() time.Duration {
	if c.Sim.FrameRate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / c.Sim.FrameRate)
}
