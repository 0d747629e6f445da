package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/san-kum/scadsim/internal/config"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestResolveConfig(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sphere.yaml")
	if err := os.WriteFile(file, []byte("shape: Sphere\nexample: large\nsim:\n  steps: 10\n  mode: direct\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		args   []string
		canned bool
		want   func() *config.Config
	}{
		{
			name:   "no arguments",
			canned: true,
			want:   config.Canned,
		},
		{
			name: "explicit canned flags",
			args: []string{"--module", "anchorscad", "--shape", "Cone", "--example", "default", "--part", "default", "--material", "default"},
			want: config.Canned,
		},
		{
			name: "flags only",
			args: []string{"--shape", "Box", "--steps", "5", "--mode", "tui"},
			want: func() *config.Config {
				cfg := config.DefaultConfig()
				cfg.Shape = "Box"
				cfg.Sim.Steps = 5
				cfg.Sim.Mode = "tui"
				return cfg
			},
		},
		{
			name: "config file",
			args: []string{"--config", file},
			want: func() *config.Config {
				cfg := config.DefaultConfig()
				cfg.Shape = "Sphere"
				cfg.Example = "large"
				cfg.Sim.Steps = 10
				cfg.Sim.Mode = "direct"
				return cfg
			},
		},
		{
			name: "changed flag beats config file",
			args: []string{"--config", file, "--shape", "Box", "--example", "default"},
			want: func() *config.Config {
				cfg := config.DefaultConfig()
				cfg.Shape = "Box"
				cfg.Sim.Steps = 10
				cfg.Sim.Mode = "direct"
				return cfg
			},
		},
		{
			name: "flag set to its default still beats config file",
			args: []string{"--config", file, "--steps", "4000"},
			want: func() *config.Config {
				cfg := config.DefaultConfig()
				cfg.Shape = "Sphere"
				cfg.Example = "large"
				cfg.Sim.Mode = "direct"
				return cfg
			},
		},
		{
			name: "preset with part override",
			args: []string{"--preset", "bore", "--part", "default"},
			want: func() *config.Config {
				cfg := config.DefaultConfig()
				cfg.Shape = "Tube"
				cfg.Part = strPtr("default")
				return cfg
			},
		},
		{
			name: "physical false is a filter",
			args: []string{"--shape", "Tube", "--physical=false"},
			want: func() *config.Config {
				cfg := config.DefaultConfig()
				cfg.Shape = "Tube"
				cfg.Physical = boolPtr(false)
				return cfg
			},
		},
		{
			name: "record into data dir",
			args: []string{"--record", "--data", dir},
			want: func() *config.Config {
				cfg := config.DefaultConfig()
				cfg.Record = dir
				return cfg
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, o := newRootCmd(tt.canned)
			if err := root.ParseFlags(tt.args); err != nil {
				t.Fatalf("parse %v: %v", tt.args, err)
			}
			got, err := resolveConfig(root, o, tt.canned)
			if err != nil {
				t.Fatalf("resolve failed: %v", err)
			}
			if want := tt.want(); !reflect.DeepEqual(got, want) {
				t.Errorf("got %+v\nwant %+v", got, want)
			}
		})
	}
}

func TestResolveConfigCannedIgnoresFlags(t *testing.T) {
	root, o := newRootCmd(true)
	if err := root.ParseFlags([]string{"--shape", "Box"}); err != nil {
		t.Fatal(err)
	}
	got, err := resolveConfig(root, o, true)
	if err != nil {
		t.Fatal(err)
	}
	if got.Shape != config.DefaultShape {
		t.Errorf("expected canned shape, got %s", got.Shape)
	}
}

func TestResolveConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown preset", []string{"--preset", "nope"}, "unknown preset"},
		{"missing config file", []string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, "failed to load config"},
		{"invalid mode", []string{"--mode", "vr"}, "unknown mode"},
		{"negative steps", []string{"--steps", "-1"}, "steps must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, o := newRootCmd(false)
			if err := root.ParseFlags(tt.args); err != nil {
				t.Fatal(err)
			}
			_, err := resolveConfig(root, o, false)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestPresetTableSurvivesConfigFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tube.yaml")
	if err := os.WriteFile(file, []byte("physical: false\n"), 0644); err != nil {
		t.Fatal(err)
	}
	root, o := newRootCmd(false)
	if err := root.ParseFlags([]string{"--preset", "tube", "--config", file}); err != nil {
		t.Fatal(err)
	}
	got, err := resolveConfig(root, o, false)
	if err != nil {
		t.Fatal(err)
	}
	if got.Physical == nil || *got.Physical {
		t.Errorf("expected physical=false from the file, got %v", got.Physical)
	}
	if p := config.GetPreset("anchorscad", "tube").Physical; p == nil || !*p {
		t.Errorf("expected tube preset to stay physical, got %v", p)
	}
}
