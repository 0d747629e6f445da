package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Module != "anchorscad" || cfg.Shape != "Cone" || cfg.Example != "default" {
		t.Errorf("unexpected shape selection %s/%s/%s", cfg.Module, cfg.Shape, cfg.Example)
	}
	if cfg.Part != nil || cfg.Material != nil || cfg.Physical != nil {
		t.Error("default selectors should be unset")
	}
	if cfg.Sim.Steps != 4000 {
		t.Errorf("expected 4000 steps, got %d", cfg.Sim.Steps)
	}
	if DefaultCameraDistance != 10 || DefaultCameraYaw != 30 || DefaultCameraPitch != -25 {
		t.Errorf("unexpected camera %g/%g/%g", DefaultCameraDistance, DefaultCameraYaw, DefaultCameraPitch)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestCanned(t *testing.T) {
	cfg := Canned()
	if cfg.Part == nil || *cfg.Part != "default" {
		t.Errorf("expected part default, got %v", cfg.Part)
	}
	if cfg.Material == nil || *cfg.Material != "default" {
		t.Errorf("expected material default, got %v", cfg.Material)
	}
	if cfg.Physical != nil {
		t.Error("canned config leaves physical unset")
	}
	if cfg.Module != "anchorscad" || cfg.Shape != "Cone" || cfg.Example != "default" {
		t.Errorf("unexpected canned shape %s/%s/%s", cfg.Module, cfg.Shape, cfg.Example)
	}
}

func TestInterval(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.Interval(); got != 40*time.Millisecond {
		t.Errorf("expected 40ms at 25 Hz, got %v", got)
	}
	cfg.Sim.FrameRate = 0
	if got := cfg.Interval(); got != 0 {
		t.Errorf("expected unpaced run, got %v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty module", func(c *Config) { c.Module = "" }},
		{"empty shape", func(c *Config) { c.Shape = "" }},
		{"negative steps", func(c *Config) { c.Sim.Steps = -1 }},
		{"negative rate", func(c *Config) { c.Sim.FrameRate = -5 }},
		{"bad mode", func(c *Config) { c.Sim.Mode = "vr" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	cfg := Canned()
	cfg.Shape = "Tube"
	yes := true
	cfg.Physical = &yes
	cfg.Sim.Steps = 120
	cfg.Sim.Mode = "direct"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Shape != "Tube" || got.Sim.Steps != 120 || got.Sim.Mode != "direct" {
		t.Errorf("unexpected round trip %+v", got)
	}
	if got.Physical == nil || !*got.Physical {
		t.Error("expected physical true after load")
	}
	if got.Part == nil || *got.Part != "default" {
		t.Error("expected part default after load")
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("shape: Sphere\nsim:\n  steps: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Module != "anchorscad" || got.Shape != "Sphere" {
		t.Errorf("unexpected selection %s/%s", got.Module, got.Shape)
	}
	if got.Sim.Steps != 10 || got.Sim.FrameRate != DefaultFrameRate {
		t.Errorf("unexpected sim settings %+v", got.Sim)
	}
}

func TestLoadOverPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	if err := os.WriteFile(path, []byte("part: default\nphysical: false\nsim:\n  steps: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}

	base := GetPreset("anchorscad", "bore")
	got, err := LoadOver(path, base)
	if err != nil {
		t.Fatal(err)
	}
	if got.Shape != "Tube" || got.Part == nil || *got.Part != "default" {
		t.Errorf("expected file part over the preset shape, got %+v", got)
	}
	if got.Physical == nil || *got.Physical {
		t.Errorf("expected physical=false from the file, got %v", got.Physical)
	}
	if got.Sim.Steps != 10 {
		t.Errorf("expected steps 10, got %d", got.Sim.Steps)
	}

	if base.Sim.Steps != DefaultSteps || base.Part == nil || *base.Part != "bore" || base.Physical != nil {
		t.Errorf("base changed by loading: %+v", base)
	}
	if p := Presets["anchorscad"]["bore"].Part; p == nil || *p != "bore" {
		t.Errorf("preset table changed: bore part %v", p)
	}
}

func TestLoadOverKeepsPresetTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tube.yaml")
	if err := os.WriteFile(path, []byte("physical: false\npart: bore\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadOver(path, GetPreset("anchorscad", "tube")); err != nil {
		t.Fatal(err)
	}
	tube := GetPreset("anchorscad", "tube")
	if tube.Physical == nil || !*tube.Physical {
		t.Errorf("expected tube preset to stay physical, got %v", tube.Physical)
	}
	if tube.Part != nil {
		t.Errorf("expected tube preset without part, got %q", *tube.Part)
	}

	part := "default"
	base := DefaultConfig()
	base.Part = &part
	if _, err := LoadOver(path, base); err != nil {
		t.Fatal(err)
	}
	if *base.Part != "default" {
		t.Errorf("expected base part default, got %q", *base.Part)
	}
}

func TestGetPresetReturnsFreshPointers(t *testing.T) {
	a := GetPreset("anchorscad", "cone")
	*a.Part = "changed"
	if b := GetPreset("anchorscad", "cone"); *b.Part != "default" {
		t.Errorf("expected fresh preset part, got %q", *b.Part)
	}
}

func TestClone(t *testing.T) {
	cfg := Canned()
	cfg.Sim.SearchPaths = []string{"a"}
	c := cfg.Clone()
	*c.Part = "other"
	c.Sim.SearchPaths[0] = "b"
	if *cfg.Part != "default" || cfg.Sim.SearchPaths[0] != "a" {
		t.Errorf("clone shares state with the original: %+v", cfg)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("anchorscad", "bore")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Shape != "Tube" || cfg.Part == nil || *cfg.Part != "bore" {
		t.Errorf("unexpected preset %+v", cfg)
	}
	if cfg.Sim.Steps != DefaultSteps {
		t.Error("preset should carry default sim settings")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("anchorscad", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "cone"); cfg != nil {
		t.Error("expected nil for nonexistent module")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("anchorscad_models")
	if len(presets) == 0 {
		t.Fatal("expected presets for anchorscad_models")
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent module")
	}
}
