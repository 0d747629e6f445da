package sim

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/scadsim/internal/config"
	"github.com/san-kum/scadsim/internal/physics"
)

func TestFromConfigKeepsFixedCamera(t *testing.T) {
	path := filepath.Join(t.TempDir(), "camera.yaml")
	doc := "sim:\n  steps: 12\n  camera:\n    distance: 3\n    yaw: 90\n    pitch: -80\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	set, err := FromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := physics.Camera{Distance: 10, Yaw: 30, Pitch: -25}
	if set.Camera != want {
		t.Errorf("expected camera %+v, got %+v", want, set.Camera)
	}
	if set.Steps != 12 {
		t.Errorf("expected steps from the file, got %d", set.Steps)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Sim.SearchPaths = []string{"/tmp/scenery"}

	set, err := FromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if set.Mode != physics.GUI {
		t.Errorf("expected gui mode, got %s", set.Mode)
	}
	if len(set.SearchPaths) != 2 || set.SearchPaths[0] != physics.DataPath {
		t.Errorf("expected built-in data path first, got %v", set.SearchPaths)
	}
	if set.Interval != 40*time.Millisecond {
		t.Errorf("expected 40ms pacing, got %v", set.Interval)
	}

	cfg.Sim.Mode = "vr"
	if _, err := FromConfig(cfg); err == nil {
		t.Error("expected error for unknown mode")
	}
}
