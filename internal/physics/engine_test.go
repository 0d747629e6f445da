package physics

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/scadsim/internal/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

type recordingVisualizer struct {
	frames int
	closed int
	last   Frame
}

func (r *recordingVisualizer) Render(f Frame) error {
	r.frames++
	r.last = f
	return nil
}

func (r *recordingVisualizer) Close() error {
	r.closed++
	return nil
}

func groundSession(t *testing.T, e *Engine) Session {
	t.Helper()
	s, err := e.Connect(Direct)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if err := e.SetAdditionalSearchPath(s, DataPath); err != nil {
		t.Fatalf("search path failed: %v", err)
	}
	if err := e.SetGravity(s, r3.Vec{Z: -9.8}); err != nil {
		t.Fatalf("gravity failed: %v", err)
	}
	if _, err := e.LoadAsset(s, "plane.urdf"); err != nil {
		t.Fatalf("load plane failed: %v", err)
	}
	return s
}

func TestDisconnectTwice(t *testing.T) {
	e := NewEngine()
	s, err := e.Connect(Direct)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if err := e.Disconnect(s); err != nil {
		t.Fatalf("disconnect failed: %v", err)
	}
	if err := e.Disconnect(s); !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
	if err := e.StepSimulation(s); !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected after release, got %v", err)
	}
}

func TestConnectWithoutVisualizer(t *testing.T) {
	e := NewEngine()
	if _, err := e.Connect(GUI); !errors.Is(err, ErrNoVisualizer) {
		t.Errorf("expected ErrNoVisualizer, got %v", err)
	}
}

func TestSessionsAreDistinct(t *testing.T) {
	e := NewEngine()
	a, _ := e.Connect(Direct)
	b, _ := e.Connect(Direct)
	if a == b {
		t.Fatalf("expected distinct sessions, got %d twice", a)
	}
}

func TestLoadAssetNeedsSearchPath(t *testing.T) {
	e := NewEngine()
	s, _ := e.Connect(Direct)
	if _, err := e.LoadAsset(s, "plane.urdf"); !errors.Is(err, ErrAssetNotFound) {
		t.Errorf("expected ErrAssetNotFound, got %v", err)
	}
	e.SetAdditionalSearchPath(s, DataPath)
	id, err := e.LoadAsset(s, "plane.urdf")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if id != 0 {
		t.Errorf("expected first body id 0, got %d", id)
	}
}

func TestLoadSTLScenery(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "ramp.stl"))
	if err != nil {
		t.Fatal(err)
	}
	if err := mesh.EncodeBinary(f, mesh.Box(r3.Vec{X: 1, Y: 1, Z: 1})); err != nil {
		t.Fatal(err)
	}
	f.Close()

	e := NewEngine()
	s, _ := e.Connect(Direct)
	e.SetAdditionalSearchPath(s, dir)
	id, err := e.LoadAsset(s, "ramp.stl")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	b, _ := e.Body(s, id)
	if !b.Static {
		t.Error("expected scenery to be static")
	}
}

func TestFreeFall(t *testing.T) {
	e := NewEngine()
	s, _ := e.Connect(Direct)
	e.SetGravity(s, r3.Vec{Z: -9.8})
	id, err := e.CreateBody(s, BodySpec{Name: "box", Mesh: mesh.Box(r3.Vec{X: 1, Y: 1, Z: 1}), Position: r3.Vec{Z: 100}})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	for i := 0; i < 240; i++ {
		if err := e.StepSimulation(s); err != nil {
			t.Fatalf("step failed: %v", err)
		}
	}

	b, _ := e.Body(s, id)
	if math.Abs(b.Velocity.Z+9.8) > 1e-6 {
		t.Errorf("expected vz -9.8 after one second, got %f", b.Velocity.Z)
	}
	drop := 100.5 - b.Position.Z
	if math.Abs(drop-4.9) > 0.1 {
		t.Errorf("expected ~4.9m drop, got %f", drop)
	}
}

func TestBoxComesToRest(t *testing.T) {
	e := NewEngine()
	s := groundSession(t, e)
	id, err := e.CreateBody(s, BodySpec{
		Name:     "box",
		Mesh:     mesh.Box(r3.Vec{X: 1, Y: 1, Z: 1}).Translate(r3.Vec{X: -0.5, Y: -0.5}),
		Position: r3.Vec{Z: 2},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	for i := 0; i < 2400; i++ {
		e.StepSimulation(s)
	}

	b, _ := e.Body(s, id)
	if low := b.LowestPoint(); math.Abs(low) > 0.01 {
		t.Errorf("expected box resting on the plane, lowest point at %f", low)
	}
	if math.Abs(b.Position.Z-0.5) > 0.05 {
		t.Errorf("expected centre of mass near 0.5, got %f", b.Position.Z)
	}
	if r3.Norm(b.Velocity) > 0.05 {
		t.Errorf("expected box at rest, velocity %v", b.Velocity)
	}
}

func TestCreateBodyRejectsEmptyMesh(t *testing.T) {
	e := NewEngine()
	s, _ := e.Connect(Direct)
	if _, err := e.CreateBody(s, BodySpec{Name: "empty", Mesh: mesh.New(nil)}); !errors.Is(err, ErrInvalidBody) {
		t.Errorf("expected ErrInvalidBody, got %v", err)
	}
}

func TestVisualizerLifecycle(t *testing.T) {
	vis := &recordingVisualizer{}
	e := NewEngine()
	e.RegisterVisualizer(GUI, func() (Visualizer, error) { return vis, nil })

	s, err := e.Connect(GUI)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	cam := Camera{Distance: 10, Yaw: 30, Pitch: -25}
	e.ResetDebugVisualizerCamera(s, cam)
	for i := 0; i < 5; i++ {
		e.StepSimulation(s)
	}
	e.Disconnect(s)

	if vis.frames != 5 {
		t.Errorf("expected 5 frames, got %d", vis.frames)
	}
	if vis.closed != 1 {
		t.Errorf("expected one close, got %d", vis.closed)
	}
	if vis.last.Camera != cam {
		t.Errorf("expected camera %+v, got %+v", cam, vis.last.Camera)
	}
	if vis.last.Step != 5 {
		t.Errorf("expected step 5, got %d", vis.last.Step)
	}
}

func TestCameraEye(t *testing.T) {
	cam := Camera{Distance: 10, Yaw: 30, Pitch: -25}
	eye := cam.Eye()
	if d := r3.Norm(r3.Sub(eye, cam.Target)); math.Abs(d-10) > 1e-9 {
		t.Errorf("expected eye at distance 10, got %f", d)
	}
	if eye.Z <= 0 {
		t.Errorf("expected negative pitch to look down from above, eye %v", eye)
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{Direct, GUI, TUI} {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("round trip %s: got %v, %v", m, got, err)
		}
	}
	if _, err := ParseMode("vr"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
