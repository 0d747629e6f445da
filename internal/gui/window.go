package gui

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/scadsim/internal/physics"
)

func init() {
	// raylib must be driven from the thread that opened the window.
	runtime.LockOSThread()
}

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColGrid    = rl.NewColor(45, 45, 45, 255)
	ColGround  = rl.NewColor(22, 22, 26, 255)
)

type Options struct {
	Title  string
	Width  int32
	Height int32
	Steps  int
}

// Window is a raylib visualizer. Frames are drawn as they arrive; the
// simulation loop does the pacing.
type Window struct {
	opts   Options
	camera rl.Camera3D
	closed bool
}

func New(opts Options) (*Window, error) {
	if opts.Width == 0 {
		opts.Width = 1280
	}
	if opts.Height == 0 {
		opts.Height = 720
	}
	if opts.Title == "" {
		opts.Title = "scadsim"
	}

	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(opts.Width, opts.Height, opts.Title)
	if !rl.IsWindowReady() {
		return nil, fmt.Errorf("gui: could not open a %dx%d window", opts.Width, opts.Height)
	}
	rl.SetTargetFPS(0)

	return &Window{
		opts:   opts,
		camera: cameraFor(physics.Camera{Distance: 10, Yaw: 30, Pitch: -25}),
	}, nil
}

// Factory returns a visualizer factory for physics.Engine.
func Factory(opts Options) physics.VisualizerFactory {
	return func() (physics.Visualizer, error) {
		return New(opts)
	}
}

func (w *Window) Render(f physics.Frame) error {
	if w.closed || rl.WindowShouldClose() {
		w.closed = true
		return physics.ErrWindowClosed
	}
	w.camera = cameraFor(f.Camera)

	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.BeginMode3D(w.camera)
	for _, b := range f.Bodies {
		switch b.Kind {
		case physics.KindPlane:
			drawGround(40, 1)
		case physics.KindMesh:
			drawBody(b)
		}
	}
	rl.EndMode3D()

	w.drawHUD(f)
	rl.EndDrawing()
	return nil
}

func (w *Window) Close() error {
	rl.CloseWindow()
	return nil
}

func (w *Window) drawHUD(f physics.Frame) {
	rl.DrawText(w.opts.Title, 30, 30, 24, ColSelect)
	step := fmt.Sprintf("step %d", f.Step)
	if w.opts.Steps > 0 {
		step = fmt.Sprintf("step %d / %d", f.Step, w.opts.Steps)
	}
	rl.DrawText(step, 30, 62, 16, ColText)
	rl.DrawText(fmt.Sprintf("t = %.2fs", f.Time), 30, 82, 16, ColText)

	y := int32(110)
	for _, b := range f.Bodies {
		if b.Kind != physics.KindMesh {
			continue
		}
		state := "moving"
		if b.Sleeping {
			state = "resting"
		}
		rl.DrawText(fmt.Sprintf("%s  z=%.3f  %s", b.Name, b.Position.Z, state), 30, y, 14, ColText)
		y += 18
	}

	h := int32(rl.GetScreenHeight())
	rl.DrawText("[ESC] CLOSE", 30, h-40, 14, ColTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 160, h-40, 14, ColTextDim)
}
