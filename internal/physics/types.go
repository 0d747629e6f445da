package physics

import (
	"fmt"
	"image/color"
	"math"

	"github.com/san-kum/scadsim/internal/mesh"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Session identifies one connection to the engine.
type Session int

type Mode int

const (
	Direct Mode = iota
	GUI
	TUI
)

func (m Mode) String() string {
	switch m {
	case Direct:
		return "direct"
	case GUI:
		return "gui"
	case TUI:
		return "tui"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "direct", "headless":
		return Direct, nil
	case "gui":
		return GUI, nil
	case "tui":
		return TUI, nil
	}
	return 0, fmt.Errorf("unknown mode: %s", s)
}

// Camera is an orbit camera. Angles are in degrees; a negative pitch looks
// down on the target.
type Camera struct {
	Distance float64
	Yaw      float64
	Pitch    float64
	Target   r3.Vec
}

// Eye returns the camera position in world coordinates (z up).
func (c Camera) Eye() r3.Vec {
	yaw := c.Yaw * math.Pi / 180
	pitch := c.Pitch * math.Pi / 180
	offset := r3.Vec{
		X: c.Distance * math.Cos(pitch) * math.Sin(yaw),
		Y: -c.Distance * math.Cos(pitch) * math.Cos(yaw),
		Z: -c.Distance * math.Sin(pitch),
	}
	return r3.Add(c.Target, offset)
}

type BodyKind int

const (
	KindMesh BodyKind = iota
	KindPlane
)

// BodySpec describes a dynamic or static mesh body.
type BodySpec struct {
	Name   string
	Mesh   *mesh.Mesh
	Colour color.RGBA
	// Density of the solid; mass and inertia are integrated from the mesh.
	Density float64
	// Position of the mesh origin in the world.
	Position r3.Vec
	Static   bool
}

// BodyView is a read-only snapshot of a body for rendering and recording.
type BodyView struct {
	ID              int
	Name            string
	Kind            BodyKind
	Static          bool
	Sleeping        bool
	Mesh            *mesh.Mesh
	Colour          color.RGBA
	Mass            float64
	Position        r3.Vec
	Orientation     quat.Number
	Velocity        r3.Vec
	AngularVelocity r3.Vec
}

// ToWorld maps a point in body coordinates to world coordinates.
func (b BodyView) ToWorld(p r3.Vec) r3.Vec {
	return r3.Add(b.Position, rotate(b.Orientation, p))
}

// Frame is what a visualizer draws after each step.
type Frame struct {
	Session Session
	Step    int
	Time    float64
	Camera  Camera
	Bodies  []BodyView
}

// Visualizer draws frames for sessions opened in GUI or TUI mode.
type Visualizer interface {
	Render(f Frame) error
	Close() error
}

type VisualizerFactory func() (Visualizer, error)

// Backend is the session-addressed API of a physics server.
type Backend interface {
	Connect(mode Mode) (Session, error)
	SetAdditionalSearchPath(s Session, path string) error
	SetGravity(s Session, g r3.Vec) error
	LoadAsset(s Session, name string) (int, error)
	CreateBody(s Session, spec BodySpec) (int, error)
	ResetDebugVisualizerCamera(s Session, cam Camera) error
	StepSimulation(s Session) error
	Bodies(s Session) ([]BodyView, error)
	Disconnect(s Session) error
}

func rotate(q quat.Number, v r3.Vec) r3.Vec {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vec{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// rotation returns the rotation matrix of a unit quaternion.
func rotation(q quat.Number) mesh.Mat3 {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return mesh.Mat3{
		{1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y)},
		{2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x)},
		{2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y)},
	}
}

var identity = quat.Number{Real: 1}
