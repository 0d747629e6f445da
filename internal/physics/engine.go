package physics

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

var builtinSceneryColour = color.RGBA{R: 150, G: 150, B: 160, A: 255}

type client struct {
	mode        Mode
	world       *World
	searchPaths []string
	camera      Camera
	vis         Visualizer
}

// Engine serves any number of independent sessions. It is safe for
// concurrent use; each session's world is stepped under the engine lock.
type Engine struct {
	mu          sync.Mutex
	next        Session
	clients     map[Session]*client
	visualizers map[Mode]VisualizerFactory
}

func NewEngine() *Engine {
	return &Engine{
		clients:     make(map[Session]*client),
		visualizers: make(map[Mode]VisualizerFactory),
	}
}

// RegisterVisualizer sets the factory used for sessions opened in mode.
func (e *Engine) RegisterVisualizer(mode Mode, f VisualizerFactory) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.visualizers[mode] = f
}

func (e *Engine) Connect(mode Mode) (Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c := &client{
		mode:   mode,
		world:  NewWorld(),
		camera: Camera{Distance: 5, Yaw: 50, Pitch: -35},
	}
	if mode != Direct {
		f, ok := e.visualizers[mode]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrNoVisualizer, mode)
		}
		vis, err := f()
		if err != nil {
			return 0, fmt.Errorf("open %s visualizer: %w", mode, err)
		}
		c.vis = vis
	}

	s := e.next
	e.next++
	e.clients[s] = c
	slog.Debug("physics session connected", "session", int(s), "mode", mode.String())
	return s, nil
}

func (e *Engine) client(s Session, op string) (*client, error) {
	c, ok := e.clients[s]
	if !ok {
		return nil, &SessionError{Session: s, Op: op, Wrapped: ErrNotConnected}
	}
	return c, nil
}

func (e *Engine) SetAdditionalSearchPath(s Session, path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.client(s, "set search path")
	if err != nil {
		return err
	}
	c.searchPaths = append(c.searchPaths, path)
	return nil
}

func (e *Engine) SetGravity(s Session, g r3.Vec) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.client(s, "set gravity")
	if err != nil {
		return err
	}
	c.world.Gravity = g
	return nil
}

// LoadAsset loads a named asset from the session's search paths and
// returns its body id.
func (e *Engine) LoadAsset(s Session, name string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.client(s, "load asset")
	if err != nil {
		return 0, err
	}
	b, err := loadAsset(c.world, c.searchPaths, name)
	if err != nil {
		return 0, &SessionError{Session: s, Op: "load asset", Wrapped: err}
	}
	c.world.add(b)
	slog.Debug("asset loaded", "session", int(s), "asset", name, "body", b.ID)
	return b.ID, nil
}

func (e *Engine) CreateBody(s Session, spec BodySpec) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.client(s, "create body")
	if err != nil {
		return 0, err
	}
	b, err := newMeshBody(c.world.nextID(), spec)
	if err != nil {
		return 0, &SessionError{Session: s, Op: "create body", Wrapped: err}
	}
	c.world.add(b)
	slog.Debug("body created", "session", int(s), "name", spec.Name, "body", b.ID,
		"mass", b.Mass, "triangles", b.Mesh.Len(), "contacts", len(b.contacts))
	return b.ID, nil
}

func (e *Engine) ResetDebugVisualizerCamera(s Session, cam Camera) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.client(s, "reset camera")
	if err != nil {
		return err
	}
	c.camera = cam
	return nil
}

// StepSimulation advances the session by one time step and renders the
// result when a visualizer is attached.
func (e *Engine) StepSimulation(s Session) error {
	e.mu.Lock()
	c, err := e.client(s, "step")
	if err != nil {
		e.mu.Unlock()
		return err
	}
	c.world.Step()
	var frame Frame
	if c.vis != nil {
		frame = c.frame(s)
	}
	vis := c.vis
	e.mu.Unlock()

	if vis == nil {
		return nil
	}
	return vis.Render(frame)
}

func (c *client) frame(s Session) Frame {
	views := make([]BodyView, len(c.world.bodies))
	for i, b := range c.world.bodies {
		views[i] = b.view()
	}
	return Frame{
		Session: s,
		Step:    c.world.Steps,
		Time:    c.world.Time,
		Camera:  c.camera,
		Bodies:  views,
	}
}

func (e *Engine) Bodies(s Session) ([]BodyView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.client(s, "bodies")
	if err != nil {
		return nil, err
	}
	return c.frame(s).Bodies, nil
}

// Body returns the live body for id. It is meant for tests and tools that
// inspect the world between steps.
func (e *Engine) Body(s Session, id int) (*Body, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.client(s, "body")
	if err != nil {
		return nil, err
	}
	b, ok := c.world.body(id)
	if !ok {
		return nil, &SessionError{Session: s, Op: "body", Wrapped: fmt.Errorf("%w: %d", ErrUnknownBody, id)}
	}
	return b, nil
}

// Disconnect releases the session and closes its visualizer.
func (e *Engine) Disconnect(s Session) error {
	e.mu.Lock()
	c, err := e.client(s, "disconnect")
	if err != nil {
		e.mu.Unlock()
		return err
	}
	delete(e.clients, s)
	e.mu.Unlock()

	slog.Debug("physics session disconnected", "session", int(s), "steps", c.world.Steps)
	if c.vis != nil {
		if err := c.vis.Close(); err != nil && !errors.Is(err, ErrWindowClosed) {
			return err
		}
	}
	return nil
}
