package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/scadsim/internal/app"
	"github.com/san-kum/scadsim/internal/config"
	"github.com/san-kum/scadsim/internal/mesh"
	"github.com/san-kum/scadsim/internal/model"
	"github.com/san-kum/scadsim/internal/physics"
	"github.com/san-kum/scadsim/internal/shapes"
	"github.com/san-kum/scadsim/internal/sim"
	"github.com/san-kum/scadsim/internal/storage"
)

// countingBackend is a real engine that remembers what was asked of it.
type countingBackend struct {
	*physics.Engine

	mu          sync.Mutex
	connects    int
	disconnects int
	bodies      []physics.BodySpec
}

func newCountingBackend() *countingBackend {
	e := physics.NewEngine()
	factory := func() (physics.Visualizer, error) { return nopVisualizer{}, nil }
	e.RegisterVisualizer(physics.GUI, factory)
	e.RegisterVisualizer(physics.TUI, factory)
	return &countingBackend{Engine: e}
}

func (c *countingBackend) Connect(mode physics.Mode) (physics.Session, error) {
	c.mu.Lock()
	c.connects++
	c.mu.Unlock()
	return c.Engine.Connect(mode)
}

func (c *countingBackend) CreateBody(s physics.Session, spec physics.BodySpec) (int, error) {
	c.mu.Lock()
	c.bodies = append(c.bodies, spec)
	c.mu.Unlock()
	return c.Engine.CreateBody(s, spec)
}

func (c *countingBackend) Disconnect(s physics.Session) error {
	c.mu.Lock()
	c.disconnects++
	c.mu.Unlock()
	return c.Engine.Disconnect(s)
}

type nopVisualizer struct{}

func (nopVisualizer) Render(physics.Frame) error { return nil }
func (nopVisualizer) Close() error               { return nil }

func noSleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func short(cfg *config.Config) *config.Config {
	cfg.Sim.Steps = 30
	return cfg
}

var _ = Describe("App", func() {
	var (
		backend *countingBackend
		out     *bytes.Buffer
		a       *app.App
		ctx     context.Context
	)

	BeforeEach(func() {
		backend = newCountingBackend()
		out = &bytes.Buffer{}
		a = app.New(backend, app.WithOutput(out), app.WithSleep(noSleep))
		ctx = context.Background()
	})

	Describe("Run", func() {
		It("drops the canned shape and releases the session", func() {
			res, err := a.Run(ctx, short(config.Canned()))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Steps).To(Equal(30))
			Expect(backend.connects).To(Equal(1))
			Expect(backend.disconnects).To(Equal(1))
			Expect(out.String()).To(ContainSubstring(sim.CompletionMessage))
		})

		It("treats the canned configuration like the explicit flags", func() {
			explicit := config.DefaultConfig()
			part, material := "default", "default"
			explicit.Part = &part
			explicit.Material = &material

			_, err := a.Run(ctx, short(config.Canned()))
			Expect(err).NotTo(HaveOccurred())
			_, err = a.Run(ctx, short(explicit))
			Expect(err).NotTo(HaveOccurred())

			Expect(backend.bodies).To(HaveLen(2))
			canned, flags := backend.bodies[0], backend.bodies[1]
			Expect(flags.Name).To(Equal(canned.Name))
			Expect(flags.Colour).To(Equal(canned.Colour))
			Expect(flags.Mesh.Len()).To(Equal(canned.Mesh.Len()))
			Expect(flags.Position).To(Equal(canned.Position))
		})

		It("fails before opening a session for an unknown shape", func() {
			cfg := config.DefaultConfig()
			cfg.Shape = "DoesNotExist"

			_, err := a.Run(ctx, cfg)
			Expect(err).To(MatchError(shapes.ErrShapeNotFound))
			Expect(err.Error()).To(ContainSubstring("Available classes"))
			Expect(err.Error()).To(ContainSubstring("Cone"))
			Expect(backend.connects).To(BeZero())
		})

		It("reports an empty selection without opening a session", func() {
			cfg := config.DefaultConfig()
			material := "brass"
			cfg.Material = &material

			_, err := a.Run(ctx, cfg)
			Expect(err).To(MatchError(model.ErrEmptySelection))
			Expect(backend.connects).To(BeZero())
		})

		It("rejects an invalid configuration", func() {
			cfg := config.DefaultConfig()
			cfg.Sim.Mode = "vr"
			_, err := a.Run(ctx, cfg)
			Expect(err).To(MatchError(config.ErrInvalid))
		})

		It("still disconnects when cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := a.Run(cctx, short(config.DefaultConfig()))
			Expect(err).To(MatchError(context.Canceled))
			Expect(backend.disconnects).To(Equal(1))
			Expect(out.String()).NotTo(ContainSubstring(sim.CompletionMessage))
		})

		It("records the run when asked to", func() {
			cfg := short(config.DefaultConfig())
			cfg.Record = GinkgoT().TempDir()

			_, err := a.Run(ctx, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(ContainSubstring("run id:"))

			runs, err := storage.New(cfg.Record).List()
			Expect(err).NotTo(HaveOccurred())
			Expect(runs).To(HaveLen(1))
			Expect(runs[0].Shape).To(Equal("Cone"))
			Expect(runs[0].Samples).To(Equal(3))
		})
	})

	Describe("SelfTest", func() {
		It("builds the two cube union", func() {
			m, err := app.SelfTestModel()
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Colour).To(Equal(model.DefaultColour))
			Expect(m.Mesh.Volume()).To(BeNumerically("~", 2.5, 0.2))

			box := m.Mesh.Bounds()
			Expect(box.Min.Z).To(BeNumerically("~", -0.15, 0.05))
			Expect(box.Max.X).To(BeNumerically("~", 1.95, 0.05))
		})

		It("runs through the standard simulation", func() {
			res, err := a.SelfTest(ctx, short(config.DefaultConfig()))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Steps).To(Equal(30))
			Expect(backend.bodies).To(HaveLen(1))
			Expect(backend.disconnects).To(Equal(1))
		})
	})

	Describe("Export", func() {
		It("writes the mesh and a preview", func() {
			dir := GinkgoT().TempDir()
			stlPath := filepath.Join(dir, "cone.stl")
			svgPath := filepath.Join(dir, "cone.svg")

			m, err := a.Export(config.DefaultConfig(), stlPath, svgPath)
			Expect(err).NotTo(HaveOccurred())

			f, err := os.Open(stlPath)
			Expect(err).NotTo(HaveOccurred())
			defer f.Close()
			decoded, err := mesh.Decode(f)
			Expect(err).NotTo(HaveOccurred())
			Expect(decoded.Len()).To(Equal(m.Mesh.Len()))

			svg, err := os.ReadFile(svgPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(svg)).To(ContainSubstring("<svg"))
			Expect(backend.connects).To(BeZero())
		})
	})

	Describe("Settle", func() {
		It("lands every primitive on the ground", func() {
			cfg := config.DefaultConfig()
			cfg.Sim.Steps = 1500

			outcomes, err := a.Settle(ctx, cfg, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(outcomes).To(HaveLen(5))
			for _, o := range outcomes {
				Expect(o.Err).NotTo(HaveOccurred(), o.Name)
				Expect(o.Lowest).To(BeNumerically("~", 0, 0.05), o.Name)
			}
			Expect(backend.disconnects).To(Equal(backend.connects))
		})
	})
})
