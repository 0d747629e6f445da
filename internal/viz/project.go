package viz

import (
	"math"

	"github.com/san-kum/scadsim/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	fieldOfView = 60.0
	nearPlane   = 0.05

	// maxWireTriangles caps the triangles drawn per body; denser meshes are
	// sampled.
	maxWireTriangles = 3000
	gridHalfSize     = 5
)

// Projector maps world points onto canvas dots as seen from a physics
// camera. World z is up.
type Projector struct {
	eye, right, up, forward r3.Vec
	focal                   float64
	cx, cy                  float64
}

func NewProjector(cam physics.Camera, dotsW, dotsH int) Projector {
	eye := cam.Eye()
	forward := r3.Unit(r3.Sub(cam.Target, eye))
	right := r3.Cross(forward, r3.Vec{Z: 1})
	if r3.Norm(right) < 1e-9 {
		right = r3.Vec{X: 1}
	}
	right = r3.Unit(right)
	up := r3.Cross(right, forward)

	half := math.Min(float64(dotsW), float64(dotsH)) / 2
	return Projector{
		eye:     eye,
		right:   right,
		up:      up,
		forward: forward,
		focal:   half / math.Tan(fieldOfView*math.Pi/360),
		cx:      float64(dotsW) / 2,
		cy:      float64(dotsH) / 2,
	}
}

// Project returns the dot for p and whether p is in front of the camera.
func (p Projector) Project(v r3.Vec) (int, int, bool) {
	d := r3.Sub(v, p.eye)
	z := r3.Dot(d, p.forward)
	if z < nearPlane {
		return 0, 0, false
	}
	x := r3.Dot(d, p.right) / z
	y := r3.Dot(d, p.up) / z
	return int(math.Round(p.cx + x*p.focal)), int(math.Round(p.cy - y*p.focal)), true
}

func (p Projector) line(c *Canvas, a, b r3.Vec) {
	x0, y0, ok0 := p.Project(a)
	x1, y1, ok1 := p.Project(b)
	if ok0 && ok1 {
		c.DrawLine(x0, y0, x1, y1)
	}
}

// DrawFrame renders every body of f onto c as a wireframe.
func DrawFrame(c *Canvas, f physics.Frame, grid bool) {
	c.Clear()
	w, h := c.Dots()
	p := NewProjector(f.Camera, w, h)

	for _, b := range f.Bodies {
		switch b.Kind {
		case physics.KindPlane:
			if grid {
				drawGrid(c, p)
			}
		case physics.KindMesh:
			drawMesh(c, p, b)
		}
	}
}

func drawGrid(c *Canvas, p Projector) {
	for i := -gridHalfSize; i <= gridHalfSize; i++ {
		f := float64(i)
		p.line(c, r3.Vec{X: f, Y: -gridHalfSize}, r3.Vec{X: f, Y: gridHalfSize})
		p.line(c, r3.Vec{X: -gridHalfSize, Y: f}, r3.Vec{X: gridHalfSize, Y: f})
	}
}

func drawMesh(c *Canvas, p Projector, b physics.BodyView) {
	if b.Mesh == nil {
		return
	}
	tris := b.Mesh.Triangles
	stride := 1
	if len(tris) > maxWireTriangles {
		stride = (len(tris) + maxWireTriangles - 1) / maxWireTriangles
	}
	for i := 0; i < len(tris); i += stride {
		t := tris[i]
		a, bb, cc := b.ToWorld(t[0]), b.ToWorld(t[1]), b.ToWorld(t[2])
		p.line(c, a, bb)
		p.line(c, bb, cc)
		p.line(c, cc, a)
	}
}
