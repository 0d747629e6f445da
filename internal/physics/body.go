package physics

import (
	"fmt"
	"image/color"
	"math"

	"github.com/san-kum/scadsim/internal/mesh"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// maxContactPoints bounds the support points kept per body.
const maxContactPoints = 256

// Plane is the half space n·p >= d.
type Plane struct {
	Normal r3.Vec
	Offset float64
}

func (p Plane) Distance(x r3.Vec) float64 {
	return r3.Dot(p.Normal, x) - p.Offset
}

type Body struct {
	ID     int
	Name   string
	Kind   BodyKind
	Static bool
	Colour color.RGBA

	// Mesh is centred on the centre of mass.
	Mesh     *mesh.Mesh
	contacts []r3.Vec
	plane    Plane

	Mass       float64
	invMass    float64
	invInertia mesh.Mat3

	Position        r3.Vec
	Orientation     quat.Number
	Velocity        r3.Vec
	AngularVelocity r3.Vec

	Sleeping  bool
	restSteps int
}

func newPlaneBody(id int, name string, p Plane) *Body {
	return &Body{
		ID:          id,
		Name:        name,
		Kind:        KindPlane,
		Static:      true,
		Colour:      color.RGBA{R: 200, G: 200, B: 200, A: 255},
		plane:       p,
		Orientation: identity,
	}
}

func newMeshBody(id int, spec BodySpec) (*Body, error) {
	if spec.Mesh == nil || spec.Mesh.Len() == 0 {
		return nil, fmt.Errorf("%w: %q has no triangles", ErrInvalidBody, spec.Name)
	}
	density := spec.Density
	if density <= 0 {
		density = 1000
	}
	mass, com, inertia := spec.Mesh.Inertia(density)
	if !spec.Static && (mass <= 0 || math.IsNaN(mass)) {
		return nil, fmt.Errorf("%w: %q encloses no volume", ErrInvalidBody, spec.Name)
	}

	local := spec.Mesh.Clone().Translate(r3.Scale(-1, com))
	b := &Body{
		ID:          id,
		Name:        spec.Name,
		Kind:        KindMesh,
		Static:      spec.Static,
		Colour:      spec.Colour,
		Mesh:        local,
		contacts:    supportPoints(local.Vertices(), maxContactPoints),
		Mass:        mass,
		Position:    r3.Add(spec.Position, com),
		Orientation: identity,
	}
	if !spec.Static {
		inv, ok := inertia.Inverse()
		if !ok {
			return nil, fmt.Errorf("%w: %q has a singular inertia tensor", ErrInvalidBody, spec.Name)
		}
		b.invMass = 1 / mass
		b.invInertia = inv
	}
	return b, nil
}

func (b *Body) view() BodyView {
	return BodyView{
		ID:              b.ID,
		Name:            b.Name,
		Kind:            b.Kind,
		Static:          b.Static,
		Sleeping:        b.Sleeping,
		Mesh:            b.Mesh,
		Colour:          b.Colour,
		Mass:            b.Mass,
		Position:        b.Position,
		Orientation:     b.Orientation,
		Velocity:        b.Velocity,
		AngularVelocity: b.AngularVelocity,
	}
}

func (b *Body) worldInvInertia() mesh.Mat3 {
	r := rotation(b.Orientation)
	return r.Mul(b.invInertia).Mul(r.Transpose())
}

// applyImpulse applies impulse j at offset r from the centre of mass.
func (b *Body) applyImpulse(j, r r3.Vec, invI mesh.Mat3) {
	b.Velocity = r3.Add(b.Velocity, r3.Scale(b.invMass, j))
	b.AngularVelocity = r3.Add(b.AngularVelocity, invI.MulVec(r3.Cross(r, j)))
}

func (b *Body) integrate(dt float64) {
	b.Position = r3.Add(b.Position, r3.Scale(dt, b.Velocity))
	w := quat.Number{Imag: b.AngularVelocity.X, Jmag: b.AngularVelocity.Y, Kmag: b.AngularVelocity.Z}
	dq := quat.Scale(0.5*dt, quat.Mul(w, b.Orientation))
	q := quat.Add(b.Orientation, dq)
	b.Orientation = quat.Scale(1/quat.Abs(q), q)
}

// supportPoints reduces verts to at most n extreme points along a fixed
// set of directions. Small vertex sets are returned unchanged.
func supportPoints(verts []r3.Vec, n int) []r3.Vec {
	if len(verts) <= n {
		return verts
	}
	seen := make(map[int]struct{}, n)
	out := make([]r3.Vec, 0, n)
	for _, d := range sphereDirections(n) {
		best, bestDot := 0, math.Inf(-1)
		for i, v := range verts {
			if dot := r3.Dot(v, d); dot > bestDot {
				best, bestDot = i, dot
			}
		}
		if _, ok := seen[best]; !ok {
			seen[best] = struct{}{}
			out = append(out, verts[best])
		}
	}
	return out
}

// sphereDirections spreads n unit vectors over the sphere on a Fibonacci
// lattice.
func sphereDirections(n int) []r3.Vec {
	dirs := make([]r3.Vec, n)
	golden := math.Pi * (3 - math.Sqrt(5))
	for i := range dirs {
		z := 1 - 2*(float64(i)+0.5)/float64(n)
		r := math.Sqrt(1 - z*z)
		phi := golden * float64(i)
		dirs[i] = r3.Vec{X: r * math.Cos(phi), Y: r * math.Sin(phi), Z: z}
	}
	return dirs
}
