package physics

import (
	"math"

	"github.com/san-kum/scadsim/internal/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// Default world parameters.
const (
	DefaultTimeStep = 1.0 / 240.0
	Restitution     = 0.3
	Friction        = 0.6
	AngularDamping  = 0.04

	solverIterations = 8
	contactSlop      = 1e-3
	bounceThreshold  = 0.5
	sleepLinear      = 0.02
	sleepAngular     = 0.05
	sleepSteps       = 60
)

type World struct {
	Gravity  r3.Vec
	TimeStep float64
	Time     float64
	Steps    int

	bodies []*Body
	planes []Plane
}

func NewWorld() *World {
	return &World{TimeStep: DefaultTimeStep}
}

func (w *World) add(b *Body) {
	w.bodies = append(w.bodies, b)
	if b.Kind == KindPlane {
		w.planes = append(w.planes, b.plane)
	}
}

func (w *World) nextID() int { return len(w.bodies) }

func (w *World) body(id int) (*Body, bool) {
	if id < 0 || id >= len(w.bodies) {
		return nil, false
	}
	return w.bodies[id], true
}

// Step advances the world by one fixed time step.
func (w *World) Step() {
	dt := w.TimeStep
	for _, b := range w.bodies {
		if b.Static || b.Sleeping {
			continue
		}
		b.Velocity = r3.Add(b.Velocity, r3.Scale(dt, w.Gravity))
		b.AngularVelocity = r3.Scale(1-AngularDamping*dt, b.AngularVelocity)

		touching := false
		for iter := 0; iter < solverIterations; iter++ {
			for _, p := range w.planes {
				if w.resolvePlane(b, p, iter == 0) {
					touching = true
				}
			}
		}

		b.integrate(dt)
		w.correctPenetration(b)
		w.updateSleep(b, touching)
	}
	w.Time += dt
	w.Steps++
}

// resolvePlane applies normal and friction impulses at every support point
// in contact with p. It reports whether any point touched the plane.
func (w *World) resolvePlane(b *Body, p Plane, bounce bool) bool {
	invI := b.worldInvInertia()
	touching := false
	for _, local := range b.contacts {
		r := rotate(b.Orientation, local)
		if p.Distance(r3.Add(b.Position, r)) > contactSlop {
			continue
		}
		touching = true

		n := p.Normal
		vp := r3.Add(b.Velocity, r3.Cross(b.AngularVelocity, r))
		vn := r3.Dot(n, vp)
		if vn >= 0 {
			continue
		}
		e := 0.0
		if bounce && vn < -bounceThreshold {
			e = Restitution
		}
		jn := -(1 + e) * vn / effectiveMass(b, invI, r, n)
		b.applyImpulse(r3.Scale(jn, n), r, invI)

		vp = r3.Add(b.Velocity, r3.Cross(b.AngularVelocity, r))
		vt := r3.Sub(vp, r3.Scale(r3.Dot(n, vp), n))
		speed := r3.Norm(vt)
		if speed < 1e-9 {
			continue
		}
		t := r3.Scale(1/speed, vt)
		jt := -speed / effectiveMass(b, invI, r, t)
		if limit := Friction * jn; math.Abs(jt) > limit {
			jt = math.Copysign(limit, jt)
		}
		b.applyImpulse(r3.Scale(jt, t), r, invI)
	}
	return touching
}

func effectiveMass(b *Body, invI mesh.Mat3, r, n r3.Vec) float64 {
	return b.invMass + r3.Dot(n, r3.Cross(invI.MulVec(r3.Cross(r, n)), r))
}

// correctPenetration moves b out of every plane it sinks into.
func (w *World) correctPenetration(b *Body) {
	for _, p := range w.planes {
		deepest := 0.0
		for _, local := range b.contacts {
			if d := p.Distance(b.ToWorld(local)); d < deepest {
				deepest = d
			}
		}
		if deepest < 0 {
			b.Position = r3.Add(b.Position, r3.Scale(-deepest, p.Normal))
		}
	}
}

func (w *World) updateSleep(b *Body, touching bool) {
	if touching && r3.Norm(b.Velocity) < sleepLinear && r3.Norm(b.AngularVelocity) < sleepAngular {
		b.restSteps++
	} else {
		b.restSteps = 0
	}
	if b.restSteps >= sleepSteps {
		b.Sleeping = true
		b.Velocity = r3.Vec{}
		b.AngularVelocity = r3.Vec{}
	}
}

// ToWorld maps a point in body coordinates to world coordinates.
func (b *Body) ToWorld(p r3.Vec) r3.Vec {
	return r3.Add(b.Position, rotate(b.Orientation, p))
}

// LowestPoint returns the smallest world z over the body's support points.
func (b *Body) LowestPoint() float64 {
	low := math.Inf(1)
	for _, local := range b.contacts {
		low = math.Min(low, b.ToWorld(local).Z)
	}
	return low
}
