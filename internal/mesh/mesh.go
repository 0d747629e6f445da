// Package mesh holds triangle meshes extracted from CAD geometry and the
// mass properties the physics engine needs from them.
//
// Meshes are closed, outward-wound triangle soups. Mass properties are
// computed by summing signed tetrahedra against the origin, so they are
// only meaningful for watertight meshes.
package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

type Triangle [3]r3.Vec

// Normal returns the unit normal of t following its winding.
func (t Triangle) Normal() r3.Vec {
	n := r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]))
	if r3.Norm(n) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(n)
}

// Area returns the surface area of t.
func (t Triangle) Area() float64 {
	return 0.5 * r3.Norm(r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0])))
}

type Mesh struct {
	Triangles []Triangle
}

func New(tris []Triangle) *Mesh {
	return &Mesh{Triangles: tris}
}

func (m *Mesh) Len() int { return len(m.Triangles) }

func (m *Mesh) Clone() *Mesh {
	tris := make([]Triangle, len(m.Triangles))
	copy(tris, m.Triangles)
	return &Mesh{Triangles: tris}
}

// Bounds returns the axis aligned bounding box. An empty mesh has a zero box.
func (m *Mesh) Bounds() r3.Box {
	if len(m.Triangles) == 0 {
		return r3.Box{}
	}
	min := m.Triangles[0][0]
	max := min
	for _, t := range m.Triangles {
		for _, v := range t {
			min.X, max.X = math.Min(min.X, v.X), math.Max(max.X, v.X)
			min.Y, max.Y = math.Min(min.Y, v.Y), math.Max(max.Y, v.Y)
			min.Z, max.Z = math.Min(min.Z, v.Z), math.Max(max.Z, v.Z)
		}
	}
	return r3.Box{Min: min, Max: max}
}

// Volume returns the signed enclosed volume. It is negative when the mesh
// is wound inward.
func (m *Mesh) Volume() float64 {
	vol := 0.0
	for _, t := range m.Triangles {
		vol += r3.Dot(t[0], r3.Cross(t[1], t[2])) / 6
	}
	return vol
}

// Centroid returns the centre of the enclosed volume.
func (m *Mesh) Centroid() r3.Vec {
	var sum r3.Vec
	vol := 0.0
	for _, t := range m.Triangles {
		v := r3.Dot(t[0], r3.Cross(t[1], t[2])) / 6
		vol += v
		sum = r3.Add(sum, r3.Scale(v/4, r3.Add(t[0], r3.Add(t[1], t[2]))))
	}
	if vol == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/vol, sum)
}

// Inertia returns mass, centre of mass and the inertia tensor about the
// centre of mass for a solid of uniform density.
func (m *Mesh) Inertia(density float64) (float64, r3.Vec, Mat3) {
	canonical := Mat3{{2, 1, 1}, {1, 2, 1}, {1, 1, 2}}.Scale(1.0 / 120)
	var cov Mat3
	vol := 0.0
	var moment r3.Vec
	for _, t := range m.Triangles {
		a := Mat3{
			{t[0].X, t[1].X, t[2].X},
			{t[0].Y, t[1].Y, t[2].Y},
			{t[0].Z, t[1].Z, t[2].Z},
		}
		det := r3.Dot(t[0], r3.Cross(t[1], t[2]))
		cov = cov.Add(a.Mul(canonical).Mul(a.Transpose()).Scale(det))
		v := det / 6
		vol += v
		moment = r3.Add(moment, r3.Scale(v/4, r3.Add(t[0], r3.Add(t[1], t[2]))))
	}
	if vol == 0 {
		return 0, r3.Vec{}, Mat3{}
	}
	mass := density * vol
	com := r3.Scale(1/vol, moment)
	cov = cov.Scale(density).Sub(Outer(com, com).Scale(mass))
	tr := cov[0][0] + cov[1][1] + cov[2][2]
	return mass, com, Identity().Scale(tr).Sub(cov)
}

// Orient flips every triangle when the mesh is wound inward.
func (m *Mesh) Orient() *Mesh {
	if m.Volume() >= 0 {
		return m
	}
	for i, t := range m.Triangles {
		m.Triangles[i] = Triangle{t[0], t[2], t[1]}
	}
	return m
}

func (m *Mesh) Translate(d r3.Vec) *Mesh {
	for i, t := range m.Triangles {
		for j := range t {
			m.Triangles[i][j] = r3.Add(t[j], d)
		}
	}
	return m
}

func (m *Mesh) Scale(f float64) *Mesh {
	for i, t := range m.Triangles {
		for j := range t {
			m.Triangles[i][j] = r3.Scale(f, t[j])
		}
	}
	return m
}

// Append adds the triangles of o to m.
func (m *Mesh) Append(o *Mesh) *Mesh {
	m.Triangles = append(m.Triangles, o.Triangles...)
	return m
}

// Vertices returns the distinct vertices of the mesh in first-seen order.
func (m *Mesh) Vertices() []r3.Vec {
	seen := make(map[r3.Vec]struct{}, len(m.Triangles))
	verts := make([]r3.Vec, 0, len(m.Triangles))
	for _, t := range m.Triangles {
		for _, v := range t {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			verts = append(verts, v)
		}
	}
	return verts
}

// Box returns an axis aligned box with one corner at the origin.
func Box(size r3.Vec) *Mesh {
	c := func(i, j, k float64) r3.Vec { return r3.Vec{X: i * size.X, Y: j * size.Y, Z: k * size.Z} }
	c000, c001, c010, c011 := c(0, 0, 0), c(0, 0, 1), c(0, 1, 0), c(0, 1, 1)
	c100, c101, c110, c111 := c(1, 0, 0), c(1, 0, 1), c(1, 1, 0), c(1, 1, 1)
	return New([]Triangle{
		{c000, c001, c011}, {c000, c011, c010}, // -x
		{c100, c110, c111}, {c100, c111, c101}, // +x
		{c000, c100, c101}, {c000, c101, c001}, // -y
		{c010, c011, c111}, {c010, c111, c110}, // +y
		{c000, c010, c110}, {c000, c110, c100}, // -z
		{c001, c101, c111}, {c001, c111, c011}, // +z
	})
}
