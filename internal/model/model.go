// Package model turns shape classes and bare meshes into bodies a physics
// session can simulate.
package model

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/san-kum/scadsim/internal/mesh"
	"github.com/san-kum/scadsim/internal/physics"
	"github.com/san-kum/scadsim/internal/shapes"
	"golang.org/x/image/colornames"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrEmptySelection is returned when no part of a shape survives the
// part, material and physical filters.
var ErrEmptySelection = errors.New("model: selection matched no parts")

// DefaultColour is used for models built from a bare mesh.
var DefaultColour = colornames.Gold

type Model struct {
	Name    string
	Mesh    *mesh.Mesh
	Colour  color.RGBA
	Density float64
	Parts   []string
}

// FromShapeClass builds the named example of cls, keeps the parts accepted
// by sel, and merges their meshes into one model. Meshes are scaled by the
// owning module's scale factor. Colour and density come from the first
// selected part.
func FromShapeClass(cls *shapes.Class, example string, sel shapes.Selector) (*Model, error) {
	parts, err := cls.Parts(example)
	if err != nil {
		return nil, err
	}
	parts, err = sel.Select(parts)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrEmptySelection, cls.Name, example)
	}

	scale, cells := 1.0, mesh.DefaultCells
	if mod := cls.Module(); mod != nil {
		if mod.Scale > 0 {
			scale = mod.Scale
		}
		if mod.Cells > 0 {
			cells = mod.Cells
		}
	}

	merged := mesh.New(nil)
	for _, p := range parts {
		m, err := mesh.FromSDF(p.Solid, cells)
		if err != nil {
			return nil, fmt.Errorf("mesh part %s of %s: %w", p.Name, cls.Name, err)
		}
		merged.Append(m.Scale(scale))
		slog.Debug("part meshed", "class", cls.Name, "part", p.Name, "material", p.Material.Name, "triangles", m.Len())
	}

	first := parts[0].Material
	density := first.Density
	if density <= 0 {
		density = shapes.DefaultDensity
	}
	return &Model{
		Name:    cls.Name + "/" + example,
		Mesh:    merged,
		Colour:  first.Colour,
		Density: density,
		Parts:   shapes.PartNames(parts),
	}, nil
}

// FromManifold wraps a closed mesh that was built elsewhere.
func FromManifold(m *mesh.Mesh) *Model {
	return FromManifoldColour(m, DefaultColour)
}

func FromManifoldColour(m *mesh.Mesh, c color.RGBA) *Model {
	return &Model{
		Name:    "manifold",
		Mesh:    m,
		Colour:  c,
		Density: shapes.DefaultDensity,
	}
}

// MassProperties returns mass, centre of mass and inertia about the centre
// of mass.
func (m *Model) MassProperties() (float64, r3.Vec, mesh.Mat3) {
	return m.Mesh.Inertia(m.Density)
}

// ToUniformColourObject spawns the model in session s as one rigid body
// painted in the model colour. The mesh is centred over the origin with
// its lowest point at height above the ground.
func (m *Model) ToUniformColourObject(b physics.Backend, s physics.Session, height float64) (int, error) {
	if m.Mesh == nil || m.Mesh.Len() == 0 {
		return 0, fmt.Errorf("%w: %s", ErrEmptySelection, m.Name)
	}
	box := m.Mesh.Bounds()
	offset := r3.Vec{
		X: -(box.Min.X + box.Max.X) / 2,
		Y: -(box.Min.Y + box.Max.Y) / 2,
		Z: height - box.Min.Z,
	}
	return b.CreateBody(s, physics.BodySpec{
		Name:     m.Name,
		Mesh:     m.Mesh.Clone().Translate(offset),
		Colour:   m.Colour,
		Density:  m.Density,
		Position: r3.Vec{},
	})
}
