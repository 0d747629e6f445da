// Package csg composes coloured solids the way OpenSCAD scripts do:
// primitives anchored at the origin corner, transforms wrapping children,
// and unions built by adding solids together.
package csg

import (
	"fmt"
	"image/color"

	"github.com/san-kum/scadsim/internal/mesh"
	"github.com/soypat/sdf"
	form3 "github.com/soypat/sdf/form3/must3"
	"golang.org/x/image/colornames"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultColour is used for solids that were never coloured.
var DefaultColour = colornames.Gold

type Solid struct {
	sdf    sdf.SDF3
	colour color.RGBA
}

// Cube returns a box with its minimum corner at the origin.
func Cube(size r3.Vec) *Solid {
	box := form3.Box(size, 0)
	return &Solid{
		sdf:    sdf.Transform3D(box, sdf.Translate3D(r3.Scale(0.5, size))),
		colour: DefaultColour,
	}
}

// Color paints s with a named SVG colour.
func Color(name string, s *Solid) (*Solid, error) {
	c, ok := colornames.Map[name]
	if !ok {
		return nil, fmt.Errorf("csg: unknown colour %q", name)
	}
	return &Solid{sdf: s.sdf, colour: c}, nil
}

func Translate(v r3.Vec, s *Solid) *Solid {
	return &Solid{sdf: sdf.Transform3D(s.sdf, sdf.Translate3D(v)), colour: s.colour}
}

// Add returns the union of s and others. The result keeps the colour of s.
func (s *Solid) Add(others ...*Solid) *Solid {
	parts := make([]sdf.SDF3, 0, len(others)+1)
	parts = append(parts, s.sdf)
	for _, o := range others {
		parts = append(parts, o.sdf)
	}
	return &Solid{sdf: sdf.Union3D(parts...), colour: s.colour}
}

func (s *Solid) Colour() color.RGBA { return s.colour }

func (s *Solid) SDF() sdf.SDF3 { return s.sdf }

// RenderContext is the result of rendering a solid.
type RenderContext struct {
	solid    *Solid
	manifold *mesh.Mesh
}

// Render meshes s at the given octree resolution.
func (s *Solid) Render(cells int) (*RenderContext, error) {
	m, err := mesh.FromSDF(s.sdf, cells)
	if err != nil {
		return nil, err
	}
	return &RenderContext{solid: s, manifold: m}, nil
}

// SolidManifold returns the closed mesh of the rendered solid.
func (rc *RenderContext) SolidManifold() *mesh.Mesh { return rc.manifold }

func (rc *RenderContext) Colour() color.RGBA { return rc.solid.colour }
