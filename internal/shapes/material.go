package shapes

import (
	"fmt"
	"image/color"

	"golang.org/x/image/colornames"
)

type Material struct {
	Name     string
	Colour   color.RGBA
	Physical bool
	// Density in kg per cubic display unit.
	Density float64
}

const DefaultDensity = 1000.0

// NewMaterial builds a material from an SVG colour name.
func NewMaterial(name, colour string, physical bool) (Material, error) {
	c, ok := colornames.Map[colour]
	if !ok {
		return Material{}, fmt.Errorf("shapes: unknown colour %q", colour)
	}
	return Material{Name: name, Colour: c, Physical: physical, Density: DefaultDensity}, nil
}

func mustMaterial(name, colour string, physical bool) Material {
	m, err := NewMaterial(name, colour, physical)
	if err != nil {
		panic(err)
	}
	return m
}

// Hole is the material of negative space parts. It is never physical.
var Hole = func() Material {
	m := mustMaterial("hole", "lightgray", false)
	m.Colour.A = 96
	m.Density = 0
	return m
}()

// Default returns the main material of a class drawn in colour.
func Default(colour string) Material {
	return mustMaterial("default", colour, true)
}
