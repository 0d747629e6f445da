package shapes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/soypat/sdf"
)

// Params are the numeric parameters of an example.
type Params map[string]float64

func (p Params) Get(name string, def float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return def
}

type Example struct {
	Name   string
	Doc    string
	Params Params
	// Labels carry non-numeric choices such as thread names.
	Labels map[string]string
}

func (e Example) Label(name, def string) string {
	if v, ok := e.Labels[name]; ok {
		return v
	}
	return def
}

type Part struct {
	Name     string
	Material Material
	Solid    sdf.SDF3
}

type BuildFunc func(e Example) ([]Part, error)

// Class is a parametric shape definition.
type Class struct {
	Name     string
	Doc      string
	Examples []Example
	Build    BuildFunc

	module *Module
}

func (c *Class) Module() *Module { return c.module }

func (c *Class) ExampleNames() []string {
	names := make([]string, len(c.Examples))
	for i, e := range c.Examples {
		names[i] = e.Name
	}
	return names
}

func (c *Class) Example(name string) (Example, error) {
	for _, e := range c.Examples {
		if e.Name == name {
			return e, nil
		}
	}
	return Example{}, fmt.Errorf("%w: %q for %s (available: %s)",
		ErrExampleNotFound, name, c.Name, strings.Join(c.ExampleNames(), ", "))
}

// Parts builds the named example and returns its parts.
func (c *Class) Parts(example string) ([]Part, error) {
	e, err := c.Example(example)
	if err != nil {
		return nil, err
	}
	parts, err := c.Build(e)
	if err != nil {
		return nil, fmt.Errorf("build %s/%s: %w", c.Name, example, err)
	}
	return parts, nil
}

// Module is a named table of shape classes.
type Module struct {
	Name string
	Doc  string
	// Scale converts authoring units to display units.
	Scale float64
	// Cells is the octree resolution used when meshing.
	Cells int

	classes map[string]*Class
}

func NewModule(name, doc string, scale float64, cells int) *Module {
	return &Module{
		Name:    name,
		Doc:     doc,
		Scale:   scale,
		Cells:   cells,
		classes: make(map[string]*Class),
	}
}

// Add registers classes with the module. Adding a name twice panics.
func (m *Module) Add(classes ...*Class) *Module {
	for _, c := range classes {
		if _, dup := m.classes[c.Name]; dup {
			panic("shapes: duplicate class " + c.Name + " in module " + m.Name)
		}
		c.module = m
		m.classes[c.Name] = c
	}
	return m
}

func (m *Module) Lookup(name string) (*Class, error) {
	c, ok := m.classes[name]
	if !ok {
		return nil, &NotFoundError{Module: m.Name, Shape: name, Available: m.ClassNames()}
	}
	return c, nil
}

// Classes returns every class in the module sorted by name.
func (m *Module) Classes() []*Class {
	classes := make([]*Class, 0, len(m.classes))
	for _, c := range m.classes {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	return classes
}

func (m *Module) ClassNames() []string {
	names := make([]string, 0, len(m.classes))
	for name := range m.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
