package shapes

import (
	"fmt"

	"github.com/soypat/sdf"
	form3 "github.com/soypat/sdf/form3/must3"
	"gonum.org/v1/gonum/spatial/r3"
)

func init() {
	Register(primitives())
}

func primitives() *Module {
	return NewModule("anchorscad", "primitive solids", 1, 64).Add(
		&Class{
			Name: "Cone",
			Doc:  "truncated cone along z",
			Examples: []Example{
				{Name: "default", Params: Params{"h": 2, "r_base": 1, "r_top": 0}},
				{Name: "frustum", Doc: "cut-off top", Params: Params{"h": 1.5, "r_base": 1, "r_top": 0.5}},
				{Name: "spike", Params: Params{"h": 3, "r_base": 0.4, "r_top": 0}},
			},
			Build: func(e Example) ([]Part, error) {
				h, r0, r1 := e.Params.Get("h", 2), e.Params.Get("r_base", 1), e.Params.Get("r_top", 0)
				if h <= 0 || r0 <= 0 || r1 < 0 {
					return nil, fmt.Errorf("invalid cone h=%g r_base=%g r_top=%g", h, r0, r1)
				}
				return []Part{{Name: "default", Material: Default("orange"), Solid: form3.Cone(h, r0, r1, 0)}}, nil
			},
		},
		&Class{
			Name: "Box",
			Doc:  "rectangular box centred on the origin",
			Examples: []Example{
				{Name: "default", Params: Params{"x": 1, "y": 1, "z": 1}},
				{Name: "rounded", Params: Params{"x": 1.5, "y": 1, "z": 0.5, "round": 0.1}},
			},
			Build: func(e Example) ([]Part, error) {
				size := r3.Vec{X: e.Params.Get("x", 1), Y: e.Params.Get("y", 1), Z: e.Params.Get("z", 1)}
				if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
					return nil, fmt.Errorf("invalid box size %v", size)
				}
				return []Part{{Name: "default", Material: Default("steelblue"), Solid: form3.Box(size, e.Params.Get("round", 0))}}, nil
			},
		},
		&Class{
			Name: "Sphere",
			Examples: []Example{
				{Name: "default", Params: Params{"r": 0.75}},
				{Name: "large", Params: Params{"r": 1.25}},
			},
			Build: func(e Example) ([]Part, error) {
				r := e.Params.Get("r", 0.75)
				if r <= 0 {
					return nil, fmt.Errorf("invalid sphere radius %g", r)
				}
				return []Part{{Name: "default", Material: Default("crimson"), Solid: form3.Sphere(r)}}, nil
			},
		},
		&Class{
			Name: "Cylinder",
			Examples: []Example{
				{Name: "default", Params: Params{"h": 2, "r": 0.5}},
				{Name: "disc", Doc: "flat coin that lands on its face", Params: Params{"h": 0.3, "r": 1.2}},
			},
			Build: func(e Example) ([]Part, error) {
				h, r := e.Params.Get("h", 2), e.Params.Get("r", 0.5)
				if h <= 0 || r <= 0 {
					return nil, fmt.Errorf("invalid cylinder h=%g r=%g", h, r)
				}
				return []Part{{Name: "default", Material: Default("seagreen"), Solid: form3.Cylinder(h, r, 0)}}, nil
			},
		},
		&Class{
			Name: "Tube",
			Doc:  "hollow cylinder; the bore is a separate non-physical part",
			Examples: []Example{
				{Name: "default", Params: Params{"h": 2, "r_outer": 0.8, "r_inner": 0.5}},
				{Name: "thin", Params: Params{"h": 2.5, "r_outer": 0.6, "r_inner": 0.5}},
			},
			Build: func(e Example) ([]Part, error) {
				h, ro, ri := e.Params.Get("h", 2), e.Params.Get("r_outer", 0.8), e.Params.Get("r_inner", 0.5)
				if h <= 0 || ri <= 0 || ro <= ri {
					return nil, fmt.Errorf("invalid tube h=%g r_outer=%g r_inner=%g", h, ro, ri)
				}
				bore := form3.Cylinder(h, ri, 0)
				return []Part{
					{Name: "default", Material: Default("goldenrod"), Solid: sdf.Difference3D(form3.Cylinder(h, ro, 0), bore)},
					{Name: "bore", Material: Hole, Solid: bore},
				}, nil
			},
		},
	)
}
