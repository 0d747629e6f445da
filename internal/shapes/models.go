package shapes

import (
	"fmt"

	"github.com/soypat/sdf"
	form3 "github.com/soypat/sdf/form3/must3"
	"github.com/soypat/sdf/form3/obj3"
	"gonum.org/v1/gonum/spatial/r3"
)

func init() {
	Register(hardware())
}

// hardware is authored in millimetres and shown at 1 display unit per 50mm.
func hardware() *Module {
	return NewModule("anchorscad_models", "threaded hardware", 0.02, 96).Add(
		&Class{
			Name: "Bolt",
			Doc:  "hex or knurled head bolt",
			Examples: []Example{
				{Name: "default", Params: Params{"length": 50, "shank": 10}, Labels: map[string]string{"thread": "M16x2", "head": "hex"}},
				{Name: "knurled", Params: Params{"length": 30, "shank": 5}, Labels: map[string]string{"thread": "M10x1.5", "head": "knurl"}},
			},
			Build: func(e Example) ([]Part, error) {
				style := obj3.CylinderHex
				if e.Label("head", "hex") == "knurl" {
					style = obj3.CylinderKnurl
				}
				s, err := obj3.Bolt(obj3.BoltParms{
					Thread:      e.Label("thread", "M16x2"),
					Style:       style,
					TotalLength: e.Params.Get("length", 50),
					ShankLength: e.Params.Get("shank", 10),
				})
				if err != nil {
					return nil, err
				}
				return []Part{{Name: "default", Material: Default("silver"), Solid: s}}, nil
			},
		},
		&Class{
			Name: "Nut",
			Examples: []Example{
				{Name: "default", Labels: map[string]string{"thread": "M16x2"}},
				{Name: "small", Labels: map[string]string{"thread": "M10x1.5"}},
			},
			Build: func(e Example) ([]Part, error) {
				s, err := obj3.Nut(obj3.NutParms{Thread: e.Label("thread", "M16x2"), Style: obj3.CylinderHex})
				if err != nil {
					return nil, err
				}
				return []Part{{Name: "default", Material: Default("darkgray"), Solid: s}}, nil
			},
		},
		&Class{
			Name: "Flange",
			Doc:  "pipe flange plate with a threaded hub",
			Examples: []Example{
				{Name: "default", Params: Params{"plate_h": 7, "plate_d": 60, "bore_d": 19}, Labels: map[string]string{"thread": "npt_1/2"}},
			},
			Build: func(e Example) ([]Part, error) {
				h, d, bore := e.Params.Get("plate_h", 7), e.Params.Get("plate_d", 60), e.Params.Get("bore_d", 19)
				if bore >= d {
					return nil, fmt.Errorf("bore %g does not fit plate %g", bore, d)
				}
				hub, err := obj3.Nut(obj3.NutParms{Thread: e.Label("thread", "npt_1/2"), Style: obj3.CylinderCircular})
				if err != nil {
					return nil, err
				}
				plate := sdf.Difference3D(form3.Cylinder(h, d/2, h/8), form3.Cylinder(h, bore/2, 0))
				plate = sdf.Transform3D(plate, sdf.Translate3D(r3.Vec{Z: -h}))
				return []Part{
					{Name: "default", Material: Default("slategray"), Solid: plate},
					{Name: "hub", Material: mustMaterial("brass", "darkgoldenrod", true), Solid: hub},
				}, nil
			},
		},
		&Class{
			Name: "Washer",
			Examples: []Example{
				{Name: "default", Params: Params{"t": 3, "r_outer": 15, "r_inner": 8.5}},
				{Name: "fender", Params: Params{"t": 2, "r_outer": 25, "r_inner": 8.5}},
			},
			Build: func(e Example) ([]Part, error) {
				t, ro, ri := e.Params.Get("t", 3), e.Params.Get("r_outer", 15), e.Params.Get("r_inner", 8.5)
				if ro <= ri {
					return nil, fmt.Errorf("invalid washer r_outer=%g r_inner=%g", ro, ri)
				}
				bore := form3.Cylinder(t, ri, 0)
				return []Part{
					{Name: "default", Material: Default("gainsboro"), Solid: sdf.Difference3D(form3.Cylinder(t, ro, 0), bore)},
					{Name: "bore", Material: Hole, Solid: bore},
				}, nil
			},
		},
	)
}
