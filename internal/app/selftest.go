package app

import (
	"context"

	"github.com/san-kum/scadsim/internal/config"
	"github.com/san-kum/scadsim/internal/csg"
	"github.com/san-kum/scadsim/internal/mesh"
	"github.com/san-kum/scadsim/internal/model"
	"github.com/san-kum/scadsim/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

// SelfTestModel builds a red 1x1x1.5 cube joined with a green unit cube
// offset by (0.95, 0.95, -0.15).
func SelfTestModel() (*model.Model, error) {
	red, err := csg.Color("red", csg.Cube(r3.Vec{X: 1, Y: 1, Z: 1.5}))
	if err != nil {
		return nil, err
	}
	green, err := csg.Color("green", csg.Cube(r3.Vec{X: 1, Y: 1, Z: 1}))
	if err != nil {
		return nil, err
	}

	rc, err := red.Add(csg.Translate(r3.Vec{X: 0.95, Y: 0.95, Z: -0.15}, green)).Render(mesh.DefaultCells)
	if err != nil {
		return nil, err
	}
	return model.FromManifold(rc.SolidManifold()), nil
}

// SelfTest drops SelfTestModel with the simulation settings of cfg.
func (a *App) SelfTest(ctx context.Context, cfg *config.Config) (*sim.Result, error) {
	m, err := SelfTestModel()
	if err != nil {
		return nil, err
	}
	return a.Simulate(ctx, cfg, m)
}
