// Package metrics summarises a run from the frames it produces. Every
// metric is a step observer.
package metrics

import "github.com/san-kum/scadsim/internal/physics"

type Metric interface {
	Name() string
	OnStep(f physics.Frame)
	Value() float64
	Reset()
}

// Set forwards every frame to each of its metrics.
type Set []Metric

// Default returns the metrics recorded for every drop under gravity g
// (the z component, negative pointing down).
func Default(g float64) Set {
	return Set{NewEnergy(g), NewEnergyLoss(g), NewImpactSpeed(), NewSettleTime()}
}

func (s Set) OnStep(f physics.Frame) {
	for _, m := range s {
		m.OnStep(f)
	}
}

func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}

func dynamic(b physics.BodyView) bool {
	return b.Kind == physics.KindMesh && !b.Static
}
