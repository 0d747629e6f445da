package metrics

import (
	"math"

	"github.com/san-kum/scadsim/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// mechanical is the translational kinetic plus potential energy of the
// dynamic bodies in f, with z=0 as the potential reference.
func mechanical(f physics.Frame, g float64) float64 {
	total := 0.0
	for _, b := range f.Bodies {
		if !dynamic(b) {
			continue
		}
		v := r3.Norm(b.Velocity)
		total += 0.5*b.Mass*v*v - b.Mass*g*b.Position.Z
	}
	return total
}

// Energy is the mean mechanical energy over the run.
type Energy struct {
	gravity float64
	samples int
	total   float64
}

func NewEnergy(g float64) *Energy {
	return &Energy{gravity: g}
}

func (e *Energy) Name() string { return "energy" }

func (e *Energy) OnStep(f physics.Frame) {
	e.total += mechanical(f, e.gravity)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyLoss is the fraction of the first frame's mechanical energy that
// contacts have dissipated by the latest frame.
type EnergyLoss struct {
	gravity float64
	initial float64
	current float64
	samples int
}

func NewEnergyLoss(g float64) *EnergyLoss {
	return &EnergyLoss{gravity: g}
}

func (e *EnergyLoss) Name() string { return "energy_loss" }

func (e *EnergyLoss) OnStep(f physics.Frame) {
	energy := mechanical(f, e.gravity)
	if e.samples == 0 {
		e.initial = energy
	}
	e.current = energy
	e.samples++
}

func (e *EnergyLoss) Value() float64 {
	if e.samples == 0 || e.initial == 0 {
		return 0
	}
	return math.Max(0, (e.initial-e.current)/math.Abs(e.initial))
}

func (e *EnergyLoss) Reset() {
	e.initial = 0
	e.current = 0
	e.samples = 0
}
