package metrics

import (
	"math"

	"github.com/san-kum/scadsim/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// ImpactSpeed is the highest linear speed any dynamic body reached.
type ImpactSpeed struct {
	max float64
}

func NewImpactSpeed() *ImpactSpeed { return &ImpactSpeed{} }

func (s *ImpactSpeed) Name() string { return "impact_speed" }

func (s *ImpactSpeed) OnStep(f physics.Frame) {
	for _, b := range f.Bodies {
		if dynamic(b) {
			s.max = math.Max(s.max, r3.Norm(b.Velocity))
		}
	}
}

func (s *ImpactSpeed) Value() float64 { return s.max }
func (s *ImpactSpeed) Reset()         { s.max = 0 }

// SettleTime is the simulated time from which every dynamic body has been
// asleep. It is -1 while anything still moves.
type SettleTime struct {
	since float64
}

func NewSettleTime() *SettleTime { return &SettleTime{since: -1} }

func (s *SettleTime) Name() string { return "settle_time" }

func (s *SettleTime) OnStep(f physics.Frame) {
	for _, b := range f.Bodies {
		if dynamic(b) && !b.Sleeping {
			s.since = -1
			return
		}
	}
	if s.since < 0 {
		s.since = f.Time
	}
}

func (s *SettleTime) Value() float64 { return s.since }
func (s *SettleTime) Reset()         { s.since = -1 }
