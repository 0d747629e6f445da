package gui

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/scadsim/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

// lightDir points towards the light in world coordinates.
var lightDir = r3.Unit(r3.Vec{X: 0.4, Y: -0.3, Z: 1})

// toRL maps z-up world coordinates into raylib's y-up frame. The mapping
// is a rotation so triangle winding is preserved.
func toRL(v r3.Vec) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Z), float32(-v.Y))
}

func cameraFor(c physics.Camera) rl.Camera3D {
	return rl.NewCamera3D(toRL(c.Eye()), toRL(c.Target), rl.NewVector3(0, 1, 0), 45, rl.CameraPerspective)
}

// shade darkens c by the angle between n and the light, keeping some
// ambient light.
func shade(c color.RGBA, n r3.Vec) rl.Color {
	k := 0.35 + 0.65*math.Max(0, r3.Dot(n, lightDir))
	return rl.NewColor(uint8(float64(c.R)*k), uint8(float64(c.G)*k), uint8(float64(c.B)*k), c.A)
}

func drawGround(slices int, spacing float32) {
	half := float32(slices) * spacing / 2
	rl.DrawPlane(rl.NewVector3(0, -0.001, 0), rl.NewVector2(2*half, 2*half), ColGround)
	for i := -slices / 2; i <= slices/2; i++ {
		pos := float32(i) * spacing
		rl.DrawLine3D(rl.NewVector3(pos, 0, -half), rl.NewVector3(pos, 0, half), ColGrid)
		rl.DrawLine3D(rl.NewVector3(-half, 0, pos), rl.NewVector3(half, 0, pos), ColGrid)
	}
}

func drawBody(b physics.BodyView) {
	if b.Mesh == nil {
		return
	}
	for _, t := range b.Mesh.Triangles {
		p0, p1, p2 := b.ToWorld(t[0]), b.ToWorld(t[1]), b.ToWorld(t[2])
		n := r3.Cross(r3.Sub(p1, p0), r3.Sub(p2, p0))
		if l := r3.Norm(n); l > 0 {
			n = r3.Scale(1/l, n)
		}
		rl.DrawTriangle3D(toRL(p0), toRL(p1), toRL(p2), shade(b.Colour, n))
	}
}
