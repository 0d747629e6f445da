package mesh

import (
	"bytes"
	"math"
	"strings"
	"testing"

	form3 "github.com/soypat/sdf/form3/must3"
	"gonum.org/v1/gonum/spatial/r3"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestBoxMassProperties(t *testing.T) {
	tests := []struct {
		name   string
		size   r3.Vec
		volume float64
	}{
		{"unit", r3.Vec{X: 1, Y: 1, Z: 1}, 1},
		{"slab", r3.Vec{X: 2, Y: 1, Z: 0.5}, 1},
		{"tall", r3.Vec{X: 1, Y: 1, Z: 1.5}, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Box(tt.size)
			if m.Len() != 12 {
				t.Fatalf("expected 12 triangles, got %d", m.Len())
			}
			if !near(m.Volume(), tt.volume) {
				t.Errorf("expected volume %f, got %f", tt.volume, m.Volume())
			}
			c := m.Centroid()
			want := r3.Scale(0.5, tt.size)
			if !near(c.X, want.X) || !near(c.Y, want.Y) || !near(c.Z, want.Z) {
				t.Errorf("expected centroid %v, got %v", want, c)
			}
		})
	}
}

func TestBoxInertia(t *testing.T) {
	m := Box(r3.Vec{X: 1, Y: 1, Z: 1})
	mass, com, inertia := m.Inertia(1)

	if !near(mass, 1) {
		t.Errorf("expected mass 1, got %f", mass)
	}
	if !near(com.Z, 0.5) {
		t.Errorf("expected com z 0.5, got %f", com.Z)
	}
	for i := 0; i < 3; i++ {
		if !near(inertia[i][i], 1.0/6) {
			t.Errorf("expected I[%d][%d] = 1/6, got %f", i, i, inertia[i][i])
		}
		for j := 0; j < 3; j++ {
			if i != j && !near(inertia[i][j], 0) {
				t.Errorf("expected zero product of inertia at [%d][%d], got %g", i, j, inertia[i][j])
			}
		}
	}
}

func TestOrientFlipsInwardMesh(t *testing.T) {
	m := Box(r3.Vec{X: 1, Y: 1, Z: 1})
	for i, tri := range m.Triangles {
		m.Triangles[i] = Triangle{tri[0], tri[2], tri[1]}
	}
	if m.Volume() >= 0 {
		t.Fatal("expected negative volume before orienting")
	}
	m.Orient()
	if !near(m.Volume(), 1) {
		t.Errorf("expected volume 1 after orienting, got %f", m.Volume())
	}
}

func TestTranslateScaleBounds(t *testing.T) {
	m := Box(r3.Vec{X: 1, Y: 1, Z: 1}).Translate(r3.Vec{X: -0.5, Y: -0.5, Z: 0}).Scale(2)
	b := m.Bounds()
	if !near(b.Min.X, -1) || !near(b.Max.X, 1) || !near(b.Max.Z, 2) {
		t.Errorf("unexpected bounds %+v", b)
	}
	if got := len(m.Vertices()); got != 8 {
		t.Errorf("expected 8 distinct vertices, got %d", got)
	}
}

func TestSTLBinaryRoundTrip(t *testing.T) {
	m := Box(r3.Vec{X: 1, Y: 2, Z: 3})

	var buf bytes.Buffer
	if err := EncodeBinary(&buf, m); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if buf.Len() != 84+50*12 {
		t.Errorf("unexpected stream size %d", buf.Len())
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Len() != m.Len() {
		t.Fatalf("expected %d triangles, got %d", m.Len(), got.Len())
	}
	if got.Bounds() != m.Bounds() {
		t.Errorf("bounds changed: %+v != %+v", got.Bounds(), m.Bounds())
	}
}

func TestSTLASCII(t *testing.T) {
	src := `solid tri
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
endsolid tri
`
	m, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if m.Len() != 1 {
		t.Fatalf("expected 1 triangle, got %d", m.Len())
	}
	if n := m.Triangles[0].Normal(); !near(n.Z, 1) {
		t.Errorf("expected +z normal, got %v", n)
	}
}

func TestSTLRejectsGarbage(t *testing.T) {
	if _, err := Decode(strings.NewReader("not a mesh")); err != ErrFormat {
		t.Errorf("expected ErrFormat, got %v", err)
	}
}

func TestMat3Inverse(t *testing.T) {
	m := Mat3{{2, 0, 0}, {0, 4, 1}, {0, 0, 5}}
	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("expected invertible matrix")
	}
	p := m.Mul(inv)
	id := Identity()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !near(p[i][j], id[i][j]) {
				t.Fatalf("m * inv(m) is not identity: %v", p)
			}
		}
	}
	if _, ok := (Mat3{}).Inverse(); ok {
		t.Error("expected singular matrix to have no inverse")
	}
}

func TestFromSDFSphere(t *testing.T) {
	m, err := FromSDF(form3.Sphere(1), 48)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	want := 4.0 / 3.0 * math.Pi
	if v := m.Volume(); math.Abs(v-want)/want > 0.05 {
		t.Errorf("expected volume near %f, got %f", want, v)
	}
	box := m.Bounds()
	if math.Abs(box.Max.Z-1) > 0.05 || math.Abs(box.Min.Z+1) > 0.05 {
		t.Errorf("unexpected bounds %v", box)
	}
	for i, tri := range m.Triangles {
		if tri.Area() == 0 {
			t.Fatalf("triangle %d is degenerate", i)
		}
	}
}
