package cubemap

import (
	stdmath "math"
	"math/rand/v2"
	"testing"

	"github.com/Faultbox/earthlike/pkg/math"
)

func TestFacePointToDirectionUnit(t *testing.T) {
	const dim = 32
	for f := 0; f < Faces; f++ {
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				l := FacePointToDirection(f, i, j, dim).Length()
				if stdmath.Abs(float64(l-1)) > 1e-5 {
					t.Fatalf("face %d (%d,%d): length %v, want 1", f, i, j, l)
				}
			}
		}
	}
}

func TestFaceCenters(t *testing.T) {
	const dim = 64
	want := []math.Vec3{
		{X: 0, Y: 0, Z: 1},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 0, Z: -1},
		{X: -1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: -1, Z: 0},
	}
	for f, w := range want {
		got := FacePointToDirection(f, dim/2, dim/2, dim)
		if got.DistanceSquared(w) > 1e-10 {
			t.Errorf("face %d center = %v, want %v", f, got, w)
		}
	}
}

func TestFacePointToDirectionBadFace(t *testing.T) {
	if v := FacePointToDirection(6, 0, 0, 8); v != (math.Vec3{}) {
		t.Errorf("expected zero vector for face 6, got %v", v)
	}
}

func TestFacesCoverSphere(t *testing.T) {
	const dim = 16
	g, err := NewGrid(dim)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}

	// Largest allowed angular gap between any direction and its nearest texel
	maxAngle := 2.5 / float64(dim)
	minDot := float32(stdmath.Cos(maxAngle))

	rng := rand.New(rand.NewPCG(7, 0))
	for n := 0; n < 2000; n++ {
		z := rng.Float64()*2 - 1
		theta := rng.Float64() * 2 * stdmath.Pi
		r := stdmath.Sqrt(1 - z*z)
		d := math.Vec3{X: float32(r * stdmath.Cos(theta)), Y: float32(r * stdmath.Sin(theta)), Z: float32(z)}

		best := float32(-2)
		for f := 0; f < Faces; f++ {
			for _, v := range g.Face(f) {
				if dot := v.Dot(d); dot > best {
					best = dot
				}
			}
		}
		if best < minDot {
			t.Fatalf("direction %v has no texel within %.3f rad (best dot %v)", d, maxAngle, best)
		}
	}
}

func TestNewGridInitialized(t *testing.T) {
	g, err := NewGrid(8)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}
	for f := 0; f < Faces; f++ {
		if len(g.Face(f)) != 64 {
			t.Fatalf("face %d has %d vertices, want 64", f, len(g.Face(f)))
		}
	}
	if g.At(2, 3, 5) != g.Base(2, 3, 5) {
		t.Errorf("At and Base differ on a fresh grid")
	}

	g.Set(2, 3, 5, math.Vec3{X: 2})
	if g.Magnitude(2, 3, 5) != 2 {
		t.Errorf("Set did not update vertex")
	}
	g.Initialize()
	if g.At(2, 3, 5) != g.Base(2, 3, 5) {
		t.Errorf("Initialize did not reset vertex")
	}
}

func TestNewGridRejectsTinyDim(t *testing.T) {
	if _, err := NewGrid(1); err == nil {
		t.Error("expected error for dim 1")
	}
}
