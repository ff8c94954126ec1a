package cubemap

import (
	stdmath "math"
	"testing"

	"github.com/Faultbox/earthlike/pkg/math"
)

func TestMinMaxHeightSphere(t *testing.T) {
	g, _ := NewGrid(16)
	min, max := g.MinMaxHeight()
	if stdmath.Abs(float64(min-1)) > 1e-5 || stdmath.Abs(float64(max-1)) > 1e-5 {
		t.Errorf("pristine sphere extrema = (%v, %v), want (1, 1)", min, max)
	}
}

func TestMinMaxHeightBounds(t *testing.T) {
	g, _ := NewGrid(16)
	g.Set(0, 1, 1, g.Base(0, 1, 1).Scale(1.3))
	g.Set(4, 7, 2, g.Base(4, 7, 2).Scale(0.9))
	g.Set(5, 0, 15, g.Base(5, 0, 15).Scale(1.05))

	min, max := g.MinMaxHeight()
	if min > max {
		t.Fatalf("min %v greater than max %v", min, max)
	}
	if stdmath.Abs(float64(min-0.9)) > 1e-5 {
		t.Errorf("min = %v, want 0.9", min)
	}
	if stdmath.Abs(float64(max-1.3)) > 1e-5 {
		t.Errorf("max = %v, want 1.3", max)
	}

	for f := 0; f < Faces; f++ {
		for i := 0; i < g.Dim; i++ {
			for j := 0; j < g.Dim; j++ {
				h := g.Magnitude(f, i, j)
				if h < min || h > max {
					t.Fatalf("vertex (%d,%d,%d) magnitude %v outside [%v, %v]", f, i, j, h, min, max)
				}
			}
		}
	}
}

func TestHeightStats(t *testing.T) {
	g, _ := NewGrid(8)
	total := float64(Faces * 8 * 8)

	s := g.HeightStats(0.08)
	if s.StdDev > 1e-5 {
		t.Errorf("pristine sphere stddev = %v, want 0", s.StdDev)
	}
	// Empty range normalizes to 1, which is land
	if s.LandFraction != 1 {
		t.Errorf("pristine sphere land fraction = %v, want 1", s.LandFraction)
	}

	g.Set(1, 0, 0, math.Vec3{X: 2})
	s = g.HeightStats(0.5)
	if stdmath.Abs(s.Max-2) > 1e-6 {
		t.Errorf("max = %v, want 2", s.Max)
	}
	if got := s.LandFraction * total; stdmath.Abs(got-1) > 1e-9 {
		t.Errorf("expected exactly one land vertex, got %v", got)
	}
	if s.Mean <= 1 {
		t.Errorf("mean = %v, want > 1", s.Mean)
	}
}

func TestNormalizeHeight(t *testing.T) {
	tests := []struct {
		name        string
		h, min, max float32
		want        float32
	}{
		{"bottom", 0.9, 0.9, 1.1, 0},
		{"top", 1.1, 0.9, 1.1, 1},
		{"middle", 1.0, 0.9, 1.1, 0.5},
		{"flat sphere", 1.0, 1.0, 1.0, 1.0},
		{"float noise only", 0.99999994, 0.99999994, 1.0000001, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeHeight(tt.h, tt.min, tt.max)
			if stdmath.Abs(float64(got-tt.want)) > 1e-5 {
				t.Errorf("NormalizeHeight(%v, %v, %v) = %v, want %v", tt.h, tt.min, tt.max, got, tt.want)
			}
		})
	}
}
