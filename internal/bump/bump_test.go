package bump

import (
	"bytes"
	"errors"
	stdmath "math"
	"testing"

	"github.com/Faultbox/earthlike/pkg/math"
)

func newTestField(p Params, seed int64) *Field {
	return NewField(p, 300, 300, NewRand(seed))
}

func TestAddDerivesTexelFrame(t *testing.T) {
	f := newTestField(DefaultParams(), 1)
	pos := math.Vec3{X: 0, Y: 1, Z: 0}
	if err := f.Add(pos, 0.3, 0.08); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	b := f.Bumps()[0]
	if b.Radius != 0.3 || b.Height != 0.08 || b.Position != pos {
		t.Errorf("bump fields not stored: %+v", b)
	}
	if b.TexelScale != 100 {
		t.Errorf("TexelScale = %v, want 100", b.TexelScale)
	}
	// 300/3 +- 0.5 * (1/3) * 300
	for _, v := range []int{b.TexelX, b.TexelY} {
		if v < 50 || v > 150 {
			t.Errorf("texel origin %d outside [50, 150]", v)
		}
	}
	got := b.Pose.RotateVec(pos)
	if got.DistanceSquared(math.Vec3{Z: 1}) > 1e-10 {
		t.Errorf("pose should carry position onto +Z, got %v", got)
	}
}

func TestTexelScaleUsesShorterSide(t *testing.T) {
	f := NewField(DefaultParams(), 600, 90, NewRand(1))
	_ = f.Add(math.Vec3{X: 1}, 0.1, 0.1)
	if got := f.Bumps()[0].TexelScale; got != 30 {
		t.Errorf("TexelScale = %v, want 30", got)
	}
}

func TestAddRecursiveCount(t *testing.T) {
	tests := []struct {
		name      string
		branching int
		shrink    float32
		want      int
	}{
		// 0.4 -> 0.2 -> 0.1, then 0.05 < 0.1 stops
		{"ternary three levels", 3, 0.5, 1 + 3 + 9},
		{"binary three levels", 2, 0.5, 1 + 2 + 4},
		{"shrink below limit at once", 3, 0.2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			p.Branching = tt.branching
			f := newTestField(p, 5)

			n, err := f.AddRecursive(math.Vec3{X: 1}, 0.4, 0.08, tt.shrink, 0.1)
			if err != nil {
				t.Fatalf("AddRecursive failed: %v", err)
			}
			if n != tt.want || f.Len() != tt.want {
				t.Errorf("placed %d (Len %d), want %d", n, f.Len(), tt.want)
			}
		})
	}
}

func TestAddRecursiveChildren(t *testing.T) {
	f := newTestField(DefaultParams(), 11)
	root := math.Vec3{X: 0, Y: 0, Z: 1}
	if _, err := f.AddRecursive(root, 0.4, 0.08, 0.5, 0.1); err != nil {
		t.Fatalf("AddRecursive failed: %v", err)
	}

	bumps := f.Bumps()
	// First child directly follows the root
	child := bumps[1]
	if child.Radius != 0.2 {
		t.Errorf("child radius = %v, want 0.2", child.Radius)
	}
	base := float32(0.08 * 0.5 * 0.5)
	if child.Height < base || child.Height >= 2*base {
		t.Errorf("child height %v outside [%v, %v)", child.Height, base, 2*base)
	}
	for i, b := range bumps {
		if l := b.Position.Length(); stdmath.Abs(float64(l-1)) > 1e-5 {
			t.Errorf("bump %d not on unit sphere: |p| = %v", i, l)
		}
	}
	// Offset is at most radius in each axis before renormalization
	if d := child.Position.Distance(root); d > 0.4*float32(stdmath.Sqrt(3)) {
		t.Errorf("child %v too far from root: %v", child.Position, d)
	}
}

// recursiveReference is the straightforward recursive formulation the
// worklist must reproduce draw for draw.
func recursiveReference(f *Field, pos math.Vec3, r, h, shrink, limit float32) {
	if f.Add(pos, r, h) != nil {
		return
	}
	if r*shrink < limit {
		return
	}
	for i := 0; i < f.params.Branching; i++ {
		d := math.Vec3{X: f.uniform() * r, Y: f.uniform() * r, Z: f.uniform() * r}
		child := d.Add(pos).Normalize()
		base := h * shrink * 0.5
		recursiveReference(f, child, r*shrink, base+f.rng.Float32()*base, shrink, limit)
	}
}

func TestAddRecursiveMatchesRecursion(t *testing.T) {
	a := newTestField(DefaultParams(), 21)
	b := newTestField(DefaultParams(), 21)

	root := math.Vec3{X: 0.6, Y: 0.8}
	if _, err := a.AddRecursive(root, 0.3, 0.08, 0.52, 0.01); err != nil {
		t.Fatalf("AddRecursive failed: %v", err)
	}
	recursiveReference(b, root, 0.3, 0.08, 0.52, 0.01)

	if a.Len() != b.Len() {
		t.Fatalf("worklist placed %d bumps, recursion placed %d", a.Len(), b.Len())
	}
	for i := range a.Bumps() {
		if a.Bumps()[i] != b.Bumps()[i] {
			t.Fatalf("bump %d differs:\n%+v\n%+v", i, a.Bumps()[i], b.Bumps()[i])
		}
	}
}

func TestCapacity(t *testing.T) {
	p := DefaultParams()
	p.Capacity = 5
	f := newTestField(p, 3)

	n, err := f.AddRecursive(math.Vec3{Y: 1}, 0.4, 0.08, 0.5, 0.1)
	if !errors.Is(err, ErrCapacity) {
		t.Fatalf("expected ErrCapacity, got %v", err)
	}
	if n != 5 || f.Len() != 5 {
		t.Errorf("placed %d (Len %d), want 5", n, f.Len())
	}
	if f.Dropped() != 1 {
		t.Errorf("Dropped = %d, want 1", f.Dropped())
	}

	if err := f.Add(math.Vec3{X: 1}, 0.1, 0.1); !errors.Is(err, ErrCapacity) {
		t.Errorf("expected ErrCapacity on full field, got %v", err)
	}
	if f.Len() != 5 || f.Dropped() != 2 {
		t.Errorf("full field changed: Len %d Dropped %d", f.Len(), f.Dropped())
	}
}

func TestAddSeedsZero(t *testing.T) {
	f := newTestField(DefaultParams(), 1)
	n, err := f.AddSeeds(0)
	if err != nil || n != 0 || f.Len() != 0 {
		t.Errorf("AddSeeds(0) = (%d, %v), Len %d; want nothing placed", n, err, f.Len())
	}
}

func TestAddSeedsDeterministic(t *testing.T) {
	p := DefaultParams()
	a := newTestField(p, 42)
	b := newTestField(p, 42)
	c := newTestField(p, 43)

	na, errA := a.AddSeeds(10)
	nb, errB := b.AddSeeds(10)
	if _, err := c.AddSeeds(10); err != nil {
		t.Fatalf("AddSeeds failed: %v", err)
	}
	if errA != nil || errB != nil {
		t.Fatalf("AddSeeds failed: %v %v", errA, errB)
	}
	if na != nb || na != a.Len() {
		t.Fatalf("counts differ: %d vs %d (Len %d)", na, nb, a.Len())
	}
	for i := range a.Bumps() {
		if a.Bumps()[i] != b.Bumps()[i] {
			t.Fatalf("bump %d differs between identical seeds", i)
		}
	}
	if c.Bumps()[0] == a.Bumps()[0] {
		t.Error("different seeds produced the same first bump")
	}

	for i, bm := range a.Bumps() {
		if bm.Radius <= 0 || bm.Radius > p.SeedRadiusMax {
			t.Errorf("bump %d radius %v outside (0, %v]", i, bm.Radius, p.SeedRadiusMax)
		}
		if bm.Height <= 0 || bm.Height > p.SeedHeight {
			t.Errorf("bump %d height %v outside (0, %v]", i, bm.Height, p.SeedHeight)
		}
	}
}

func TestAddSeedsDefaultWithinCapacity(t *testing.T) {
	p := DefaultParams()
	f := newTestField(p, 1)
	n, err := f.AddSeeds(80)
	if err != nil {
		t.Fatalf("AddSeeds(80) failed: %v", err)
	}
	if n == 0 || n > p.Capacity {
		t.Errorf("placed %d bumps, want (0, %d]", n, p.Capacity)
	}
	if f.Dropped() != 0 {
		t.Errorf("unexpected drops: %d", f.Dropped())
	}
}

func TestManifestRoundTrip(t *testing.T) {
	f := newTestField(DefaultParams(), 9)
	if _, err := f.AddSeeds(2); err != nil {
		t.Fatalf("AddSeeds failed: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteManifest(&buf, f.Bumps()); err != nil {
		t.Fatalf("WriteManifest failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("index,x,y,z,radius,height,texel_x,texel_y,texel_scale")) {
		t.Errorf("unexpected header: %q", bytes.SplitN(buf.Bytes(), []byte("\n"), 2)[0])
	}

	recs, err := ReadManifest(&buf)
	if err != nil {
		t.Fatalf("ReadManifest failed: %v", err)
	}
	if len(recs) != f.Len() {
		t.Fatalf("read %d records, want %d", len(recs), f.Len())
	}
	last := recs[len(recs)-1]
	want := f.Bumps()[f.Len()-1]
	if last.Index != f.Len()-1 || last.TexelX != want.TexelX || last.TexelY != want.TexelY {
		t.Errorf("last record %+v does not match bump %+v", last, want)
	}
	if stdmath.Abs(float64(last.Radius-want.Radius)) > 1e-6 {
		t.Errorf("radius %v, want %v", last.Radius, want.Radius)
	}
}
