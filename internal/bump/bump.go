// Package bump generates the fractal field of surface bumps: clusters of
// progressively smaller, lower bumps scattered around random seed points on
// the unit sphere.
package bump

import (
	"errors"
	"math/rand/v2"

	"github.com/chewxy/math32"

	"github.com/Faultbox/earthlike/pkg/math"
)

// ErrCapacity is returned once the field holds Params.Capacity bumps.
// Further bumps are dropped; the bumps already placed remain valid.
var ErrCapacity = errors.New("bump capacity reached")

var (
	// forward is the axis every bump position is rotated onto for sampling.
	forward = math.Vec3{X: 0, Y: 0, Z: 1}
	up      = math.Vec3{X: 0, Y: 1, Z: 0}
)

// Bump is one radially falling-off displacement of the sphere surface.
// It is immutable once placed.
type Bump struct {
	Position math.Vec3 // center, on the unit sphere
	Radius   float32   // influence radius in sphere space
	Height   float32   // peak displacement

	// Pose rotates Position onto +Z, so sphere directions near the bump map
	// to small X/Y offsets in the sample image.
	Pose       math.Quat
	TexelX     int     // sample image origin of this bump's patch
	TexelY     int     //
	TexelScale float32 // sphere distance to sample texels
}

// Params controls bump placement.
type Params struct {
	Capacity      int
	SeedHeight    float32
	SeedRadiusMax float32
	Shrink        float32
	RadiusLimit   float32
	Branching     int
	Radii         float32 // the sample image spans this many bump radii
}

// DefaultParams returns the reference placement parameters.
func DefaultParams() Params {
	return Params{
		Capacity:      100000,
		SeedHeight:    0.08,
		SeedRadiusMax: 0.4,
		Shrink:        0.52,
		RadiusLimit:   0.01,
		Branching:     3,
		Radii:         3.0,
	}
}

// Field is the ordered, bounded list of generated bumps together with the
// random source and sample image size used to create them.
type Field struct {
	params  Params
	sampleW int
	sampleH int
	rng     *rand.Rand
	bumps   []Bump
	dropped int
}

// NewField creates an empty field for a sample image of the given size.
func NewField(p Params, sampleW, sampleH int, rng *rand.Rand) *Field {
	n := p.Capacity
	if n > 4096 {
		n = 4096
	}
	return &Field{
		params:  p,
		sampleW: sampleW,
		sampleH: sampleH,
		rng:     rng,
		bumps:   make([]Bump, 0, n),
	}
}

// NewRand returns the deterministic random source used for placement.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// Bumps returns the placed bumps in generation order. The slice must not be
// modified.
func (f *Field) Bumps() []Bump { return f.bumps }

// Len returns the number of placed bumps.
func (f *Field) Len() int { return len(f.bumps) }

// Dropped returns how many bumps were rejected because the field was full.
func (f *Field) Dropped() int { return f.dropped }

// Params returns the placement parameters.
func (f *Field) Params() Params { return f.params }

// uniform returns a value in [-1, 1).
func (f *Field) uniform() float32 {
	return f.rng.Float32()*2 - 1
}

// Add places one bump. Its sample patch starts near the first third of the
// image, jittered by up to (Radii-2)/Radii of the image size.
func (f *Field) Add(pos math.Vec3, radius, height float32) error {
	if len(f.bumps) >= f.params.Capacity {
		f.dropped++
		return ErrCapacity
	}

	w := float32(f.sampleW)
	h := float32(f.sampleH)
	radii := f.params.Radii
	jitter := (radii - 2) / radii

	b := Bump{
		Position: pos,
		Radius:   radius,
		Height:   height,
		Pose:     math.QuatFromTo(pos, forward, up),
		TexelX:   int(w/radii + 0.5*f.uniform()*jitter*w),
		TexelY:   int(h/radii + 0.5*f.uniform()*jitter*h),
	}
	b.TexelScale = math32.Min(w, h) / radii

	f.bumps = append(f.bumps, b)
	return nil
}

// frame is a placed bump that still has children to generate.
type frame struct {
	pos       math.Vec3
	radius    float32
	height    float32
	remaining int
}

// AddRecursive places a bump and, while radius*shrink stays at or above
// radiusLimit, Branching children around it, each shrunk by shrink and
// scattered up to one parent radius away. Children are generated depth
// first, in the same order (and with the same random draws) as a recursive
// descent. It returns the number of bumps placed and ErrCapacity if the
// field filled up.
func (f *Field) AddRecursive(pos math.Vec3, radius, height, shrink, radiusLimit float32) (int, error) {
	if err := f.Add(pos, radius, height); err != nil {
		return 0, err
	}
	added := 1

	var stack []frame
	if radius*shrink >= radiusLimit {
		stack = append(stack, frame{pos, radius, height, f.params.Branching})
	}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.remaining == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		top.remaining--
		parent := *top

		d := math.Vec3{
			X: f.uniform() * parent.radius,
			Y: f.uniform() * parent.radius,
			Z: f.uniform() * parent.radius,
		}
		childPos := d.Add(parent.pos).Normalize()
		childRadius := parent.radius * shrink
		base := parent.height * shrink * 0.5
		childHeight := base + f.rng.Float32()*base

		if err := f.Add(childPos, childRadius, childHeight); err != nil {
			return added, err
		}
		added++

		if childRadius*shrink >= radiusLimit {
			stack = append(stack, frame{childPos, childRadius, childHeight, f.params.Branching})
		}
	}
	return added, nil
}

// AddSeeds places count bump clusters at uniformly random sphere points.
// Cluster root radii are 0.5*(u+1)*SeedRadiusMax for u uniform in [-1, 1).
func (f *Field) AddSeeds(count int) (int, error) {
	added := 0
	for i := 0; i < count; i++ {
		r := 0.5 * (f.uniform() + 1) * f.params.SeedRadiusMax
		p := f.randomPointOnSphere()
		n, err := f.AddRecursive(p, r, f.params.SeedHeight, f.params.Shrink, f.params.RadiusLimit)
		added += n
		if err != nil {
			return added, err
		}
	}
	return added, nil
}

// randomPointOnSphere samples the unit sphere uniformly (Archimedes: z is
// uniform, the azimuth is uniform).
func (f *Field) randomPointOnSphere() math.Vec3 {
	z := f.uniform()
	theta := f.rng.Float32() * 2 * math32.Pi
	r := math32.Sqrt(math32.Max(0, 1-z*z))
	s, c := math32.Sincos(theta)
	return math.Vec3{X: r * c, Y: r * s, Z: z}
}
