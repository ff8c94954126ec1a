// Package render deforms a cubemap grid with a bump field, one goroutine per
// cube face.
package render

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/chewxy/math32"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/earthlike/internal/bump"
	"github.com/Faultbox/earthlike/internal/cubemap"
	"github.com/Faultbox/earthlike/internal/profile"
	"github.com/Faultbox/earthlike/pkg/math"
)

// progressSteps is how many progress lines each face worker logs.
const progressSteps = 8

// DistortVertex pushes v outward along its own direction by bump b, which
// lies distance away from the vertex. The displacement is a cosine dome of
// b.Height scaled by the red channel of the sample profile at the vertex's
// position in the bump's texel frame. It reports whether the sample had to
// be clamped into the profile.
func DistortVertex(v *math.Vec3, distance float32, b *bump.Bump, prof *profile.Profile) (clamped bool) {
	nr := 0.5 * (math32.Cos(math32.Pi*distance/b.Radius) + 1) * b.Height

	dir := v.Normalize()
	t := b.Pose.RotateVec(dir).Scale(b.TexelScale)
	x := int(t.X) + b.TexelX
	y := int(t.Y) + b.TexelY

	red, clamped := prof.Red(x, y)
	m := float32(red) / 255

	*v = v.Add(dir.Scale(nr * m))
	return clamped
}

// Renderer applies a bump list to a grid. The bumps and profile are only
// read; each face of the grid is written by exactly one worker.
type Renderer struct {
	grid    *cubemap.Grid
	bumps   []bump.Bump
	profile *profile.Profile
	log     *zap.Logger

	outOfRange atomic.Int64
}

// New creates a renderer. log may be nil.
func New(grid *cubemap.Grid, bumps []bump.Bump, prof *profile.Profile, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		grid:    grid,
		bumps:   bumps,
		profile: prof,
		log:     log,
	}
}

// OutOfRange returns how many profile samples fell outside the image and
// were clamped to its edge.
func (r *Renderer) OutOfRange() int64 {
	return r.outOfRange.Load()
}

// RenderFace applies every bump to every vertex of face f. Distances are
// measured from the undistorted sphere direction of each vertex, so the
// result does not depend on the order bumps are applied in beyond float
// rounding.
func (r *Renderer) RenderFace(ctx context.Context, f int) error {
	dim := r.grid.Dim
	face := r.grid.Face(f)
	step := dim / progressSteps
	if step == 0 {
		step = 1
	}

	var clamped int64
	for i := 0; i < dim; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("face %d: %w", f, err)
		}
		if i%step == 0 {
			r.log.Debug("rendering", zap.Int("face", f), zap.Int("row", i), zap.Int("rows", dim))
		}
		for j := 0; j < dim; j++ {
			p := cubemap.FacePointToDirection(f, i, j, dim)
			v := &face[i*dim+j]
			for k := range r.bumps {
				b := &r.bumps[k]
				d2 := p.DistanceSquared(b.Position)
				if d2 > b.Radius*b.Radius || b.Radius <= 0 {
					continue
				}
				if DistortVertex(v, math32.Sqrt(d2), b, r.profile) {
					clamped++
				}
			}
		}
	}
	r.outOfRange.Add(clamped)
	return nil
}

// RenderAll renders the six faces concurrently and waits for all of them.
// A worker that fails or panics fails the whole render.
func (r *Renderer) RenderAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for f := 0; f < cubemap.Faces; f++ {
		g.Go(func() (err error) {
			defer func() {
				if p := recover(); p != nil {
					err = fmt.Errorf("face %d worker panicked: %v", f, p)
				}
			}()
			if err := r.RenderFace(ctx, f); err != nil {
				return err
			}
			r.log.Debug("face done", zap.Int("face", f))
			return nil
		})
	}
	return g.Wait()
}
