// Package paint rasterizes a deformed cubemap grid into RGBA height and
// packed normal images.
package paint

import (
	"github.com/Faultbox/earthlike/internal/cubemap"
	"github.com/Faultbox/earthlike/pkg/math"
)

// BytesPerPixel is the size of one RGBA pixel.
const BytesPerPixel = 4

// Options controls how heights are classified and colored.
type Options struct {
	SeaLevel    float32  // normalized height at or below which a texel is water
	WaterColor  [3]uint8 // height map color of water
	WaterNormal [3]uint8 // normal map color of water (flat, facing out)
}

// DefaultOptions returns the reference painting options.
func DefaultOptions() Options {
	return Options{
		SeaLevel:    0.08,
		WaterColor:  [3]uint8{20, 100, 200},
		WaterNormal: [3]uint8{127, 127, 255},
	}
}

// Cubemap is a set of six RGBA rasters. Pixel (i, j) of a face is at byte
// offset (j*Dim + i)*4, so i is the image column and j the image row.
type Cubemap struct {
	Dim   int
	Faces [cubemap.Faces][]byte
}

// NewCubemap allocates six transparent black faces.
func NewCubemap(dim int) *Cubemap {
	c := &Cubemap{Dim: dim}
	for f := range c.Faces {
		c.Faces[f] = make([]byte, dim*dim*BytesPerPixel)
	}
	return c
}

// Pixel returns the four bytes of pixel (i, j) on face f.
func (c *Cubemap) Pixel(f, i, j int) []byte {
	p := (j*c.Dim + i) * BytesPerPixel
	return c.Faces[f][p : p+BytesPerPixel]
}

// IsLand reports whether a normalized height lies above sea level.
func (o Options) IsLand(normalized float32) bool {
	return normalized > o.SeaLevel
}

// PaintHeight writes land as a grey level of its normalized height and
// water as WaterColor.
func PaintHeight(grid *cubemap.Grid, min, max float32, opts Options) *Cubemap {
	out := NewCubemap(grid.Dim)
	for f := 0; f < cubemap.Faces; f++ {
		for i := 0; i < grid.Dim; i++ {
			for j := 0; j < grid.Dim; j++ {
				n := cubemap.NormalizeHeight(grid.Magnitude(f, i, j), min, max)
				px := out.Pixel(f, i, j)
				if opts.IsLand(n) {
					c := toByte(n)
					px[0], px[1], px[2] = c, c, c
				} else {
					px[0], px[1], px[2] = opts.WaterColor[0], opts.WaterColor[1], opts.WaterColor[2]
				}
				px[3] = 255
			}
		}
	}
	return out
}

// ComputeNormal derives the packed normal of pixel (i, j) on face f from
// central differences of the height raster's red channel. Neighbors are
// clamped at the face border, so faces are independent and cube edges show
// seams. X and Y are biased so 0.5 means no slope; Z is always 1.
func ComputeNormal(height *Cubemap, f, i, j int) math.Vec3 {
	last := height.Dim - 1
	i1, i2 := clampIndex(i-1, last), clampIndex(i+1, last)
	j1, j2 := clampIndex(j-1, last), clampIndex(j+1, last)

	dzdx := int(height.Pixel(f, i1, j)[0]) - int(height.Pixel(f, i2, j)[0])
	dzdy := int(height.Pixel(f, i, j2)[0]) - int(height.Pixel(f, i, j1)[0])

	return math.Vec3{
		X: float32(dzdx)/127 + 0.5,
		Y: float32(dzdy)/127 + 0.5,
		Z: 1,
	}
}

// ComputeNormals derives the packed normal of every pixel. Each face slice
// is indexed i*Dim + j, matching cubemap.Grid.
func ComputeNormals(height *Cubemap) [cubemap.Faces][]math.Vec3 {
	var normals [cubemap.Faces][]math.Vec3
	dim := height.Dim
	for f := range normals {
		face := make([]math.Vec3, dim*dim)
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				face[i*dim+j] = ComputeNormal(height, f, i, j)
			}
		}
		normals[f] = face
	}
	return normals
}

// PaintNormal writes land pixels as their packed normal scaled to bytes and
// water pixels as WaterNormal. Land and water are classified from the grid,
// not from the height raster.
func PaintNormal(grid *cubemap.Grid, normals [cubemap.Faces][]math.Vec3, min, max float32, opts Options) *Cubemap {
	dim := grid.Dim
	out := NewCubemap(dim)
	for f := 0; f < cubemap.Faces; f++ {
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				n := cubemap.NormalizeHeight(grid.Magnitude(f, i, j), min, max)
				px := out.Pixel(f, i, j)
				if opts.IsLand(n) {
					nv := normals[f][i*dim+j]
					px[0], px[1], px[2] = toByte(nv.X), toByte(nv.Y), toByte(nv.Z)
				} else {
					px[0], px[1], px[2] = opts.WaterNormal[0], opts.WaterNormal[1], opts.WaterNormal[2]
				}
				px[3] = 255
			}
		}
	}
	return out
}

// toByte scales v in [0, 1] to [0, 255], truncating and saturating.
func toByte(v float32) uint8 {
	s := v * 255
	if s <= 0 {
		return 0
	}
	if s >= 255 {
		return 255
	}
	return uint8(s)
}

func clampIndex(v, last int) int {
	if v < 0 {
		return 0
	}
	if v > last {
		return last
	}
	return v
}
