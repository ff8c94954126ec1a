// Package profile holds the greyscale sample image that modulates the height
// of every bump. Bumps address it through their own rotated and scaled 2D
// projection, so one image supplies many independent-looking patches.
package profile

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png" // PNG decoder registration
	"os"

	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration
)

// BytesPerTexel is the size of one stored texel (R, G, B).
const BytesPerTexel = 3

// ErrUnsupported is returned for images that are not 8-bit RGB or RGBA.
var ErrUnsupported = errors.New("only RGB and RGBA images are supported")

// Profile is an immutable RGB raster. Only the red channel is sampled.
// Rows are Stride bytes apart; Stride is Width*3 rounded up to 4 bytes.
type Profile struct {
	Width    int
	Height   int
	Stride   int
	HasAlpha bool
	Pix      []byte
}

// New allocates a black profile of the given size.
func New(width, height int) *Profile {
	stride := alignStride(width * BytesPerTexel)
	return &Profile{
		Width:  width,
		Height: height,
		Stride: stride,
		Pix:    make([]byte, stride*height),
	}
}

// Uniform returns a profile whose every channel is v.
func Uniform(width, height int, v uint8) *Profile {
	p := New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p.set(x, y, v, v, v)
		}
	}
	return p
}

// PNG colour types that carry no RGB data. The decoder expands grey+alpha
// to NRGBA, so they are caught from the IHDR chunk before decoding.
const (
	pngGrey      = 0
	pngGreyAlpha = 4
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// pngColorType returns the colour type byte of a PNG's IHDR chunk, or -1 if
// data is not a PNG.
func pngColorType(data []byte) int {
	if len(data) < 26 || !bytes.HasPrefix(data, pngSignature) || string(data[12:16]) != "IHDR" {
		return -1
	}
	return int(data[25])
}

// Load reads a sample image from disk. Grey PNGs, with or without alpha,
// are rejected with ErrUnsupported.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening sample image: %w", err)
	}

	switch ct := pngColorType(data); ct {
	case pngGrey, pngGreyAlpha:
		return nil, fmt.Errorf("%s: %w (PNG colour type %d)", path, ErrUnsupported, ct)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	p, err := FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("%s (%s): %w", path, format, err)
	}
	return p, nil
}

// FromImage copies a decoded image into a profile. Greyscale and CMYK
// images are rejected; grey+alpha decodes to NRGBA and is only caught by
// Load. 16-bit channels are reduced to their high byte and palettes are
// expanded.
func FromImage(img image.Image) (*Profile, error) {
	hasAlpha := false
	switch src := img.(type) {
	case *image.RGBA, *image.RGBA64:
	case *image.NRGBA, *image.NRGBA64:
		hasAlpha = true
	case *image.Paletted:
		hasAlpha = !src.Opaque()
	default:
		return nil, fmt.Errorf("%w (got %T)", ErrUnsupported, img)
	}

	b := img.Bounds()
	if b.Empty() {
		return nil, errors.New("sample image is empty")
	}

	p := New(b.Dx(), b.Dy())
	p.HasAlpha = hasAlpha

	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < p.Height; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := 0; x < p.Width; x++ {
				p.set(x, y, row[x*4], row[x*4+1], row[x*4+2])
			}
		}
		return p, nil
	}

	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			p.set(x, y, c.R, c.G, c.B)
		}
	}
	return p, nil
}

// Red returns the red byte at (x, y). Coordinates outside the image are
// clamped to the nearest edge texel and reported with clamped == true.
func (p *Profile) Red(x, y int) (v byte, clamped bool) {
	if x < 0 {
		x, clamped = 0, true
	} else if x >= p.Width {
		x, clamped = p.Width-1, true
	}
	if y < 0 {
		y, clamped = 0, true
	} else if y >= p.Height {
		y, clamped = p.Height-1, true
	}
	return p.Pix[y*p.Stride+x*BytesPerTexel], clamped
}

func (p *Profile) set(x, y int, r, g, b byte) {
	i := y*p.Stride + x*BytesPerTexel
	p.Pix[i] = r
	p.Pix[i+1] = g
	p.Pix[i+2] = b
}

// alignStride rounds a row length up to a 4-byte boundary.
func alignStride(n int) int {
	if n&0x03 != 0 {
		n += 4 - (n & 0x03)
	}
	return n
}
