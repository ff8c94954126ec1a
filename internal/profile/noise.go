package profile

import (
	"github.com/ojrac/opensimplex-go"
)

// noiseOctaves is the number of summed noise layers; each halves the
// wavelength and amplitude of the previous one.
const noiseOctaves = 4

// Noise generates a greyscale profile from fractal opensimplex noise. It
// stands in for a sample image when none is available. scale is the
// frequency of the base octave in cycles per texel.
func Noise(width, height int, seed int64, scale float64) *Profile {
	src := opensimplex.New(seed)
	p := New(width, height)

	var norm float64
	for o, amp := 0, 1.0; o < noiseOctaves; o, amp = o+1, amp/2 {
		norm += amp
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64
			freq, amp := scale, 1.0
			for o := 0; o < noiseOctaves; o++ {
				sum += amp * src.Eval2(float64(x)*freq, float64(y)*freq)
				freq *= 2
				amp /= 2
			}
			// Eval2 is in [-1, 1]
			v := (sum/norm + 1) / 2
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			c := uint8(v * 255)
			p.set(x, y, c, c, c)
		}
	}
	return p
}
