package cubemap

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// flatSpan is the largest height range still treated as a flat sphere.
// Normalizing float32 unit vectors leaves magnitudes a few ulps apart.
const flatSpan = 1e-5

// NormalizeHeight maps magnitude h into [0, 1] relative to the grid extrema.
// A flat grid has no range to normalize against and is all at the top, so
// a pristine unit sphere normalizes to 1.
func NormalizeHeight(h, min, max float32) float32 {
	span := max - min
	if span <= flatSpan {
		return 1
	}
	return (h - min) / span
}

// MinMaxHeight returns the smallest and largest vertex magnitude over all
// faces.
func (g *Grid) MinMaxHeight() (min, max float32) {
	min = 1e6
	max = 0
	for f := 0; f < Faces; f++ {
		for _, v := range g.faces[f] {
			h := v.Length()
			if h < min {
				min = h
			}
			if h > max {
				max = h
			}
		}
	}
	return min, max
}

// HeightStats summarizes the vertex magnitudes of a grid.
type HeightStats struct {
	Min, Max     float64
	Mean, StdDev float64
	// LandFraction is the share of vertices whose normalized height lies
	// above the sea level passed to Grid.HeightStats.
	LandFraction float64
}

// HeightStats computes magnitude statistics across all faces. The land
// fraction uses NormalizeHeight, as the painter does.
func (g *Grid) HeightStats(seaLevel float32) HeightStats {
	heights := make([]float64, 0, Faces*g.Dim*g.Dim)
	for f := 0; f < Faces; f++ {
		for _, v := range g.faces[f] {
			heights = append(heights, float64(v.Length()))
		}
	}

	s := HeightStats{
		Min: floats.Min(heights),
		Max: floats.Max(heights),
	}
	s.Mean, s.StdDev = stat.MeanStdDev(heights, nil)

	land := 0
	for _, h := range heights {
		if NormalizeHeight(float32(h), float32(s.Min), float32(s.Max)) > seaLevel {
			land++
		}
	}
	s.LandFraction = float64(land) / float64(len(heights))
	return s
}
