// Package cubemap maps six square face grids onto the unit sphere and holds
// the per-vertex positions that the bump renderer deforms.
package cubemap

import (
	"fmt"

	"github.com/Faultbox/earthlike/pkg/math"
)

// Faces is the number of cube faces.
const Faces = 6

// FacePointToDirection converts cubemap coordinates to a point on the unit
// sphere. (i, j) are mapped linearly onto a cube of half-extent 0.5 and the
// result is normalized. Faces are +Z, +X, -Z, -X, +Y, -Y in that order; i runs
// left to right and j top to bottom as seen from outside the cube.
func FacePointToDirection(face, i, j, dim int) math.Vec3 {
	a := float32(i-dim/2) / float32(dim)
	b := float32(j-dim/2) / float32(dim)

	var v math.Vec3
	switch face {
	case 0:
		v = math.Vec3{X: a, Y: -b, Z: 0.5}
	case 1:
		v = math.Vec3{X: 0.5, Y: -b, Z: -a}
	case 2:
		v = math.Vec3{X: -a, Y: -b, Z: -0.5}
	case 3:
		v = math.Vec3{X: -0.5, Y: -b, Z: a}
	case 4:
		v = math.Vec3{X: a, Y: 0.5, Z: b}
	case 5:
		v = math.Vec3{X: a, Y: -0.5, Z: -b}
	default:
		return math.Vec3{}
	}
	return v.Normalize()
}

// Grid holds the current position of every vertex of a cubemap.
// Each face is stored contiguously, indexed by i*Dim + j.
type Grid struct {
	Dim   int
	faces [Faces][]math.Vec3
}

// NewGrid allocates a grid of dim x dim vertices per face, initialized to the
// unit sphere.
func NewGrid(dim int) (*Grid, error) {
	if dim < 2 {
		return nil, fmt.Errorf("cubemap dimension must be at least 2, got %d", dim)
	}
	g := &Grid{Dim: dim}
	for f := range g.faces {
		g.faces[f] = make([]math.Vec3, dim*dim)
	}
	g.Initialize()
	return g, nil
}

// Initialize resets every vertex to its undistorted sphere position.
func (g *Grid) Initialize() {
	for f := 0; f < Faces; f++ {
		g.InitializeFace(f)
	}
}

// InitializeFace resets one face to its undistorted sphere position.
func (g *Grid) InitializeFace(f int) {
	face := g.faces[f]
	for i := 0; i < g.Dim; i++ {
		row := face[i*g.Dim : (i+1)*g.Dim]
		for j := range row {
			row[j] = FacePointToDirection(f, i, j, g.Dim)
		}
	}
}

// Face returns the vertex slice of face f. Callers that write to it must own
// the face exclusively.
func (g *Grid) Face(f int) []math.Vec3 {
	return g.faces[f]
}

// At returns the current position of vertex (f, i, j).
func (g *Grid) At(f, i, j int) math.Vec3 {
	return g.faces[f][i*g.Dim+j]
}

// Set overwrites vertex (f, i, j).
func (g *Grid) Set(f, i, j int, v math.Vec3) {
	g.faces[f][i*g.Dim+j] = v
}

// Base returns the undistorted sphere direction of vertex (f, i, j).
func (g *Grid) Base(f, i, j int) math.Vec3 {
	return FacePointToDirection(f, i, j, g.Dim)
}

// Magnitude returns the distance of vertex (f, i, j) from the center.
func (g *Grid) Magnitude(f, i, j int) float32 {
	return g.faces[f][i*g.Dim+j].Length()
}
