package bump

import (
	"io"

	"github.com/gocarina/gocsv"
)

// Record is one row of a bump manifest CSV.
type Record struct {
	Index      int     `csv:"index"`
	X          float32 `csv:"x"`
	Y          float32 `csv:"y"`
	Z          float32 `csv:"z"`
	Radius     float32 `csv:"radius"`
	Height     float32 `csv:"height"`
	TexelX     int     `csv:"texel_x"`
	TexelY     int     `csv:"texel_y"`
	TexelScale float32 `csv:"texel_scale"`
	PoseX      float32 `csv:"pose_x"`
	PoseY      float32 `csv:"pose_y"`
	PoseZ      float32 `csv:"pose_z"`
	PoseW      float32 `csv:"pose_w"`
}

// Records converts bumps to manifest rows in generation order.
func Records(bumps []Bump) []Record {
	recs := make([]Record, len(bumps))
	for i, b := range bumps {
		recs[i] = Record{
			Index:      i,
			X:          b.Position.X,
			Y:          b.Position.Y,
			Z:          b.Position.Z,
			Radius:     b.Radius,
			Height:     b.Height,
			TexelX:     b.TexelX,
			TexelY:     b.TexelY,
			TexelScale: b.TexelScale,
			PoseX:      b.Pose.X,
			PoseY:      b.Pose.Y,
			PoseZ:      b.Pose.Z,
			PoseW:      b.Pose.W,
		}
	}
	return recs
}

// WriteManifest writes bumps as CSV with a header row.
func WriteManifest(w io.Writer, bumps []Bump) error {
	recs := Records(bumps)
	return gocsv.Marshal(&recs, w)
}

// ReadManifest parses a CSV written by WriteManifest.
func ReadManifest(r io.Reader) ([]Record, error) {
	var recs []Record
	if err := gocsv.Unmarshal(r, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
