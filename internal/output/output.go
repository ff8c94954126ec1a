// Package output writes generated cubemap sets and their companion files.
package output

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/Faultbox/earthlike/internal/bump"
	"github.com/Faultbox/earthlike/internal/config"
	"github.com/Faultbox/earthlike/internal/cubemap"
	"github.com/Faultbox/earthlike/internal/paint"
)

// ConfigFile is the name of the effective config snapshot.
const ConfigFile = "config.yaml"

// Writer writes files into one output directory.
type Writer struct {
	dir string
}

// NewWriter creates a writer for dir. An empty dir means the working directory.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// FaceFilename returns the file name of face f for a prefix, e.g. heightmap3.png.
func FaceFilename(prefix string, f int) string {
	return fmt.Sprintf("%s%d.png", prefix, f)
}

func (w *Writer) path(name string) string {
	if w.dir == "" {
		return name
	}
	return filepath.Join(w.dir, name)
}

func (w *Writer) ensureDir() error {
	if w.dir == "" {
		return nil
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	return nil
}

// FaceImage wraps face f of c as an RGBA image without copying.
func FaceImage(c *paint.Cubemap, f int) *image.RGBA {
	return &image.RGBA{
		Pix:    c.Faces[f],
		Stride: c.Dim * paint.BytesPerPixel,
		Rect:   image.Rect(0, 0, c.Dim, c.Dim),
	}
}

// WriteSet writes the six faces of c as <prefix><f>.png. A failed face does
// not stop the others; all failures are returned together. The paths of the
// files that were written are returned in face order.
func (w *Writer) WriteSet(prefix string, c *paint.Cubemap) ([]string, error) {
	if err := w.ensureDir(); err != nil {
		return nil, err
	}

	var (
		written []string
		errs    error
	)
	for f := 0; f < cubemap.Faces; f++ {
		filename := w.path(FaceFilename(prefix, f))
		if err := writePNG(filename, FaceImage(c, f)); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("face %d: %w", f, err))
			continue
		}
		written = append(written, filename)
	}
	return written, errs
}

// WriteManifest writes the bump manifest CSV as name.
func (w *Writer) WriteManifest(name string, bumps []bump.Bump) (string, error) {
	if err := w.ensureDir(); err != nil {
		return "", err
	}
	filename := w.path(name)

	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	err = bump.WriteManifest(file, bumps)
	err = multierr.Append(err, file.Close())
	if err != nil {
		return "", fmt.Errorf("writing bump manifest: %w", err)
	}
	return filename, nil
}

// WriteConfig saves the effective config as config.yaml.
func (w *Writer) WriteConfig(cfg *config.Config) (string, error) {
	filename := w.path(ConfigFile)
	if err := cfg.SaveTo(filename); err != nil {
		return "", fmt.Errorf("saving config: %w", err)
	}
	return filename, nil
}

func writePNG(filename string, img image.Image) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, file.Close())
	}()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

// ReadFace decodes one face image written by WriteSet.
func ReadFace(filename string) (*image.RGBA, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filename, err)
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			rgba.Set(x, y, img.At(x, y))
		}
	}
	return rgba, nil
}
