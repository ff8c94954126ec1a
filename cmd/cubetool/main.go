// cubetool is a CLI utility for inspecting generated cubemap sets, bump
// manifests and sample profile images.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Faultbox/earthlike/internal/bump"
	"github.com/Faultbox/earthlike/internal/config"
	"github.com/Faultbox/earthlike/internal/cubemap"
	"github.com/Faultbox/earthlike/internal/output"
	"github.com/Faultbox/earthlike/internal/profile"
)

// counts are printed with digit grouping, e.g. 98,321 bumps.
var printer = message.NewPrinter(language.English)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "bumps":
		cmdBumps(args)
	case "profile":
		cmdProfile(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`cubetool - earthlike output inspection utility

Usage:
  cubetool <command> [options]

Commands:
  info [-height prefix] [-normal prefix] <dir>  Show faces of a generated set
  bumps <bumps.csv>                             Summarize a bump manifest
  profile <image>                               Show sample profile details

Examples:
  cubetool info ./out
  cubetool bumps ./out/bumps.csv
  cubetool profile heightdata.png`)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// faceStats describes one face image of a height set.
type faceStats struct {
	Width, Height int
	LandFraction  float64
	MinGrey       uint8
	MaxGrey       uint8
	MeanGrey      float64
}

// summarizeFace reads a height face and separates water pixels, which carry
// the water color, from grey land pixels.
func summarizeFace(path string, water [3]uint8) (faceStats, error) {
	img, err := output.ReadFace(path)
	if err != nil {
		return faceStats{}, err
	}
	b := img.Bounds()
	s := faceStats{Width: b.Dx(), Height: b.Dy(), MinGrey: 255}

	var greys []float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			if c.R == water[0] && c.G == water[1] && c.B == water[2] {
				continue
			}
			greys = append(greys, float64(c.R))
			s.MinGrey = min(s.MinGrey, c.R)
			s.MaxGrey = max(s.MaxGrey, c.R)
		}
	}
	if total := s.Width * s.Height; total > 0 {
		s.LandFraction = float64(len(greys)) / float64(total)
	}
	if len(greys) == 0 {
		s.MinGrey = 0
		return s, nil
	}
	s.MeanGrey = stat.Mean(greys, nil)
	return s, nil
}

func cmdInfo(args []string) {
	defaults := config.Default()
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	heightPrefix := fs.String("height", defaults.Output.HeightPrefix, "Height map file prefix")
	normalPrefix := fs.String("normal", defaults.Output.NormalPrefix, "Normal map file prefix")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: cubetool info [-height prefix] [-normal prefix] <dir>")
		os.Exit(1)
	}
	dir := fs.Arg(0)
	water := defaults.Paint.WaterColor

	fmt.Printf("Directory: %s\n", dir)
	fmt.Println()
	fmt.Println("Height faces:")
	missing := 0
	for f := 0; f < cubemap.Faces; f++ {
		name := output.FaceFilename(*heightPrefix, f)
		s, err := summarizeFace(filepath.Join(dir, name), water)
		if err != nil {
			fmt.Printf("  %-16s %v\n", name, err)
			missing++
			continue
		}
		fmt.Printf("  %-16s %dx%d  land %5.1f%%  grey %3d..%3d  mean %6.1f\n",
			name, s.Width, s.Height, s.LandFraction*100, s.MinGrey, s.MaxGrey, s.MeanGrey)
	}

	fmt.Println()
	fmt.Println("Normal faces:")
	for f := 0; f < cubemap.Faces; f++ {
		name := output.FaceFilename(*normalPrefix, f)
		img, err := output.ReadFace(filepath.Join(dir, name))
		if err != nil {
			fmt.Printf("  %-16s %v\n", name, err)
			missing++
			continue
		}
		fmt.Printf("  %-16s %dx%d\n", name, img.Bounds().Dx(), img.Bounds().Dy())
	}

	if snapshot := filepath.Join(dir, output.ConfigFile); fileExists(snapshot) {
		fmt.Println()
		fmt.Printf("Config snapshot: %s\n", snapshot)
	}
	if missing > 0 {
		os.Exit(1)
	}
}

// bumpSummary aggregates a bump manifest.
type bumpSummary struct {
	Count        int
	MinRadius    float64
	MaxRadius    float64
	MeanRadius   float64
	StdDevRadius float64
	MinHeight    float64
	MaxHeight    float64
	MeanHeight   float64
}

func summarizeBumps(recs []bump.Record) bumpSummary {
	s := bumpSummary{Count: len(recs)}
	if len(recs) == 0 {
		return s
	}
	radii := make([]float64, len(recs))
	heights := make([]float64, len(recs))
	for i, r := range recs {
		radii[i] = float64(r.Radius)
		heights[i] = float64(r.Height)
	}
	s.MinRadius, s.MaxRadius = floats.Min(radii), floats.Max(radii)
	s.MeanRadius, s.StdDevRadius = stat.MeanStdDev(radii, nil)
	s.MinHeight, s.MaxHeight = floats.Min(heights), floats.Max(heights)
	s.MeanHeight = stat.Mean(heights, nil)
	return s
}

func cmdBumps(args []string) {
	fs := flag.NewFlagSet("bumps", flag.ExitOnError)
	top := fs.Int("n", 5, "Show the N largest bumps (0 = none)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: cubetool bumps [-n N] <bumps.csv>")
		os.Exit(1)
	}

	file, err := os.Open(fs.Arg(0))
	if err != nil {
		fail(err)
	}
	defer file.Close()

	recs, err := bump.ReadManifest(file)
	if err != nil {
		fail(err)
	}
	s := summarizeBumps(recs)

	fmt.Printf("Manifest: %s\n", fs.Arg(0))
	printer.Printf("Bumps:    %d\n", s.Count)
	if s.Count == 0 {
		return
	}
	fmt.Printf("Radius:   %.4f..%.4f  mean %.4f  stddev %.4f\n", s.MinRadius, s.MaxRadius, s.MeanRadius, s.StdDevRadius)
	fmt.Printf("Height:   %.4f..%.4f  mean %.4f\n", s.MinHeight, s.MaxHeight, s.MeanHeight)

	if *top > 0 {
		sort.SliceStable(recs, func(i, j int) bool {
			return recs[i].Radius > recs[j].Radius
		})
		fmt.Println()
		fmt.Println("Largest bumps:")
		for _, r := range recs[:min(*top, len(recs))] {
			fmt.Printf("  #%-6d r=%.4f h=%.4f at (%.3f, %.3f, %.3f)\n", r.Index, r.Radius, r.Height, r.X, r.Y, r.Z)
		}
	}
}

func cmdProfile(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: cubetool profile <image>")
		os.Exit(1)
	}

	prof, err := profile.Load(args[0])
	if err != nil {
		fail(err)
	}

	reds := make([]float64, 0, prof.Width*prof.Height)
	for y := 0; y < prof.Height; y++ {
		for x := 0; x < prof.Width; x++ {
			v, _ := prof.Red(x, y)
			reds = append(reds, float64(v))
		}
	}

	fmt.Printf("Image:  %s\n", args[0])
	fmt.Printf("Size:   %dx%d (%s texels)\n", prof.Width, prof.Height, printer.Sprint(prof.Width*prof.Height))
	fmt.Printf("Stride: %d bytes\n", prof.Stride)
	fmt.Printf("Alpha:  %v\n", prof.HasAlpha)
	if len(reds) == 0 {
		return
	}
	mean, std := stat.MeanStdDev(reds, nil)
	fmt.Printf("Red:    %.0f..%.0f  mean %.1f  stddev %.1f\n", floats.Min(reds), floats.Max(reds), mean, std)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
