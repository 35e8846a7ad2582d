// Package render holds what the map renderers share.
package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/mpapenbr/minisector-dominance/pkg/model"
)

// LegendEntry maps a winner code to the driver it stands for.
type LegendEntry struct {
	Code   int
	Driver model.DriverID
}

// Winter samples the "winter" colormap (blue to spring green) at n points.
func Winter(n int) []color.RGBA {
	if n < 1 {
		return nil
	}
	ret := make([]color.RGBA, n)
	for i := range ret {
		f := 0.0
		if n > 1 {
			f = float64(i) / float64(n-1)
		}
		ret[i] = color.RGBA{
			R: 0,
			G: uint8(math.Round(255 * f)),
			B: uint8(math.Round(255 * (1 - f/2))),
			A: 255,
		}
	}
	return ret
}

// CodeColor returns the color of a winner code (1-based) on a scale with n entries.
func CodeColor(code, n int) color.RGBA {
	scale := Winter(n)
	idx := min(max(code-1, 0), len(scale)-1)
	return scale[idx]
}

// Hex formats c as #rrggbb
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Bounds returns the bounding box of all segment points.
func Bounds(segments []model.PathSegment) (minP, maxP model.Point) {
	minP = model.Point{X: math.Inf(1), Y: math.Inf(1)}
	maxP = model.Point{X: math.Inf(-1), Y: math.Inf(-1)}
	for i := range segments {
		for _, p := range []model.Point{segments[i].From, segments[i].To} {
			minP.X, minP.Y = math.Min(minP.X, p.X), math.Min(minP.Y, p.Y)
			maxP.X, maxP.Y = math.Max(maxP.X, p.X), math.Max(maxP.Y, p.Y)
		}
	}
	return minP, maxP
}

// EqualAspect widens the smaller side of the box around its center so that
// width/height equals aspect. One data unit then has the same length on both axes.
func EqualAspect(minP, maxP model.Point, aspect float64) (model.Point, model.Point) {
	w, h := maxP.X-minP.X, maxP.Y-minP.Y
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	cx, cy := (minP.X+maxP.X)/2, (minP.Y+maxP.Y)/2
	if w/h < aspect {
		w = h * aspect
	} else {
		h = w / aspect
	}
	return model.Point{X: cx - w/2, Y: cy - h/2}, model.Point{X: cx + w/2, Y: cy + h/2}
}
