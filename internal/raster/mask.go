package raster

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/youruser/eidqr/internal/render"
	"github.com/youruser/eidqr/internal/templates"
)

// kappa places cubic control points so four curves approximate a circle.
const kappa = 0.5522847498

// addRoundedRect appends a closed rounded rectangle to z. A radius of half
// the shorter side gives a circle or a pill.
func addRoundedRect(z *vector.Rasterizer, x, y, w, h, r float64) {
	if w <= 0 || h <= 0 {
		return
	}
	r = math.Max(0, math.Min(r, math.Min(w, h)/2))
	f := func(v float64) float32 { return float32(v) }

	if r == 0 {
		z.MoveTo(f(x), f(y))
		z.LineTo(f(x+w), f(y))
		z.LineTo(f(x+w), f(y+h))
		z.LineTo(f(x), f(y+h))
		z.ClosePath()
		return
	}

	c := r * (1 - kappa)
	z.MoveTo(f(x+r), f(y))
	z.LineTo(f(x+w-r), f(y))
	z.CubeTo(f(x+w-c), f(y), f(x+w), f(y+c), f(x+w), f(y+r))
	z.LineTo(f(x+w), f(y+h-r))
	z.CubeTo(f(x+w), f(y+h-c), f(x+w-c), f(y+h), f(x+w-r), f(y+h))
	z.LineTo(f(x+r), f(y+h))
	z.CubeTo(f(x+c), f(y+h), f(x), f(y+h-c), f(x), f(y+h-r))
	z.LineTo(f(x), f(y+r))
	z.CubeTo(f(x), f(y+c), f(x+c), f(y), f(x+r), f(y))
	z.ClosePath()
}

// rasterMask runs build on a fresh rasterizer the size of bounds and
// returns the anti-aliased coverage.
func rasterMask(bounds image.Rectangle, build func(z *vector.Rasterizer)) *image.Alpha {
	m := image.NewAlpha(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	build(z)
	z.Draw(m, m.Bounds(), image.Opaque, image.Point{})
	return m
}

func roundedMask(bounds image.Rectangle, x, y, w, h, r float64) *image.Alpha {
	return rasterMask(bounds, func(z *vector.Rasterizer) {
		addRoundedRect(z, x, y, w, h, r)
	})
}

// cutOut removes hole from m.
func cutOut(m, hole *image.Alpha) {
	draw.DrawMask(m, m.Bounds(), image.Transparent, image.Point{}, hole, image.Point{}, draw.Src)
}

// intersect returns the coverage shared by a and b.
func intersect(a, b *image.Alpha) *image.Alpha {
	out := image.NewAlpha(a.Bounds())
	draw.DrawMask(out, out.Bounds(), a, image.Point{}, b, image.Point{}, draw.Src)
	return out
}

// dashMask covers on-length segments of every period along the four edges
// of bounds, each segment bw deep. With round set the segments are dots.
func dashMask(bounds image.Rectangle, bw, on, period float64, round bool) *image.Alpha {
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	r := 0.0
	if round {
		r = bw / 2
	}
	return rasterMask(bounds, func(z *vector.Rasterizer) {
		for x := 0.0; x < w; x += period {
			addRoundedRect(z, x, 0, on, bw, r)
			addRoundedRect(z, x, h-bw, on, bw, r)
		}
		for y := 0.0; y < h; y += period {
			addRoundedRect(z, 0, y, bw, on, r)
			addRoundedRect(z, w-bw, y, bw, on, r)
		}
	})
}

// pictureMask returns the clip for a w×h picture tile, or nil when the
// picture is unmasked.
func pictureMask(p render.Picture, w, h int, k float64) *image.Alpha {
	bounds := image.Rect(0, 0, w, h)
	switch p.Mask {
	case templates.MaskCircle:
		d := math.Min(float64(w), float64(h))
		return roundedMask(bounds, (float64(w)-d)/2, (float64(h)-d)/2, d, d, d/2)
	case templates.MaskRounded:
		return roundedMask(bounds, 0, 0, float64(w), float64(h), p.Radius*k)
	}
	return nil
}
