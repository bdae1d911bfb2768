// Package raster paints a render.Scene into a pixel buffer.
//
// Rasterizer is the single capability the export pipeline depends on. Two
// backends implement it: "gg" draws with the gogpu/gg vector context, and
// "imaging" composites with disintegration/imaging over x/image/vector masks.
// Both produce the same geometry because they read the same scene.
package raster

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/youruser/eidqr/internal/fonts"
	"github.com/youruser/eidqr/internal/render"
)

// Options control one rasterization.
type Options struct {
	// Scale multiplies the logical card size. Exports use 2.
	Scale float64
	// Background replaces transparent regions. Nil means opaque white.
	Background color.Color
	// SuppressBorder skips nodes with render.RoleBorder.
	SuppressBorder bool
}

// DefaultOptions returns the export defaults: 2x over white, no border.
func DefaultOptions() Options {
	return Options{Scale: 2, Background: color.White, SuppressBorder: true}
}

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.Background == nil {
		o.Background = color.White
	}
	return o
}

// Rasterizer turns a scene into pixels.
type Rasterizer interface {
	Name() string
	Rasterize(ctx context.Context, scene render.Scene, opts Options) (*image.NRGBA, error)
}

// New returns the backend called name ("gg" or "imaging").
func New(name string, lib *fonts.Library) (Rasterizer, error) {
	switch name {
	case "", "gg":
		return NewGG(lib), nil
	case "imaging":
		return NewCompositor(lib), nil
	default:
		return nil, fmt.Errorf("unknown raster backend %q", name)
	}
}

// PixelSize returns the raster dimensions of scene at scale.
func PixelSize(scene render.Scene, scale float64) (int, int) {
	return int(math.Round(scene.Width * scale)), int(math.Round(scene.Height * scale))
}

func pixelRect(r render.Rect, k float64) image.Rectangle {
	x0 := int(math.Round(r.X * k))
	y0 := int(math.Round(r.Y * k))
	x1 := int(math.Round((r.X + r.W) * k))
	y1 := int(math.Round((r.Y + r.H) * k))
	return image.Rect(x0, y0, x1, y1)
}

// skip reports whether it should be left out under opts.
func skip(it render.Item, opts Options) bool {
	return opts.SuppressBorder && it.Role == render.RoleBorder
}

// flatten composites img over an opaque background so the result has no
// transparent pixels.
func flatten(img image.Image, bg color.Color) *image.NRGBA {
	b := img.Bounds()
	base := imaging.New(b.Dx(), b.Dy(), bg)
	out := imaging.Overlay(base, img, image.Pt(0, 0), 1.0)
	if _, _, _, a := bg.RGBA(); a == 0xffff {
		// Overlay rounds alpha; an opaque base must stay fully opaque.
		for i := 3; i < len(out.Pix); i += 4 {
			out.Pix[i] = 0xff
		}
	}
	return out
}

// preparePicture scales src into a w×h tile according to p.Fit. The tile is
// transparent outside the fitted image; backends apply p.Mask themselves.
func preparePicture(p render.Picture, w, h int) *image.NRGBA {
	if w <= 0 || h <= 0 || p.Src == nil {
		return imaging.New(1, 1, color.Transparent)
	}

	switch p.Fit {
	case render.FitContain:
		sb := p.Src.Bounds()
		ratio := math.Min(float64(w)/float64(sb.Dx()), float64(h)/float64(sb.Dy()))
		fw := max(1, int(math.Round(float64(sb.Dx())*ratio)))
		fh := max(1, int(math.Round(float64(sb.Dy())*ratio)))
		filter := imaging.Lanczos
		if ratio > 1 {
			// keep QR modules crisp when enlarging
			filter = imaging.NearestNeighbor
		}
		fitted := imaging.Resize(p.Src, fw, fh, filter)
		return imaging.PasteCenter(imaging.New(w, h, color.Transparent), fitted)
	default:
		return imaging.Fill(p.Src, w, h, imaging.Center, imaging.Lanczos)
	}
}
