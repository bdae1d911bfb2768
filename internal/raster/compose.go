package raster

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/youruser/eidqr/internal/fonts"
	"github.com/youruser/eidqr/internal/render"
	"github.com/youruser/eidqr/internal/templates"
)

// Compositor is the imaging backend. It pastes pictures with
// disintegration/imaging, fills shapes through x/image/vector masks and
// draws text with x/image/font.
type Compositor struct {
	fonts *fonts.Library
	// opentype faces keep per-face scratch buffers, so text drawing is serialized.
	mu sync.Mutex
}

// NewCompositor returns an imaging backend drawing text from lib.
func NewCompositor(lib *fonts.Library) *Compositor {
	return &Compositor{fonts: lib}
}

func (c *Compositor) Name() string { return "imaging" }

// Rasterize paints scene at opts.Scale.
func (c *Compositor) Rasterize(ctx context.Context, scene render.Scene, opts Options) (*image.NRGBA, error) {
	opts = opts.withDefaults()
	k := opts.Scale
	w, h := PixelSize(scene, k)

	c.mu.Lock()
	defer c.mu.Unlock()

	canvas := imaging.New(w, h, color.Transparent)
	for _, it := range scene.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if skip(it, opts) {
			continue
		}

		switch n := it.Node.(type) {
		case render.Box:
			c.box(canvas, n, k)
		case render.Circle:
			r := n.R * k
			c.fill(canvas, roundedMask(canvas.Bounds(), n.CX*k-r, n.CY*k-r, 2*r, 2*r, r), n.Fill)
		case render.Picture:
			r := pixelRect(n.Rect, k)
			tile := preparePicture(n, r.Dx(), r.Dy())
			if m := pictureMask(n, r.Dx(), r.Dy(), k); m != nil {
				draw.DrawMask(canvas, r, tile, image.Point{}, m, image.Point{}, draw.Over)
				continue
			}
			canvas = imaging.Overlay(canvas, tile, r.Min, 1.0)
		case render.Label:
			if err := c.label(canvas, n, k); err != nil {
				return nil, err
			}
		case render.Frame:
			if n.Width > 0 {
				c.frame(canvas, n, k)
			}
		}
	}

	return flatten(canvas, opts.Background), nil
}

func (c *Compositor) fill(dst *image.NRGBA, mask *image.Alpha, col color.NRGBA) {
	if col.A == 0 {
		return
	}
	draw.DrawMask(dst, dst.Bounds(), image.NewUniform(col), image.Point{}, mask, image.Point{}, draw.Over)
}

func (c *Compositor) box(dst *image.NRGBA, b render.Box, k float64) {
	bounds := dst.Bounds()
	x, y, w, h, r := b.Rect.X*k, b.Rect.Y*k, b.Rect.W*k, b.Rect.H*k, b.Radius*k
	switch {
	case b.Fill.A == 0:
	case b.Radius == 0:
		draw.Draw(dst, pixelRect(b.Rect, k), image.NewUniform(b.Fill), image.Point{}, draw.Over)
	default:
		c.fill(dst, roundedMask(bounds, x, y, w, h, r), b.Fill)
	}

	if b.StrokeWidth > 0 && b.Stroke.A != 0 {
		sw := b.StrokeWidth * k
		band := roundedMask(bounds, x, y, w, h, r)
		cutOut(band, roundedMask(bounds, x+sw, y+sw, w-2*sw, h-2*sw, math.Max(r-sw, 0)))
		c.fill(dst, band, b.Stroke)
	}
}

func (c *Compositor) frame(dst *image.NRGBA, f render.Frame, k float64) {
	bounds := dst.Bounds()
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	bw := f.Width * k
	r := f.Radius * k
	band := func(from, to float64) *image.Alpha {
		m := roundedMask(bounds, from, from, w-2*from, h-2*from, math.Max(r-from, 0))
		cutOut(m, roundedMask(bounds, to, to, w-2*to, h-2*to, math.Max(r-to, 0)))
		return m
	}

	switch f.Style {
	case templates.BorderNone:
	case templates.BorderDashed:
		c.fill(dst, intersect(band(0, bw), dashMask(bounds, bw, 3*bw, 5*bw, false)), f.Color)
	case templates.BorderDotted:
		c.fill(dst, intersect(band(0, bw), dashMask(bounds, bw, bw, 2*bw, true)), f.Color)
	case templates.BorderDouble:
		third := bw / 3
		c.fill(dst, band(0, third), f.Color)
		c.fill(dst, band(bw-third, bw), f.Color)
	default:
		c.fill(dst, band(0, bw), f.Color)
	}
}

func (c *Compositor) label(dst *image.NRGBA, l render.Label, k float64) error {
	size := l.Size * k
	face, err := c.fonts.Face(l.Style, size)
	if err != nil {
		return err
	}
	width := font.MeasureString(face, l.Text)
	if l.MaxWidth > 0 {
		limit := fixed.Int26_6(l.MaxWidth * k * 64)
		for width > limit && size > 6 {
			size *= 0.92
			if face, err = c.fonts.Face(l.Style, size); err != nil {
				return err
			}
			width = font.MeasureString(face, l.Text)
		}
	}

	m := face.Metrics()
	ascent := float64(m.Ascent) / 64
	height := ascent + float64(m.Descent)/64
	x := l.X*k - float64(width)/64*l.AnchorX
	baseline := l.Y*k - height*l.AnchorY + ascent

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(l.Color),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(baseline * 64)},
	}
	d.DrawString(l.Text)
	return nil
}
