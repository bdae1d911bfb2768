package raster

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"

	"github.com/youruser/eidqr/internal/fonts"
	"github.com/youruser/eidqr/internal/render"
	"github.com/youruser/eidqr/internal/templates"
)

// GG is the gogpu/gg backend. Coordinates are multiplied by the scale
// before drawing because gg places text in device space.
type GG struct {
	fonts *fonts.Library
}

// NewGG returns a gg backend drawing text from lib.
func NewGG(lib *fonts.Library) *GG {
	return &GG{fonts: lib}
}

func (g *GG) Name() string { return "gg" }

// Rasterize paints scene at opts.Scale.
func (g *GG) Rasterize(ctx context.Context, scene render.Scene, opts Options) (*image.NRGBA, error) {
	opts = opts.withDefaults()
	k := opts.Scale
	w, h := PixelSize(scene, k)

	dc := gg.NewContext(w, h)
	defer dc.Close()
	dc.ClearWithColor(gg.RGBA{})

	for _, it := range scene.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if skip(it, opts) {
			continue
		}

		var err error
		switch n := it.Node.(type) {
		case render.Box:
			err = g.box(dc, n, k)
		case render.Circle:
			dc.DrawCircle(n.CX*k, n.CY*k, n.R*k)
			setColor(dc, n.Fill)
			err = dc.Fill()
		case render.Picture:
			g.picture(dc, n, k)
		case render.Label:
			g.label(dc, n, k)
		case render.Frame:
			err = g.frame(dc, n, float64(w), float64(h), k)
		}
		if err != nil {
			return nil, fmt.Errorf("draw %T: %w", it.Node, err)
		}
	}

	return flatten(dc.Image(), opts.Background), nil
}

// setColor sets a straight-alpha source color.
func setColor(dc *gg.Context, c color.NRGBA) {
	dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)
}

func (g *GG) box(dc *gg.Context, b render.Box, k float64) error {
	x, y, w, h, r := b.Rect.X*k, b.Rect.Y*k, b.Rect.W*k, b.Rect.H*k, b.Radius*k
	if b.Fill.A != 0 {
		roundedPath(dc, x, y, w, h, r)
		setColor(dc, b.Fill)
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	if b.StrokeWidth > 0 && b.Stroke.A != 0 {
		sw := b.StrokeWidth * k
		roundedPath(dc, x+sw/2, y+sw/2, w-sw, h-sw, math.Max(r-sw/2, 0))
		dc.SetLineWidth(sw)
		setColor(dc, b.Stroke)
		if err := dc.Stroke(); err != nil {
			return err
		}
	}
	return nil
}

func roundedPath(dc *gg.Context, x, y, w, h, r float64) {
	if r <= 0 {
		dc.DrawRectangle(x, y, w, h)
		return
	}
	dc.DrawRoundedRectangle(x, y, w, h, r)
}

func (g *GG) picture(dc *gg.Context, p render.Picture, k float64) {
	r := pixelRect(p.Rect, k)
	tile := preparePicture(p, r.Dx(), r.Dy())
	x, y, w, h := float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy())

	dc.Push()
	defer dc.Pop()
	switch p.Mask {
	case templates.MaskCircle:
		dc.DrawCircle(x+w/2, y+h/2, math.Min(w, h)/2)
		dc.Clip()
	case templates.MaskRounded:
		dc.ClipRoundRect(x, y, w, h, p.Radius*k)
	}
	dc.DrawImageEx(gg.ImageBufFromImage(tile), gg.DrawImageOptions{
		X:             x,
		Y:             y,
		DstWidth:      w,
		DstHeight:     h,
		Interpolation: gg.InterpBilinear,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})
}

func (g *GG) label(dc *gg.Context, l render.Label, k float64) {
	src := g.fonts.Source(l.Style)
	size := l.Size * k
	face := src.Face(size)
	dc.SetFont(face)
	if l.MaxWidth > 0 {
		limit := l.MaxWidth * k
		for size > 6 {
			if w, _ := dc.MeasureString(l.Text); w <= limit {
				break
			}
			size *= 0.92
			face = src.Face(size)
			dc.SetFont(face)
		}
	}

	m := face.Metrics()
	baseline := l.Y*k - (m.Ascent+m.Descent)*l.AnchorY + m.Ascent
	setColor(dc, l.Color)
	dc.DrawStringAnchored(l.Text, l.X*k, baseline, l.AnchorX, 0)
}

func (g *GG) frame(dc *gg.Context, f render.Frame, w, h, k float64) error {
	if f.Style == templates.BorderNone || f.Width <= 0 {
		return nil
	}
	bw := f.Width * k
	r := f.Radius * k
	setColor(dc, f.Color)

	// stroke is centered on the path, so inset by half the line width
	stroke := func(width, inset float64) error {
		roundedPath(dc, inset, inset, w-2*inset, h-2*inset, math.Max(r-inset, 0))
		dc.SetLineWidth(width)
		return dc.Stroke()
	}

	switch f.Style {
	case templates.BorderDashed:
		dc.SetDash(3*bw, 2*bw)
		defer dc.ClearDash()
		return stroke(bw, bw/2)
	case templates.BorderDotted:
		dc.SetLineCap(gg.LineCapRound)
		dc.SetDash(bw*0.01, bw*1.99)
		defer func() {
			dc.ClearDash()
			dc.SetLineCap(gg.LineCapButt)
		}()
		return stroke(bw, bw/2)
	case templates.BorderDouble:
		third := bw / 3
		if err := stroke(third, third/2); err != nil {
			return err
		}
		return stroke(third, bw-third/2)
	default:
		return stroke(bw, bw/2)
	}
}
