// Package render lays a card out as a Scene: a flat, ordered list of boxes,
// circles, pictures and labels positioned inside a fixed 3:4 card box.
//
// Geometry comes from the selected template's layout descriptor, so the
// preview and every export share the same coordinates regardless of the
// raster size they are painted at.
package render

import (
	"image/color"
	"strconv"

	"github.com/youruser/eidqr/internal/card"
	"github.com/youruser/eidqr/internal/fonts"
	"github.com/youruser/eidqr/internal/templates"
)

// Caption fallbacks shown when the user left a field blank.
const (
	PhonePlaceholder = "+880 1X XXX XXX XX"
	NamePlaceholder  = "Your Name"
)

// EmptyMessage is shown instead of the card when no image is uploaded.
const EmptyMessage = "Upload your profile picture and QR code to see the preview"

// Header copy.
const (
	BrandText    = "bKash"
	TitleText    = "Eid Mubarak"
	SubtitleText = "Taqabbalallahu Minna Wa Minkum"
	BannerText   = "Send Eid Salami with bKash"
)

var (
	colorWhite   = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	colorCanvas  = color.NRGBA{R: 0xF3, G: 0xF4, B: 0xF6, A: 0xFF}
	colorCream   = color.NRGBA{R: 0xFF, G: 0xF8, B: 0xE7, A: 0xFF}
	colorGold    = color.NRGBA{R: 0xD4, G: 0xAF, B: 0x37, A: 0xFF}
	colorGreen   = color.NRGBA{R: 0x04, G: 0x78, B: 0x57, A: 0xFF}
	colorRed     = color.NRGBA{R: 0xB9, G: 0x1C, B: 0x1C, A: 0xFF}
	colorBrand   = color.NRGBA{R: 0xE2, G: 0x13, B: 0x6E, A: 0xFF}
	colorMuted   = color.NRGBA{R: 0x6B, G: 0x72, B: 0x80, A: 0xFF}
	colorDivider = color.NRGBA{R: 0xD1, G: 0xD5, B: 0xDB, A: 0xFF}
)

// alpha returns c with its alpha scaled by a (0..1).
func alpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(float64(c.A)*a + 0.5)
	return c
}

// Renderer lays out card snapshots.
type Renderer struct {
	registry *templates.Registry
}

// New returns a Renderer that falls back to reg's base layout when a
// snapshot has no template selected.
func New(reg *templates.Registry) *Renderer {
	return &Renderer{registry: reg}
}

// Render lays out snap. It is deterministic: equal snapshots produce equal scenes.
func (r *Renderer) Render(snap card.Snapshot) Scene {
	if snap.Empty() {
		return emptyScene()
	}

	layout := snap.Layout(r.registry)
	s := Scene{Width: CardWidth, Height: CardHeight}

	r.background(&s)
	r.header(&s, layout)
	if snap.QR != nil {
		r.qrPanel(&s, layout, snap)
	}
	if snap.Profile != nil {
		r.profile(&s, layout, snap)
	}
	r.caption(&s, layout, snap)
	r.confetti(&s)
	if snap.Template != nil {
		r.frame(&s, layout, *snap.Template)
	}
	return s
}

func emptyScene() Scene {
	s := Scene{Width: CardWidth, Height: CardHeight, Empty: true}
	full := Rect{W: CardWidth, H: CardHeight}
	s.add(Box{Rect: full, Fill: colorWhite})
	s.add(Frame{Width: 2, Radius: 8, Style: templates.BorderDashed, Color: colorDivider})
	s.add(Label{
		X: CardWidth / 2, Y: CardHeight / 2, AnchorX: 0.5, AnchorY: 0.5,
		Text: EmptyMessage, Size: 14, Style: fonts.Regular, Color: colorMuted,
		MaxWidth: CardWidth - 48,
	})
	return s
}

func (r *Renderer) background(s *Scene) {
	full := Rect{W: CardWidth, H: CardHeight}
	s.add(Box{Rect: full, Fill: colorCanvas})
	s.add(Box{Rect: full, Fill: alpha(colorCream, 0.1)})

	// festive corner discs, partly outside the card
	s.add(Circle{CX: CardWidth - 16, CY: 16, R: 48, Fill: alpha(colorGold, 0.1)})
	s.add(Circle{CX: 24, CY: CardHeight - 24, R: 64, Fill: alpha(colorRed, 0.1)})
}

func (r *Renderer) header(s *Scene, l templates.Layout) {
	top := l.HeaderTop * CardWidth
	cx := CardWidth / 2

	pill := Rect{X: cx - 60, Y: top, W: 120, H: 56}
	s.add(Box{Rect: pill, Radius: pill.H / 2, Fill: colorWhite, Stroke: alpha(colorGold, 0.3), StrokeWidth: 1})
	s.add(Label{X: cx, Y: pill.Y + pill.H/2, AnchorX: 0.5, AnchorY: 0.5, Text: BrandText, Size: 24, Style: fonts.Bold, Color: colorBrand})

	titleY := pill.Y + pill.H + 8 + 16
	s.add(Label{X: cx, Y: titleY, AnchorX: 0.5, AnchorY: 0.5, Text: TitleText, Size: 24, Style: fonts.Bold, Color: colorGold})

	subY := titleY + 16 + 4 + 8
	s.add(Label{X: cx, Y: subY, AnchorX: 0.5, AnchorY: 0.5, Text: SubtitleText, Size: 12, Style: fonts.Italic, Color: colorGreen, MaxWidth: CardWidth - 24})

	banner := Rect{X: cx - 100, Y: subY + 8 + 4, W: 200, H: 24}
	s.add(Box{Rect: banner, Radius: banner.H / 2, Fill: colorBrand})
	bx, by := banner.Center()
	s.add(Label{X: bx, Y: by, AnchorX: 0.5, AnchorY: 0.5, Text: BannerText, Size: 12, Style: fonts.Bold, Color: colorWhite, MaxWidth: banner.W - 16})
}

func (r *Renderer) qrPanel(s *Scene, l templates.Layout, snap card.Snapshot) {
	panel := unitRect(l.QR)
	s.add(Box{Rect: panel, Radius: 8, Fill: colorWhite, Stroke: colorBrand, StrokeWidth: 2})
	s.add(Picture{Rect: panel.Inset(l.QRPadding * CardWidth), Src: snap.QR.Image, Fit: FitContain})
}

func (r *Renderer) profile(s *Scene, l templates.Layout, snap card.Snapshot) {
	frame := unitRect(l.Profile)
	const ring = 4

	switch l.ProfileMask {
	case templates.MaskRounded:
		s.add(Box{Rect: frame, Radius: 12, Fill: colorWhite})
		s.add(Picture{Rect: frame.Inset(ring), Src: snap.Profile.Image, Fit: FitCover, Mask: templates.MaskRounded, Radius: 8})
	default:
		cx, cy := frame.Center()
		s.add(Circle{CX: cx, CY: cy, R: frame.W / 2, Fill: colorWhite})
		s.add(Picture{Rect: frame.Inset(ring), Src: snap.Profile.Image, Fit: FitCover, Mask: templates.MaskCircle})
	}
}

func (r *Renderer) caption(s *Scene, l templates.Layout, snap card.Snapshot) {
	box := unitRect(l.Caption)
	s.add(Box{Rect: box, Radius: box.H / 2, Fill: alpha(colorWhite, 0.9), Stroke: alpha(colorGold, 0.3), StrokeWidth: 1})

	phone := snap.PhoneNumber
	if phone == "" {
		phone = PhonePlaceholder
	}
	name := snap.DisplayName
	if name == "" {
		name = NamePlaceholder
	}

	cx := box.X + box.W/2
	maxW := box.W - 32
	s.add(Label{X: cx, Y: box.Y + box.H*0.36, AnchorX: 0.5, AnchorY: 0.5, Text: phone, Size: 18, Style: fonts.Bold, Color: colorBrand, MaxWidth: maxW})
	s.add(Label{X: cx, Y: box.Y + box.H*0.72, AnchorX: 0.5, AnchorY: 0.5, Text: name, Size: 14, Style: fonts.Regular, Color: colorGreen, MaxWidth: maxW})
}

func (r *Renderer) confetti(s *Scene) {
	w, h := CardWidth, CardHeight
	dots := []Circle{
		{CX: w - 46, CY: 112, R: 6, Fill: alpha(colorGold, 0.7)},
		{CX: w - 29, CY: 117, R: 4, Fill: alpha(colorGold, 0.6)},
		{CX: w - 52, CY: 164, R: 4, Fill: alpha(colorGreen, 0.4)},
		{CX: w - 27, CY: 195, R: 3, Fill: alpha(colorRed, 0.3)},
		{CX: w - 60, CY: 210, R: 2, Fill: alpha(colorGold, 0.5)},
		{CX: 28, CY: h - 132, R: 4, Fill: alpha(colorGold, 0.4)},
		{CX: 42, CY: h - 114, R: 2, Fill: alpha(colorRed, 0.3)},
		{CX: 20, CY: 92, R: 6, Fill: alpha(colorRed, 0.8)},
	}
	for _, d := range dots {
		s.add(d)
	}
}

func (r *Renderer) frame(s *Scene, l templates.Layout, v templates.Variant) {
	if v.BorderStyle == templates.BorderNone || l.Border <= 0 {
		return
	}
	s.Items = append(s.Items, Item{
		Node: Frame{Width: l.Border * CardWidth, Radius: 8, Style: v.BorderStyle, Color: ParseHex(v.BorderColor)},
		Role: RoleBorder,
	})
}

func unitRect(b templates.Box) Rect {
	return Rect{X: b.X * CardWidth, Y: b.Y * CardWidth, W: b.W * CardWidth, H: b.H * CardWidth}
}

// ParseHex parses "#RGB", "#RRGGBB" or "#RRGGBBAA". Invalid input yields opaque black.
func ParseHex(s string) color.NRGBA {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 6 {
		s += "ff"
	}
	if len(s) != 8 {
		return color.NRGBA{A: 0xFF}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{A: 0xFF}
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}
