package render

import (
	"image"
	"image/color"

	"github.com/youruser/eidqr/internal/fonts"
	"github.com/youruser/eidqr/internal/templates"
)

// Logical card size in pixels. Exports multiply by the export scale.
const (
	CardWidth  = 450.0
	CardHeight = CardWidth * templates.CardHeight
)

// Role tags nodes that an export may treat specially.
type Role int

const (
	RoleContent Role = iota
	// RoleBorder marks the template frame, which exports can suppress.
	RoleBorder
)

// Rect is an axis-aligned box in logical pixels.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the center point of r.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Inset shrinks r by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// Node is one element of a scene.
type Node interface {
	node()
}

// Box is a filled and optionally stroked rounded rectangle.
type Box struct {
	Rect        Rect
	Radius      float64
	Fill        color.NRGBA
	Stroke      color.NRGBA
	StrokeWidth float64
}

// Circle is a filled disc.
type Circle struct {
	CX, CY, R float64
	Fill      color.NRGBA
}

// Fit controls how a picture is scaled into its box.
type Fit int

const (
	FitCover Fit = iota
	FitContain
)

// Picture is a raster image placed into a box.
type Picture struct {
	Rect   Rect
	Src    image.Image
	Fit    Fit
	Mask   templates.Mask
	Radius float64 // corner radius for MaskRounded
}

// Label is a single line of text anchored at (X, Y). AnchorX and AnchorY
// are fractions of the text extent, so (0.5, 0.5) centers the text.
type Label struct {
	X, Y             float64
	AnchorX, AnchorY float64
	Text             string
	Size             float64
	Style            fonts.Style
	Color            color.NRGBA
	// MaxWidth shrinks the font until the text fits. Zero means unbounded.
	MaxWidth float64
}

// Frame is the template border drawn around the card edge.
type Frame struct {
	Width  float64
	Radius float64
	Style  templates.BorderStyle
	Color  color.NRGBA
}

func (Box) node()     {}
func (Circle) node()  {}
func (Picture) node() {}
func (Label) node()   {}
func (Frame) node()   {}

// Item is a node with its role.
type Item struct {
	Node Node
	Role Role
}

// Scene is the declarative description of a card, in paint order.
type Scene struct {
	Width, Height float64
	// Empty is set when there is nothing to show yet. Such a scene holds only
	// the placeholder and must not be exported.
	Empty bool
	Items []Item
}

func (s *Scene) add(n Node) {
	s.Items = append(s.Items, Item{Node: n, Role: RoleContent})
}

// Labels returns the text of every label in paint order.
func (s Scene) Labels() []string {
	var out []string
	for _, it := range s.Items {
		if l, ok := it.Node.(Label); ok {
			out = append(out, l.Text)
		}
	}
	return out
}
