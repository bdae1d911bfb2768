package templates

// BorderStyle is the line style of the card frame.
type BorderStyle string

const (
	BorderSolid  BorderStyle = "solid"
	BorderDashed BorderStyle = "dashed"
	BorderDotted BorderStyle = "dotted"
	BorderDouble BorderStyle = "double"
	BorderNone   BorderStyle = "none"
)

func (s BorderStyle) valid() bool {
	switch s {
	case BorderSolid, BorderDashed, BorderDotted, BorderDouble, BorderNone:
		return true
	}
	return false
}

// Mask is the clipping shape applied to the profile photo.
type Mask string

const (
	MaskCircle  Mask = "circle"
	MaskRounded Mask = "rounded"
)

// CardHeight is the card height in card units (width is 1.0).
const CardHeight = 4.0 / 3.0

// Box is a rectangle in card units.
type Box struct {
	X float64 `toml:"x" json:"x"`
	Y float64 `toml:"y" json:"y"`
	W float64 `toml:"w" json:"w"`
	H float64 `toml:"h" json:"h"`
}

// Layout describes where the card elements sit. All lengths are in card units.
type Layout struct {
	Border      float64 `toml:"border" json:"border"`
	HeaderTop   float64 `toml:"header_top" json:"header_top"`
	QR          Box     `toml:"qr" json:"qr"`
	QRPadding   float64 `toml:"qr_padding" json:"qr_padding"`
	Profile     Box     `toml:"profile" json:"profile"`
	ProfileMask Mask    `toml:"profile_mask" json:"profile_mask"`
	Caption     Box     `toml:"caption" json:"caption"`
}

// Variant is one selectable card template. Variants are immutable once loaded.
type Variant struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Thumbnail   string      `json:"thumbnail"`
	BorderStyle BorderStyle `json:"border_style"`
	BorderColor string      `json:"border_color"`
	Layout      Layout      `json:"layout"`
}
