package templates

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed templates.toml
var defaultTemplates string

// layoutOverride mirrors Layout with optional fields so a template only
// needs to spell out what differs from the file-level layout.
type layoutOverride struct {
	Border      *float64 `toml:"border"`
	HeaderTop   *float64 `toml:"header_top"`
	QR          *Box     `toml:"qr"`
	QRPadding   *float64 `toml:"qr_padding"`
	Profile     *Box     `toml:"profile"`
	ProfileMask *Mask    `toml:"profile_mask"`
	Caption     *Box     `toml:"caption"`
}

type templateEntry struct {
	ID          string          `toml:"id"`
	Name        string          `toml:"name"`
	Thumbnail   string          `toml:"thumbnail"`
	BorderStyle BorderStyle     `toml:"border_style"`
	BorderColor string          `toml:"border_color"`
	Layout      *layoutOverride `toml:"layout"`
}

type templateFile struct {
	Layout    Layout          `toml:"layout"`
	Templates []templateEntry `toml:"template"`
}

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Default returns the embedded registry. The embedded file is validated by
// tests, so a failure here is a build defect.
func Default() *Registry {
	r, err := Parse(defaultTemplates)
	if err != nil {
		panic(fmt.Sprintf("templates: embedded registry is invalid: %v", err))
	}
	return r
}

// LoadFile reads a registry from a TOML file on disk.
func LoadFile(path string) (*Registry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	r, err := Parse(string(b))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return r, nil
}

// Load reads a registry from r.
func Load(r io.Reader) (*Registry, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(b))
}

// Parse decodes and validates a TOML registry document.
func Parse(doc string) (*Registry, error) {
	var f templateFile
	md, err := toml.Decode(doc, &f)
	if err != nil {
		return nil, fmt.Errorf("decode templates: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown template keys: %s", strings.Join(keys, ", "))
	}
	if f.Layout.ProfileMask == "" {
		f.Layout.ProfileMask = MaskCircle
	}

	variants := make([]Variant, 0, len(f.Templates))
	for _, e := range f.Templates {
		v := Variant{
			ID:          strings.TrimSpace(e.ID),
			Name:        e.Name,
			Thumbnail:   e.Thumbnail,
			BorderStyle: e.BorderStyle,
			BorderColor: e.BorderColor,
			Layout:      f.Layout.merge(e.Layout),
		}
		if v.BorderStyle == "" {
			v.BorderStyle = BorderSolid
		}
		if err := v.validate(); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return newRegistry(variants, f.Layout)
}

func (l Layout) merge(o *layoutOverride) Layout {
	if o == nil {
		return l
	}
	if o.Border != nil {
		l.Border = *o.Border
	}
	if o.HeaderTop != nil {
		l.HeaderTop = *o.HeaderTop
	}
	if o.QR != nil {
		l.QR = *o.QR
	}
	if o.QRPadding != nil {
		l.QRPadding = *o.QRPadding
	}
	if o.Profile != nil {
		l.Profile = *o.Profile
	}
	if o.ProfileMask != nil {
		l.ProfileMask = *o.ProfileMask
	}
	if o.Caption != nil {
		l.Caption = *o.Caption
	}
	return l
}

func (v Variant) validate() error {
	if v.ID == "" {
		return fmt.Errorf("template %q has an empty id", v.Name)
	}
	if !v.BorderStyle.valid() {
		return fmt.Errorf("template %s: unknown border style %q", v.ID, v.BorderStyle)
	}
	if !hexColorRegex.MatchString(v.BorderColor) {
		return fmt.Errorf("template %s: border color %q is not a hex color", v.ID, v.BorderColor)
	}
	l := v.Layout
	if l.ProfileMask != MaskCircle && l.ProfileMask != MaskRounded {
		return fmt.Errorf("template %s: unknown profile mask %q", v.ID, l.ProfileMask)
	}
	if l.Border < 0 || l.Border > 0.1 {
		return fmt.Errorf("template %s: border %v out of range", v.ID, l.Border)
	}
	for name, b := range map[string]Box{"qr": l.QR, "profile": l.Profile, "caption": l.Caption} {
		if !b.inCard() {
			return fmt.Errorf("template %s: %s box %+v falls outside the card", v.ID, name, b)
		}
	}
	return nil
}

func (b Box) inCard() bool {
	return b.W > 0 && b.H > 0 &&
		b.X >= 0 && b.Y >= 0 &&
		b.X+b.W <= 1.0+1e-9 && b.Y+b.H <= CardHeight+1e-9
}
