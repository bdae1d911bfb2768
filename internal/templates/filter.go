package templates

import (
	"slices"
	"strings"
)

// FilterOptions narrows a template listing. Zero values match everything.
type FilterOptions struct {
	Styles    []BorderStyle
	Masks     []Mask
	FreeWords string
}

// Filter returns the variants matching opt, keeping registry order.
// Every word in FreeWords must appear in the name, id or border color.
func Filter(variants []Variant, opt FilterOptions) []Variant {
	var out []Variant
	for _, v := range variants {
		if len(opt.Styles) > 0 && !slices.Contains(opt.Styles, v.BorderStyle) {
			continue
		}
		if len(opt.Masks) > 0 && !slices.Contains(opt.Masks, v.Layout.ProfileMask) {
			continue
		}
		if opt.FreeWords != "" {
			hay := strings.ToLower(v.ID + " " + v.Name + " " + v.BorderColor)
			ok := true
			for _, k := range strings.Fields(opt.FreeWords) {
				if !strings.Contains(hay, strings.ToLower(k)) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, v)
	}
	return out
}
