package templates

import (
	"fmt"

	apperr "github.com/youruser/eidqr/internal/errors"
)

// Registry is a fixed, ordered list of template variants.
type Registry struct {
	variants []Variant
	byID     map[string]int
	base     Layout
}

func newRegistry(variants []Variant, base Layout) (*Registry, error) {
	if len(variants) == 0 {
		return nil, fmt.Errorf("template registry is empty")
	}
	byID := make(map[string]int, len(variants))
	for i, v := range variants {
		if _, dup := byID[v.ID]; dup {
			return nil, fmt.Errorf("duplicate template id %q", v.ID)
		}
		byID[v.ID] = i
	}
	return &Registry{variants: variants, byID: byID, base: base}, nil
}

// List returns the variants in registry order. The slice is a copy.
func (r *Registry) List() []Variant {
	out := make([]Variant, len(r.variants))
	copy(out, r.variants)
	return out
}

// Len returns the number of variants.
func (r *Registry) Len() int { return len(r.variants) }

// Get returns the variant with the given id.
func (r *Registry) Get(id string) (Variant, error) {
	i, ok := r.byID[id]
	if !ok {
		return Variant{}, apperr.New(apperr.ErrCodeNotFound, "template %q not found", id)
	}
	return r.variants[i], nil
}

// First returns the first variant, used as the default selection.
func (r *Registry) First() Variant {
	return r.variants[0]
}

// BaseLayout returns the file-level layout, used when no template is selected.
func (r *Registry) BaseLayout() Layout {
	return r.base
}
