// Package card holds the composition state of one greeting card: the two
// uploaded images, the selected template and the caption text.
package card

import (
	"sync"

	"github.com/youruser/eidqr/internal/intake"
	"github.com/youruser/eidqr/internal/templates"
)

// DefaultPolicy decides which template a fresh card starts with.
type DefaultPolicy string

const (
	DefaultFirst DefaultPolicy = "first"
	DefaultNone  DefaultPolicy = "none"
)

// Snapshot is an immutable copy of the card state taken for rendering.
type Snapshot struct {
	Profile     *intake.UploadedImage
	QR          *intake.UploadedImage
	Template    *templates.Variant
	PhoneNumber string
	DisplayName string
}

// HasProfile reports whether a profile photo is present.
func (s Snapshot) HasProfile() bool { return s.Profile != nil }

// HasQR reports whether a QR code image is present.
func (s Snapshot) HasQR() bool { return s.QR != nil }

// Empty reports whether neither image is present.
func (s Snapshot) Empty() bool { return s.Profile == nil && s.QR == nil }

// Complete reports whether both images are present.
func (s Snapshot) Complete() bool { return s.Profile != nil && s.QR != nil }

// State is the single source of truth for one card. It is safe for
// concurrent use.
type State struct {
	mu       sync.RWMutex
	registry *templates.Registry
	snap     Snapshot
}

// New returns an empty card. With DefaultFirst the registry's first template
// is preselected.
func New(reg *templates.Registry, policy DefaultPolicy) *State {
	s := &State{registry: reg}
	if policy == DefaultFirst && reg != nil {
		v := reg.First()
		s.snap.Template = &v
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// SetProfile replaces the profile photo.
func (s *State) SetProfile(img *intake.UploadedImage) {
	s.mu.Lock()
	s.snap.Profile = img
	s.mu.Unlock()
}

// ClearProfile removes the profile photo.
func (s *State) ClearProfile() { s.SetProfile(nil) }

// SetQR replaces the QR code image.
func (s *State) SetQR(img *intake.UploadedImage) {
	s.mu.Lock()
	s.snap.QR = img
	s.mu.Unlock()
}

// ClearQR removes the QR code image.
func (s *State) ClearQR() { s.SetQR(nil) }

// SetPhoneNumber sets the caption phone number. Free text, not validated.
func (s *State) SetPhoneNumber(v string) {
	s.mu.Lock()
	s.snap.PhoneNumber = v
	s.mu.Unlock()
}

// SetDisplayName sets the caption name. Free text, not validated.
func (s *State) SetDisplayName(v string) {
	s.mu.Lock()
	s.snap.DisplayName = v
	s.mu.Unlock()
}

// SelectTemplate selects the template with the given id. An unknown id
// returns a NotFound error and leaves the selection unchanged.
func (s *State) SelectTemplate(id string) (templates.Variant, error) {
	v, err := s.registry.Get(id)
	if err != nil {
		return templates.Variant{}, err
	}
	s.mu.Lock()
	s.snap.Template = &v
	s.mu.Unlock()
	return v, nil
}

// Layout returns the layout of the selected template, or the registry's base
// layout when nothing is selected.
func (s Snapshot) Layout(reg *templates.Registry) templates.Layout {
	if s.Template != nil {
		return s.Template.Layout
	}
	return reg.BaseLayout()
}
