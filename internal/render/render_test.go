package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/eidqr/internal/card"
	"github.com/youruser/eidqr/internal/intake"
	"github.com/youruser/eidqr/internal/templates"
)

func uploaded(w, h int) *intake.UploadedImage {
	return &intake.UploadedImage{Image: image.NewNRGBA(image.Rect(0, 0, w, h))}
}

func pictures(s Scene) []Picture {
	var out []Picture
	for _, it := range s.Items {
		if p, ok := it.Node.(Picture); ok {
			out = append(out, p)
		}
	}
	return out
}

func frames(s Scene) []Item {
	var out []Item
	for _, it := range s.Items {
		if _, ok := it.Node.(Frame); ok {
			out = append(out, it)
		}
	}
	return out
}

func TestRender_EmptyState(t *testing.T) {
	reg := templates.Default()
	s := New(reg).Render(card.New(reg, card.DefaultFirst).Snapshot())

	assert.True(t, s.Empty)
	assert.Equal(t, []string{EmptyMessage}, s.Labels())
	assert.Empty(t, pictures(s))
}

func TestRender_Placeholders(t *testing.T) {
	reg := templates.Default()
	st := card.New(reg, card.DefaultFirst)
	st.SetProfile(uploaded(10, 10))
	st.SetQR(uploaded(10, 10))

	s := New(reg).Render(st.Snapshot())

	assert.False(t, s.Empty)
	assert.Contains(t, s.Labels(), PhonePlaceholder)
	assert.Contains(t, s.Labels(), NamePlaceholder)
	assert.Contains(t, s.Labels(), TitleText)
	assert.Len(t, pictures(s), 2)
}

func TestRender_CaptionUsesFields(t *testing.T) {
	reg := templates.Default()
	st := card.New(reg, card.DefaultFirst)
	st.SetQR(uploaded(10, 10))
	st.SetPhoneNumber("+880 1711 223344")
	st.SetDisplayName("Karim")

	labels := New(reg).Render(st.Snapshot()).Labels()

	assert.Contains(t, labels, "+880 1711 223344")
	assert.Contains(t, labels, "Karim")
	assert.NotContains(t, labels, PhonePlaceholder)
	assert.NotContains(t, labels, NamePlaceholder)
}

func TestRender_PartialCard(t *testing.T) {
	reg := templates.Default()
	st := card.New(reg, card.DefaultFirst)
	st.SetProfile(uploaded(10, 10))

	s := New(reg).Render(st.Snapshot())
	require.False(t, s.Empty)

	pics := pictures(s)
	require.Len(t, pics, 1)
	assert.Equal(t, templates.MaskCircle, pics[0].Mask)
	assert.Equal(t, FitCover, pics[0].Fit)
}

func TestRender_GeometryFollowsTemplate(t *testing.T) {
	reg := templates.Default()
	st := card.New(reg, card.DefaultFirst)
	st.SetProfile(uploaded(10, 10))
	st.SetQR(uploaded(10, 10))

	base := New(reg).Render(st.Snapshot())
	assert.Equal(t, CardWidth, base.Width)
	assert.InDelta(t, 600.0, base.Height, 1e-9)

	qr := pictures(base)[0]
	assert.InDelta(t, 0.2689*CardWidth+12, qr.Rect.X, 0.1)
	assert.InDelta(t, qr.Rect.W, qr.Rect.H, 1e-9)

	_, err := st.SelectTemplate("2")
	require.NoError(t, err)
	rounded := pictures(New(reg).Render(st.Snapshot()))
	assert.Equal(t, templates.MaskRounded, rounded[1].Mask)
	assert.Less(t, rounded[1].Rect.X, CardWidth/2)
}

func TestRender_Deterministic(t *testing.T) {
	reg := templates.Default()
	st := card.New(reg, card.DefaultFirst)
	st.SetQR(uploaded(10, 10))
	snap := st.Snapshot()

	assert.Equal(t, New(reg).Render(snap), New(reg).Render(snap))
}

func TestRender_Frame(t *testing.T) {
	reg := templates.Default()
	st := card.New(reg, card.DefaultNone)
	st.SetQR(uploaded(10, 10))

	assert.Empty(t, frames(New(reg).Render(st.Snapshot())), "no template, no frame")

	_, _ = st.SelectTemplate("5")
	fr := frames(New(reg).Render(st.Snapshot()))
	require.Len(t, fr, 1)
	assert.Equal(t, RoleBorder, fr[0].Role)
	f := fr[0].Node.(Frame)
	assert.Equal(t, templates.BorderDotted, f.Style)
	assert.Equal(t, color.NRGBA{R: 0xB9, G: 0x1C, B: 0x1C, A: 0xFF}, f.Color)

	_, _ = st.SelectTemplate("6")
	assert.Empty(t, frames(New(reg).Render(st.Snapshot())), "border style none")
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#D4AF37", color.NRGBA{R: 0xD4, G: 0xAF, B: 0x37, A: 0xFF}},
		{"#fff", color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}},
		{"E2136E80", color.NRGBA{R: 0xE2, G: 0x13, B: 0x6E, A: 0x80}},
		{"gold", color.NRGBA{A: 0xFF}},
		{"#zzzzzz", color.NRGBA{A: 0xFF}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseHex(tt.in))
		})
	}
}
