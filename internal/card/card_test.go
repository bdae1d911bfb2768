package card

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/youruser/eidqr/internal/errors"
	"github.com/youruser/eidqr/internal/intake"
	"github.com/youruser/eidqr/internal/templates"
)

func TestNew_DefaultPolicy(t *testing.T) {
	reg := templates.Default()

	first := New(reg, DefaultFirst).Snapshot()
	require.NotNil(t, first.Template)
	assert.Equal(t, "1", first.Template.ID)

	none := New(reg, DefaultNone).Snapshot()
	assert.Nil(t, none.Template)
	assert.Equal(t, reg.BaseLayout(), none.Layout(reg))
}

func TestSelectTemplate_NotFoundKeepsSelection(t *testing.T) {
	s := New(templates.Default(), DefaultNone)

	v, err := s.SelectTemplate("3")
	require.NoError(t, err)
	assert.Equal(t, "3", v.ID)

	_, err = s.SelectTemplate("99")
	assert.True(t, apperr.Is(err, apperr.ErrCodeNotFound))

	snap := s.Snapshot()
	require.NotNil(t, snap.Template)
	assert.Equal(t, "3", snap.Template.ID)
}

func TestImages_ReplaceNotMerge(t *testing.T) {
	s := New(templates.Default(), DefaultFirst)
	a := &intake.UploadedImage{Name: "a.png", Encoded: "data:image/png;base64,AA=="}
	b := &intake.UploadedImage{Name: "b.jpg", Encoded: "data:image/jpeg;base64,BB=="}

	s.SetProfile(a)
	s.SetProfile(b)
	snap := s.Snapshot()
	assert.Same(t, b, snap.Profile)
	assert.False(t, snap.HasQR())

	s.SetQR(a)
	assert.True(t, s.Snapshot().Complete())

	s.ClearProfile()
	snap = s.Snapshot()
	assert.False(t, snap.HasProfile())
	assert.True(t, snap.HasQR())
	assert.False(t, snap.Empty())

	s.ClearQR()
	assert.True(t, s.Snapshot().Empty())
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := New(templates.Default(), DefaultFirst)
	s.SetPhoneNumber("+880 1711 000 000")
	snap := s.Snapshot()

	s.SetPhoneNumber("changed")
	s.SetDisplayName("Rahim")

	assert.Equal(t, "+880 1711 000 000", snap.PhoneNumber)
	assert.Equal(t, "", snap.DisplayName)
	assert.Equal(t, "Rahim", s.Snapshot().DisplayName)
}

func TestState_ConcurrentUse(t *testing.T) {
	s := New(templates.Default(), DefaultFirst)
	img := &intake.UploadedImage{Name: "a.png"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetProfile(img)
			s.SetDisplayName("x")
			_, _ = s.SelectTemplate("2")
		}()
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
		}()
	}
	wg.Wait()
	assert.Same(t, img, s.Snapshot().Profile)
}
