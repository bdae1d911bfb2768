package intake

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/youruser/eidqr/internal/errors"
	"github.com/youruser/eidqr/internal/notify"
)

func checkerboard(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: 0xE2, G: 0x13, B: 0x6E, A: 0xFF}
			if (x/4+y/4)%2 == 0 {
				c = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func TestSubmit_PNGRoundTrip(t *testing.T) {
	src := checkerboard(32, 24)
	data := encodePNG(t, src)
	rec := &notify.Recorder{}

	got, err := New("Profile image").Submit(FromBytes("me.png", "image/png", data), rec)
	require.NoError(t, err)

	assert.Equal(t, MIMEPNG, got.Type)
	assert.Equal(t, int64(len(data)), got.Size)
	assert.True(t, strings.HasPrefix(got.Encoded, "data:image/png;base64,"))

	mimeType, payload, err := DecodeDataURL(got.Encoded)
	require.NoError(t, err)
	assert.Equal(t, MIMEPNG, mimeType)

	decoded, err := png.Decode(bytes.NewReader(payload))
	require.NoError(t, err)
	require.Equal(t, src.Bounds(), decoded.Bounds())
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			assert.Equal(t, src.At(x, y), color.NRGBAModel.Convert(decoded.At(x, y)))
		}
	}

	assert.Equal(t, []notify.Event{{Level: notify.LevelSuccess, Message: "Profile image uploaded!"}}, rec.Events())
}

func TestSubmit_JPEG(t *testing.T) {
	data := encodeJPEG(t, checkerboard(40, 40))
	rec := &notify.Recorder{}

	got, err := New("QR code").Submit(FromBytes("qr.jpg", "image/jpeg", data), rec)
	require.NoError(t, err)
	assert.Equal(t, MIMEJPEG, got.Type)
	assert.Equal(t, image.Rect(0, 0, 40, 40), got.Image.Bounds())
	assert.Equal(t, 1, rec.Count(notify.LevelSuccess))
}

func TestSubmit_UnsupportedType(t *testing.T) {
	data := encodePNG(t, checkerboard(8, 8))

	for _, mt := range []string{"image/gif", "image/webp", "application/pdf", "text/plain", "image/svg+xml"} {
		t.Run(mt, func(t *testing.T) {
			rec := &notify.Recorder{}
			got, err := New("QR code").Submit(FromBytes("x", mt, data), rec)

			assert.Nil(t, got)
			assert.True(t, apperr.Is(err, apperr.ErrCodeUnsupportedType))
			assert.Equal(t, []notify.Event{{Level: notify.LevelError, Message: MsgUnsupportedType}}, rec.Events())
		})
	}
}

func TestSubmit_TooLarge(t *testing.T) {
	t.Run("declared size", func(t *testing.T) {
		rec := &notify.Recorder{}
		file := File{Name: "big.png", Type: "image/png", Size: MaxFileSize + 1, Reader: bytes.NewReader(nil)}

		_, err := New("Profile image").Submit(file, rec)
		assert.True(t, apperr.Is(err, apperr.ErrCodeTooLarge))
		assert.Equal(t, []notify.Event{{Level: notify.LevelError, Message: MsgTooLarge}}, rec.Events())
	})

	t.Run("actual size with unknown declared size", func(t *testing.T) {
		rec := &notify.Recorder{}
		body := bytes.Repeat([]byte{0}, MaxFileSize+1)
		file := File{Name: "big.png", Type: "image/png", Size: -1, Reader: bytes.NewReader(body)}

		_, err := New("Profile image").Submit(file, rec)
		assert.True(t, apperr.Is(err, apperr.ErrCodeTooLarge))
		assert.Equal(t, 1, rec.Count(notify.LevelError))
	})
}

func TestSubmit_TypeCheckedBeforeSize(t *testing.T) {
	file := File{Name: "big.gif", Type: "image/gif", Size: MaxFileSize + 1, Reader: bytes.NewReader(nil)}
	_, err := New("QR code").Submit(file, notify.Discard)
	assert.True(t, apperr.Is(err, apperr.ErrCodeUnsupportedType))
}

func TestSubmit_SniffsMissingType(t *testing.T) {
	data := encodePNG(t, checkerboard(8, 8))

	got, err := New("QR code").Submit(FromBytes("dropped", "", data), notify.Discard)
	require.NoError(t, err)
	assert.Equal(t, MIMEPNG, got.Type)

	_, err = New("QR code").Submit(FromBytes("dropped", "", []byte("GIF89a not really")), notify.Discard)
	assert.True(t, apperr.Is(err, apperr.ErrCodeUnsupportedType))
}

func TestSubmit_TypeFromContent(t *testing.T) {
	data := encodePNG(t, checkerboard(8, 8))

	for _, declared := range []string{"image/jpeg", "application/octet-stream"} {
		t.Run(declared, func(t *testing.T) {
			got, err := New("QR code").Submit(FromBytes("qr", declared, data), notify.Discard)
			require.NoError(t, err)
			assert.Equal(t, MIMEPNG, got.Type)
			assert.True(t, strings.HasPrefix(got.Encoded, "data:image/png;base64,"))
		})
	}
}

func TestSubmit_GIFDeclaredAsPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, checkerboard(8, 8), nil))

	_, err := New("QR code").Submit(FromBytes("qr.png", "image/png", buf.Bytes()), notify.Discard)
	assert.True(t, apperr.Is(err, apperr.ErrCodeUnsupportedType))
}

func TestFetchRemote_OctetStream(t *testing.T) {
	data := encodePNG(t, checkerboard(8, 8))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	file, err := FetchRemote(context.Background(), srv.URL+"/qr", 5*time.Second)
	require.NoError(t, err)

	got, err := New("QR code").Submit(file, notify.Discard)
	require.NoError(t, err)
	assert.Equal(t, MIMEPNG, got.Type)
}

func TestSubmit_UndecodableContent(t *testing.T) {
	_, err := New("QR code").Submit(FromBytes("fake.png", "image/png", []byte("definitely not a png")), notify.Discard)
	assert.True(t, apperr.Is(err, apperr.ErrCodeUnsupportedType))
}

func TestSubmit_SameFileTwice(t *testing.T) {
	data := encodePNG(t, checkerboard(8, 8))
	in := New("Profile image")
	rec := &notify.Recorder{}

	first, err := in.Submit(FromBytes("me.png", "image/png", data), rec)
	require.NoError(t, err)
	second, err := in.Submit(FromBytes("me.png", "image/png", data), rec)
	require.NoError(t, err)

	assert.Equal(t, first.Encoded, second.Encoded)
	assert.NotSame(t, first, second)
	assert.Equal(t, 2, rec.Count(notify.LevelSuccess))
}

func TestSubmit_MediaTypeParameters(t *testing.T) {
	data := encodePNG(t, checkerboard(8, 8))
	got, err := New("QR code").Submit(FromBytes("qr.png", "IMAGE/PNG; charset=binary", data), notify.Discard)
	require.NoError(t, err)
	assert.Equal(t, MIMEPNG, got.Type)
}

func TestFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.JPG")
	require.NoError(t, os.WriteFile(path, encodeJPEG(t, checkerboard(16, 16)), 0o644))

	file, closeFn, err := FromPath(path)
	require.NoError(t, err)
	defer closeFn()

	assert.Equal(t, "photo.JPG", file.Name)
	assert.Equal(t, MIMEJPEG, file.Type)

	got, err := New("Profile image").Submit(file, notify.Discard)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 16), got.Image.Bounds())
}

func TestFromPath_Missing(t *testing.T) {
	_, _, err := FromPath(filepath.Join(t.TempDir(), "nope.png"))
	assert.True(t, apperr.Is(err, apperr.ErrCodeInvalidInput))
}

func TestFromText(t *testing.T) {
	rec := &notify.Recorder{}
	got, err := New("QR code").FromText("01712345678", rec)
	require.NoError(t, err)

	assert.Equal(t, MIMEPNG, got.Type)
	assert.Equal(t, DefaultQRSize, got.Image.Bounds().Dx())
	assert.Equal(t, []notify.Event{{Level: notify.LevelSuccess, Message: "QR code uploaded!"}}, rec.Events())

	_, err = New("QR code").FromText("", rec)
	assert.True(t, apperr.Is(err, apperr.ErrCodeInvalidInput))
	assert.Equal(t, 1, rec.Count(notify.LevelError))
}

func TestDecodeDataURL_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no scheme", "image/png;base64,AAAA"},
		{"no payload", "data:image/png;base64"},
		{"not base64", "data:text/plain,hello"},
		{"bad payload", "data:image/png;base64,!!!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeDataURL(tt.input)
			assert.Error(t, err)
		})
	}
}
