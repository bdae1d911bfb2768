package intake

import (
	"bytes"
	"image/png"

	qrcode "github.com/skip2/go-qrcode"

	apperr "github.com/youruser/eidqr/internal/errors"
	"github.com/youruser/eidqr/internal/notify"
)

// DefaultQRSize is the pixel size of generated QR codes.
const DefaultQRSize = 512

// GenerateQRPNG returns PNG bytes of a QR code for the given text.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	if size < 64 {
		size = 64
	}
	if size > 2048 {
		size = 2048
	}
	pngBytes, err := qrcode.Encode(text, qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	// validate png decode
	if _, err := png.Decode(bytes.NewReader(pngBytes)); err != nil {
		return nil, err
	}
	return pngBytes, nil
}

// FromText renders text (a payment link or wallet number) as a QR code and
// submits it through the regular validation path.
func (in *Intake) FromText(text string, sink notify.Sink) (*UploadedImage, error) {
	if text == "" {
		err := apperr.New(apperr.ErrCodeInvalidInput, "QR text cannot be empty")
		notify.Error(sink, err.Message)
		return nil, err
	}
	b, err := GenerateQRPNG(text, DefaultQRSize)
	if err != nil {
		wrapped := apperr.Wrap(apperr.ErrCodeInvalidInput, err, "failed to generate QR code")
		notify.Error(sink, wrapped.Message)
		return nil, wrapped
	}
	return in.Submit(FromBytes("qr.png", MIMEPNG, b), sink)
}
