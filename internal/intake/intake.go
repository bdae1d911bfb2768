// Package intake validates user supplied images and turns them into
// self-contained encoded representations that the renderer can display.
//
// Every entry point (multipart upload, raw body, local path, remote URL,
// generated QR code) funnels into Intake.Submit so validation is identical
// regardless of how the file arrived.
package intake

import (
	"bytes"
	"image"
	"io"
	"mime"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	apperr "github.com/youruser/eidqr/internal/errors"
	"github.com/youruser/eidqr/internal/notify"
)

// MaxFileSize is the largest accepted upload, inclusive.
const MaxFileSize = 5 * 1024 * 1024

const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
)

// User-facing validation messages.
const (
	MsgUnsupportedType = "Please upload a valid image file (JPG, JPEG, or PNG)"
	MsgTooLarge        = "File size should be less than 5MB"
)

// File is a user supplied file before validation.
type File struct {
	Name string
	// Type is the declared MIME type. Empty or application/octet-stream
	// means unknown. The stored type always comes from the content.
	Type string
	// Size is the declared size in bytes, or -1 if unknown.
	Size   int64
	Reader io.Reader
}

// UploadedImage is a validated image with its encoded representation.
type UploadedImage struct {
	Name    string
	Type    string
	Size    int64
	Data    []byte
	Encoded string
	Image   image.Image
}

// Intake validates submissions for one input slot, such as the profile photo.
type Intake struct {
	// Label names the slot in success notifications ("Profile image").
	Label string
}

// New returns an Intake for the slot named label.
func New(label string) *Intake {
	return &Intake{Label: label}
}

// Submit validates file and returns the uploaded image. Exactly one
// notification is emitted on sink per call. On failure the returned error
// carries ErrCodeUnsupportedType or ErrCodeTooLarge and no image is produced.
func (in *Intake) Submit(file File, sink notify.Sink) (*UploadedImage, error) {
	img, err := in.validate(file)
	if err != nil {
		notify.Error(sink, apperr.UserMessage(err))
		return nil, err
	}
	notify.Success(sink, in.Label+" uploaded!")
	return img, nil
}

func (in *Intake) validate(file File) (*UploadedImage, error) {
	declared := normalizeType(file.Type)
	if declared != "" && !allowedType(declared) {
		return nil, apperr.New(apperr.ErrCodeUnsupportedType, MsgUnsupportedType)
	}
	if file.Size > MaxFileSize {
		return nil, apperr.New(apperr.ErrCodeTooLarge, MsgTooLarge)
	}
	if file.Reader == nil {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "no file provided")
	}

	// read everything up front so the caller never sees a partial image
	data, err := io.ReadAll(io.LimitReader(file.Reader, MaxFileSize+1))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "failed to read file")
	}
	if len(data) > MaxFileSize {
		return nil, apperr.New(apperr.ErrCodeTooLarge, MsgTooLarge)
	}

	actual := normalizeType(mimetype.Detect(data).String())
	if !allowedType(actual) {
		return nil, apperr.New(apperr.ErrCodeUnsupportedType, MsgUnsupportedType)
	}

	decoded, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeUnsupportedType, err, MsgUnsupportedType)
	}

	return &UploadedImage{
		Name:    file.Name,
		Type:    actual,
		Size:    int64(len(data)),
		Data:    data,
		Encoded: EncodeDataURL(actual, data),
		Image:   decoded,
	}, nil
}

func normalizeType(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(t)
	if err != nil {
		mt = strings.ToLower(t)
	}
	if mt == "application/octet-stream" {
		return ""
	}
	return mt
}

func allowedType(t string) bool {
	return t == MIMEJPEG || t == MIMEPNG
}
