package export

import (
	"context"

	"github.com/youruser/eidqr/internal/card"
	apperr "github.com/youruser/eidqr/internal/errors"
	"github.com/youruser/eidqr/internal/logger"
	"github.com/youruser/eidqr/internal/notify"
)

// Share payload constants.
const (
	ShareFileName = "eid-qr-share.png"
	ShareTitle    = "My Eid QR Code"
	ShareText     = "Check out my Eid QR Code!"
)

// ErrShareAborted is returned by platforms when the user dismissed the
// share sheet. It never produces a notification.
var ErrShareAborted = apperr.New(apperr.ErrCodeShareAborted, "share cancelled")

// ShareData is what a platform receives.
type ShareData struct {
	Title string     `json:"title"`
	Text  string     `json:"text"`
	URL   string     `json:"url,omitempty"`
	Files []Artifact `json:"-"`
}

// FileSharer shares binary attachments.
type FileSharer interface {
	ShareFiles(ctx context.Context, data ShareData) error
}

// LinkSharer shares text and a URL only.
type LinkSharer interface {
	ShareLink(ctx context.Context, data ShareData) error
}

// Clipboard receives plain text.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Platform is checked for FileSharer, LinkSharer and Clipboard in that order.
type Platform any

// Share exports snap and hands it to the richest capability p offers.
// Both images must be present. Cancellation is returned but not notified.
func (e *Exporter) Share(ctx context.Context, snap card.Snapshot, p Platform, sink notify.Sink) error {
	if snap.Empty() {
		return apperr.New(apperr.ErrCodeEmptyCard, MsgEmptyCard)
	}
	if !snap.Complete() {
		notify.Error(sink, MsgMissingImages)
		return apperr.New(apperr.ErrCodeMissingImages, MsgMissingImages)
	}

	if err := e.acquire(); err != nil {
		return err
	}
	defer e.busy.Store(false)

	a, err := e.Generate(ctx, snap, ShareFileName)
	var msg string
	if err == nil {
		msg, err = deliver(ctx, p, a)
	}
	switch {
	case err == nil:
		notify.Success(sink, msg)
		return nil
	case isAbort(err):
		logger.FromContext(ctx).Debug("share cancelled")
		return err
	default:
		fail(ctx, sink, "share", MsgShareFail, err)
		return err
	}
}

func deliver(ctx context.Context, p Platform, a Artifact) (string, error) {
	data := ShareData{Title: ShareTitle, Text: ShareText}

	if fs, ok := p.(FileSharer); ok {
		data.Files = []Artifact{a}
		return MsgShared, fs.ShareFiles(ctx, data)
	}
	if ls, ok := p.(LinkSharer); ok {
		data.URL = a.DataURL
		return MsgShared, ls.ShareLink(ctx, data)
	}
	if cb, ok := p.(Clipboard); ok {
		return MsgLinkCopied, cb.WriteText(ctx, ShareText)
	}
	return "", apperr.New(apperr.ErrCodePlatformUnsupported, "no share or clipboard capability")
}
