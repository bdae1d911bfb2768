// Package export turns a card snapshot into a PNG and hands it to a
// download target or a share platform.
//
// Both entry points share one core: wait for fonts, rasterize the card at
// the configured scale over an opaque background, encode PNG. An in-progress
// flag rejects re-entry until the running export returns.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"github.com/disintegration/imaging"

	"github.com/youruser/eidqr/internal/card"
	apperr "github.com/youruser/eidqr/internal/errors"
	"github.com/youruser/eidqr/internal/intake"
	"github.com/youruser/eidqr/internal/logger"
	"github.com/youruser/eidqr/internal/notify"
	"github.com/youruser/eidqr/internal/raster"
	"github.com/youruser/eidqr/internal/render"
)

// User-facing messages.
const (
	MsgDownloaded    = "Image downloaded successfully!"
	MsgDownloadFail  = "Failed to generate image. Please try again."
	MsgShared        = "Shared successfully!"
	MsgLinkCopied    = "Link copied to clipboard!"
	MsgShareFail     = "Failed to share. Please try downloading instead."
	MsgMissingImages = "Please add your profile image and QR code first!"
	MsgEmptyCard     = "Nothing to export yet"
)

// MIMEPNG is the type of every artifact.
const MIMEPNG = "image/png"

// FontWaiter blocks until text metrics are final.
type FontWaiter interface {
	Wait(ctx context.Context) error
}

// Artifact is one encoded export. It is not retained after the action.
type Artifact struct {
	Name    string
	Type    string
	Data    []byte
	DataURL string
	Width   int
	Height  int
}

// Exporter runs exports for one card. It is safe for concurrent use, but
// only one Download or Share runs at a time.
type Exporter struct {
	renderer *render.Renderer
	raster   raster.Rasterizer
	fonts    FontWaiter
	opts     raster.Options
	now      func() time.Time

	busy atomic.Bool
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithClock sets the clock used for download filenames.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// WithRasterOptions overrides raster.DefaultOptions.
func WithRasterOptions(opts raster.Options) Option {
	return func(e *Exporter) { e.opts = opts }
}

// New returns an Exporter that lays cards out with renderer and paints them
// with r once fonts are ready.
func New(renderer *render.Renderer, r raster.Rasterizer, fonts FontWaiter, opts ...Option) *Exporter {
	e := &Exporter{
		renderer: renderer,
		raster:   r,
		fonts:    fonts,
		opts:     raster.DefaultOptions(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// InProgress reports whether an export is running.
func (e *Exporter) InProgress() bool {
	return e.busy.Load()
}

// DownloadName returns the filename for a download taken at t.
func DownloadName(t time.Time) string {
	return fmt.Sprintf("eid-qr-%d.png", t.UnixMilli())
}

func (e *Exporter) acquire() error {
	if !e.busy.CompareAndSwap(false, true) {
		return apperr.New(apperr.ErrCodeBusy, "An export is already in progress")
	}
	return nil
}

// Generate rasterizes snap and encodes it as a PNG artifact named name.
// It does not touch the in-progress flag.
func (e *Exporter) Generate(ctx context.Context, snap card.Snapshot, name string) (Artifact, error) {
	if snap.Empty() {
		return Artifact{}, apperr.New(apperr.ErrCodeEmptyCard, MsgEmptyCard)
	}
	if err := e.fonts.Wait(ctx); err != nil {
		return Artifact{}, rasterFailure(err, "fonts not ready")
	}

	img, err := e.raster.Rasterize(ctx, e.renderer.Render(snap), e.opts)
	if err != nil {
		return Artifact{}, rasterFailure(err, "failed to rasterize card")
	}
	data, err := encodePNG(img)
	if err != nil {
		return Artifact{}, apperr.Wrap(apperr.ErrCodeRasterization, err, "failed to encode card")
	}

	b := img.Bounds()
	return Artifact{
		Name:    name,
		Type:    MIMEPNG,
		Data:    data,
		DataURL: intake.EncodeDataURL(MIMEPNG, data),
		Width:   b.Dx(),
		Height:  b.Dy(),
	}, nil
}

// Preview paints snap at scale with its border, including the empty-state
// placeholder. It is not gated by the in-progress flag.
func (e *Exporter) Preview(ctx context.Context, snap card.Snapshot, scale float64) (*image.NRGBA, error) {
	if err := e.fonts.Wait(ctx); err != nil {
		return nil, rasterFailure(err, "fonts not ready")
	}
	opts := e.opts
	opts.Scale = scale
	opts.SuppressBorder = false
	img, err := e.raster.Rasterize(ctx, e.renderer.Render(snap), opts)
	if err != nil {
		return nil, rasterFailure(err, "failed to rasterize preview")
	}
	return img, nil
}

// rasterFailure codes err as Rasterization, or Canceled when the caller
// went away.
func rasterFailure(err error, msg string) *apperr.Error {
	if errors.Is(err, context.Canceled) {
		return apperr.Wrap(apperr.ErrCodeCanceled, err, "export cancelled")
	}
	return apperr.Wrap(apperr.ErrCodeRasterization, err, "%s", msg)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// isAbort reports whether err is a user cancellation.
func isAbort(err error) bool {
	return apperr.Is(err, apperr.ErrCodeShareAborted) || errors.Is(err, context.Canceled)
}

// fail logs err and emits the single user-facing error for the operation.
func fail(ctx context.Context, sink notify.Sink, op, msg string, err error) {
	logger.FromContext(ctx).Error(op+" failed", "err", err)
	notify.Error(sink, msg)
}
