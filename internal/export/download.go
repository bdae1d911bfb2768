package export

import (
	"context"

	"github.com/youruser/eidqr/internal/card"
	apperr "github.com/youruser/eidqr/internal/errors"
	"github.com/youruser/eidqr/internal/notify"
)

// Saver stores a downloaded artifact: an HTTP attachment, a file on disk.
type Saver interface {
	Save(ctx context.Context, a Artifact) error
}

// SaverFunc adapts a function to a Saver.
type SaverFunc func(ctx context.Context, a Artifact) error

// Save calls f(ctx, a).
func (f SaverFunc) Save(ctx context.Context, a Artifact) error { return f(ctx, a) }

// Download exports snap as eid-qr-<unix-ms>.png and passes it to saver.
// A partially filled card is accepted. Exactly one notification is emitted
// unless the card is empty or another export is running.
func (e *Exporter) Download(ctx context.Context, snap card.Snapshot, saver Saver, sink notify.Sink) (Artifact, error) {
	if snap.Empty() {
		return Artifact{}, apperr.New(apperr.ErrCodeEmptyCard, MsgEmptyCard)
	}
	if err := e.acquire(); err != nil {
		return Artifact{}, err
	}
	defer e.busy.Store(false)

	a, err := e.Generate(ctx, snap, DownloadName(e.now()))
	if err == nil {
		err = saver.Save(ctx, a)
	}
	if err != nil {
		fail(ctx, sink, "download", MsgDownloadFail, err)
		return Artifact{}, err
	}

	notify.Success(sink, MsgDownloaded)
	return a, nil
}
