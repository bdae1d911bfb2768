package intake

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperr "github.com/youruser/eidqr/internal/errors"
	"github.com/youruser/eidqr/internal/util"
)

// FromMultipart adapts an uploaded form file. The caller must close the
// returned closer after Submit.
func FromMultipart(fh *multipart.FileHeader) (File, func() error, error) {
	f, err := fh.Open()
	if err != nil {
		return File{}, nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "failed to open upload")
	}
	return File{
		Name:   fh.Filename,
		Type:   fh.Header.Get("Content-Type"),
		Size:   fh.Size,
		Reader: f,
	}, f.Close, nil
}

// FromBytes adapts a raw body, such as a dropped file posted directly.
func FromBytes(name, mimeType string, data []byte) File {
	return File{
		Name:   name,
		Type:   mimeType,
		Size:   int64(len(data)),
		Reader: bytes.NewReader(data),
	}
}

// FromPath adapts a local file. The MIME type is declared by extension the
// way a browser file picker does it.
func FromPath(path string) (File, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "failed to open %s", path)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return File{}, nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "failed to stat %s", path)
	}
	return File{
		Name:   filepath.Base(path),
		Type:   mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Size:   st.Size(),
		Reader: f,
	}, f.Close, nil
}

// FetchRemote downloads an image from url. Bodies over MaxFileSize are
// rejected as TooLarge without buffering them whole.
func FetchRemote(ctx context.Context, url string, timeout time.Duration) (File, error) {
	body, contentType, err := util.GetBytes(ctx, url, timeout, MaxFileSize)
	if errors.Is(err, util.ErrBodyTooLarge) {
		return File{}, apperr.New(apperr.ErrCodeTooLarge, MsgTooLarge)
	}
	if err != nil {
		return File{}, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "failed to download %s", url)
	}
	return FromBytes(filepath.Base(url), contentType, body), nil
}
