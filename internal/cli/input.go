package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/youruser/eidqr/internal/app"
	"github.com/youruser/eidqr/internal/card"
	apperr "github.com/youruser/eidqr/internal/errors"
	"github.com/youruser/eidqr/internal/intake"
	"github.com/youruser/eidqr/internal/notify"
)

// errReported marks an error the user has already seen as a notification.
var errReported = errors.New("reported")

// Reported reports whether err was already shown to the user.
func Reported(err error) bool {
	return errors.Is(err, errReported)
}

func reported(err error) error {
	return errors.Join(errReported, err)
}

// cardOptions are the inputs shared by render and share.
type cardOptions struct {
	profile  string
	qr       string
	qrText   string
	phone    string
	name     string
	template string
}

func (o *cardOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.profile, "profile", "", "profile photo (path or http(s) URL)")
	f.StringVar(&o.qr, "qr", "", "payment QR code image (path or http(s) URL)")
	f.StringVar(&o.qrText, "qr-text", "", "generate the QR code from this text instead of --qr")
	f.StringVar(&o.phone, "phone", "", "phone number shown in the caption")
	f.StringVar(&o.name, "name", "", "display name shown in the caption")
	f.StringVarP(&o.template, "template", "t", "", "template id (see eidqr templates)")
	cmd.MarkFlagsMutuallyExclusive("qr", "qr-text")
}

// buildCard applies o to a fresh card. Every image submission emits one
// notification on sink.
func buildCard(ctx context.Context, a *app.App, o cardOptions, sink notify.Sink) (*card.State, error) {
	st := a.NewCard()
	timeout := a.Config.Remote.FetchTimeout

	if o.profile != "" {
		img, err := loadImage(ctx, intake.New("Profile image"), o.profile, timeout, sink)
		if err != nil {
			return nil, err
		}
		st.SetProfile(img)
	}

	qr := intake.New("QR code")
	switch {
	case o.qrText != "":
		img, err := qr.FromText(o.qrText, sink)
		if err != nil {
			return nil, reported(err)
		}
		st.SetQR(img)
	case o.qr != "":
		img, err := loadImage(ctx, qr, o.qr, timeout, sink)
		if err != nil {
			return nil, err
		}
		st.SetQR(img)
	}

	if o.template != "" {
		if _, err := st.SelectTemplate(o.template); err != nil {
			return nil, err
		}
	}
	st.SetPhoneNumber(o.phone)
	st.SetDisplayName(o.name)
	return st, nil
}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// loadImage reads src from disk or the network and submits it to in.
func loadImage(ctx context.Context, in *intake.Intake, src string, timeout time.Duration, sink notify.Sink) (*intake.UploadedImage, error) {
	var file intake.File
	if isURL(src) {
		f, err := intake.FetchRemote(ctx, src, timeout)
		if err != nil {
			notify.Error(sink, apperr.UserMessage(err))
			return nil, reported(err)
		}
		file = f
	} else {
		f, closeFn, err := intake.FromPath(src)
		if err != nil {
			notify.Error(sink, apperr.UserMessage(err))
			return nil, reported(err)
		}
		defer closeFn()
		file = f
	}

	img, err := in.Submit(file, sink)
	if err != nil {
		return nil, reported(err)
	}
	return img, nil
}
