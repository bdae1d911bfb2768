package cli

import (
	"context"
	"io"
	"sync"

	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/spf13/cobra"

	"github.com/youruser/eidqr/internal/app"
	"github.com/youruser/eidqr/internal/config"
	"github.com/youruser/eidqr/internal/export"
	"github.com/youruser/eidqr/internal/notify"
	"github.com/youruser/eidqr/internal/util"
)

// terminalClipboard copies text through the OSC52 escape sequence, which
// most terminals forward to the system clipboard, even over SSH.
type terminalClipboard struct {
	w    io.Writer
	tmux bool
}

func (t terminalClipboard) WriteText(_ context.Context, text string) error {
	seq := osc52.New(text)
	if t.tmux {
		seq = seq.Tmux()
	}
	_, err := seq.WriteTo(t.w)
	return err
}

// attachmentSharer drops the share attachment into a directory for another
// program to pick up.
type attachmentSharer struct {
	dir  string
	path string
}

func (s *attachmentSharer) ShareFiles(_ context.Context, d export.ShareData) error {
	for _, f := range d.Files {
		path, err := util.WriteFileInDir(s.dir, f.Name, f.Data)
		if err != nil {
			return err
		}
		s.path = path
	}
	return nil
}

// syncWriter serializes writes from the spinner goroutine and the caller.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (c *CLI) shareCommand() *cobra.Command {
	var (
		opts   cardOptions
		attach string
		tmux   bool
	)

	cmd := &cobra.Command{
		Use:   "share",
		Short: "Compose the card and share it",
		Long: `Share needs both a profile photo and a QR code. With --attach the
card is written as eid-qr-share.png into the given directory; otherwise the
share text is copied to the clipboard through the terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var p export.Platform = terminalClipboard{w: c.Err, tmux: tmux}
			if attach != "" {
				p = &attachmentSharer{dir: attach}
			}
			return c.runShare(cmd.Context(), opts, p)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&attach, "attach", "", "write the share attachment into this directory")
	cmd.Flags().BoolVar(&tmux, "tmux", false, "wrap the clipboard sequence for tmux")
	return cmd
}

func (c *CLI) runShare(ctx context.Context, opts cardOptions, p export.Platform) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}

	sink := printer(c.Out)
	st, err := buildCard(ctx, a, opts, sink)
	if err != nil {
		return err
	}

	// the spinner and the clipboard sequence share the terminal
	errw := &syncWriter{w: c.Err}
	if tc, ok := p.(terminalClipboard); ok {
		tc.w = errw
		p = tc
	}

	rec := &notify.Recorder{}
	spin := newSpinner(ctx, errw, "Preparing to share...")
	spin.Start()
	err = a.NewExporter().Share(ctx, st.Snapshot(), p, rec)
	spin.Stop()
	replay(rec, sink)

	switch {
	case err == nil:
		if s, ok := p.(*attachmentSharer); ok {
			printDetail(c.Out, "%s", s.path)
		}
		return nil
	case len(rec.Events()) > 0:
		return reported(err)
	default:
		return err
	}
}
