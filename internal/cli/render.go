package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/youruser/eidqr/internal/app"
	"github.com/youruser/eidqr/internal/config"
	"github.com/youruser/eidqr/internal/export"
	"github.com/youruser/eidqr/internal/notify"
	"github.com/youruser/eidqr/internal/util"
)

// fileSaver writes downloads into a directory.
type fileSaver struct {
	dir  string
	path string
}

func (f *fileSaver) Save(_ context.Context, a export.Artifact) error {
	path, err := util.WriteFileInDir(f.dir, a.Name, a.Data)
	if err != nil {
		return err
	}
	f.path = path
	return nil
}

func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts cardOptions
		out  string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Compose the card and save it as eid-qr-<timestamp>.png",
		Example: `  eidqr render --profile me.jpg --qr bkash-qr.png --name "Rahim" --phone "+880 1711 000000"
  eidqr render --profile https://example.com/me.png --qr-text 01711000000 -t 3 --out cards/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), opts, out)
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", ".", "output directory")
	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts cardOptions, out string) error {
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

	// notifications wait until the spinner has cleared its line
	rec := &notify.Recorder{}
	saver := &fileSaver{dir: out}
	spin := newSpinner(ctx, c.Err, "Generating image...")
	spin.Start()
	art, err := a.NewExporter().Download(ctx, st.Snapshot(), saver, rec)
	spin.Stop()
	replay(rec, sink)
	if err != nil {
		if len(rec.Events()) > 0 {
			return reported(err)
		}
		return err
	}

	printDetail(c.Out, "%s (%dx%d, %s)", saver.path, art.Width, art.Height, humanSize(len(art.Data)))
	return nil
}

func replay(rec *notify.Recorder, sink notify.Sink) {
	for _, e := range rec.Events() {
		sink.Notify(e)
	}
}

func humanSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
