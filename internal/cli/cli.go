// Package cli implements the eidqr command-line interface.
//
// The CLI composes one card per invocation from local files or URLs and
// either saves it (render) or shares it through the terminal (share).
// Loggers travel in context.Context; notifications are printed as they
// arrive.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/youruser/eidqr/internal/logger"
)

const appName = "eidqr"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	// Out receives user-facing output; Err receives the spinner and OSC52
	// sequences.
	Out io.Writer
	Err io.Writer
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: logger.New(w, level),
		Out:    os.Stdout,
		Err:    os.Stderr,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "eidqr composes Eid greeting cards with your payment QR code",
		Long:         `eidqr places a profile photo and a payment QR code on a festive Eid card and exports it as a PNG you can save or share.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(logger.WithContext(cmd.Context(), c.Logger))
		},
	}

	root.AddCommand(c.templatesCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.shareCommand())

	return root
}
