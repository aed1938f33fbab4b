package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/kugarocks/markdown-finder/internal/adapters/driving/tui"
	"github.com/kugarocks/markdown-finder/internal/core/domain"
	"github.com/kugarocks/markdown-finder/internal/logger"
)

// ErrNotTerminal is returned when the TUI is started without a terminal.
var ErrNotTerminal = errors.New("mdf needs an interactive terminal; use 'mdf search' or 'mdf list' in scripts")

var noWatch bool

// runProgram runs the TUI until the user quits.
var runProgram = func(app *tui.App) error {
	return app.Run()
}

func init() {
	rootCmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not follow changes on disk")
}

func runTUI(cmd *cobra.Command, args []string) (err error) {
	if !isTerminal() {
		return ErrNotTerminal
	}

	var root string
	if len(args) == 1 {
		root = args[0]
	}
	settings, err := resolveSettings(cmd, root)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("no-watch") {
		settings.Watch = !noWatch
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	svc, err := createServices(settings)
	if err != nil {
		return err
	}

	// Watch first: edits made while the index builds are applied once
	// the build is done.
	var events <-chan domain.IndexEvent
	if settings.Watch {
		events, err = svc.Index.Watch(ctx)
		switch {
		case domain.IsScanError(err):
			return err
		case err != nil:
			logger.Warn("live updates disabled: %v", err)
			events = nil
		}
	}

	report, err := buildIndex(ctx, svc)
	if err != nil {
		return err
	}

	restore, err := redirectLogs(logFile)
	if err != nil {
		return err
	}
	defer restore()

	ports := tui.NewPorts(svc.Search, svc.Documents, svc.Actions, svc.Index)
	app, err := tui.NewApp(ports, tui.Options{
		Root:         settings.Root,
		Limit:        settings.Limit,
		PreviewLines: settings.PreviewLines,
		Theme:        settings.Theme,
		Events:       events,
		Report:       report,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx)

	// Runs after the program has restored the terminal.
	defer func() {
		if r := recover(); r != nil {
			restore()
			err = fmt.Errorf("internal error: %v", r)
			if verbose {
				fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			}
		}
	}()

	if err := runProgram(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// redirectLogs keeps log lines off the screen while the TUI owns the
// terminal. The returned function restores stderr and is safe to call
// more than once.
func redirectLogs(path string) (func(), error) {
	if path == "" {
		logger.Discard()
		return func() { logger.SetOutput(os.Stderr) }, nil
	}

	f, err := logger.OpenFile(path)
	if err != nil {
		return nil, err
	}
	var closed bool
	return func() {
		logger.SetOutput(os.Stderr)
		logger.SetTimestamps(false)
		if !closed {
			closed = true
			_ = f.Close()
		}
	}, nil
}
