package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/notestaker"
	"github.com/aretw0/notestaker/internal/tui"
	"github.com/aretw0/notestaker/pkg/core"
	"github.com/aretw0/notestaker/pkg/export"
	"github.com/aretw0/notestaker/pkg/state"
)

var (
	tuiExportDir string
	tuiLogFile   string
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse and edit notes in an interactive terminal UI",
	Long: `Open the notes in a full-screen terminal UI.

Ctrl+N creates a note and Ctrl+F jumps to the search field when keyboard
shortcuts are enabled in the settings. Exports are written to --export-dir.
Changes made by other processes appear as they happen.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signalContext()
		defer stop()

		// The UI owns the terminal, so logs go to a file or nowhere.
		logger := slog.New(slog.DiscardHandler)
		if tuiLogFile != "" {
			f, err := os.OpenFile(tuiLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				fatal("Failed to open log file", err)
			}
			defer f.Close()
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
		}

		exportDir, err := filepath.Abs(tuiExportDir)
		if err != nil {
			fatal("Invalid --export-dir", err)
		}

		notify := tui.NewNotifier()
		notes := openNotes(ctx,
			notestaker.WithLogger(logger),
			notestaker.WithExportSink(export.DirSink{Dir: exportDir}),
			notestaker.WithChangeHandler(func(core.Event) { notify.Notify() }),
		)
		defer closeNotes(context.Background(), notes)

		if err := notes.Watch(ctx); err != nil && !errors.Is(err, state.ErrNotWatchable) {
			logger.Warn("live updates disabled", "error", err)
		}

		if err := tui.Run(ctx, notes, notify, tui.Config{Logger: logger}); err != nil {
			fatal("UI failed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().StringVar(&tuiExportDir, "export-dir", ".", "Directory exports are written to")
	tuiCmd.Flags().StringVar(&tuiLogFile, "log-file", "", "Write logs to this file while the UI runs")
}
