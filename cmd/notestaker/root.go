package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aretw0/notestaker"
	"github.com/aretw0/notestaker/pkg/core"
	"github.com/aretw0/notestaker/pkg/state"
)

// Environment fallbacks for the persistent flags.
const (
	envDir     = "NOTESTAKER_DIR"
	envAdapter = "NOTESTAKER_ADAPTER"
)

var (
	verbose    bool
	dataDir    string
	adapter    string
	versioning bool
	message    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notestaker",
	Short: "Take, search and export notes from the terminal",
	Long: `NoteStaker keeps a collection of notes with tags, colors and pins.
Notes live in a data directory (plain files, optionally versioned with Git)
or a SQLite database, and can be exported as text or Markdown.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is fine; flags and the environment still apply.
		_ = godotenv.Load()

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		if !cmd.Flags().Changed("data-dir") {
			dataDir = os.Getenv(envDir)
		}
		if !cmd.Flags().Changed("adapter") {
			if env := os.Getenv(envAdapter); env != "" {
				adapter = env
			}
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "Data directory (env "+envDir+")")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", notestaker.AdapterFS, "Storage adapter: fs, sqlite or memory (env "+envAdapter+")")
	rootCmd.PersistentFlags().BoolVar(&versioning, "versioning", false, "Commit every change to Git (fs adapter)")
	rootCmd.PersistentFlags().StringVarP(&message, "message", "m", "", "Commit message for the change (with --versioning)")
}

// resolveDir returns the data directory from flags, environment or defaults.
func resolveDir() string {
	if dataDir != "" {
		return dataDir
	}
	dir, err := notestaker.DefaultDir()
	if err != nil {
		fatal("Failed to resolve data directory", err)
	}
	return dir
}

// baseOptions are the options every command opens the notes with.
func baseOptions(extra ...notestaker.Option) []notestaker.Option {
	opts := []notestaker.Option{
		notestaker.WithAdapter(adapter),
		notestaker.WithVersioning(versioning),
		notestaker.WithLogger(slog.Default()),
		// The CLI always works on the directory the user asked for.
		notestaker.WithDevSafety(false),
	}
	return append(opts, extra...)
}

// readOnlyOptions open existing data without writing to it.
func readOnlyOptions() []notestaker.Option {
	return []notestaker.Option{notestaker.WithReadOnly(true), notestaker.WithMustExist(true)}
}

// openNotes loads the notes container or exits.
func openNotes(ctx context.Context, extra ...notestaker.Option) *state.Container {
	notes, err := notestaker.New(ctx, resolveDir(), baseOptions(extra...)...)
	if err != nil {
		fatal("Failed to open notes", err)
	}
	return notes
}

// openStore opens the raw key-value store.
func openStore(ctx context.Context, extra ...notestaker.Option) (core.Store, error) {
	return notestaker.Open(ctx, resolveDir(), baseOptions(extra...)...)
}

// closeNotes releases the container, reporting a final flush failure.
func closeNotes(ctx context.Context, notes *state.Container) {
	if err := notes.Close(ctx); err != nil {
		fatal("Failed to close notes", err)
	}
}

// changeContext carries --message as the change reason of the writes it is
// used for.
func changeContext() context.Context {
	ctx := context.Background()
	if message != "" {
		ctx = core.WithChangeReason(ctx, message)
	}
	return ctx
}

// signalContext is cancelled on interrupt or termination.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// findNote resolves a full ID or an unambiguous ID prefix.
func findNote(notes *state.Container, ref string) core.Note {
	if n, ok := notes.Note(ref); ok {
		return n
	}
	var found []core.Note
	for _, n := range notes.Notes() {
		if len(ref) >= 4 && len(n.ID) >= len(ref) && n.ID[:len(ref)] == ref {
			found = append(found, n)
		}
	}
	switch len(found) {
	case 1:
		return found[0]
	case 0:
		fatal("Note not found", fmt.Errorf("%q", ref))
	default:
		fatal("Ambiguous note ID", fmt.Errorf("%q matches %d notes", ref, len(found)))
	}
	return core.Note{}
}

// shortID trims an ID for listings.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
