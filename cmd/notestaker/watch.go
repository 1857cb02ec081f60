package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	lifecycleadapter "github.com/aretw0/notestaker/pkg/adapters/lifecycle"
	"github.com/aretw0/notestaker/pkg/core"
	"github.com/aretw0/notestaker/pkg/storage"
)

var watchPattern string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print changes other processes make to the notes",
	Long: `Watch follows the data directory and prints one line per change until
interrupted. Changes to the notes collection also print the new note count.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signalContext()
		defer stop()

		store, err := openStore(ctx, readOnlyOptions()...)
		if err != nil {
			fatal("Failed to open store", err)
		}
		defer closeStore(store)
		ws, ok := store.(core.Watchable)
		if !ok {
			fatal("Cannot watch", fmt.Errorf("the %s adapter does not report changes", adapter))
		}
		events, err := ws.Watch(ctx, watchPattern)
		if err != nil {
			fatal("Failed to watch", err)
		}

		src := lifecycleadapter.NewSource(events)
		if err := src.Start(ctx); err != nil {
			fatal("Failed to start watcher", err)
		}
		adapterView := storage.New(store, nil)

		fmt.Printf("Watching %s (Ctrl+C to stop)\n", resolveDir())
		for ev := range src.Events() {
			line := fmt.Sprintf("%s %s", time.Now().Format(time.TimeOnly), ev.String())
			if e, ok := ev.(core.Event); ok && e.Key == core.NotesKey && e.Type != core.EventDelete {
				line += fmt.Sprintf(" (%d notes)", len(adapterView.GetNotes(ctx)))
			}
			fmt.Println(line)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "notestaker_*", "Key glob to watch")
}
