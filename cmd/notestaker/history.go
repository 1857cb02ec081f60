package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notestaker"
	"github.com/aretw0/notestaker/pkg/adapters/fs"
	"github.com/aretw0/notestaker/pkg/core"
)

var (
	historyLimit int
	historyKey   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the Git history of the notes (fs adapter with --versioning)",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, err := openStore(ctx, append(readOnlyOptions(), notestaker.WithVersioning(true))...)
		if err != nil {
			fatal("Failed to open store", err)
		}
		defer closeStore(store)
		fsStore, ok := store.(*fs.Store)
		if !ok {
			fatal("No history", fmt.Errorf("the %s adapter keeps no history", adapter))
		}

		commits, err := fsStore.History(ctx, historyKey, historyLimit)
		if err != nil {
			fatal("Failed to read history", err)
		}
		if len(commits) == 0 {
			fmt.Println("No history.")
			return
		}
		for _, c := range commits {
			fmt.Printf("%s  %s  %s\n", shortID(c.Hash), c.Date.Local().Format("2006-01-02 15:04"), c.Message)
		}
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of entries")
	historyCmd.Flags().StringVar(&historyKey, "key", core.NotesKey, "Key to show history for")
}
