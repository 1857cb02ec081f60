package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/notestaker"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Make a directory a NoteStaker data root",
	Long: `Initialize a data directory (--data-dir, else the current one) and drop a
.notestaker marker in it, so commands run anywhere below it use it. With
--versioning the directory also becomes a Git repository.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := "."
		if dataDir != "" {
			dir = dataDir
		}
		if len(args) == 1 {
			dir = args[0]
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			fatal("Failed to resolve directory", err)
		}

		store, err := notestaker.Open(context.Background(), abs, baseOptions()...)
		if err != nil {
			fatal("Failed to initialize", err)
		}
		defer closeStore(store)

		marker := filepath.Join(abs, notestaker.Marker)
		if _, err := os.Stat(marker); os.IsNotExist(err) {
			if err := os.WriteFile(marker, []byte{}, 0644); err != nil {
				fatal("Failed to write marker", err)
			}
		}

		fmt.Println("Initialized NoteStaker data directory in", abs)
	},
}

func closeStore(store any) {
	if closer, ok := store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
}
