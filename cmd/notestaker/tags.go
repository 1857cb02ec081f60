package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var tagsJSON bool

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags with the number of notes using them",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		notes := openNotes(ctx, readOnlyOptions()...)
		defer closeNotes(ctx, notes)

		tags := notes.Tags()
		if tagsJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(tags); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}
		for _, t := range tags {
			fmt.Printf("%-30s %d\n", t.Tag, t.Count)
		}
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
	tagsCmd.Flags().BoolVar(&tagsJSON, "json", false, "Output in JSON format")
}
