package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note",
	Long:  `Delete permanently removes a note from the collection.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := changeContext()
		notes := openNotes(ctx)
		defer closeNotes(ctx, notes)
		note := findNote(notes, args[0])

		if err := notes.Delete(ctx, note.ID); err != nil {
			fatal("Failed to delete note", err)
		}
		fmt.Printf("Note deleted: %s (%s)\n", note.ID, note.Title)
	},
}

// pinCmd toggles the pinned flag.
var pinCmd = &cobra.Command{
	Use:   "pin [id]",
	Short: "Pin or unpin a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := changeContext()
		notes := openNotes(ctx)
		defer closeNotes(ctx, notes)
		note := findNote(notes, args[0])

		if err := notes.TogglePin(ctx, note.ID); err != nil {
			fatal("Failed to pin note", err)
		}
		updated, _ := notes.Note(note.ID)
		if updated.IsPinned {
			fmt.Printf("Note pinned: %s\n", note.ID)
		} else {
			fmt.Printf("Note unpinned: %s\n", note.ID)
		}
	},
}

var duplicateCmd = &cobra.Command{
	Use:   "duplicate [id]",
	Short: "Copy a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := changeContext()
		notes := openNotes(ctx)
		defer closeNotes(ctx, notes)
		note := findNote(notes, args[0])

		copied, err := notes.Duplicate(ctx, note.ID)
		if err != nil {
			fatal("Failed to duplicate note", err)
		}
		fmt.Printf("Note created: %s (%s)\n", copied.ID, copied.Title)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(pinCmd)
	rootCmd.AddCommand(duplicateCmd)
}
