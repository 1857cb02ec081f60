package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notestaker/pkg/core"
)

var (
	editTitle   string
	editContent string
	editTags    []string
	editColor   string
)

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Update fields of a note",
	Long: `Update the title, content, tags or color of a note. Only the flags given
are changed. IDs may be shortened to a unique prefix of at least four characters.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := changeContext()
		notes := openNotes(ctx)
		defer closeNotes(ctx, notes)
		note := findNote(notes, args[0])

		var patch core.NotePatch
		flags := cmd.Flags()
		if flags.Changed("title") {
			patch.Title = &editTitle
		}
		if flags.Changed("content") {
			content, err := readContent(editContent)
			if err != nil {
				fatal("Failed to read content", err)
			}
			patch.Content = &content
		}
		if flags.Changed("tag") {
			patch.Tags = &editTags
		}
		if flags.Changed("color") {
			color := core.NoteColor(editColor)
			patch.Color = &color
		}
		if patch.IsEmpty() {
			fatal("Nothing to update", fmt.Errorf("pass --title, --content, --tag or --color"))
		}

		if err := notes.Update(ctx, note.ID, patch); err != nil {
			fatal("Failed to update note", err)
		}
		fmt.Printf("Note updated: %s\n", note.ID)
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVarP(&editContent, "content", "c", "", "New content (- reads stdin)")
	editCmd.Flags().StringSliceVarP(&editTags, "tag", "t", nil, "Replace tags (repeatable; empty clears)")
	editCmd.Flags().StringVar(&editColor, "color", "", "New color")
}
