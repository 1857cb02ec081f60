package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/notestaker/pkg/core"
)

var (
	addTitle   string
	addContent string
	addTags    []string
	addColor   string
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a note",
	Long: `Create a note with a title and content. Pass --content - to read the
content from standard input.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := changeContext()
		content, err := readContent(addContent)
		if err != nil {
			fatal("Failed to read content", err)
		}

		notes := openNotes(ctx)
		defer closeNotes(ctx, notes)

		note, err := notes.Add(ctx, core.NoteFormData{
			Title:   addTitle,
			Content: content,
			Tags:    addTags,
			Color:   core.NoteColor(addColor),
		})
		var invalid *core.ValidationError
		switch {
		case errors.As(err, &invalid):
			fatal("Invalid note", err)
		case err != nil:
			// Kept in memory; Close retries the write once more.
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}

		fmt.Printf("Note created: %s\n", note.ID)
	},
}

func readContent(flag string) (string, error) {
	if flag != "-" {
		return flag, nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addTitle, "title", "", "Note title")
	addCmd.Flags().StringVarP(&addContent, "content", "c", "", "Note content (- reads stdin)")
	addCmd.Flags().StringSliceVarP(&addTags, "tag", "t", nil, "Tag (repeatable or comma separated)")
	addCmd.Flags().StringVar(&addColor, "color", string(core.ColorDefault), "Note color")
	addCmd.MarkFlagRequired("title")
}
