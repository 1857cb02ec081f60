package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/notestaker/pkg/export"
	"github.com/aretw0/notestaker/pkg/preview"
)

var (
	showJSON   bool
	showHTML   bool
	showRender bool
	showWidth  int
)

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a note",
	Long: `Show a note in the text export layout by default. --render styles the
Markdown content for the terminal, --html converts it to HTML and --json prints
the stored object.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		notes := openNotes(ctx, readOnlyOptions()...)
		defer closeNotes(ctx, notes)
		note := findNote(notes, args[0])

		switch {
		case showJSON:
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(note); err != nil {
				fatal("Failed to encode JSON", err)
			}
		case showHTML:
			out, err := preview.HTML(note.Content)
			if err != nil {
				fatal("Failed to render note", err)
			}
			fmt.Print(out)
		case showRender:
			out, err := preview.NewTerminal("").Render(export.FormatNote(note, export.Markdown), showWidth)
			if err != nil {
				fatal("Failed to render note", err)
			}
			fmt.Print(out)
		default:
			fmt.Println(export.FormatNote(note, export.Text))
		}
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
	showCmd.Flags().BoolVar(&showHTML, "html", false, "Convert the content to HTML")
	showCmd.Flags().BoolVarP(&showRender, "render", "r", false, "Render Markdown for the terminal")
	showCmd.Flags().IntVar(&showWidth, "width", 80, "Wrap width for --render")
}
