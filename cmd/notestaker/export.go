package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/notestaker"
	"github.com/aretw0/notestaker/pkg/export"
)

var (
	exportFormat string
	exportAll    bool
	exportOut    string
	exportStdout bool
)

var exportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a note or every note to a file",
	Long: `Export one note, or all notes with --all, as plain text (txt) or Markdown (md).
Files are written to --out (the current directory by default) and named after
the note title, or "all_notes_<date>" for --all.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if exportAll {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			fatal("Invalid --format", err)
		}

		var sink export.Sink = export.DirSink{Dir: exportOut}
		if exportStdout {
			sink = export.WriterSink{W: os.Stdout}
		}
		var delivered []string
		record := export.SinkFunc(func(ctx context.Context, f export.File) error {
			if err := sink.Deliver(ctx, f); err != nil {
				return err
			}
			delivered = append(delivered, f.Name)
			return nil
		})

		ctx := context.Background()
		opts := append(readOnlyOptions(), notestaker.WithExportSink(record))
		notes := openNotes(ctx, opts...)
		defer closeNotes(ctx, notes)

		if exportAll {
			err = notes.ExportAllNotes(ctx, format)
		} else {
			note := findNote(notes, args[0])
			err = notes.ExportNote(ctx, note.ID, format)
		}
		if err != nil {
			fatal("Failed to export", err)
		}
		if !exportStdout {
			for _, name := range delivered {
				fmt.Fprintf(os.Stderr, "Exported %s\n", name)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "md", "Export format: txt or md")
	exportCmd.Flags().BoolVarP(&exportAll, "all", "a", false, "Export every note into one file")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", ".", "Directory to write the export to")
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "Write the export to standard output")
}
