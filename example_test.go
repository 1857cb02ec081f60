package notestaker_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aretw0/notestaker"
	"github.com/aretw0/notestaker/pkg/core"
	"github.com/aretw0/notestaker/pkg/export"
)

// Example_basic creates a note, searches for it and exports it.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "notestaker-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	ctx := context.Background()
	created := time.Date(2024, 1, 15, 14, 30, 0, 0, time.Local)
	notes, err := notestaker.New(ctx, tmpDir,
		notestaker.WithClock(func() time.Time { return created }),
		notestaker.WithExportSink(export.WriterSink{W: os.Stdout}),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer notes.Close(ctx)

	note, err := notes.Add(ctx, core.NoteFormData{
		Title:   "Groceries",
		Content: "milk, eggs",
		Tags:    []string{"home"},
	})
	if err != nil {
		log.Fatal(err)
	}

	query := "MILK"
	notes.SetSearchFilters(core.FiltersPatch{Query: &query})
	fmt.Println("matches:", len(notes.Visible()))

	if err := notes.ExportNote(ctx, note.ID, export.Text); err != nil {
		log.Fatal(err)
	}
	// Output:
	// matches: 1
	// Groceries
	//
	// milk, eggs
	//
	// Tags: home
	// Created: Monday, January 15, 2024 at 02:30 PM
	// Updated: Monday, January 15, 2024 at 02:30 PM
}
