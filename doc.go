// Package notestaker is the composition root for the NoteStaker notes
// application.
//
// It wires the notes state container (pkg/state) to one of the key-value
// storage adapters (pkg/adapters/...) using functional options, the same way
// the command line and terminal UI do.
//
// Features:
//
//   - **Whole-collection persistence**: every change rewrites the notes under a
//     single key, so any key-value store can hold them.
//   - **Adapters**: plain files (optionally versioned with Git), SQLite, memory.
//   - **Search and filters**: case-insensitive search, tag filters, sorting.
//   - **Export**: single notes or the whole collection as text or Markdown.
//   - **Debounced input**: search and autosave helpers that only act once
//     typing pauses.
//   - **History**: with versioning, every write becomes a Git commit whose
//     message describes the change (see core.WithChangeReason).
//   - **Live updates**: Watch reloads the notes when another process writes
//     them; WithChangeHandler is told about each change.
//
// Usage:
//
//	notes, err := notestaker.New(ctx, "./notes",
//		notestaker.WithAdapter("sqlite"),
//		notestaker.WithLogger(logger),
//	)
//	defer notes.Close(ctx)
//
//	note, err := notes.Add(ctx, core.NoteFormData{Title: "Groceries", Content: "milk"})
package notestaker
