package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/aretw0/notestaker/pkg/core"
	"github.com/aretw0/notestaker/pkg/export"
	"github.com/aretw0/notestaker/pkg/preview"
	"github.com/aretw0/notestaker/pkg/query"
)

var (
	listJSON   bool
	listSearch string
	listTags   []string
	listSort   string
	listOrder  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes",
	Long: `List the notes matching the search and tag filters, pinned notes first.
Sorting defaults to the stored settings.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		notes := openNotes(ctx)
		defer closeNotes(ctx, notes)

		patch := core.FiltersPatch{Query: &listSearch, Tags: &listTags}
		if listSort != "" {
			key, err := core.ParseSortKey(listSort)
			if err != nil {
				fatal("Invalid --sort", err)
			}
			patch.SortBy = &key
		}
		if listOrder != "" {
			order, err := core.ParseSortOrder(listOrder)
			if err != nil {
				fatal("Invalid --order", err)
			}
			patch.SortOrder = &order
		}
		notes.SetSearchFilters(patch)
		visible := query.PinnedFirst(notes.Visible())

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(visible); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		if len(visible) == 0 {
			fmt.Println("No notes found.")
			return
		}
		now := time.Now()
		t := table.New().
			Border(lipgloss.HiddenBorder()).
			Headers("", "ID", "TITLE", "PREVIEW", "TAGS", "UPDATED")
		for _, n := range visible {
			pin := ""
			if n.IsPinned {
				pin = "*"
			}
			t.Row(pin, shortID(n.ID), n.Title, preview.Snippet(n.Content, 40),
				strings.Join(n.Tags, ","), export.RelativeDate(n.UpdatedAt, now))
		}
		fmt.Println(t.String())
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Case-insensitive search in title, content and tags")
	listCmd.Flags().StringSliceVarP(&listTags, "tag", "t", nil, "Only notes carrying every given tag")
	listCmd.Flags().StringVar(&listSort, "sort", "", "Sort by createdAt, updatedAt or title")
	listCmd.Flags().StringVar(&listOrder, "order", "", "Sort order: asc or desc")
}
