package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/aretw0/notestaker/pkg/core"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show or change the color theme",
}

var themeGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the stored theme and what it resolves to",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		notes := openNotes(ctx, readOnlyOptions()...)
		defer closeNotes(ctx, notes)

		theme := notes.Theme()
		if theme == core.ThemeSystem {
			fmt.Printf("%s (%s)\n", theme, core.ResolveTheme(theme, lipgloss.HasDarkBackground))
			return
		}
		fmt.Println(theme)
	},
}

var themeSetCmd = &cobra.Command{
	Use:       "set [light|dark|system]",
	Short:     "Store the theme preference",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(core.ThemeLight), string(core.ThemeDark), string(core.ThemeSystem)},
	Run: func(cmd *cobra.Command, args []string) {
		theme, err := core.ParseTheme(args[0])
		if err != nil {
			fatal("Invalid theme", err)
		}

		ctx := changeContext()
		notes := openNotes(ctx)
		defer closeNotes(ctx, notes)
		if err := notes.SetTheme(ctx, theme); err != nil {
			fatal("Failed to set theme", err)
		}
		fmt.Println(theme)
	},
}

var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switch between light and dark",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := changeContext()
		notes := openNotes(ctx)
		defer closeNotes(ctx, notes)
		fmt.Println(notes.ToggleTheme(ctx, lipgloss.HasDarkBackground))
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
	themeCmd.AddCommand(themeGetCmd, themeSetCmd, themeToggleCmd)
}
