package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/notestaker/pkg/core"
)

var settingsJSON bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change preferences",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings (YAML by default)",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		notes := openNotes(ctx, readOnlyOptions()...)
		defer closeNotes(ctx, notes)

		if err := writeSettings(os.Stdout, notes.Settings(), settingsJSON); err != nil {
			fatal("Failed to encode settings", err)
		}
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set key=value...",
	Short: "Change one or more settings",
	Example: `  notestaker settings set autoSave=false
  notestaker settings set defaultSortBy=title defaultSortOrder=asc`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var doc strings.Builder
		for _, arg := range args {
			key, value, ok := strings.Cut(arg, "=")
			if !ok || key == "" {
				fatal("Invalid setting", fmt.Errorf("%q is not key=value", arg))
			}
			fmt.Fprintf(&doc, "%s: %s\n", key, value)
		}
		patch, err := decodePatch(strings.NewReader(doc.String()))
		if err != nil {
			fatal("Invalid setting", err)
		}
		updateSettings(patch)
	},
}

var settingsImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Merge settings from a YAML or JSON file (- reads stdin)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var r io.Reader = os.Stdin
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				fatal("Failed to open settings file", err)
			}
			defer f.Close()
			r = f
		}
		patch, err := decodePatch(r)
		if err != nil {
			fatal("Invalid settings file", err)
		}
		updateSettings(patch)
	},
}

// decodePatch reads a partial settings document. JSON is valid YAML, so one
// decoder serves both. Unknown keys are rejected.
func decodePatch(r io.Reader) (core.SettingsPatch, error) {
	var patch core.SettingsPatch
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&patch); err != nil && !errors.Is(err, io.EOF) {
		return core.SettingsPatch{}, err
	}
	return patch, nil
}

func updateSettings(patch core.SettingsPatch) {
	ctx := changeContext()
	notes := openNotes(ctx)
	defer closeNotes(ctx, notes)

	settings, err := notes.UpdateSettings(ctx, patch)
	if err != nil {
		fatal("Invalid settings", err)
	}
	if err := writeSettings(os.Stdout, settings, settingsJSON); err != nil {
		fatal("Failed to encode settings", err)
	}
}

func writeSettings(w io.Writer, s core.AppSettings, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsImportCmd)
	settingsCmd.PersistentFlags().BoolVar(&settingsJSON, "json", false, "Print settings as JSON")
}
