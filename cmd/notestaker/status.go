package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/notestaker"
	"github.com/aretw0/notestaker/pkg/core"
)

var statusJSON bool

type componentStatus struct {
	Type  string `json:"type" yaml:"type"`
	State any    `json:"state" yaml:"state"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the store and the notes collection",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, err := openStore(ctx, readOnlyOptions()...)
		if err != nil {
			fatal("Failed to open store", err)
		}
		notes := openNotes(ctx, append(readOnlyOptions(), notestaker.WithStore(store))...)
		defer closeNotes(ctx, notes)

		report := map[string]any{
			"app":     fmt.Sprintf("%s %s", core.AppName, core.AppVersion),
			"adapter": adapter,
		}
		var components []componentStatus
		for _, c := range []any{store, notes} {
			intro, ok := c.(introspection.Introspectable)
			if !ok {
				continue
			}
			typ := fmt.Sprintf("%T", c)
			if comp, ok := c.(introspection.Component); ok {
				typ = comp.ComponentType()
			}
			components = append(components, componentStatus{Type: typ, State: intro.State()})
		}
		report["components"] = components

		if statusJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(report); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}
		out, err := yaml.Marshal(report)
		if err != nil {
			fatal("Failed to encode status", err)
		}
		fmt.Print(string(out))
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output in JSON format")
}
