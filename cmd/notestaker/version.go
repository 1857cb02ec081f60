package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notestaker/pkg/core"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of notestaker",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s version %s\n", core.AppName, core.AppVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
