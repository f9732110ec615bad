package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/highlights"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of highlights",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "highlights version %s\n", strings.TrimSpace(highlights.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
