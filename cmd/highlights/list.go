package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/highlights"
)

var (
	listJSON  bool
	listMatch string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the dates that have a note",
	Long: `List the dates that have a note, oldest first.
--match keeps only dates matching a glob, e.g. '2024-03-*' or '2024-0[1-3]-*'.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		svc, err := highlights.New(cfg.NotesDir,
			highlights.WithReadOnly(true),
			highlights.WithLogger(slog.Default()),
		)
		if err != nil {
			return fmt.Errorf("failed to open notes: %w", err)
		}

		ids, err := svc.ListNotes(cmd.Context(), listMatch)
		if err != nil {
			return err
		}

		if listJSON {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(ids)
		}

		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVarP(&listMatch, "match", "m", "", "Only list dates matching this glob")
}
