package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/highlights"
)

var (
	readJSON bool
)

var readCmd = &cobra.Command{
	Use:   "read [date]",
	Short: "Print a daily note",
	Long:  `Print the note for a date (YYYY-MM-DD, default today). Outputs raw markdown by default, or a JSON object with --json.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		loc, err := cfg.Location()
		if err != nil {
			return err
		}

		svc, err := highlights.New(cfg.NotesDir,
			highlights.WithReadOnly(true),
			highlights.WithLocation(loc),
			highlights.WithLogger(slog.Default()),
		)
		if err != nil {
			return fmt.Errorf("failed to open notes: %w", err)
		}

		id := svc.Today()
		if len(args) == 1 {
			id = args[0]
		}

		note, err := svc.GetNote(cmd.Context(), id)
		if err != nil {
			return err
		}

		if readJSON {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(struct {
				ID      string `json:"id"`
				Content string `json:"content"`
			}{note.ID, note.Content})
		}

		fmt.Fprint(cmd.OutOrStdout(), note.Content)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().BoolVar(&readJSON, "json", false, "Output in JSON format")
}
