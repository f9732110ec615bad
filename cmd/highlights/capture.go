package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/highlights"
	"github.com/aretw0/highlights/pkg/client"
	"github.com/aretw0/highlights/pkg/core"
)

var (
	captureURL       string
	captureLink      bool
	captureEmbedLink bool
	captureServer    string
	captureLocal     bool
)

var captureCmd = &cobra.Command{
	Use:   "capture [text...]",
	Short: "Submit a capture",
	Long: `Send text (from the arguments, or stdin when none are given) to the server,
the same way the browser extension does. With --local the note is updated
directly, without a running server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if len(args) == 0 {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			text = string(data)
		}
		includeLink := captureLink
		if captureEmbedLink && captureURL != "" {
			text = client.EmbedLink(text, captureURL)
			includeLink = true
		}

		c := core.Capture{Text: text, URL: captureURL, IncludeLink: includeLink}

		if captureLocal {
			return captureDirect(cmd, c)
		}

		msg, err := client.New(captureServer).Send(cmd.Context(), c)
		if err != nil {
			slog.Error("capture failed", "server", captureServer, "error", err)
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

func captureDirect(cmd *cobra.Command, c core.Capture) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	svc, err := highlights.New(cfg.NotesDir,
		highlights.WithLogger(slog.Default()),
		highlights.WithLocation(loc),
	)
	if err != nil {
		return fmt.Errorf("failed to open notes: %w", err)
	}

	res, err := svc.Capture(cmd.Context(), c)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved to %s.md\n", res.NoteID)
	return nil
}

func init() {
	rootCmd.AddCommand(captureCmd)
	captureCmd.Flags().StringVarP(&captureURL, "url", "u", "", "Source page URL")
	captureCmd.Flags().BoolVarP(&captureLink, "link", "l", false, "Record the source URL in the note")
	captureCmd.Flags().BoolVar(&captureEmbedLink, "embed-link", false, "Append the URL to the text client-side, like the extension")
	captureCmd.Flags().StringVar(&captureServer, "server", client.DefaultEndpoint, "Capture endpoint")
	captureCmd.Flags().BoolVar(&captureLocal, "local", false, "Write the note directly instead of posting to a server")
}
