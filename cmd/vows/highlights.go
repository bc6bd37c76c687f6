package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/vows/internal/adapters/http/handlers"
	"github.com/jsamuelsen/vows/internal/domain"
)

// readwiseTokenEnv is read when --token is not given.
const readwiseTokenEnv = "READWISE_TOKEN"

var highlightsFlags struct {
	token  string
	format string
}

var highlightsCmd = &cobra.Command{
	Use:   "highlights",
	Short: "Fetch every highlight from a Readwise account",
	Args:  cobra.NoArgs,
	RunE:  runHighlights,
}

func init() {
	highlightsCmd.Flags().StringVar(&highlightsFlags.token, "token", "", "Readwise access token (default $"+readwiseTokenEnv+")")
	highlightsCmd.Flags().StringVar(&highlightsFlags.format, "format", "text", "output format: text or json")

	rootCmd.AddCommand(highlightsCmd)
}

func runHighlights(cmd *cobra.Command, _ []string) error {
	if highlightsFlags.format != "text" && highlightsFlags.format != "json" {
		return fmt.Errorf("unknown format %q", highlightsFlags.format)
	}

	token := highlightsFlags.token
	if token == "" {
		token = os.Getenv(readwiseTokenEnv)
	}

	cfg, err := loadConfig(profile, nil)
	if err != nil {
		return err
	}

	logger := newLogger(cfg, cmd.ErrOrStderr())

	svc, err := newServices(cfg, logger)
	if err != nil {
		return err
	}

	highlights, err := svc.highlights.FetchAll(cmd.Context(), token)
	if err != nil {
		return err
	}

	if highlightsFlags.format == "json" {
		return writeHighlightsJSON(cmd.OutOrStdout(), highlights)
	}

	return writeHighlightsText(cmd.OutOrStdout(), highlights)
}

func writeHighlightsJSON(w io.Writer, highlights []domain.Highlight) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(handlers.NewReadwiseResponse(highlights))
}

// writeHighlightsText prints one highlight per line with its attribution.
func writeHighlightsText(w io.Writer, highlights []domain.Highlight) error {
	for i := range highlights {
		q := domain.QuoteFromHighlight(highlights[i])

		if _, err := fmt.Fprintf(w, "%d\t%s (%s, %s)\n", highlights[i].ID, q.Text, q.Author, q.Period); err != nil {
			return err
		}
	}

	return nil
}
