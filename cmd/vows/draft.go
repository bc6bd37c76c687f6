package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/vows/internal/catalog"
	"github.com/jsamuelsen/vows/internal/domain"
	"github.com/jsamuelsen/vows/internal/session"
)

var draftFlags struct {
	quote        string
	name         string
	relationship string
	tone         string
	mode         string
	context      string
}

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Draft vows or a eulogy from a catalog quote",
	Example: `  vows draft --quote 3 --name Sam --tone poetic
  vows draft --quote 12 --name Pat --mode eulogy --context "taught me to sail"`,
	Args: cobra.NoArgs,
	RunE: runDraft,
}

func init() {
	f := draftCmd.Flags()
	f.StringVar(&draftFlags.quote, "quote", "", "catalog quote ID (see `vows quotes`)")
	f.StringVar(&draftFlags.name, "name", "", "name of the person the text is for")
	f.StringVar(&draftFlags.relationship, "relationship", session.DefaultRelationship, "your relationship to them")
	f.StringVar(&draftFlags.tone, "tone", domain.DefaultTone, "tone keyword, e.g. heartfelt, playful or solemn")
	f.StringVar(&draftFlags.mode, "mode", string(domain.ModeVows), "vows or eulogy")
	f.StringVar(&draftFlags.context, "context", "", "personal details to weave in")

	rootCmd.AddCommand(draftCmd)
}

// draftEvents translates the command line into session events.
func draftEvents() ([]session.Event, error) {
	events := []session.Event{
		session.PersonNameChanged{Name: draftFlags.name},
		session.RelationshipChanged{Relationship: draftFlags.relationship},
		session.ToneChanged{Tone: draftFlags.tone},
		session.PersonalContextChanged{Context: draftFlags.context},
	}

	mode, ok := domain.ParseMode(draftFlags.mode)
	if !ok {
		return nil, fmt.Errorf("unknown mode %q", draftFlags.mode)
	}

	events = append(events, session.ModeChanged{Mode: mode})

	if draftFlags.quote != "" {
		q, ok := catalog.ByID(draftFlags.quote)
		if !ok {
			return nil, fmt.Errorf("no quote with ID %q", draftFlags.quote)
		}

		events = append(events, session.QuoteSelected{Quote: q})
	}

	return append(events, session.GenerationStarted{}), nil
}

func runDraft(cmd *cobra.Command, _ []string) error {
	events, err := draftEvents()
	if err != nil {
		return err
	}

	state := session.ApplyAll(session.New(), events...)
	if !state.Generating {
		return errors.New(state.Err)
	}

	req, _ := state.GenerationRequest()

	cfg, err := loadConfig(profile, nil)
	if err != nil {
		return err
	}

	logger := newLogger(cfg, cmd.ErrOrStderr())

	svc, err := newServices(cfg, logger)
	if err != nil {
		return err
	}

	text, err := svc.generation.Generate(cmd.Context(), req)
	if err != nil {
		state = session.Apply(state, session.GenerationFailed{Err: err})
		return fmt.Errorf("%s: %w", state.Err, err)
	}

	state = session.Apply(state, session.GenerationSucceeded{Text: text})

	return printDraft(cmd.OutOrStdout(), state)
}

func printDraft(w io.Writer, s session.State) error {
	_, err := fmt.Fprintf(w, "%q\n  %s\n\n%s\n", s.Selected.Text, s.Selected.Author, s.Generated)
	return err
}
