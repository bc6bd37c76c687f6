// Package session models the state of one interactive drafting session:
// which seed quote is selected, the form fields, and the last result.
//
// State is a plain value. Apply returns a new State for each Event and never
// modifies its input, so a presentation layer can keep history or compare
// snapshots freely.
package session

import (
	"slices"
	"strings"

	"github.com/jsamuelsen/vows/internal/catalog"
	"github.com/jsamuelsen/vows/internal/domain"
)

// Source selects where seed quotes come from.
type Source string

const (
	SourcePhilosophers Source = "philosophers"
	SourceReadwise     Source = "readwise"
)

// DefaultRelationship is preselected for new sessions.
const DefaultRelationship = "spouse"

// User-facing messages set on State.Err.
const (
	MsgSelectQuote       = "Please select a quote first"
	MsgEnterName         = "Please enter the name of your loved one"
	MsgEnterRelationship = "Please choose your relationship"
	MsgGenerationFailed  = "Failed to generate vows. Please try again."
	MsgCheckReadwiseKey  = "Please check your Readwise API key."
	MsgReadwiseFailed    = "Failed to fetch Readwise highlights. Please try again."
)

// State is one session's preferences and results.
type State struct {
	Source Source

	// Selected is the seed quote, nil until one is chosen.
	Selected *domain.Quote

	FilterAuthor   string
	FilterCategory string
	Search         string

	PersonName      string
	Relationship    string
	Tone            string
	Mode            domain.Mode
	PersonalContext string

	Generated  string
	Generating bool

	Highlights        []domain.Highlight
	LoadingHighlights bool

	// Err is the message shown to the user, empty when there is none.
	Err string
}

// New returns the initial state of a session.
func New() State {
	return State{
		Source:         SourcePhilosophers,
		FilterAuthor:   catalog.FilterAll,
		FilterCategory: catalog.FilterAll,
		Relationship:   DefaultRelationship,
		Tone:           domain.DefaultTone,
		Mode:           domain.ModeVows,
	}
}

// VisibleQuotes returns the catalog quotes passing the author and category filters.
func (s State) VisibleQuotes() []domain.Quote {
	return catalog.Filter(s.FilterAuthor, s.FilterCategory)
}

// VisibleHighlights returns the loaded highlights matching Search. The
// match is case-insensitive over text, note, document title and author.
func (s State) VisibleHighlights() []domain.Highlight {
	needle := strings.ToLower(strings.TrimSpace(s.Search))
	if needle == "" {
		return slices.Clone(s.Highlights)
	}

	var visible []domain.Highlight

	for _, h := range s.Highlights {
		if highlightMatches(&h, needle) {
			visible = append(visible, h)
		}
	}

	return visible
}

func highlightMatches(h *domain.Highlight, needle string) bool {
	fields := []*string{&h.Text, h.Note}
	if h.Document != nil {
		fields = append(fields, h.Document.Title, h.Document.Author)
	}

	for _, f := range fields {
		if f != nil && strings.Contains(strings.ToLower(*f), needle) {
			return true
		}
	}

	return false
}

// Ready reports whether the state holds everything a generation needs.
// When it does not, the returned message says what is missing.
func (s State) Ready() (string, bool) {
	switch {
	case s.Selected == nil:
		return MsgSelectQuote, false
	case strings.TrimSpace(s.PersonName) == "":
		return MsgEnterName, false
	case s.Mode != domain.ModeEulogy && strings.TrimSpace(s.Relationship) == "":
		return MsgEnterRelationship, false
	default:
		return "", true
	}
}

// GenerationRequest builds the request for the current form. The second
// result is false when the state is not Ready.
func (s State) GenerationRequest() (domain.GenerationRequest, bool) {
	if _, ok := s.Ready(); !ok {
		return domain.GenerationRequest{}, false
	}

	return domain.GenerationRequest{
		Quote:           *s.Selected,
		PersonName:      strings.TrimSpace(s.PersonName),
		Relationship:    strings.TrimSpace(s.Relationship),
		Tone:            s.Tone,
		PersonalContext: s.PersonalContext,
		Mode:            s.Mode,
	}, true
}
