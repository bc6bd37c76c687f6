package session

import (
	"slices"

	"github.com/jsamuelsen/vows/internal/domain"
)

// Event is a user action or an asynchronous result applied to a State.
type Event interface {
	event()
}

type (
	// SourceSelected switches between the catalog and Readwise highlights.
	SourceSelected struct{ Source Source }

	// QuoteSelected picks a catalog quote as the seed.
	QuoteSelected struct{ Quote domain.Quote }

	// HighlightSelected picks a highlight as the seed.
	HighlightSelected struct{ Highlight domain.Highlight }

	AuthorFilterChanged   struct{ Author string }
	CategoryFilterChanged struct{ Category string }
	SearchChanged         struct{ Text string }

	PersonNameChanged      struct{ Name string }
	RelationshipChanged    struct{ Relationship string }
	ToneChanged            struct{ Tone string }
	ModeChanged            struct{ Mode domain.Mode }
	PersonalContextChanged struct{ Context string }

	// GenerationStarted is sent when the user asks for a draft. It is
	// rejected with a message when the form is incomplete.
	GenerationStarted struct{}

	GenerationSucceeded struct{ Text string }
	GenerationFailed    struct{ Err error }

	HighlightsRequested struct{}
	HighlightsLoaded    struct{ Highlights []domain.Highlight }
	HighlightsFailed    struct{ Err error }

	// Cleared resets the selection and the form. Filters, source and
	// loaded highlights are kept.
	Cleared struct{}
)

func (SourceSelected) event()         {}
func (QuoteSelected) event()          {}
func (HighlightSelected) event()      {}
func (AuthorFilterChanged) event()    {}
func (CategoryFilterChanged) event()  {}
func (SearchChanged) event()          {}
func (PersonNameChanged) event()      {}
func (RelationshipChanged) event()    {}
func (ToneChanged) event()            {}
func (ModeChanged) event()            {}
func (PersonalContextChanged) event() {}
func (GenerationStarted) event()      {}
func (GenerationSucceeded) event()    {}
func (GenerationFailed) event()       {}
func (HighlightsRequested) event()    {}
func (HighlightsLoaded) event()       {}
func (HighlightsFailed) event()       {}
func (Cleared) event()                {}

// Apply returns the state that results from e. s is not modified.
func Apply(s State, e Event) State {
	switch e := e.(type) {
	case SourceSelected:
		s.Source = e.Source
	case QuoteSelected:
		q := e.Quote
		s.Selected = &q
	case HighlightSelected:
		q := domain.QuoteFromHighlight(e.Highlight)
		s.Selected = &q
	case AuthorFilterChanged:
		s.FilterAuthor = e.Author
	case CategoryFilterChanged:
		s.FilterCategory = e.Category
	case SearchChanged:
		s.Search = e.Text
	case PersonNameChanged:
		s.PersonName = e.Name
	case RelationshipChanged:
		s.Relationship = e.Relationship
	case ToneChanged:
		s.Tone = e.Tone
	case ModeChanged:
		s.Mode = e.Mode
	case PersonalContextChanged:
		s.PersonalContext = e.Context

	case GenerationStarted:
		if msg, ok := s.Ready(); !ok {
			s.Err = msg
			return s
		}

		s.Generating = true
		s.Err = ""
	case GenerationSucceeded:
		s.Generating = false
		s.Generated = e.Text
	case GenerationFailed:
		s.Generating = false
		s.Err = MsgGenerationFailed

	case HighlightsRequested:
		s.LoadingHighlights = true
		s.Err = ""
	case HighlightsLoaded:
		s.LoadingHighlights = false
		s.Highlights = slices.Clone(e.Highlights)
	case HighlightsFailed:
		s.LoadingHighlights = false
		s.Err = MsgReadwiseFailed

		if domain.IsInvalidCredential(e.Err) {
			s.Err = MsgCheckReadwiseKey
		}

	case Cleared:
		s.Selected = nil
		s.Generated = ""
		s.PersonName = ""
		s.PersonalContext = ""
		s.Err = ""
	}

	return s
}

// ApplyAll folds events into s in order.
func ApplyAll(s State, events ...Event) State {
	for _, e := range events {
		s = Apply(s, e)
	}

	return s
}
