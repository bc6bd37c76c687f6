package domain

import "strings"

// Mode selects what kind of text is generated.
type Mode string

const (
	// ModeVows drafts vows or a personal letter addressed to a living person.
	ModeVows Mode = "vows"

	// ModeEulogy drafts a eulogy; no relationship is required.
	ModeEulogy Mode = "eulogy"
)

// ParseMode normalizes a caller-supplied mode. Empty input means vows.
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeVows:
		return ModeVows, true
	case ModeEulogy:
		return ModeEulogy, true
	default:
		return "", false
	}
}

// DefaultTone is used when the caller does not pick a tone. Any other
// keyword is passed to the prompt as given.
const DefaultTone = "heartfelt"

// GenerationRequest carries everything needed to draft one text.
type GenerationRequest struct {
	Quote           Quote
	PersonName      string
	Relationship    string
	Tone            string
	PersonalContext string
	Mode            Mode
}

// Validate checks the required fields: quote, person name, and a
// relationship unless the mode is eulogy.
func (r *GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Quote.Text) == "" {
		return NewValidationError("quote", "is required")
	}

	if strings.TrimSpace(r.PersonName) == "" {
		return NewValidationError("personName", "is required")
	}

	if r.Mode != ModeEulogy && strings.TrimSpace(r.Relationship) == "" {
		return NewValidationError("relationship", "is required unless mode is eulogy")
	}

	return nil
}
