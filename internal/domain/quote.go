package domain

import (
	"strconv"
	"strings"
)

// Quote is a seed quote: either a catalog entry or a highlight adapted into
// the same shape. It has no knowledge of external systems.
type Quote struct {
	// ID is unique across the catalog; adapted highlights use a "readwise-" prefix.
	ID string

	// Text is the quoted passage. Never empty for a valid quote.
	Text string

	// Author is the display name of whoever said or wrote the quote.
	Author string

	// Period is a free-text era label ("Ancient Greece (469-399 BCE)").
	// For adapted highlights it carries the source document title.
	Period string

	// Category is an optional single-tag classification. Empty means absent.
	Category string
}

// HasCategory reports whether the quote carries a category.
func (q Quote) HasCategory() bool {
	return q.Category != ""
}

// HighlightQuotePrefix prefixes the ID of a highlight adapted into a Quote.
const HighlightQuotePrefix = "readwise-"

// Display labels used when an adapted highlight lacks document metadata.
const (
	UnknownAuthorLabel   = "Unknown"
	UnknownDocumentLabel = "Readwise"
)

// QuoteFromHighlight adapts a highlight into the Quote shape so it can seed
// a generation request. Missing document metadata falls back to display
// labels here, never during ingestion.
func QuoteFromHighlight(h Highlight) Quote {
	q := Quote{
		ID:     HighlightQuotePrefix + strconv.FormatInt(h.ID, 10),
		Text:   strings.TrimSpace(h.Text),
		Author: UnknownAuthorLabel,
		Period: UnknownDocumentLabel,
	}

	if h.Document == nil {
		return q
	}

	if h.Document.Author != nil && *h.Document.Author != "" {
		q.Author = *h.Document.Author
	}

	if h.Document.Title != nil && *h.Document.Title != "" {
		q.Period = *h.Document.Title
	}

	if h.Document.Category != nil {
		q.Category = *h.Document.Category
	}

	return q
}
