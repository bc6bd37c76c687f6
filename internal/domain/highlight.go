package domain

import "slices"

// Tag is a label attached to a highlight by the highlight provider.
type Tag struct {
	ID   int64
	Name string
}

// SourceDocument summarizes the book, article or webpage a highlight was
// extracted from. Optional fields are nil when the provider omitted them.
//
// Every Highlight owns its own SourceDocument; two highlights from the same
// document never share a pointer.
type SourceDocument struct {
	ID            int64
	Title         *string
	Author        *string
	Category      *string
	Source        *string
	NumHighlights *int
	UpdatedAt     *string
	CoverImageURL *string
	SourceURL     *string
	ReadwiseURL   *string
}

// Clone returns a deep copy of the document.
func (d *SourceDocument) Clone() *SourceDocument {
	if d == nil {
		return nil
	}

	return &SourceDocument{
		ID:            d.ID,
		Title:         clonePtr(d.Title),
		Author:        clonePtr(d.Author),
		Category:      clonePtr(d.Category),
		Source:        clonePtr(d.Source),
		NumHighlights: clonePtr(d.NumHighlights),
		UpdatedAt:     clonePtr(d.UpdatedAt),
		CoverImageURL: clonePtr(d.CoverImageURL),
		SourceURL:     clonePtr(d.SourceURL),
		ReadwiseURL:   clonePtr(d.ReadwiseURL),
	}
}

// Highlight is a passage a user saved in their highlight provider account,
// enriched with the metadata of the document it came from.
type Highlight struct {
	// ID is unique within one provider account.
	ID int64

	// Text is the highlighted passage.
	Text string

	Note          *string
	Location      *int
	LocationType  *string
	HighlightedAt *string
	URL           *string
	Color         *string
	UpdatedAt     *string

	// SourceDocumentID back-references the owning document.
	SourceDocumentID *int64

	Tags []Tag

	// Document is this highlight's private copy of its document summary.
	Document *SourceDocument
}

// Clone returns a deep copy of the highlight, including its document.
func (h *Highlight) Clone() Highlight {
	return Highlight{
		ID:               h.ID,
		Text:             h.Text,
		Note:             clonePtr(h.Note),
		Location:         clonePtr(h.Location),
		LocationType:     clonePtr(h.LocationType),
		HighlightedAt:    clonePtr(h.HighlightedAt),
		URL:              clonePtr(h.URL),
		Color:            clonePtr(h.Color),
		UpdatedAt:        clonePtr(h.UpdatedAt),
		SourceDocumentID: clonePtr(h.SourceDocumentID),
		Tags:             slices.Clone(h.Tags),
		Document:         h.Document.Clone(),
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}

	v := *p

	return &v
}
