package acl

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/jsamuelsen/vows/internal/domain"
)

// exportPage is one page of the Readwise grouped export.
// Never exposed outside the ACL.
type exportPage struct {
	Count   int           `json:"count"`
	Results []exportGroup `json:"results"`

	// The continuation token is kept raw: its shape decides whether
	// pagination continues.
	NextPageCursor      json.RawMessage `json:"nextPageCursor"`
	NextPageCursorSnake json.RawMessage `json:"next_page_cursor"`
}

// exportGroup is a source document with its highlights nested.
type exportGroup struct {
	UserBookID    int64             `json:"user_book_id"`
	Title         *string           `json:"title"`
	Author        *string           `json:"author"`
	Category      *string           `json:"category"`
	Source        *string           `json:"source"`
	NumHighlights *int              `json:"num_highlights"`
	Updated       *string           `json:"updated"`
	CoverImageURL *string           `json:"cover_image_url"`
	SourceURL     *string           `json:"source_url"`
	ReadwiseURL   *string           `json:"readwise_url"`
	Highlights    []exportHighlight `json:"highlights"`
}

type exportHighlight struct {
	ID            int64       `json:"id"`
	Text          string      `json:"text"`
	Note          *string     `json:"note"`
	Location      *int        `json:"location"`
	LocationType  *string     `json:"location_type"`
	HighlightedAt *string     `json:"highlighted_at"`
	URL           *string     `json:"url"`
	Color         *string     `json:"color"`
	Updated       *string     `json:"updated"`
	BookID        *int64      `json:"book_id"`
	Tags          []exportTag `json:"tags"`
}

type exportTag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// translateExportGroup flattens one group into highlight records in
// provider order. Every record receives its own copy of the document
// summary. Absent optional fields stay nil.
func translateExportGroup(group *exportGroup) []domain.Highlight {
	doc := domain.SourceDocument{
		ID:            group.UserBookID,
		Title:         group.Title,
		Author:        group.Author,
		Category:      group.Category,
		Source:        group.Source,
		NumHighlights: group.NumHighlights,
		UpdatedAt:     group.Updated,
		CoverImageURL: group.CoverImageURL,
		SourceURL:     group.SourceURL,
		ReadwiseURL:   group.ReadwiseURL,
	}

	out := make([]domain.Highlight, 0, len(group.Highlights))

	for i := range group.Highlights {
		h := &group.Highlights[i]

		// The group id is authoritative when the highlight omits book_id.
		docID := group.UserBookID
		if h.BookID != nil {
			docID = *h.BookID
		}

		tags := make([]domain.Tag, 0, len(h.Tags))
		for _, t := range h.Tags {
			tags = append(tags, domain.Tag{ID: t.ID, Name: t.Name})
		}

		record := domain.Highlight{
			ID:               h.ID,
			Text:             h.Text,
			Note:             h.Note,
			Location:         h.Location,
			LocationType:     h.LocationType,
			HighlightedAt:    h.HighlightedAt,
			URL:              h.URL,
			Color:            h.Color,
			UpdatedAt:        h.Updated,
			SourceDocumentID: &docID,
			Tags:             tags,
			Document:         &doc,
		}

		// Clone detaches the record from the shared DTO and document.
		out = append(out, record.Clone())
	}

	return out
}

// nextCursor returns the continuation token and whether pagination
// continues. Both spellings of the field are read; when both carry a
// value that is a competing shape and pagination stops unless they agree.
func (p *exportPage) nextCursor() (string, bool) {
	camelSet := !isNullJSON(p.NextPageCursor)
	snakeSet := !isNullJSON(p.NextPageCursorSnake)

	switch {
	case camelSet && snakeSet:
		a, okA := decodeCursor(p.NextPageCursor)
		b, okB := decodeCursor(p.NextPageCursorSnake)
		if okA && okB && a == b {
			return a, true
		}

		return "", false
	case camelSet:
		return decodeCursor(p.NextPageCursor)
	case snakeSet:
		return decodeCursor(p.NextPageCursorSnake)
	default:
		return "", false
	}
}

// decodeCursor accepts a non-empty JSON string or a non-zero JSON integer.
// Every other shape ends pagination.
func decodeCursor(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if isNullJSON(raw) {
		return "", false
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return "", false
		}

		return s, true
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		n, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil || n == 0 {
			return "", false
		}

		return strconv.FormatInt(n, 10), true
	default:
		return "", false
	}
}

func isNullJSON(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)

	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
