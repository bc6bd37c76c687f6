package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// Page size bounds for list endpoints.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

var (
	// ErrInvalidCursor is returned for a cursor that does not decode.
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrNoCursor signals a first-page request. It is not a failure.
	ErrNoCursor = errors.New("no cursor provided")
)

// PaginationRequest holds the cursor and limit query parameters.
type PaginationRequest struct {
	// Cursor is the NextCursor of the previous page.
	Cursor string `form:"cursor"`

	Limit int `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

// GetLimit returns Limit clamped to [1, MaxLimit], or DefaultLimit when unset.
func (p *PaginationRequest) GetLimit() int {
	switch {
	case p.Limit <= 0:
		return DefaultLimit
	case p.Limit > MaxLimit:
		return MaxLimit
	default:
		return p.Limit
	}
}

// DecodeCursor decodes Cursor. It returns ErrNoCursor when Cursor is empty.
func (p *PaginationRequest) DecodeCursor() (*CursorData, error) {
	return DecodeCursor(p.Cursor)
}

// PaginatedResponse is one page of a listing.
type PaginatedResponse[T any] struct {
	Items []T `json:"items"`

	// NextCursor is empty on the last page.
	NextCursor string `json:"nextCursor,omitempty"`

	HasMore bool `json:"hasMore"`
}

// NewPaginatedResponse builds a page from up to limit+1 items. The extra
// item only signals that another page exists and is dropped; the cursor
// is built from the last item kept.
func NewPaginatedResponse[T any](items []T, limit int, cursorFor func(T) *CursorData) *PaginatedResponse[T] {
	page := &PaginatedResponse[T]{Items: items}
	if page.Items == nil {
		page.Items = []T{}
	}

	if len(items) <= limit {
		return page
	}

	page.Items = items[:limit]
	page.HasMore = true

	if limit > 0 && cursorFor != nil {
		page.NextCursor = EncodeCursor(cursorFor(page.Items[limit-1]))
	}

	return page
}

// CursorData is the position a cursor resumes from.
type CursorData struct {
	// After is the ID of the last item already returned.
	After string `json:"after"`
}

// NewCursor returns a cursor resuming after the item with id.
func NewCursor(id string) *CursorData {
	return &CursorData{After: id}
}

// EncodeCursor returns the opaque wire form of data.
func EncodeCursor(data *CursorData) string {
	if data == nil || data.After == "" {
		return ""
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return ""
	}

	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses the wire form produced by EncodeCursor.
func DecodeCursor(encoded string) (*CursorData, error) {
	if encoded == "" {
		return nil, ErrNoCursor
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	var data CursorData
	if err := json.Unmarshal(raw, &data); err != nil || data.After == "" {
		return nil, ErrInvalidCursor
	}

	return &data, nil
}
