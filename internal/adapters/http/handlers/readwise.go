package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/vows/internal/adapters/http/dto"
	"github.com/jsamuelsen/vows/internal/domain"
	"github.com/jsamuelsen/vows/internal/platform/logging"
)

// Flat error messages returned by POST /readwise.
const (
	MsgReadwiseKeyRequired = "Readwise API key is required"
	MsgReadwiseKeyInvalid  = "Invalid Readwise API key"
	MsgReadwiseFailed      = "Failed to fetch Readwise highlights"
)

// HighlightFetcher runs one full highlight ingestion for a caller credential.
type HighlightFetcher interface {
	FetchAll(ctx context.Context, credential string) ([]domain.Highlight, error)
}

// ReadwiseRequest is the body of POST /readwise.
type ReadwiseRequest struct {
	APIKey string `json:"apiKey" validate:"required,notblank"`
}

// ReadwiseResponse wraps the ingested highlights.
type ReadwiseResponse struct {
	Highlights []HighlightResponse `json:"highlights"`
}

// TagResponse is a highlight tag.
type TagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookResponse summarizes a highlight's source document. Field names follow
// the provider's export format so existing clients can consume them as-is.
type BookResponse struct {
	ID            int64   `json:"id"`
	Title         *string `json:"title,omitempty"`
	Author        *string `json:"author,omitempty"`
	Category      *string `json:"category,omitempty"`
	Source        *string `json:"source,omitempty"`
	NumHighlights *int    `json:"num_highlights,omitempty"`
	Updated       *string `json:"updated,omitempty"`
	CoverImageURL *string `json:"cover_image_url,omitempty"`
	SourceURL     *string `json:"source_url,omitempty"`
	ReadwiseURL   *string `json:"readwise_url,omitempty"`
}

// HighlightResponse is one ingested highlight with its document attached.
type HighlightResponse struct {
	ID            int64         `json:"id"`
	Text          string        `json:"text"`
	Note          *string       `json:"note,omitempty"`
	Location      *int          `json:"location,omitempty"`
	LocationType  *string       `json:"location_type,omitempty"`
	HighlightedAt *string       `json:"highlighted_at,omitempty"`
	URL           *string       `json:"url,omitempty"`
	Color         *string       `json:"color,omitempty"`
	Updated       *string       `json:"updated,omitempty"`
	BookID        *int64        `json:"book_id,omitempty"`
	Tags          []TagResponse `json:"tags"`
	Book          *BookResponse `json:"book,omitempty"`
}

func toHighlightResponse(h *domain.Highlight) HighlightResponse {
	tags := make([]TagResponse, 0, len(h.Tags))
	for _, t := range h.Tags {
		tags = append(tags, TagResponse{ID: t.ID, Name: t.Name})
	}

	resp := HighlightResponse{
		ID:            h.ID,
		Text:          h.Text,
		Note:          h.Note,
		Location:      h.Location,
		LocationType:  h.LocationType,
		HighlightedAt: h.HighlightedAt,
		URL:           h.URL,
		Color:         h.Color,
		Updated:       h.UpdatedAt,
		BookID:        h.SourceDocumentID,
		Tags:          tags,
	}

	if d := h.Document; d != nil {
		resp.Book = &BookResponse{
			ID:            d.ID,
			Title:         d.Title,
			Author:        d.Author,
			Category:      d.Category,
			Source:        d.Source,
			NumHighlights: d.NumHighlights,
			Updated:       d.UpdatedAt,
			CoverImageURL: d.CoverImageURL,
			SourceURL:     d.SourceURL,
			ReadwiseURL:   d.ReadwiseURL,
		}
	}

	return resp
}

// ReadwiseHandler serves POST /readwise.
type ReadwiseHandler struct {
	fetcher HighlightFetcher
}

// NewReadwiseHandler creates a new readwise handler.
func NewReadwiseHandler(fetcher HighlightFetcher) *ReadwiseHandler {
	return &ReadwiseHandler{fetcher: fetcher}
}

// FetchHighlights handles POST /readwise. The credential in the body is
// used for this request only.
//
// @Summary Fetch every highlight in the caller's Readwise account
// @Tags readwise
// @Accept json
// @Produce json
// @Param request body ReadwiseRequest true "Readwise credential"
// @Success 200 {object} ReadwiseResponse
// @Failure 400 {object} dto.MessageResponse
// @Failure 401 {object} dto.MessageResponse
// @Failure 500 {object} dto.MessageResponse
// @Router /readwise [post]
func (h *ReadwiseHandler) FetchHighlights(c *gin.Context) {
	var body ReadwiseRequest
	if err := dto.BindAndValidate(c, &body); err != nil {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Error: MsgReadwiseKeyRequired})
		return
	}

	highlights, err := h.fetcher.FetchAll(c.Request.Context(), body.APIKey)
	if err != nil {
		switch {
		case domain.IsValidation(err):
			c.JSON(http.StatusBadRequest, dto.MessageResponse{Error: MsgReadwiseKeyRequired})
		case domain.IsInvalidCredential(err):
			c.JSON(http.StatusUnauthorized, dto.MessageResponse{Error: MsgReadwiseKeyInvalid})
		default:
			logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "highlight ingestion failed",
				slog.String("error", err.Error()),
				slog.String("trace_id", dto.GetTraceID(c)),
			)
			c.JSON(http.StatusInternalServerError, dto.MessageResponse{Error: MsgReadwiseFailed})
		}

		return
	}

	c.JSON(http.StatusOK, NewReadwiseResponse(highlights))
}

// NewReadwiseResponse converts highlights to their wire shape. The result
// always holds a non-nil slice.
func NewReadwiseResponse(highlights []domain.Highlight) ReadwiseResponse {
	resp := ReadwiseResponse{Highlights: make([]HighlightResponse, 0, len(highlights))}
	for i := range highlights {
		resp.Highlights = append(resp.Highlights, toHighlightResponse(&highlights[i]))
	}

	return resp
}
