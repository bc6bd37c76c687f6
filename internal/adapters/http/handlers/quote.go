package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/vows/internal/adapters/http/dto"
	"github.com/jsamuelsen/vows/internal/app"
	"github.com/jsamuelsen/vows/internal/domain"
)

// QuoteHandler handles quote catalog HTTP endpoints.
type QuoteHandler struct {
	service *app.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		service: service,
	}
}

// QuoteResponse is the HTTP response structure for a quote.
type QuoteResponse struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Author   string `json:"author"`
	Period   string `json:"period"`
	Category string `json:"category,omitempty"`
}

// toQuoteResponse converts a domain Quote to an HTTP response.
func toQuoteResponse(q domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:       q.ID,
		Text:     q.Text,
		Author:   q.Author,
		Period:   q.Period,
		Category: q.Category,
	}
}

// ListQuotesRequest holds the query parameters of GET /api/v1/quotes.
type ListQuotesRequest struct {
	dto.PaginationRequest

	Author   string `form:"author"`
	Category string `form:"category"`
}

// ValuesResponse lists distinct catalog values such as authors.
type ValuesResponse struct {
	Items []string `json:"items"`
}

// ListQuotes handles GET /api/v1/quotes
// Returns catalog quotes filtered by author and category, one page at a time.
//
// @Summary List catalog quotes
// @Tags quotes
// @Produce json
// @Param author query string false "Exact author name, or all"
// @Param category query string false "Exact category, or all"
// @Param cursor query string false "Cursor from a previous page"
// @Param limit query int false "Page size (1-100)"
// @Success 200 {object} dto.PaginatedResponse[QuoteResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	var req ListQuotesRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithDetails(
			dto.ErrorCodeValidation,
			"invalid query parameters",
			dto.ValidationErrors(err),
		).WithTraceID(dto.GetTraceID(c)))
		return
	}

	var after string

	cursor, err := req.DecodeCursor()
	switch {
	case errors.Is(err, dto.ErrNoCursor):
	case err != nil:
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			err.Error(),
		).WithTraceID(dto.GetTraceID(c)))
		return
	default:
		after = cursor.After
	}

	limit := req.GetLimit()

	quotes, err := h.service.List(c.Request.Context(), app.QuoteFilter{
		Author:   req.Author,
		Category: req.Category,
	}, after, limit+1)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	items := make([]QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		items = append(items, toQuoteResponse(q))
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(items, limit, func(q QuoteResponse) *dto.CursorData {
		return dto.NewCursor(q.ID)
	}))
}

// GetQuoteByID handles GET /api/v1/quotes/:id
// Returns a specific catalog quote by its identifier.
//
// @Summary Get a quote by ID
// @Tags quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/{id} [get]
func (h *QuoteHandler) GetQuoteByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"quote ID is required",
		).WithTraceID(dto.GetTraceID(c)))
		return
	}

	quote, err := h.service.GetQuoteByID(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

// ListAuthors handles GET /api/v1/quotes/authors.
func (h *QuoteHandler) ListAuthors(c *gin.Context) {
	c.JSON(http.StatusOK, ValuesResponse{Items: h.service.Authors()})
}

// ListCategories handles GET /api/v1/quotes/categories.
func (h *QuoteHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, ValuesResponse{Items: h.service.Categories()})
}

// RegisterQuoteRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.GET("/authors", h.ListAuthors)
	quotes.GET("/categories", h.ListCategories)
	quotes.GET("/:id", h.GetQuoteByID)
}
