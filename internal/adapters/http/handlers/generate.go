package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/vows/internal/adapters/http/dto"
	"github.com/jsamuelsen/vows/internal/domain"
	"github.com/jsamuelsen/vows/internal/platform/logging"
)

// Flat error messages returned by POST /generate.
const (
	MsgMissingFields     = "Missing required fields"
	MsgKeyNotConfigured  = "OpenAI API key not configured"
	MsgGenerationFailed  = "Failed to generate vows. Please try again."
	msgInvalidFieldValue = "Invalid value for "
)

// Generator drafts text from a generation request.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (string, error)
}

// QuoteBody is the seed quote as posted by the client.
type QuoteBody struct {
	ID       string `json:"id"`
	Text     string `json:"text"     validate:"required,notblank"`
	Author   string `json:"author"`
	Period   string `json:"period"`
	Category string `json:"category,omitempty"`
}

// GenerateRequest is the body of POST /generate.
type GenerateRequest struct {
	Quote           *QuoteBody `json:"quote"           validate:"required"`
	PersonName      string     `json:"personName"      validate:"required,notblank"`
	Relationship    string     `json:"relationship"`
	Tone            string     `json:"tone"`
	PersonalContext string     `json:"personalContext"`
	Mode            string     `json:"mode"`
}

// GenerateResponse carries the drafted text. The field name is kept for
// existing clients even when the mode is eulogy.
type GenerateResponse struct {
	Vows string `json:"vows"`
}

// GenerateHandler serves POST /generate.
type GenerateHandler struct {
	generator Generator
}

// NewGenerateHandler creates a new generate handler.
func NewGenerateHandler(generator Generator) *GenerateHandler {
	return &GenerateHandler{generator: generator}
}

// Generate handles POST /generate.
//
// @Summary Draft vows or a eulogy from a seed quote
// @Tags generate
// @Accept json
// @Produce json
// @Param request body GenerateRequest true "Generation request"
// @Success 200 {object} GenerateResponse
// @Failure 400 {object} dto.MessageResponse
// @Failure 500 {object} dto.MessageResponse
// @Router /generate [post]
func (h *GenerateHandler) Generate(c *gin.Context) {
	var body GenerateRequest
	if err := dto.BindAndValidate(c, &body); err != nil {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Error: MsgMissingFields})
		return
	}

	mode, ok := domain.ParseMode(body.Mode)
	if !ok {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Error: msgInvalidFieldValue + "mode"})
		return
	}

	text, err := h.generator.Generate(c.Request.Context(), body.toDomain(mode))
	if err != nil {
		status, msg := generateErrorMessage(err)
		if status >= http.StatusInternalServerError {
			logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "generation failed",
				slog.String("error", err.Error()),
				slog.String("trace_id", dto.GetTraceID(c)),
			)
		}

		c.JSON(status, dto.MessageResponse{Error: msg})
		return
	}

	c.JSON(http.StatusOK, GenerateResponse{Vows: text})
}

func (r *GenerateRequest) toDomain(mode domain.Mode) domain.GenerationRequest {
	return domain.GenerationRequest{
		Quote: domain.Quote{
			ID:       r.Quote.ID,
			Text:     r.Quote.Text,
			Author:   r.Quote.Author,
			Period:   r.Quote.Period,
			Category: r.Quote.Category,
		},
		PersonName:      r.PersonName,
		Relationship:    r.Relationship,
		Tone:            r.Tone,
		PersonalContext: r.PersonalContext,
		Mode:            mode,
	}
}

// generateErrorMessage maps a generation error to the flat message body.
// Any missing required field reports MsgMissingFields; other invalid values name the field.
func generateErrorMessage(err error) (int, string) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		switch validationErr.Field {
		case "quote", "personName", "relationship":
			return http.StatusBadRequest, MsgMissingFields
		default:
			return http.StatusBadRequest, msgInvalidFieldValue + validationErr.Field
		}
	}

	if domain.IsConfiguration(err) {
		return http.StatusInternalServerError, MsgKeyNotConfigured
	}

	return http.StatusInternalServerError, MsgGenerationFailed
}
