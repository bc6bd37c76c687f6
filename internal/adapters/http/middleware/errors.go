package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/vows/internal/adapters/http/dto"
)

// contextKeyFlatErrors marks routes that answer with dto.MessageResponse.
const contextKeyFlatErrors = "flat_errors"

// MsgInternalError is the flat body written when a drafting route panics.
const MsgInternalError = "Internal server error"

// FlatErrors marks the route group as answering errors with the flat
// {"error": "..."} body instead of the envelope. Recovery honours the mark.
func FlatErrors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKeyFlatErrors, true)
		c.Next()
	}
}

// abortInternal ends the request with a 500 in the shape the route uses.
// Nothing is written if the handler already started the response.
func abortInternal(c *gin.Context) {
	if c.Writer.Written() {
		c.Abort()
		return
	}

	if c.GetBool(contextKeyFlatErrors) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.MessageResponse{Error: MsgInternalError})
		return
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError,
		dto.NewErrorResponse(dto.ErrorCodeInternal, "an internal error occurred").WithTraceID(dto.GetTraceID(c)))
}
