package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ersonp/lore-reader/internal/domain/entities"
)

// retryAfterSeconds is advertised when the lore store is unreachable.
const retryAfterSeconds = "5"

// APIError is the body of an error response.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps APIError as {"error": {...}}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError writes an error envelope with the given status.
func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondOK writes payload as JSON with status 200.
func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// respondDomainError maps domain sentinels onto HTTP statuses. notFound, when
// set, replaces the message for 404 responses. Internal errors are logged but
// never echoed.
func (s *routes) respondDomainError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, entities.ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, "invalid_input", err)
	case errors.Is(err, entities.ErrNotFound):
		if notFound != "" {
			err = errors.New(notFound)
		}
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, entities.ErrStoreUnavailable):
		s.log.Warn("lore store unavailable", "path", c.FullPath(), "error", err)
		c.Header("Retry-After", retryAfterSeconds)
		RespondError(c, http.StatusServiceUnavailable, "store_unavailable", errors.New("lore store unavailable"))
	default:
		s.log.Error("request failed", "path", c.FullPath(), "error", err)
		RespondError(c, http.StatusInternalServerError, "internal", errors.New("internal server error"))
	}
}
