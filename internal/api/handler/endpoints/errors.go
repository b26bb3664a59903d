package endpoints

import (
	"errors"
	"net/http"

	"blockgen/internal/api/handler/response"
	"blockgen/internal/api/service"
	"blockgen/internal/gen"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrProjectNotFound), errors.Is(err, service.ErrArtifactNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidGraph), errors.Is(err, gen.ErrUnknownBackend),
		errors.Is(err, gen.ErrCyclicGraph), errors.Is(err, gen.ErrSlotMismatch):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrExportDisabled), errors.Is(err, service.ErrMailNotConfigured):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError writes err as an APIError. Unexpected errors are logged and
// replaced by fallback.
func respondError(c *gin.Context, logger zerolog.Logger, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
		c.JSON(status, response.APIError{Message: fallback})
		return
	}
	c.JSON(status, response.APIError{Message: err.Error()})
}
