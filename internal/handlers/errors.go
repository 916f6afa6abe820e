package handlers

import (
	"errors"

	"github.com/coalhq/coal-server/internal/services"
	"github.com/coalhq/coal-server/pkg/logger"
	"github.com/coalhq/coal-server/pkg/response"
	"github.com/gin-gonic/gin"
)

// respondError maps service error kinds onto HTTP responses. Storage
// failures are logged with detail but surfaced opaquely.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, services.ErrConflict):
		response.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidArgument):
		response.BadRequest(c, err.Error())
	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("storage failure")
		response.ServerError(c, "internal error")
	}
}
