package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/mma_currency/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondError maps err to a status code. Client errors echo the message; server
// errors are logged and answered with fallback.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		if status == http.StatusServiceUnavailable {
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	logger.Warn(fallback, slog.String("error", err.Error()))
	c.JSON(status, gin.H{"error": err.Error()})
}
