package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/mma_currency/internal/core/ports/services"
	"github.com/SscSPs/mma_currency/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterCacheRoutes registers rate cache maintenance routes.
func RegisterCacheRoutes(rg *gin.RouterGroup, rates portssvc.RateCacheSvc) {
	rg.POST("/cache/clear", func(c *gin.Context) {
		clearCache(c, rates)
	})
}

// clearCache godoc
// @Summary Clear the rate cache
// @Description Drops every cached exchange rate and the cached currency catalog.
// @Tags cache
// @Success 204 "Cache cleared"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /cache/clear [post]
func clearCache(c *gin.Context, rates portssvc.RateCacheSvc) {
	rates.ClearCache(c.Request.Context())
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Rate cache cleared")
	c.Status(http.StatusNoContent)
}
