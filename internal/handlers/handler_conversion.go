package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/mma_currency/internal/core/ports/services"
	"github.com/SscSPs/mma_currency/internal/dto"
	"github.com/SscSPs/mma_currency/internal/middleware"
	"github.com/gin-gonic/gin"
)

// conversionHandler serves bulk conversion and the per-user currency migration queue.
type conversionHandler struct {
	converter   portssvc.BulkConverterSvc
	conversions portssvc.ConversionRegistrySvc
}

// RegisterConversionRoutes registers routes related to conversions.
func RegisterConversionRoutes(rg *gin.RouterGroup, converter portssvc.BulkConverterSvc, conversions portssvc.ConversionRegistrySvc) {
	h := &conversionHandler{converter: converter, conversions: conversions}

	conversionsGroup := rg.Group("/conversions")
	{
		conversionsGroup.POST("/convert", h.convert)
		conversionsGroup.POST("/currency-change", h.requestCurrencyChange)
		conversionsGroup.GET("/queue", h.getQueueStatus)
		conversionsGroup.DELETE("/queue/finished", h.clearFinishedTasks)
	}
}

// managerFor resolves the conversion manager of the authenticated user, writing the
// error response itself when it cannot.
func (h *conversionHandler) managerFor(c *gin.Context, logger *slog.Logger) (portssvc.ConversionManagerSvc, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}
	manager, err := h.conversions.ForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to load conversion queue")
		return nil, false
	}
	return manager, true
}

// convert godoc
// @Summary Convert amounts in bulk
// @Description Converts every item, in order. Items whose rate cannot be determined are reported as failed; the rest still convert.
// @Tags conversions
// @Accept  json
// @Produce  json
// @Param   request body dto.ConvertRequest true "Items to convert"
// @Success 200 {object} dto.ConvertResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /conversions/convert [post]
func (h *conversionHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Convert", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	items := req.ToDomainItems()
	results := h.converter.ConvertMany(c.Request.Context(), items)
	res := dto.ToConvertResponse(items, results)
	if res.Failed > 0 {
		logger.Warn("Bulk conversion finished with failures", slog.Int("succeeded", res.Succeeded), slog.Int("failed", res.Failed))
	}
	c.JSON(http.StatusOK, res)
}

// requestCurrencyChange godoc
// @Summary Change the currency of all records
// @Description Re-denominates every transaction, budget, loan and investment from one currency to another. Runs immediately when online and idle (200), otherwise the change is queued and runs once connectivity returns or the running migration ends (202).
// @Tags conversions
// @Accept  json
// @Produce  json
// @Param   request body dto.CurrencyChangeRequest true "Currency pair"
// @Success 200 {object} dto.CurrencyChangeResponse "Migration executed; outcome is completed or failed"
// @Success 202 {object} dto.CurrencyChangeResponse "Migration queued"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to persist the conversion queue"
// @Security BearerAuth
// @Router /conversions/currency-change [post]
func (h *conversionHandler) requestCurrencyChange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CurrencyChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CurrencyChange", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	manager, ok := h.managerFor(c, logger)
	if !ok {
		return
	}

	logger.Info("Received currency change request", slog.String("from", req.FromCurrency), slog.String("to", req.ToCurrency))
	task, outcome, err := manager.RequestCurrencyChange(c.Request.Context(), req.FromCurrency, req.ToCurrency)
	if err != nil {
		respondError(c, logger, err, "Failed to request currency change")
		return
	}

	status := http.StatusOK
	if outcome == portssvc.OutcomeQueued {
		status = http.StatusAccepted
	}
	c.JSON(status, dto.CurrencyChangeResponse{Outcome: string(outcome), Task: dto.ToConversionTaskResponse(task)})
}

// getQueueStatus godoc
// @Summary Get the conversion queue
// @Description Returns every conversion task of the user with its progress counters.
// @Tags conversions
// @Produce  json
// @Success 200 {object} dto.QueueStatusResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /conversions/queue [get]
func (h *conversionHandler) getQueueStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	manager, ok := h.managerFor(c, logger)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToQueueStatusResponse(manager.GetQueueStatus()))
}

// clearFinishedTasks godoc
// @Summary Remove finished conversion tasks
// @Description Drops completed and failed tasks from the queue. Pending and running tasks are kept.
// @Tags conversions
// @Produce  json
// @Success 200 {object} dto.ClearTasksResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to persist the conversion queue"
// @Security BearerAuth
// @Router /conversions/queue/finished [delete]
func (h *conversionHandler) clearFinishedTasks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	manager, ok := h.managerFor(c, logger)
	if !ok {
		return
	}
	removed, err := manager.ClearCompletedTasks(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to clear finished tasks")
		return
	}
	c.JSON(http.StatusOK, dto.ClearTasksResponse{Removed: removed})
}
