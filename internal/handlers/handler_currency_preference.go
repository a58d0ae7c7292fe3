package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/mma_currency/internal/core/ports/services"
	"github.com/SscSPs/mma_currency/internal/dto"
	"github.com/SscSPs/mma_currency/internal/middleware"
	"github.com/gin-gonic/gin"
)

type currencyPreferenceHandler struct {
	preferences portssvc.CurrencyPreferenceSvc
}

// RegisterCurrencyPreferenceRoutes registers the caller's currency preference routes
// under /currencies/preferences.
func RegisterCurrencyPreferenceRoutes(rg *gin.RouterGroup, preferences portssvc.CurrencyPreferenceSvc) {
	h := &currencyPreferenceHandler{preferences: preferences}

	prefs := rg.Group("/currencies/preferences")
	{
		prefs.GET("", h.listPreferences)
		prefs.POST("", h.setPreference)
	}
}

// listPreferences godoc
// @Summary List the caller's currency preferences
// @Tags currencies
// @Produce  json
// @Success 200 {object} dto.ListCurrencyPreferencesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list currency preferences"
// @Security BearerAuth
// @Router /currencies/preferences [get]
func (h *currencyPreferenceHandler) listPreferences(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	prefs, err := h.preferences.ListPreferences(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to list currency preferences")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCurrencyPreferencesResponse(prefs))
}

// setPreference godoc
// @Summary Add or update a currency preference
// @Description Setting isPrimary clears the caller's previous primary currency.
// @Tags currencies
// @Accept  json
// @Produce  json
// @Param   preference body dto.SetCurrencyPreferenceRequest true "Preference"
// @Success 200 {object} dto.CurrencyPreferenceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to save currency preference"
// @Security BearerAuth
// @Router /currencies/preferences [post]
func (h *currencyPreferenceHandler) setPreference(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetCurrencyPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetCurrencyPreference", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	pref, err := h.preferences.SetPreference(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to save currency preference")
		return
	}
	c.JSON(http.StatusOK, dto.ToCurrencyPreferenceResponse(*pref))
}
