package handlers

import (
	"sync"

	"github.com/SscSPs/mma_currency/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// RegisterValidators adds the custom binding tags used by the request DTOs.
func RegisterValidators() {
	registerValidatorsOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("currency_code", validateCurrencyCode)
		}
	})
}

// validateCurrencyCode accepts ISO codes and crypto tickers in any case.
func validateCurrencyCode(fl validator.FieldLevel) bool {
	return domain.ValidCode(domain.NormalizeCode(fl.Field().String()))
}
