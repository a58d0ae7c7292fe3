package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/mma_currency/internal/apperrors"
	"github.com/SscSPs/mma_currency/internal/core/domain"
	portssvc "github.com/SscSPs/mma_currency/internal/core/ports/services"
	"github.com/SscSPs/mma_currency/internal/dto"
	"github.com/SscSPs/mma_currency/internal/handlers"
	"github.com/SscSPs/mma_currency/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type ConversionHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockConverter *MockBulkConverter
	mockRegistry  *MockConversionRegistry
	mockManager   *MockConversionManager
	mockRateCache *MockRateCache
	jwtSecret     string
	userID        string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *ConversionHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "mma-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *ConversionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	handlers.RegisterValidators()
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = "user-1"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockConverter = new(MockBulkConverter)
	suite.mockRegistry = new(MockConversionRegistry)
	suite.mockManager = new(MockConversionManager)
	suite.mockRateCache = new(MockRateCache)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterConversionRoutes(v1, suite.mockConverter, suite.mockRegistry)
	handlers.RegisterCacheRoutes(v1, suite.mockRateCache)
}

func (suite *ConversionHandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ConversionHandlerTestSuite) expectManager() {
	suite.mockRegistry.On("ForUser", mock.Anything, suite.userID).Return(suite.mockManager, nil).Once()
}

// --- Test Cases ---

func (suite *ConversionHandlerTestSuite) TestConvert_Success() {
	suite.mockConverter.On("ConvertMany", mock.Anything, mock.MatchedBy(func(items []domain.ConversionItem) bool {
		return len(items) == 2 && items[0].From == "USD" && items[1].ID == "b"
	})).Return([]domain.ConversionResult{
		domain.Converted(domain.ConversionItem{ID: "a", Type: "transaction", Amount: decimal.NewFromInt(100)}, decimal.RequireFromString("0.9")),
		domain.FailedConversion(domain.ConversionItem{ID: "b", Type: "budget"}, "rate unavailable"),
	}).Once()

	w := suite.do(http.MethodPost, "/api/v1/conversions/convert", gin.H{"items": []gin.H{
		{"id": "a", "type": "transaction", "amount": "100", "from": "usd", "to": "EUR"},
		{"id": "b", "type": "budget", "amount": "5", "from": "USD", "to": "XYZ"},
	}})

	suite.Equal(http.StatusOK, w.Code)
	var res dto.ConvertResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal(1, res.Succeeded)
	suite.Equal(1, res.Failed)
	suite.Require().Len(res.Results, 2)
	suite.True(res.Results[0].ConvertedAmount.Equal(decimal.NewFromInt(90)))
	suite.NotEmpty(res.Results[0].Display)
	suite.Equal("rate unavailable", res.Results[1].Error)
	suite.mockConverter.AssertExpectations(suite.T())
}

func (suite *ConversionHandlerTestSuite) TestConvert_InvalidInput() {
	cases := map[string]any{
		"empty items":  gin.H{"items": []gin.H{}},
		"bad code":     gin.H{"items": []gin.H{{"id": "a", "amount": "1", "from": "U$D", "to": "EUR"}}},
		"missing id":   gin.H{"items": []gin.H{{"amount": "1", "from": "USD", "to": "EUR"}}},
		"no items key": gin.H{},
	}
	for name, body := range cases {
		w := suite.do(http.MethodPost, "/api/v1/conversions/convert", body)
		suite.Equal(http.StatusBadRequest, w.Code, name)
	}
	suite.mockConverter.AssertNotCalled(suite.T(), "ConvertMany", mock.Anything, mock.Anything)
}

func (suite *ConversionHandlerTestSuite) TestConvert_Unauthorized() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/conversions/convert", bytes.NewBufferString(`{"items":[]}`))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *ConversionHandlerTestSuite) TestCurrencyChange_Queued() {
	suite.expectManager()
	task := domain.ConversionTask{ID: "task-1", FromCurrency: "USD", ToCurrency: "EUR", Status: domain.TaskPending}
	suite.mockManager.On("RequestCurrencyChange", mock.Anything, "usd", "EUR").Return(task, portssvc.OutcomeQueued, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/conversions/currency-change", gin.H{"fromCurrency": "usd", "toCurrency": "EUR"})

	suite.Equal(http.StatusAccepted, w.Code)
	var res dto.CurrencyChangeResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal("queued", res.Outcome)
	suite.Equal("task-1", res.Task.ID)
	suite.Equal("pending", res.Task.Status)
	suite.mockManager.AssertExpectations(suite.T())
}

func (suite *ConversionHandlerTestSuite) TestCurrencyChange_ExecutedOutcomes() {
	for _, outcome := range []portssvc.ChangeOutcome{portssvc.OutcomeCompleted, portssvc.OutcomeFailed} {
		suite.expectManager()
		task := domain.ConversionTask{ID: "task-" + string(outcome), Status: domain.TaskStatus(outcome), ItemsProcessed: 3}
		suite.mockManager.On("RequestCurrencyChange", mock.Anything, "USD", "GBP").Return(task, outcome, nil).Once()

		w := suite.do(http.MethodPost, "/api/v1/conversions/currency-change", gin.H{"fromCurrency": "USD", "toCurrency": "GBP"})

		suite.Equal(http.StatusOK, w.Code, string(outcome))
		var res dto.CurrencyChangeResponse
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
		suite.Equal(string(outcome), res.Outcome)
		suite.Equal(3, res.Task.ItemsProcessed)
	}
}

func (suite *ConversionHandlerTestSuite) TestCurrencyChange_Errors() {
	suite.Run("validation", func() {
		w := suite.do(http.MethodPost, "/api/v1/conversions/currency-change", gin.H{"fromCurrency": "USD"})
		suite.Equal(http.StatusBadRequest, w.Code)
	})
	suite.Run("registry shut down", func() {
		suite.mockRegistry.On("ForUser", mock.Anything, suite.userID).
			Return(nil, apperrors.NewAppError(http.StatusServiceUnavailable, "conversion registry is shut down", apperrors.ErrUnavailable)).Once()
		w := suite.do(http.MethodPost, "/api/v1/conversions/currency-change", gin.H{"fromCurrency": "USD", "toCurrency": "EUR"})
		suite.Equal(http.StatusServiceUnavailable, w.Code)
		suite.Contains(w.Body.String(), "shut down")
	})
	suite.Run("persist failure", func() {
		suite.expectManager()
		suite.mockManager.On("RequestCurrencyChange", mock.Anything, "USD", "JPY").
			Return(domain.ConversionTask{}, portssvc.ChangeOutcome(""), assertErr("kv down")).Once()
		w := suite.do(http.MethodPost, "/api/v1/conversions/currency-change", gin.H{"fromCurrency": "USD", "toCurrency": "JPY"})
		suite.Equal(http.StatusInternalServerError, w.Code)
		suite.Contains(w.Body.String(), "Failed to request currency change")
		suite.NotContains(w.Body.String(), "kv down")
	})
}

func (suite *ConversionHandlerTestSuite) TestGetQueueStatus() {
	suite.expectManager()
	suite.mockManager.On("GetQueueStatus").Return(domain.ConversionQueue{
		IsProcessing: true,
		Tasks: []domain.ConversionTask{
			{ID: "t1", Status: domain.TaskProcessing},
			{ID: "t2", Status: domain.TaskPending},
			{ID: "t3", Status: domain.TaskPending},
		},
	}).Once()

	w := suite.do(http.MethodGet, "/api/v1/conversions/queue", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.QueueStatusResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.True(res.IsProcessing)
	suite.Equal(2, res.Pending)
	suite.Len(res.Tasks, 3)
	suite.Equal("t1", res.Tasks[0].ID)
}

func (suite *ConversionHandlerTestSuite) TestClearFinishedTasks() {
	suite.expectManager()
	suite.mockManager.On("ClearCompletedTasks", mock.Anything).Return(2, nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/conversions/queue/finished", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"removed":2}`, w.Body.String())
	suite.mockManager.AssertExpectations(suite.T())
}

func (suite *ConversionHandlerTestSuite) TestClearCache() {
	suite.mockRateCache.On("ClearCache", mock.Anything).Return().Once()

	w := suite.do(http.MethodPost, "/api/v1/cache/clear", nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockRateCache.AssertExpectations(suite.T())
}

type assertErr string

func (e assertErr) Error() string { return string(e) }

// --- Run Test Suite ---
func TestConversionHandler(t *testing.T) {
	suite.Run(t, new(ConversionHandlerTestSuite))
}
