package dto

import (
	"time"

	"github.com/SscSPs/mma_currency/internal/core/domain"
	"github.com/SscSPs/mma_currency/internal/utils"
	"github.com/shopspring/decimal"
)

// ConvertItemRequest is one item of a bulk conversion request.
type ConvertItemRequest struct {
	ID     string          `json:"id" binding:"required"`
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
	From   string          `json:"from" binding:"required,currency_code"`
	To     string          `json:"to" binding:"required,currency_code"`
}

// ConvertRequest is the body of POST /conversions/convert.
type ConvertRequest struct {
	Items []ConvertItemRequest `json:"items" binding:"required,min=1,max=1000,dive"`
}

// ToDomainItems maps the request items to domain conversion items.
func (r ConvertRequest) ToDomainItems() []domain.ConversionItem {
	items := make([]domain.ConversionItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = domain.ConversionItem{
			ID:     it.ID,
			Type:   it.Type,
			Amount: it.Amount,
			From:   domain.NormalizeCode(it.From),
			To:     domain.NormalizeCode(it.To),
		}
	}
	return items
}

// ConvertResultResponse is one conversion result plus its display string.
type ConvertResultResponse struct {
	domain.ConversionResult
	Display string `json:"display,omitempty"`
}

// ConvertResponse wraps bulk conversion results.
type ConvertResponse struct {
	Results   []ConvertResultResponse `json:"results"`
	Succeeded int                     `json:"succeeded"`
	Failed    int                     `json:"failed"`
}

// ToConvertResponse counts outcomes and renders converted amounts in their target currency.
// results must be positionally aligned with items.
func ToConvertResponse(items []domain.ConversionItem, results []domain.ConversionResult) ConvertResponse {
	res := ConvertResponse{Results: make([]ConvertResultResponse, len(results))}
	for i, r := range results {
		res.Results[i] = ConvertResultResponse{ConversionResult: r}
		if !r.Success {
			res.Failed++
			continue
		}
		res.Succeeded++
		if r.ConvertedAmount != nil && i < len(items) {
			res.Results[i].Display = utils.DisplayAmount(*r.ConvertedAmount, items[i].To)
		}
	}
	return res
}

// CurrencyChangeRequest asks to re-denominate the user's records.
type CurrencyChangeRequest struct {
	FromCurrency string `json:"fromCurrency" binding:"required,currency_code"`
	ToCurrency   string `json:"toCurrency" binding:"required,currency_code"`
}

// ConversionTaskResponse is the API view of a conversion task.
type ConversionTaskResponse struct {
	ID             string              `json:"id"`
	FromCurrency   string              `json:"fromCurrency"`
	ToCurrency     string              `json:"toCurrency"`
	Status         string              `json:"status"`
	CreatedAt      time.Time           `json:"createdAt"`
	ProcessedAt    *time.Time          `json:"processedAt,omitempty"`
	Error          string              `json:"error,omitempty"`
	ItemsToProcess int                 `json:"itemsToProcess"`
	ItemsProcessed int                 `json:"itemsProcessed"`
	ItemsFailed    int                 `json:"itemsFailed"`
	FailedItems    []domain.FailedItem `json:"failedItems,omitempty"`
}

// ToConversionTaskResponse converts a domain.ConversionTask to its DTO
func ToConversionTaskResponse(t domain.ConversionTask) ConversionTaskResponse {
	return ConversionTaskResponse{
		ID:             t.ID,
		FromCurrency:   t.FromCurrency,
		ToCurrency:     t.ToCurrency,
		Status:         string(t.Status),
		CreatedAt:      t.CreatedAt,
		ProcessedAt:    t.ProcessedAt,
		Error:          t.Error,
		ItemsToProcess: t.ItemsToProcess,
		ItemsProcessed: t.ItemsProcessed,
		ItemsFailed:    t.ItemsFailed,
		FailedItems:    t.FailedItems,
	}
}

// CurrencyChangeResponse tells whether the change ran or was queued.
type CurrencyChangeResponse struct {
	Outcome string                 `json:"outcome"`
	Task    ConversionTaskResponse `json:"task"`
}

// QueueStatusResponse is the API view of the conversion queue.
type QueueStatusResponse struct {
	IsProcessing bool                     `json:"isProcessing"`
	Pending      int                      `json:"pending"`
	Tasks        []ConversionTaskResponse `json:"tasks"`
}

// ToQueueStatusResponse converts a domain.ConversionQueue to its DTO
func ToQueueStatusResponse(q domain.ConversionQueue) QueueStatusResponse {
	res := QueueStatusResponse{
		IsProcessing: q.IsProcessing,
		Pending:      q.CountStatus(domain.TaskPending),
		Tasks:        make([]ConversionTaskResponse, len(q.Tasks)),
	}
	for i, t := range q.Tasks {
		res.Tasks[i] = ToConversionTaskResponse(t)
	}
	return res
}

// ClearTasksResponse reports how many finished tasks were pruned.
type ClearTasksResponse struct {
	Removed int `json:"removed"`
}
