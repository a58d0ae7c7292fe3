package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/mma_currency/internal/core/domain"
	portssvc "github.com/SscSPs/mma_currency/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// BulkConverter converts batches of amounts, preferring the source's bulk endpoint
// and falling back to one RateCache lookup per item.
type BulkConverter struct {
	BaseService
	source portssvc.RateSource
	rates  portssvc.RateCacheSvc
}

// NewBulkConverter creates a BulkConverter.
func NewBulkConverter(source portssvc.RateSource, rates portssvc.RateCacheSvc) *BulkConverter {
	return &BulkConverter{source: source, rates: rates}
}

// ConvertMany returns exactly one result per item, in input order.
// Amounts are multiplied by the rate without rounding.
func (b *BulkConverter) ConvertMany(ctx context.Context, items []domain.ConversionItem) []domain.ConversionResult {
	results := make([]domain.ConversionResult, len(items))

	batch := make([]domain.ConversionItem, 0, len(items))
	positions := make([]int, 0, len(items))
	for i, item := range items {
		item.From, item.To = domain.NormalizeCode(item.From), domain.NormalizeCode(item.To)
		if item.From == item.To {
			results[i] = domain.Converted(item, decimal.NewFromInt(1))
			continue
		}
		batch = append(batch, item)
		positions = append(positions, i)
	}
	if len(batch) == 0 {
		return results
	}

	matched, err := b.fetchBatch(ctx, batch)
	if err == nil {
		for j, r := range matched {
			results[positions[j]] = r
		}
		return results
	}

	if errors.Is(err, portssvc.ErrBulkUnsupported) {
		b.LogDebug(ctx, "No bulk endpoint, converting items individually", slog.Int("items", len(batch)))
	} else {
		b.LogWarn(ctx, err, "Bulk conversion unavailable, converting items individually", slog.Int("items", len(batch)))
	}
	for j, item := range batch {
		results[positions[j]] = b.convertOne(ctx, item)
	}
	return results
}

// fetchBatch calls the bulk endpoint and returns its results aligned with batch.
func (b *BulkConverter) fetchBatch(ctx context.Context, batch []domain.ConversionItem) ([]domain.ConversionResult, error) {
	if err := uniqueIDs(batch); err != nil {
		return nil, err
	}
	batchResults, err := b.source.FetchBulk(ctx, batch)
	if err != nil {
		return nil, err
	}
	return matchBatch(batch, batchResults)
}

func (b *BulkConverter) convertOne(ctx context.Context, item domain.ConversionItem) domain.ConversionResult {
	quote := b.rates.GetRate(ctx, item.From, item.To)
	if !quote.Reliable() {
		return domain.FailedConversion(item, fmt.Sprintf("no exchange rate available for %s to %s", item.From, item.To))
	}
	return domain.Converted(item, quote.Rate)
}

// uniqueIDs rejects batches whose results could not be told apart.
func uniqueIDs(batch []domain.ConversionItem) error {
	seen := make(map[string]struct{}, len(batch))
	for _, item := range batch {
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("duplicate item id %q in batch", item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

// matchBatch lines endpoint results up with batch by item id. A missing, duplicate or
// unknown id rejects the whole batch.
func matchBatch(batch []domain.ConversionItem, batchResults []domain.ConversionResult) ([]domain.ConversionResult, error) {
	if len(batchResults) != len(batch) {
		return nil, fmt.Errorf("bulk endpoint returned %d results for %d items", len(batchResults), len(batch))
	}
	index := make(map[string]int, len(batch))
	for j, item := range batch {
		index[item.ID] = j
	}
	matched := make([]domain.ConversionResult, len(batch))
	filled := make([]bool, len(batch))
	for _, r := range batchResults {
		j, ok := index[r.ID]
		if !ok {
			return nil, fmt.Errorf("bulk endpoint returned unknown item id %q", r.ID)
		}
		if filled[j] {
			return nil, fmt.Errorf("bulk endpoint returned item id %q twice", r.ID)
		}
		matched[j] = fromBatchResult(batch[j], r)
		filled[j] = true
	}
	return matched, nil
}

// fromBatchResult keeps the item's type and fills an amount the endpoint left out.
func fromBatchResult(item domain.ConversionItem, r domain.ConversionResult) domain.ConversionResult {
	r.Type = item.Type
	if !r.Success {
		if r.Error == "" {
			r.Error = "conversion failed"
		}
		r.ConvertedAmount, r.Rate = nil, nil
		return r
	}
	switch {
	case r.ConvertedAmount != nil:
		return r
	case r.Rate != nil:
		return domain.Converted(item, *r.Rate)
	default:
		return domain.FailedConversion(item, "bulk endpoint returned neither amount nor rate")
	}
}
