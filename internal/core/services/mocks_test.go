package services_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/mma_currency/internal/apperrors"
	"github.com/SscSPs/mma_currency/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_currency/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock RateSource ---
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) FetchRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockRateSource) FetchCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockRateSource) FetchBulk(ctx context.Context, items []domain.ConversionItem) ([]domain.ConversionResult, error) {
	args := m.Called(ctx, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConversionResult), args.Error(1)
}

// --- Mock RateCache ---
type MockRateCache struct {
	mock.Mock
}

func (m *MockRateCache) GetRate(ctx context.Context, from, to string) domain.RateQuote {
	args := m.Called(ctx, from, to)
	return args.Get(0).(domain.RateQuote)
}

func (m *MockRateCache) GetCurrencies(ctx context.Context) []domain.Currency {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Currency)
}

func (m *MockRateCache) ClearCache(ctx context.Context) {
	m.Called(ctx)
}

// --- Mock PrimaryCurrencySetter ---
type MockPrimaryCurrencySetter struct {
	mock.Mock
}

func (m *MockPrimaryCurrencySetter) SetPrimaryCurrency(ctx context.Context, userID, code string) error {
	args := m.Called(ctx, userID, code)
	return args.Error(0)
}

// panickingConverter fails every migration step with a panic.
type panickingConverter struct{}

func (panickingConverter) ConvertMany(ctx context.Context, items []domain.ConversionItem) []domain.ConversionResult {
	panic("rate table corrupted")
}

// testClock is a settable clock shared by the component under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memoryRecordStore is an in-memory RecordStore for one domain.
type memoryRecordStore struct {
	mu         sync.Mutex
	records    map[string]domain.Record
	listErr    error
	failWrites map[string]bool
	writes     map[string]int
}

func newRecordStore(records ...domain.Record) *memoryRecordStore {
	s := &memoryRecordStore{
		records:    make(map[string]domain.Record),
		failWrites: make(map[string]bool),
		writes:     make(map[string]int),
	}
	for _, r := range records {
		s.records[r.ID] = r
	}
	return s
}

func (s *memoryRecordStore) ListAll(ctx context.Context) ([]domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]domain.Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, copyRecord(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memoryRecordStore) UpdateByID(ctx context.Context, id string, update domain.RecordUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites[id] {
		return errors.New("disk full")
	}
	r, ok := s.records[id]
	if !ok {
		return apperrors.NewNotFoundError("record " + id)
	}
	r = copyRecord(r)
	r.Currency = update.Currency
	for f, v := range update.Amounts {
		r.Amounts[f] = v
	}
	s.records[id] = r
	s.writes[id]++
	return nil
}

func (s *memoryRecordStore) Get(id string) domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyRecord(s.records[id])
}

func (s *memoryRecordStore) Writes(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes[id]
}

func (s *memoryRecordStore) TotalWrites() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, w := range s.writes {
		n += w
	}
	return n
}

func copyRecord(r domain.Record) domain.Record {
	amounts := make(map[domain.AmountField]decimal.Decimal, len(r.Amounts))
	for k, v := range r.Amounts {
		amounts[k] = v
	}
	r.Amounts = amounts
	return r
}

func record(id, currency string, amounts map[domain.AmountField]string) domain.Record {
	r := domain.Record{ID: id, Currency: currency, Amounts: make(map[domain.AmountField]decimal.Decimal, len(amounts))}
	for f, v := range amounts {
		r.Amounts[f] = decimal.RequireFromString(v)
	}
	return r
}

// fixedRateConverter converts every item at one rate, failing the listed item ids.
// When gate is set, ConvertMany blocks on it and reports on entered first.
type fixedRateConverter struct {
	rate    decimal.Decimal
	failIDs map[string]bool

	mu      sync.Mutex
	calls   int
	gate    chan struct{}
	entered chan struct{}
}

func newFixedRateConverter(rate string) *fixedRateConverter {
	return &fixedRateConverter{rate: decimal.RequireFromString(rate), failIDs: make(map[string]bool)}
}

func (c *fixedRateConverter) ConvertMany(ctx context.Context, items []domain.ConversionItem) []domain.ConversionResult {
	c.mu.Lock()
	c.calls++
	gate, entered := c.gate, c.entered
	c.mu.Unlock()
	if gate != nil {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-gate
	}

	out := make([]domain.ConversionResult, len(items))
	for i, item := range items {
		if c.failIDs[item.ID] {
			out[i] = domain.FailedConversion(item, fmt.Sprintf("no rate for %s", item.ID))
			continue
		}
		out[i] = domain.Converted(item, c.rate)
	}
	return out
}

// recordStoreProvider hands out fixed stores per user.
type recordStoreProvider struct {
	stores map[string]portsrepo.RecordStores
}

func (p *recordStoreProvider) ForUser(userID string) portsrepo.RecordStores {
	if s, ok := p.stores[userID]; ok {
		return s
	}
	return portsrepo.RecordStores{}
}

// failingKV rejects every write.
type failingKV struct{}

func (failingKV) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

func (failingKV) Set(ctx context.Context, key, value string) error {
	return errors.New("kv offline")
}

func (failingKV) Delete(ctx context.Context, key string) error {
	return errors.New("kv offline")
}
