package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"

	"github.com/SscSPs/mma_currency/internal/apperrors"
	"github.com/SscSPs/mma_currency/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_currency/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_currency/internal/core/ports/services"
)

const (
	conversionQueueKeyPrefix = "conversion_queue:"
	// ConversionUsersKey lists every user with a persisted conversion queue.
	ConversionUsersKey = "conversion_users"
)

// ConversionQueueKey returns the key-value entry holding a user's conversion queue.
func ConversionQueueKey(userID string) string {
	return conversionQueueKeyPrefix + userID
}

// ConversionRegistry owns one started ConversionManager per user.
type ConversionRegistry struct {
	BaseService
	kv        portsrepo.KeyValueStore
	records   portsrepo.RecordStoreProvider
	converter portssvc.BulkConverterSvc
	monitor   portssvc.ConnectivityMonitor
	logger    *slog.Logger
	options   []ConversionManagerOption
	primary   portssvc.PrimaryCurrencySetter

	mu       sync.Mutex
	managers map[string]*ConversionManager
	closed   bool
}

// NewConversionRegistry creates a registry. options are applied to every manager it builds.
func NewConversionRegistry(kv portsrepo.KeyValueStore, records portsrepo.RecordStoreProvider, converter portssvc.BulkConverterSvc, monitor portssvc.ConnectivityMonitor, logger *slog.Logger, options ...ConversionManagerOption) *ConversionRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConversionRegistry{
		kv:        kv,
		records:   records,
		converter: converter,
		monitor:   monitor,
		logger:    logger,
		options:   options,
		managers:  make(map[string]*ConversionManager),
	}
}

// WithPrimaryCurrency makes every completed migration record its target as the
// user's primary currency. Call before the first ForUser or Resume.
func (r *ConversionRegistry) WithPrimaryCurrency(setter portssvc.PrimaryCurrencySetter) *ConversionRegistry {
	r.primary = setter
	return r
}

// ForUser returns the user's manager, building and starting it on first use.
func (r *ConversionRegistry) ForUser(ctx context.Context, userID string) (portssvc.ConversionManagerSvc, error) {
	return r.managerFor(ctx, userID)
}

func (r *ConversionRegistry) managerFor(ctx context.Context, userID string) (*ConversionManager, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, apperrors.NewAppError(http.StatusServiceUnavailable, "conversion registry is shut down", apperrors.ErrUnavailable)
	}
	if m, ok := r.managers[userID]; ok {
		return m, nil
	}

	opts := append([]ConversionManagerOption{WithManagerLogger(r.logger.With(slog.String("user_id", userID)))}, r.options...)
	if r.primary != nil {
		opts = append(opts, WithCompletionHook(r.setPrimaryHook(userID)))
	}
	m := NewConversionManager(
		NewConversionQueueStore(r.kv, ConversionQueueKey(userID)),
		r.records.ForUser(userID),
		r.converter,
		r.monitor,
		opts...,
	)
	if err := m.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start conversion manager for user %s: %w", userID, err)
	}
	if err := r.rememberUser(ctx, userID); err != nil {
		m.Close()
		return nil, err
	}
	r.managers[userID] = m
	return m, nil
}

// Resume starts the manager of every user with a persisted queue, so work interrupted
// by a restart continues without waiting for the user's next request.
func (r *ConversionRegistry) Resume(ctx context.Context) (int, error) {
	users, err := r.knownUsers(ctx)
	if err != nil {
		return 0, err
	}
	started := 0
	for _, userID := range users {
		if _, err := r.managerFor(ctx, userID); err != nil {
			r.LogError(ctx, err, "Failed to resume conversion queue", slog.String("user_id", userID))
			continue
		}
		started++
	}
	return started, nil
}

func (r *ConversionRegistry) setPrimaryHook(userID string) func(context.Context, domain.ConversionTask) {
	return func(ctx context.Context, task domain.ConversionTask) {
		if err := r.primary.SetPrimaryCurrency(ctx, userID, task.ToCurrency); err != nil {
			r.LogError(ctx, err, "Failed to update primary currency after migration",
				slog.String("user_id", userID), slog.String("currency_code", task.ToCurrency))
		}
	}
}

// Close stops every manager.
func (r *ConversionRegistry) Close() {
	r.mu.Lock()
	r.closed = true
	managers := make([]*ConversionManager, 0, len(r.managers))
	for _, m := range r.managers {
		managers = append(managers, m)
	}
	r.managers = make(map[string]*ConversionManager)
	r.mu.Unlock()

	var wg sync.WaitGroup
	for _, m := range managers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Close()
		}()
	}
	wg.Wait()
}

func (r *ConversionRegistry) knownUsers(ctx context.Context) ([]string, error) {
	raw, found, err := r.kv.Get(ctx, ConversionUsersKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read conversion user index: %w", err)
	}
	if !found || raw == "" {
		return nil, nil
	}
	var users []string
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, fmt.Errorf("failed to decode conversion user index: %w", err)
	}
	return users, nil
}

// rememberUser adds userID to the persisted index. Callers hold r.mu.
func (r *ConversionRegistry) rememberUser(ctx context.Context, userID string) error {
	users, err := r.knownUsers(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(users, userID) {
		return nil
	}
	raw, err := json.Marshal(append(users, userID))
	if err != nil {
		return fmt.Errorf("failed to encode conversion user index: %w", err)
	}
	if err := r.kv.Set(ctx, ConversionUsersKey, string(raw)); err != nil {
		return fmt.Errorf("failed to write conversion user index: %w", err)
	}
	return nil
}
