package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/mma_currency/internal/apperrors"
	"github.com/SscSPs/mma_currency/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_currency/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_currency/internal/core/ports/services"
	"github.com/SscSPs/mma_currency/internal/middleware"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// maxFailedItems bounds the diagnostics kept on a task; ItemsFailed keeps counting past it.
const maxFailedItems = 100

var errQueueUnchanged = errors.New("conversion queue unchanged")

type amountFieldSpec struct {
	name     domain.AmountField
	required bool
}

// convertibleFields lists the monetary fields rewritten per domain.
var convertibleFields = map[domain.RecordDomain][]amountFieldSpec{
	domain.DomainTransactions: {{domain.FieldAmount, true}},
	domain.DomainBudgets:      {{domain.FieldAmount, true}, {domain.FieldSpentAmount, false}},
	domain.DomainLoans:        {{domain.FieldAmount, true}},
	domain.DomainInvestments:  {{domain.FieldInitialAmount, true}, {domain.FieldCurrentValue, false}},
}

type admission int

const (
	admitRun        admission = iota // start now, conflict when a migration runs
	admitRunOrQueue                  // start now unless a migration runs or older tasks wait
	admitQueue                       // always queue as pending
)

// ConversionManager migrates one user's records from one currency to another.
// At most one migration executes at a time, and every queue mutation is persisted
// before the next side effect.
type ConversionManager struct {
	BaseService
	store     *ConversionQueueStore
	records   portsrepo.RecordStores
	converter portssvc.BulkConverterSvc
	monitor   portssvc.ConnectivityMonitor
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
	completed func(context.Context, domain.ConversionTask)

	mu          sync.Mutex
	queue       domain.ConversionQueue
	started     bool
	closed      bool
	unsubscribe func()
	wg          sync.WaitGroup
}

// ConversionManagerOption configures a ConversionManager.
type ConversionManagerOption func(*ConversionManager)

// WithManagerLogger sets the logger used by background work.
func WithManagerLogger(logger *slog.Logger) ConversionManagerOption {
	return func(m *ConversionManager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithManagerClock replaces time.Now, for tests.
func WithManagerClock(now func() time.Time) ConversionManagerOption {
	return func(m *ConversionManager) {
		m.now = now
	}
}

// WithTaskIDs replaces the ULID task id generator.
func WithTaskIDs(newID func() string) ConversionManagerOption {
	return func(m *ConversionManager) {
		m.newID = newID
	}
}

// WithCompletionHook runs fn after a migration finishes with status completed.
// Failed migrations do not call it.
func WithCompletionHook(fn func(ctx context.Context, task domain.ConversionTask)) ConversionManagerOption {
	return func(m *ConversionManager) {
		m.completed = fn
	}
}

// NewConversionManager creates a manager. Call Start before use.
func NewConversionManager(store *ConversionQueueStore, records portsrepo.RecordStores, converter portssvc.BulkConverterSvc, monitor portssvc.ConnectivityMonitor, options ...ConversionManagerOption) *ConversionManager {
	m := &ConversionManager{
		store:     store,
		records:   records,
		converter: converter,
		monitor:   monitor,
		logger:    slog.Default(),
		now:       time.Now,
		newID:     func() string { return ulid.Make().String() },
		queue:     domain.ConversionQueue{Tasks: []domain.ConversionTask{}},
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Start loads the persisted queue, re-queues tasks interrupted by a restart and
// subscribes to connectivity changes. Pending tasks are drained right away when online.
func (m *ConversionManager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.closed || m.started {
		m.mu.Unlock()
		return apperrors.NewConflictError("conversion manager already started or closed")
	}
	m.started = true
	m.mu.Unlock()

	ctx = m.background(ctx)
	q, err := m.load(ctx)
	if err != nil {
		m.mu.Lock()
		m.started = false
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return apperrors.NewConflictError("conversion manager closed during start")
	}
	m.queue = q
	events, unsubscribe := m.monitor.Subscribe()
	m.unsubscribe = unsubscribe
	m.wg.Add(1)
	m.mu.Unlock()

	go m.watch(ctx, events)

	if m.monitor.IsConnected() && len(q.Pending()) > 0 {
		m.drainAsync(ctx)
	}
	return nil
}

// load reads the persisted queue and re-queues tasks left processing by a restart.
func (m *ConversionManager) load(ctx context.Context) (domain.ConversionQueue, error) {
	q, err := m.store.Load(ctx)
	if err != nil {
		return domain.ConversionQueue{}, err
	}
	if n := q.ResetInterrupted(); n > 0 {
		if err := m.store.Save(ctx, q); err != nil {
			return domain.ConversionQueue{}, err
		}
		m.LogInfo(ctx, "Re-queued interrupted conversion tasks", slog.Int("count", n))
	}
	return q, nil
}

// Close stops watching connectivity and waits for running work to finish.
func (m *ConversionManager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	unsubscribe := m.unsubscribe
	m.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	m.wg.Wait()
}

func (m *ConversionManager) watch(ctx context.Context, events <-chan domain.ConnectivityEvent) {
	defer m.wg.Done()
	for ev := range events {
		if !ev.IsConnected {
			m.LogInfo(ctx, "Connectivity lost, currency changes will be queued")
			continue
		}
		n, err := m.ProcessPending(ctx)
		if err != nil {
			m.LogError(ctx, err, "Failed to drain pending conversion tasks")
			continue
		}
		if n > 0 {
			m.LogInfo(ctx, "Drained pending conversion tasks after reconnect", slog.Int("count", n))
		}
	}
}

func (m *ConversionManager) background(ctx context.Context) context.Context {
	return middleware.WithLogger(context.WithoutCancel(ctx), m.logger)
}

func (m *ConversionManager) drainAsync(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if _, err := m.ProcessPending(ctx); err != nil {
			m.LogError(ctx, err, "Failed to drain pending conversion tasks")
		}
	}()
}

// RequestCurrencyChange runs the migration now when online and idle. Otherwise the
// change is appended as a pending task and runs once connectivity returns or the
// running migration finishes.
func (m *ConversionManager) RequestCurrencyChange(ctx context.Context, from, to string) (domain.ConversionTask, portssvc.ChangeOutcome, error) {
	from, to, err := validatePair(from, to)
	if err != nil {
		return domain.ConversionTask{}, "", err
	}

	mode := admitRunOrQueue
	if !m.monitor.IsConnected() {
		mode = admitQueue
	}
	task, started, err := m.begin(ctx, from, to, mode)
	if err != nil {
		return domain.ConversionTask{}, "", err
	}
	if !started {
		m.LogInfo(ctx, "Currency change queued", slog.String("task_id", task.ID), slog.Bool("online", mode != admitQueue))
		if mode != admitQueue {
			m.drainAsync(m.background(ctx))
		}
		return task, portssvc.OutcomeQueued, nil
	}

	task, err = m.runClaimed(ctx, task)
	if err != nil {
		return task, portssvc.OutcomeFailed, nil
	}
	return task, portssvc.OutcomeCompleted, nil
}

// RunMigration executes a migration immediately. It returns a conflict error when a
// migration is already running, and the failed task with its cause when the run fails.
func (m *ConversionManager) RunMigration(ctx context.Context, from, to string) (domain.ConversionTask, error) {
	from, to, err := validatePair(from, to)
	if err != nil {
		return domain.ConversionTask{}, err
	}
	task, _, err := m.begin(ctx, from, to, admitRun)
	if err != nil {
		return domain.ConversionTask{}, err
	}
	return m.runClaimed(ctx, task)
}

// ProcessPending runs pending tasks one at a time in creation order while online.
// It stops early when another migration holds the queue; that runner drains the rest.
func (m *ConversionManager) ProcessPending(ctx context.Context) (int, error) {
	ran := 0
	for m.monitor.IsConnected() {
		task, ok, err := m.claimNext(ctx)
		if err != nil {
			return ran, err
		}
		if !ok {
			break
		}
		// failures are recorded on the task
		_, _ = m.execute(ctx, task)
		ran++
	}
	return ran, nil
}

// GetQueueStatus returns a deep copy of the queue.
func (m *ConversionManager) GetQueueStatus() domain.ConversionQueue {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.Clone()
}

// ClearCompletedTasks removes completed and failed tasks.
func (m *ConversionManager) ClearCompletedTasks(ctx context.Context) (int, error) {
	removed := 0
	err := m.update(ctx, false, func(q *domain.ConversionQueue) error {
		removed = q.PruneFinished()
		if removed == 0 {
			return errQueueUnchanged
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (m *ConversionManager) runClaimed(ctx context.Context, task domain.ConversionTask) (domain.ConversionTask, error) {
	result, err := m.execute(ctx, task)
	m.drainAsync(m.background(ctx))
	return result, err
}

// update applies fn to a copy of the queue and persists it. The in-memory queue only
// changes once the write succeeded, unless force is set.
func (m *ConversionManager) update(ctx context.Context, force bool, fn func(q *domain.ConversionQueue) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.queue.Clone()
	if err := fn(&next); err != nil {
		if errors.Is(err, errQueueUnchanged) {
			return nil
		}
		return err
	}
	err := m.store.Save(ctx, next)
	if err != nil && !force {
		return err
	}
	m.queue = next
	return err
}

func (m *ConversionManager) updateTask(ctx context.Context, taskID string, fn func(t *domain.ConversionTask)) error {
	return m.update(ctx, false, func(q *domain.ConversionQueue) error {
		i := q.Find(taskID)
		if i < 0 {
			return fmt.Errorf("conversion task %s is no longer queued", taskID)
		}
		fn(&q.Tasks[i])
		return nil
	})
}

// begin appends a new task, claiming the processing flag when mode and state allow.
// The check and the set happen under one lock acquisition.
func (m *ConversionManager) begin(ctx context.Context, from, to string, mode admission) (domain.ConversionTask, bool, error) {
	task := domain.ConversionTask{
		ID:           m.newID(),
		FromCurrency: from,
		ToCurrency:   to,
		Status:       domain.TaskPending,
		CreatedAt:    m.now().UTC(),
	}
	err := m.update(ctx, false, func(q *domain.ConversionQueue) error {
		switch {
		case mode == admitQueue:
		case q.IsProcessing && mode == admitRun:
			return apperrors.NewConflictError("a currency migration is already running")
		case q.IsProcessing:
		case mode == admitRunOrQueue && len(q.Pending()) > 0:
		default:
			task.Status = domain.TaskProcessing
			q.IsProcessing = true
		}
		q.Tasks = append(q.Tasks, task)
		return nil
	})
	if err != nil {
		return domain.ConversionTask{}, false, err
	}
	return task, task.Status == domain.TaskProcessing, nil
}

func (m *ConversionManager) claimNext(ctx context.Context) (domain.ConversionTask, bool, error) {
	var claimed domain.ConversionTask
	found := false
	err := m.update(ctx, false, func(q *domain.ConversionQueue) error {
		if q.IsProcessing {
			return errQueueUnchanged
		}
		for i := range q.Tasks {
			if q.Tasks[i].Status != domain.TaskPending {
				continue
			}
			q.Tasks[i].Status = domain.TaskProcessing
			q.IsProcessing = true
			claimed = q.Tasks[i].Clone()
			found = true
			return nil
		}
		return errQueueUnchanged
	})
	if err != nil {
		return domain.ConversionTask{}, false, err
	}
	return claimed, found, nil
}

// execute drives a claimed task through every domain. It runs detached from the
// caller's cancellation since migration steps are not cancellable.
func (m *ConversionManager) execute(ctx context.Context, task domain.ConversionTask) (result domain.ConversionTask, err error) {
	ctx = context.WithoutCancel(ctx)
	ctx = middleware.WithLogger(ctx, m.GetLogger(ctx).With(
		slog.String("task_id", task.ID),
		slog.String("from", task.FromCurrency),
		slog.String("to", task.ToCurrency),
	))
	m.LogInfo(ctx, "Currency migration started")

	defer func() {
		if r := recover(); r != nil {
			result, err = m.finish(ctx, task.ID, fmt.Errorf("panic during migration: %v", r))
		}
	}()

	records := m.fetchConvertible(ctx, task.FromCurrency)
	remaining := 0
	for _, recs := range records {
		remaining += len(recs)
	}
	// A resumed task keeps what it already converted; failures are retried.
	err = m.updateTask(ctx, task.ID, func(t *domain.ConversionTask) {
		t.ItemsToProcess = t.ItemsProcessed + remaining
		t.ItemsFailed = 0
		t.FailedItems = nil
	})
	if err != nil {
		return m.finish(ctx, task.ID, err)
	}

	for _, d := range domain.MigrationOrder {
		if err := m.convertDomain(ctx, task, d, records[d]); err != nil {
			return m.finish(ctx, task.ID, fmt.Errorf("%s: %w", d, err))
		}
	}
	return m.finish(ctx, task.ID, nil)
}

// finish moves the task to its terminal status and releases the processing flag.
// The in-memory queue is updated even if persisting fails.
func (m *ConversionManager) finish(ctx context.Context, taskID string, cause error) (domain.ConversionTask, error) {
	var finished domain.ConversionTask
	saveErr := m.update(ctx, true, func(q *domain.ConversionQueue) error {
		q.IsProcessing = false
		i := q.Find(taskID)
		if i < 0 {
			return nil
		}
		at := m.now().UTC()
		t := &q.Tasks[i]
		t.ProcessedAt = &at
		if cause != nil {
			t.Status = domain.TaskFailed
			t.Error = cause.Error()
		} else {
			t.Status = domain.TaskCompleted
		}
		finished = t.Clone()
		return nil
	})
	if saveErr != nil {
		m.LogError(ctx, saveErr, "Failed to persist finished conversion task")
	}

	if cause != nil {
		m.LogError(ctx, cause, "Currency migration failed")
		return finished, cause
	}
	m.LogInfo(ctx, "Currency migration completed",
		slog.Int("items_to_process", finished.ItemsToProcess),
		slog.Int("items_processed", finished.ItemsProcessed),
		slog.Int("items_failed", finished.ItemsFailed))
	if m.completed != nil && finished.Status == domain.TaskCompleted {
		m.completed(ctx, finished.Clone())
	}
	return finished, nil
}

// fetchConvertible reads every domain concurrently and keeps the records still in from.
// A domain that cannot be read contributes no records.
func (m *ConversionManager) fetchConvertible(ctx context.Context, from string) map[domain.RecordDomain][]domain.Record {
	lists := make([][]domain.Record, len(domain.MigrationOrder))
	var g errgroup.Group
	for i, d := range domain.MigrationOrder {
		store, ok := m.records[d]
		if !ok || store == nil {
			continue
		}
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					m.LogWarn(ctx, fmt.Errorf("panic: %v", r), "Skipping domain, records could not be read", slog.String("domain", string(d)))
				}
			}()
			recs, err := store.ListAll(ctx)
			if err != nil {
				m.LogWarn(ctx, err, "Skipping domain, records could not be read", slog.String("domain", string(d)))
				return nil
			}
			for _, r := range recs {
				if domain.NormalizeCode(r.Currency) == from {
					lists[i] = append(lists[i], r)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[domain.RecordDomain][]domain.Record, len(lists))
	for i, d := range domain.MigrationOrder {
		out[d] = lists[i]
	}
	return out
}

// convertDomain converts one domain's records as a single batch and writes back every
// record whose fields all converted. Per-record failures are recorded on the task.
func (m *ConversionManager) convertDomain(ctx context.Context, task domain.ConversionTask, d domain.RecordDomain, recs []domain.Record) error {
	if len(recs) == 0 {
		return nil
	}
	store := m.records[d]

	type slot struct {
		record int
		field  domain.AmountField
	}
	items := make([]domain.ConversionItem, 0, len(recs))
	slots := make([]slot, 0, len(recs))
	failures := make([]string, len(recs))
	for ri, rec := range recs {
		for _, f := range convertibleFields[d] {
			amount, ok := rec.Amounts[f.name]
			if !ok {
				if f.required {
					failures[ri] = fmt.Sprintf("record has no %s", f.name)
				}
				continue
			}
			items = append(items, domain.ConversionItem{
				ID:     rec.ID + "/" + string(f.name),
				Type:   string(d),
				Amount: amount,
				From:   task.FromCurrency,
				To:     task.ToCurrency,
			})
			slots = append(slots, slot{record: ri, field: f.name})
		}
	}

	var results []domain.ConversionResult
	if len(items) > 0 {
		results = m.converter.ConvertMany(ctx, items)
	}
	if len(results) != len(items) {
		return fmt.Errorf("converter returned %d results for %d items", len(results), len(items))
	}

	converted := make([]map[domain.AmountField]decimal.Decimal, len(recs))
	for k, r := range results {
		s := slots[k]
		if !r.Success || r.ConvertedAmount == nil {
			if failures[s.record] == "" {
				failures[s.record] = fmt.Sprintf("%s: %s", s.field, r.Error)
			}
			continue
		}
		if converted[s.record] == nil {
			converted[s.record] = make(map[domain.AmountField]decimal.Decimal, 2)
		}
		converted[s.record][s.field] = *r.ConvertedAmount
	}

	for ri, rec := range recs {
		amounts := converted[ri]
		if failures[ri] == "" && amounts == nil {
			failures[ri] = "record has no amount fields"
		}
		if failures[ri] != "" {
			if err := m.recordFailure(ctx, task.ID, d, rec.ID, failures[ri]); err != nil {
				return err
			}
			continue
		}
		if d == domain.DomainInvestments {
			if _, ok := amounts[domain.FieldCurrentValue]; !ok {
				amounts[domain.FieldCurrentValue] = amounts[domain.FieldInitialAmount]
			}
		}

		err := store.UpdateByID(ctx, rec.ID, domain.RecordUpdate{Currency: task.ToCurrency, Amounts: amounts})
		if err != nil {
			m.LogWarn(ctx, err, "Failed to write converted record", slog.String("domain", string(d)), slog.String("record_id", rec.ID))
			if err := m.recordFailure(ctx, task.ID, d, rec.ID, "update failed: "+err.Error()); err != nil {
				return err
			}
			continue
		}
		if err := m.updateTask(ctx, task.ID, func(t *domain.ConversionTask) { t.ItemsProcessed++ }); err != nil {
			return err
		}
	}
	return nil
}

func (m *ConversionManager) recordFailure(ctx context.Context, taskID string, d domain.RecordDomain, recordID, reason string) error {
	return m.updateTask(ctx, taskID, func(t *domain.ConversionTask) {
		t.ItemsFailed++
		if len(t.FailedItems) < maxFailedItems {
			t.FailedItems = append(t.FailedItems, domain.FailedItem{Domain: d, RecordID: recordID, Error: reason})
		}
	})
}

func validatePair(from, to string) (string, string, error) {
	from, to = domain.NormalizeCode(from), domain.NormalizeCode(to)
	if !domain.ValidCode(from) || !domain.ValidCode(to) {
		return "", "", apperrors.NewValidationError(fmt.Sprintf("invalid currency pair %q -> %q", from, to))
	}
	if from == to {
		return "", "", apperrors.NewValidationError("source and target currency must differ")
	}
	return from, to, nil
}
