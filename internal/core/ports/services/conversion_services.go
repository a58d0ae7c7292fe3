package services

import (
	"context"

	"github.com/SscSPs/mma_currency/internal/core/domain"
)

// ChangeOutcome tells the caller what happened to a currency change request.
type ChangeOutcome string

const (
	OutcomeQueued    ChangeOutcome = "queued"
	OutcomeCompleted ChangeOutcome = "completed"
	OutcomeFailed    ChangeOutcome = "failed"
)

// ConversionManagerSvc drives full-dataset currency migrations for one user.
type ConversionManagerSvc interface {
	// RequestCurrencyChange runs the migration now when online, or queues it.
	RequestCurrencyChange(ctx context.Context, from, to string) (domain.ConversionTask, ChangeOutcome, error)

	// RunMigration executes a migration immediately; it fails with ErrConflict when one is already running.
	RunMigration(ctx context.Context, from, to string) (domain.ConversionTask, error)

	// ProcessPending drains pending tasks in creation order and returns how many ran.
	ProcessPending(ctx context.Context) (int, error)

	// GetQueueStatus returns a copy of the queue.
	GetQueueStatus() domain.ConversionQueue

	// ClearCompletedTasks prunes completed and failed tasks and returns how many were removed.
	ClearCompletedTasks(ctx context.Context) (int, error)
}

// ConversionRegistrySvc hands out the conversion manager of a user.
type ConversionRegistrySvc interface {
	ForUser(ctx context.Context, userID string) (ConversionManagerSvc, error)
}
