package domain

import "time"

// TaskStatus is the lifecycle state of a ConversionTask.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskProcessing TaskStatus = "processing"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
)

// Finished reports whether the status is terminal.
func (s TaskStatus) Finished() bool {
	return s == TaskCompleted || s == TaskFailed
}

// FailedItem records a record that could not be converted during a migration.
type FailedItem struct {
	Domain   RecordDomain `json:"domain"`
	RecordID string       `json:"recordID"`
	Error    string       `json:"error"`
}

// ConversionTask is one full-dataset currency migration.
type ConversionTask struct {
	ID             string       `json:"id"` // ULID, sorts by creation time
	FromCurrency   string       `json:"fromCurrency"`
	ToCurrency     string       `json:"toCurrency"`
	Status         TaskStatus   `json:"status"`
	CreatedAt      time.Time    `json:"createdAt"`
	ProcessedAt    *time.Time   `json:"processedAt,omitempty"`
	Error          string       `json:"error,omitempty"`
	ItemsToProcess int          `json:"itemsToProcess"`
	ItemsProcessed int          `json:"itemsProcessed"`
	ItemsFailed    int          `json:"itemsFailed"`
	FailedItems    []FailedItem `json:"failedItems,omitempty"`
}

// Clone returns a deep copy of the task.
func (t ConversionTask) Clone() ConversionTask {
	c := t
	if t.ProcessedAt != nil {
		at := *t.ProcessedAt
		c.ProcessedAt = &at
	}
	if t.FailedItems != nil {
		c.FailedItems = append([]FailedItem(nil), t.FailedItems...)
	}
	return c
}

// ConversionQueue is the durable list of migrations plus the single-flight flag.
// When IsProcessing is true exactly one task has status processing.
type ConversionQueue struct {
	Tasks        []ConversionTask `json:"tasks"`
	IsProcessing bool             `json:"isProcessing"`
}

// Clone returns a deep copy of the queue.
func (q ConversionQueue) Clone() ConversionQueue {
	c := ConversionQueue{IsProcessing: q.IsProcessing, Tasks: make([]ConversionTask, len(q.Tasks))}
	for i, t := range q.Tasks {
		c.Tasks[i] = t.Clone()
	}
	return c
}

// Find returns the index of the task with id, or -1.
func (q ConversionQueue) Find(id string) int {
	for i := range q.Tasks {
		if q.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Pending returns the pending tasks in creation order.
func (q ConversionQueue) Pending() []ConversionTask {
	var out []ConversionTask
	for _, t := range q.Tasks {
		if t.Status == TaskPending {
			out = append(out, t.Clone())
		}
	}
	return out
}

// CountStatus counts tasks with the given status.
func (q ConversionQueue) CountStatus(status TaskStatus) int {
	n := 0
	for _, t := range q.Tasks {
		if t.Status == status {
			n++
		}
	}
	return n
}

// ResetInterrupted moves tasks left in processing by a crash back to pending and
// clears IsProcessing. Progress counters are kept. It returns how many tasks were reset.
func (q *ConversionQueue) ResetInterrupted() int {
	n := 0
	for i := range q.Tasks {
		if q.Tasks[i].Status == TaskProcessing {
			q.Tasks[i].Status = TaskPending
			n++
		}
	}
	q.IsProcessing = false
	return n
}

// PruneFinished drops completed and failed tasks, keeping the order of the rest.
func (q *ConversionQueue) PruneFinished() int {
	kept := q.Tasks[:0]
	for _, t := range q.Tasks {
		if !t.Status.Finished() {
			kept = append(kept, t)
		}
	}
	removed := len(q.Tasks) - len(kept)
	q.Tasks = kept
	return removed
}
