package pipeline

import (
	"sync"
	"time"

	"communitypulse/pkg/contracts/domain"
)

// RunStatus represents the overall status of a cleaning run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run holds the complete state of one cleaning invocation: the private
// working table, per-step states, and the append-only execution log. A run
// is exclusively owned by a single Execute call; nothing here is shared
// across concurrent runs.
type Run struct {
	mu sync.RWMutex

	ID        string
	Status    RunStatus
	StartTime time.Time
	EndTime   *time.Time

	// Table is the working copy the steps mutate.
	Table *domain.Table

	Steps map[string]*StepState

	log []domain.ExecutionLogEntry

	Error error
}

// NewRun creates a run over the given working table.
func NewRun(id string, table *domain.Table) *Run {
	return &Run{
		ID:     id,
		Status: RunStatusPending,
		Table:  table,
		Steps:  make(map[string]*StepState),
	}
}

// Start marks the run as running.
func (r *Run) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = RunStatusRunning
	r.StartTime = time.Now()
}

// Complete marks the run as completed.
func (r *Run) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusCompleted
}

// Fail marks the run as failed.
func (r *Run) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusFailed
	r.Error = err
}

// GetStep returns the state of a specific step.
func (r *Run) GetStep(id string) *StepState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Steps[id]
}

// SetStep records the state of a specific step.
func (r *Run) SetStep(id string, state *StepState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Steps[id] = state
}

// AppendLog adds one execution log entry. Entries are appended strictly in
// execution order and never removed.
func (r *Run) AppendLog(step, summary string, affected int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, domain.ExecutionLogEntry{
		Step:     step,
		Summary:  summary,
		Affected: affected,
	})
}

// Log returns a copy of the execution log.
func (r *Run) Log() []domain.ExecutionLogEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]domain.ExecutionLogEntry, len(r.log))
	copy(entries, r.log)
	return entries
}

// Duration returns the wall-clock duration of the run so far.
func (r *Run) Duration() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.EndTime != nil {
		return r.EndTime.Sub(r.StartTime)
	}
	return time.Since(r.StartTime)
}
