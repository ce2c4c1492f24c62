package pipeline

import (
	"context"
	"sync"
	"time"

	"communitypulse/pkg/contracts/domain"
)

// Step represents a single cleaning step in the pipeline.
type Step interface {
	// ID returns the step's identifier from the fixed vocabulary.
	ID() string

	// Name returns the human-readable step name.
	Name() string

	// RequiredColumns returns the columns that must be present in the input
	// table for this step to run. The manager checks these before any step
	// executes.
	RequiredColumns() []domain.Column

	// Execute runs the step against the run's working table. It must append
	// exactly one execution log entry, even when zero rows were affected.
	Execute(ctx context.Context, run *Run) error
}

// StepStatus represents the current status of a step within a run.
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
)

// StepState tracks the runtime state of one step in one run.
type StepState struct {
	mu        sync.RWMutex
	ID        string
	Name      string
	Status    StepStatus
	StartTime *time.Time
	EndTime   *time.Time
	Affected  int
	Error     error
}

// NewStepState creates a step state in the pending status.
func NewStepState(id, name string) *StepState {
	return &StepState{
		ID:     id,
		Name:   name,
		Status: StepStatusPending,
	}
}

// Start marks the step as active.
func (s *StepState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.StartTime = &now
	s.Status = StepStatusActive
}

// Complete marks the step as completed with the count of affected rows.
func (s *StepState) Complete(affected int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusCompleted
	s.Affected = affected
}

// Fail marks the step as failed.
func (s *StepState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusFailed
	s.Error = err
}

// Duration returns how long the step ran.
func (s *StepState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.StartTime == nil {
		return 0
	}
	if s.EndTime != nil {
		return s.EndTime.Sub(*s.StartTime)
	}
	return time.Since(*s.StartTime)
}

// BaseStep provides the identity plumbing shared by step implementations.
type BaseStep struct {
	id       string
	name     string
	required []domain.Column
}

// NewBaseStep creates a base step.
func NewBaseStep(id, name string, required []domain.Column) BaseStep {
	if required == nil {
		required = []domain.Column{}
	}
	return BaseStep{id: id, name: name, required: required}
}

// ID returns the step identifier.
func (b *BaseStep) ID() string {
	return b.id
}

// Name returns the step name.
func (b *BaseStep) Name() string {
	return b.name
}

// RequiredColumns returns the columns the step needs.
func (b *BaseStep) RequiredColumns() []domain.Column {
	return b.required
}
