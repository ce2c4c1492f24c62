package pipeline

import (
	"time"

	"communitypulse/pkg/contracts/domain"
)

// Cleaning step identifiers. These form the fixed vocabulary accepted in a
// Request; anything else is rejected before execution begins.
const (
	StepIDStandardizeNames    = "standardize_names"
	StepIDFixEmails           = "fix_emails"
	StepIDRemoveDuplicates    = "remove_duplicates"
	StepIDCleanDates          = "clean_dates"
	StepIDHandleMissingValues = "handle_missing_values"
)

// Human-readable step names.
const (
	StepNameStandardizeNames    = "Name Standardization"
	StepNameFixEmails           = "Email Repair"
	StepNameRemoveDuplicates    = "Duplicate Removal"
	StepNameCleanDates          = "Date Normalization"
	StepNameHandleMissingValues = "Missing Value Handling"
)

// DefaultStepOrder returns the canonical execution order. Duplicate removal
// runs after name and email standardization on purpose: exact key matching
// and name similarity are both far more effective once the text is uniform.
func DefaultStepOrder() []string {
	return []string{
		StepIDStandardizeNames,
		StepIDFixEmails,
		StepIDRemoveDuplicates,
		StepIDCleanDates,
		StepIDHandleMissingValues,
	}
}

// Request describes one cleaning run.
type Request struct {
	// ID identifies the run; one is generated when empty.
	ID string `json:"id"`

	// Table is the raw input. It is cloned on entry and never mutated.
	Table *domain.Table `json:"-"`

	// Steps lists the step identifiers to execute, in order. Empty means
	// the full default pipeline.
	Steps []string `json:"steps,omitempty"`
}

// Result is the outcome of a completed (or failed) cleaning run.
type Result struct {
	RunID    string                     `json:"run_id"`
	Status   RunStatus                  `json:"status"`
	Cleaned  *domain.Table              `json:"-"`
	Log      []domain.ExecutionLogEntry `json:"log"`
	Before   domain.QualityScoreReport  `json:"before"`
	After    domain.QualityScoreReport  `json:"after"`
	Started  time.Time                  `json:"started"`
	Finished time.Time                  `json:"finished"`
	Error    string                     `json:"error,omitempty"`
}

// Duration returns the wall-clock time the run took.
func (r *Result) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}
