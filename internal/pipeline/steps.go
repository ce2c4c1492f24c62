package pipeline

import (
	"context"
	"fmt"

	"communitypulse/internal/cleaning"
	"communitypulse/pkg/contracts/domain"
)

// NameStandardizationStep title-cases the name column.
type NameStandardizationStep struct {
	BaseStep
	normalizer *cleaning.Normalizer
}

// NewNameStandardizationStep creates the name standardization step.
func NewNameStandardizationStep(normalizer *cleaning.Normalizer) *NameStandardizationStep {
	return &NameStandardizationStep{
		BaseStep:   NewBaseStep(StepIDStandardizeNames, StepNameStandardizeNames, []domain.Column{domain.ColumnName}),
		normalizer: normalizer,
	}
}

// Execute implements Step.
func (s *NameStandardizationStep) Execute(ctx context.Context, run *Run) error {
	changed := s.normalizer.StandardizeNames(run.Table)
	run.AppendLog(s.ID(), fmt.Sprintf("Standardized %d names to Title Case.", changed), changed)
	return nil
}

// EmailRepairStep repairs recognizable email malformations and removes rows
// whose email stays invalid. The only destructive step in the pipeline.
type EmailRepairStep struct {
	BaseStep
	normalizer *cleaning.Normalizer
}

// NewEmailRepairStep creates the email repair step.
func NewEmailRepairStep(normalizer *cleaning.Normalizer) *EmailRepairStep {
	return &EmailRepairStep{
		BaseStep:   NewBaseStep(StepIDFixEmails, StepNameFixEmails, []domain.Column{domain.ColumnEmail}),
		normalizer: normalizer,
	}
}

// Execute implements Step.
func (s *EmailRepairStep) Execute(ctx context.Context, run *Run) error {
	result := s.normalizer.RepairEmails(run.Table)
	run.AppendLog(s.ID(),
		fmt.Sprintf("Fixed %d email formats. Removed %d invalid emails.", result.Repaired, result.Removed),
		result.Repaired+result.Removed)
	return nil
}

// DuplicateRemovalStep runs the two-stage duplicate resolver.
type DuplicateRemovalStep struct {
	BaseStep
	deduper *cleaning.Deduper
}

// NewDuplicateRemovalStep creates the duplicate removal step.
func NewDuplicateRemovalStep(deduper *cleaning.Deduper) *DuplicateRemovalStep {
	return &DuplicateRemovalStep{
		BaseStep: NewBaseStep(StepIDRemoveDuplicates, StepNameRemoveDuplicates,
			[]domain.Column{domain.ColumnName, domain.ColumnEmail}),
		deduper: deduper,
	}
}

// Execute implements Step.
func (s *DuplicateRemovalStep) Execute(ctx context.Context, run *Run) error {
	result, err := s.deduper.Remove(ctx, run.Table)
	if err != nil {
		return err
	}
	run.AppendLog(s.ID(), fmt.Sprintf("Removed %d duplicate rows.", result.Removed()), result.Removed())
	return nil
}

// DateNormalizationStep parses join dates permissively, canonicalizes them,
// and imputes what cannot be parsed.
type DateNormalizationStep struct {
	BaseStep
	normalizer *cleaning.Normalizer
	opts       cleaning.DateOptions
}

// NewDateNormalizationStep creates the date normalization step.
func NewDateNormalizationStep(normalizer *cleaning.Normalizer, opts cleaning.DateOptions) *DateNormalizationStep {
	return &DateNormalizationStep{
		BaseStep:   NewBaseStep(StepIDCleanDates, StepNameCleanDates, []domain.Column{domain.ColumnJoinDate}),
		normalizer: normalizer,
		opts:       opts,
	}
}

// Execute implements Step.
func (s *DateNormalizationStep) Execute(ctx context.Context, run *Run) error {
	result := s.normalizer.CleanDates(run.Table, s.opts)

	summary := fmt.Sprintf("Standardized %d dates. Imputed %d missing or invalid dates with the mode.",
		result.Normalized, result.Imputed)
	if result.FutureFlagged > 0 {
		summary += fmt.Sprintf(" Flagged %d future-dated records.", result.FutureFlagged)
	}
	if result.Unresolved > 0 {
		summary += fmt.Sprintf(" Left %d dates unresolved (no mode available).", result.Unresolved)
	}
	run.AppendLog(s.ID(), summary, result.Affected())
	return nil
}

// MissingValueStep fills nullable numeric columns.
type MissingValueStep struct {
	BaseStep
	normalizer *cleaning.Normalizer
}

// NewMissingValueStep creates the missing-value handling step.
func NewMissingValueStep(normalizer *cleaning.Normalizer) *MissingValueStep {
	return &MissingValueStep{
		BaseStep: NewBaseStep(StepIDHandleMissingValues, StepNameHandleMissingValues,
			[]domain.Column{domain.ColumnEventAttendance}),
		normalizer: normalizer,
	}
}

// Execute implements Step.
func (s *MissingValueStep) Execute(ctx context.Context, run *Run) error {
	result := s.normalizer.FillMissingValues(run.Table)
	run.AppendLog(s.ID(),
		fmt.Sprintf("Filled %d missing Attendance records with 0.", result.AttendanceFilled),
		result.AttendanceFilled)
	return nil
}
