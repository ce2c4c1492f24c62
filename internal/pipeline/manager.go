package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"communitypulse/internal/cleaning"
	"communitypulse/internal/quality"
	"communitypulse/pkg/contracts/domain"
)

// Manager orchestrates cleaning runs. It is safe for concurrent use: each
// Execute call owns its run state and working table exclusively.
type Manager struct {
	registry *Registry
	config   *Config
	scorer   *quality.Scorer
	logger   *slog.Logger
	tracer   *RunTracer
}

// NewManager creates a manager with the five canonical steps registered.
func NewManager(logger *slog.Logger, config *Config) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if config == nil {
		config = NewConfig()
	}

	normalizer := cleaning.NewNormalizer(logger)
	deduper := cleaning.NewDeduper(logger, cleaning.DeduperConfig{
		SimilarityThreshold: config.SimilarityThreshold,
		Workers:             config.FuzzyWorkers,
	})

	registry := NewRegistry()
	for _, step := range []Step{
		NewNameStandardizationStep(normalizer),
		NewEmailRepairStep(normalizer),
		NewDuplicateRemovalStep(deduper),
		NewDateNormalizationStep(normalizer, cleaning.DateOptions{CoerceFuture: config.CoerceFutureDates}),
		NewMissingValueStep(normalizer),
	} {
		// Registration of the fixed step set cannot collide.
		_ = registry.Register(step)
	}

	return &Manager{
		registry: registry,
		config:   config,
		scorer:   quality.NewScorer(logger, config.Weights()),
		logger:   logger,
		tracer:   NewRunTracer(),
	}
}

// Registry returns the step registry, mainly so callers can list the
// available step identifiers.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Config returns the manager's configuration.
func (m *Manager) Config() *Config {
	return m.config
}

// Scorer returns the quality scorer, for callers that want to score
// arbitrary snapshots outside a run.
func (m *Manager) Scorer() *quality.Scorer {
	return m.scorer
}

// Execute runs a cleaning pipeline over the request's table. The input is
// cloned on entry; the caller's table is never mutated. Fatal problems
// (unknown step names, missing required columns) fail the run before any
// step executes. Step errors fail the run at that step; there is no partial
// continuation.
func (m *Manager) Execute(ctx context.Context, req Request) (*Result, error) {
	if req.Table == nil {
		return nil, &PipelineError{Type: ErrorTypeSchema, Message: "input table is nil"}
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	stepIDs := req.Steps
	if len(stepIDs) == 0 {
		stepIDs = DefaultStepOrder()
	}

	// Resolve the dispatch eagerly: unrecognized names fail fast.
	steps, err := m.registry.Resolve(stepIDs)
	if err != nil {
		m.logger.ErrorContext(ctx, "step resolution failed",
			slog.String("run_id", req.ID),
			slog.String("error", err.Error()))
		return nil, err
	}

	// Schema check before any work: every required column must be present.
	for _, step := range steps {
		for _, col := range step.RequiredColumns() {
			if !req.Table.HasColumn(col) {
				schemaErr := NewSchemaError(step.ID(), col)
				m.logger.ErrorContext(ctx, "schema validation failed",
					slog.String("run_id", req.ID),
					slog.String("step", step.ID()),
					slog.String("column", string(col)))
				return nil, schemaErr
			}
		}
	}

	before := m.scorer.Score(req.Table)

	run := NewRun(req.ID, req.Table.Clone())
	for _, step := range steps {
		run.SetStep(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	ctx, span := m.tracer.TraceRun(ctx, run.ID, len(steps), req.Table.Len())
	defer span.End()

	run.Start()
	m.logger.InfoContext(ctx, "cleaning run started",
		slog.String("run_id", run.ID),
		slog.Int("steps", len(steps)),
		slog.Int("rows", req.Table.Len()))

	if err := m.executeSteps(ctx, run, steps); err != nil {
		run.Fail(err)
		m.tracer.RecordRunCompletion(span, run.Status, run.Duration(), run.Table.Len(), err)
		return m.buildResult(run, before), err
	}

	run.Complete()
	after := m.scorer.Score(run.Table)
	m.tracer.RecordRunCompletion(span, run.Status, run.Duration(), run.Table.Len(), nil)

	m.logger.InfoContext(ctx, "cleaning run completed",
		slog.String("run_id", run.ID),
		slog.Int("rows_out", run.Table.Len()),
		slog.Float64("overall_before", before.Overall),
		slog.Float64("overall_after", after.Overall))

	result := m.buildResult(run, before)
	result.After = after
	return result, nil
}

// executeSteps runs the resolved steps strictly sequentially. Each step runs
// to completion before the next begins; the steps carry an implicit data
// dependency chain, so there is nothing to parallelize at this level.
func (m *Manager) executeSteps(ctx context.Context, run *Run, steps []Step) error {
	for i, step := range steps {
		select {
		case <-ctx.Done():
			m.logger.WarnContext(ctx, "run cancelled",
				slog.String("run_id", run.ID),
				slog.String("step", step.ID()))
			return NewCancellationError(step.ID(), ctx.Err())
		default:
		}

		state := run.GetStep(step.ID())
		state.Start()

		m.logger.InfoContext(ctx, "executing step",
			slog.String("run_id", run.ID),
			slog.String("step", step.ID()),
			slog.Int("step_number", i+1),
			slog.Int("total_steps", len(steps)))

		stepCtx, stepSpan := m.tracer.TraceStep(ctx, run.ID, step.ID())
		start := time.Now()
		err := step.Execute(stepCtx, run)
		duration := time.Since(start)

		if err != nil {
			state.Fail(err)
			m.tracer.RecordStepCompletion(stepSpan, 0, duration, err)
			stepSpan.End()
			m.logger.ErrorContext(ctx, "step failed",
				slog.String("run_id", run.ID),
				slog.String("step", step.ID()),
				slog.Duration("duration", duration),
				slog.String("error", err.Error()))
			return NewExecutionError(step.ID(), err)
		}

		affected := lastAffected(run)
		state.Complete(affected)
		m.tracer.RecordStepCompletion(stepSpan, affected, duration, nil)
		stepSpan.End()

		m.logger.InfoContext(ctx, "step completed",
			slog.String("run_id", run.ID),
			slog.String("step", step.ID()),
			slog.Int("affected", affected),
			slog.Duration("duration", duration))
	}
	return nil
}

// lastAffected reads the affected count from the step's log entry.
func lastAffected(run *Run) int {
	log := run.Log()
	if len(log) == 0 {
		return 0
	}
	return log[len(log)-1].Affected
}

// buildResult assembles the caller-facing result from run state.
func (m *Manager) buildResult(run *Run, before domain.QualityScoreReport) *Result {
	result := &Result{
		RunID:   run.ID,
		Status:  run.Status,
		Cleaned: run.Table,
		Log:     run.Log(),
		Before:  before,
		Started: run.StartTime,
	}
	if run.EndTime != nil {
		result.Finished = *run.EndTime
	}
	if run.Error != nil {
		result.Error = fmt.Sprintf("%v", run.Error)
	}
	return result
}
