// Package pipeline orchestrates the member-data cleaning workflow.
//
// A cleaning run executes an ordered list of steps against a private working
// copy of the input table, accumulating an execution log with one entry per
// step, then scores the raw and cleaned snapshots for before/after
// comparison. The caller's table is never mutated.
//
// Core Components:
//
// Manager: the orchestrator. It resolves requested step identifiers against
// the registry up front, validates the table schema against the steps'
// column requirements, runs the steps strictly in order, and produces the
// final Result with cleaned table, log, and quality reports.
//
// Step: a single unit of cleaning work. The five canonical steps wrap the
// transforms in internal/cleaning. Steps declare the columns they need so
// schema problems surface before any work starts.
//
// Registry: maps step identifiers to implementations, resolved once per run.
// Unknown identifiers are rejected eagerly rather than silently skipped.
//
// Run: the per-invocation state machine (pending, running, completed,
// failed) holding the working table, per-step states, and the append-only
// execution log. Each run owns its state exclusively, so concurrent
// Execute calls do not share or race on anything.
//
// Config: explicit knobs (similarity threshold, score weights, future-date
// policy) passed into the Manager rather than read from package globals.
//
// Example usage:
//
//	manager := pipeline.NewManager(logger, pipeline.NewConfig())
//	result, err := manager.Execute(ctx, pipeline.Request{Table: table})
//	if err != nil {
//		return err
//	}
//	fmt.Printf("health %.1f -> %.1f\n", result.Before.Overall, result.After.Overall)
package pipeline
