package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communitypulse/internal/pipeline"
	"communitypulse/pkg/contracts/domain"
)

func intPtr(v int) *int {
	return &v
}

// messyTable builds a small member table with the defect classes the
// pipeline exists to fix: inconsistent casing, a duplicate identity, a
// repairable and an unrepairable email, mixed date formats, and missing
// values.
func messyTable() *domain.Table {
	return domain.NewTable(nil, []domain.Record{
		{
			ID: "1", Name: "JOHN SMITH", Email: "john.smith@example.com",
			JoinDate: "2024-01-10", LastLogin: "2024-05-01 09:30:00",
			EventAttendance: intPtr(5), Role: "Member",
			EventRegistered: "Spring Gala", RegistrationDate: "2024-02-01",
		},
		{
			ID: "2", Name: "john smith", Email: "  John.Smith@Example.com",
			JoinDate: "03/05/2024", LastLogin: "2024-05-02 10:00:00",
			Role: "Member", EventRegistered: "None",
		},
		{
			ID: "3", Name: "jane doe", Email: "jane at example.org",
			JoinDate: "Unknown", LastLogin: "2024-04-20 08:00:00",
			Role: "Admin", EventRegistered: "Summer Camp", RegistrationDate: "2024-03-15",
		},
		{
			ID: "4", Name: "Bob Stone", Email: "not-an-email",
			JoinDate: "2024-02-02", Role: "Guest", EventRegistered: "None",
		},
	})
}

func TestManagerExecuteDefaultPipeline(t *testing.T) {
	table := messyTable()
	manager := pipeline.NewManager(nil, nil)

	result, err := manager.Execute(context.Background(), pipeline.Request{Table: table})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, pipeline.RunStatusCompleted, result.Status)
	assert.NotEmpty(t, result.RunID)

	// One log entry per step, in execution order, zero counts included.
	require.Len(t, result.Log, 5)
	for i, id := range pipeline.DefaultStepOrder() {
		assert.Equal(t, id, result.Log[i].Step)
	}

	// Row 2 merges into row 1 (same normalized email), row 4 is dropped
	// for its unrepairable email.
	require.Equal(t, 2, result.Cleaned.Len())
	assert.Equal(t, "1", result.Cleaned.Records[0].ID)
	assert.Equal(t, "3", result.Cleaned.Records[1].ID)

	first := result.Cleaned.Records[0]
	assert.Equal(t, "John Smith", first.Name)
	assert.Equal(t, "john.smith@example.com", first.Email)
	assert.Equal(t, "2024-01-10", first.JoinDate)

	second := result.Cleaned.Records[1]
	assert.Equal(t, "Jane Doe", second.Name)
	assert.Equal(t, "jane@example.org", second.Email)
	assert.Equal(t, "2024-01-10", second.JoinDate, "unparseable date imputed with the mode")
	require.NotNil(t, second.EventAttendance)
	assert.Equal(t, 0, *second.EventAttendance)
}

func TestManagerNeverMutatesInput(t *testing.T) {
	table := messyTable()
	manager := pipeline.NewManager(nil, nil)

	_, err := manager.Execute(context.Background(), pipeline.Request{Table: table})
	require.NoError(t, err)

	assert.Equal(t, 4, table.Len())
	assert.Equal(t, "JOHN SMITH", table.Records[0].Name)
	assert.Equal(t, "jane at example.org", table.Records[2].Email)
	assert.Nil(t, table.Records[1].EventAttendance)
}

func TestManagerCleaningNeverLowersOverallScore(t *testing.T) {
	manager := pipeline.NewManager(nil, nil)

	result, err := manager.Execute(context.Background(), pipeline.Request{Table: messyTable()})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.After.Overall, result.Before.Overall)
}

func TestManagerSecondPassChangesNothing(t *testing.T) {
	manager := pipeline.NewManager(nil, nil)

	first, err := manager.Execute(context.Background(), pipeline.Request{Table: messyTable()})
	require.NoError(t, err)

	second, err := manager.Execute(context.Background(), pipeline.Request{Table: first.Cleaned})
	require.NoError(t, err)

	require.Len(t, second.Log, 5)
	for _, entry := range second.Log {
		assert.Equal(t, 0, entry.Affected, "step %s touched an already-clean table", entry.Step)
	}
	assert.Equal(t, first.Cleaned.Len(), second.Cleaned.Len())
}

func TestManagerEmptyTable(t *testing.T) {
	manager := pipeline.NewManager(nil, nil)

	result, err := manager.Execute(context.Background(), pipeline.Request{Table: domain.NewTable(nil, nil)})
	require.NoError(t, err)

	assert.Equal(t, pipeline.RunStatusCompleted, result.Status)
	assert.Equal(t, 0.0, result.Before.Overall)
	assert.Equal(t, 0.0, result.After.Overall)
	require.Len(t, result.Log, 5)
	for _, entry := range result.Log {
		assert.Equal(t, 0, entry.Affected)
	}
}

func TestManagerUnknownStepFailsFast(t *testing.T) {
	manager := pipeline.NewManager(nil, nil)

	result, err := manager.Execute(context.Background(), pipeline.Request{
		Table: messyTable(),
		Steps: []string{pipeline.StepIDStandardizeNames, "purge_everything"},
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, pipeline.ErrorTypeUnknownStep, pipeline.GetErrorType(err))
	assert.Contains(t, err.Error(), "purge_everything")
}

func TestManagerSchemaError(t *testing.T) {
	table := domain.NewTable(
		[]domain.Column{domain.ColumnID, domain.ColumnName},
		[]domain.Record{{ID: "1", Name: "John Smith"}},
	)
	manager := pipeline.NewManager(nil, nil)

	result, err := manager.Execute(context.Background(), pipeline.Request{
		Table: table,
		Steps: []string{pipeline.StepIDFixEmails},
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, pipeline.ErrorTypeSchema, pipeline.GetErrorType(err))
	assert.Contains(t, err.Error(), "email")
}

func TestManagerNilTable(t *testing.T) {
	manager := pipeline.NewManager(nil, nil)
	result, err := manager.Execute(context.Background(), pipeline.Request{})

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestManagerCustomStepSubset(t *testing.T) {
	table := messyTable()
	manager := pipeline.NewManager(nil, nil)

	result, err := manager.Execute(context.Background(), pipeline.Request{
		Table: table,
		Steps: []string{pipeline.StepIDStandardizeNames},
	})
	require.NoError(t, err)

	require.Len(t, result.Log, 1)
	assert.Equal(t, pipeline.StepIDStandardizeNames, result.Log[0].Step)
	assert.Equal(t, 3, result.Log[0].Affected)
	assert.Equal(t, 4, result.Cleaned.Len(), "no destructive step requested")
}

type failingStep struct {
	pipeline.BaseStep
}

func (s *failingStep) Execute(ctx context.Context, run *pipeline.Run) error {
	return errors.New("synthetic failure")
}

func TestManagerStepFailureFailsRun(t *testing.T) {
	manager := pipeline.NewManager(nil, nil)
	step := &failingStep{BaseStep: pipeline.NewBaseStep("explode", "Explode", nil)}
	require.NoError(t, manager.Registry().Register(step))

	result, err := manager.Execute(context.Background(), pipeline.Request{
		Table: messyTable(),
		Steps: []string{"explode"},
	})

	require.Error(t, err)
	assert.Equal(t, pipeline.ErrorTypeExecution, pipeline.GetErrorType(err))
	require.NotNil(t, result)
	assert.Equal(t, pipeline.RunStatusFailed, result.Status)
	assert.Contains(t, result.Error, "explode")
}

func TestManagerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	manager := pipeline.NewManager(nil, nil)
	result, err := manager.Execute(ctx, pipeline.Request{Table: messyTable()})

	require.Error(t, err)
	assert.Equal(t, pipeline.ErrorTypeCancellation, pipeline.GetErrorType(err))
	require.NotNil(t, result)
	assert.Equal(t, pipeline.RunStatusFailed, result.Status)
}

func TestManagerConcurrentRuns(t *testing.T) {
	manager := pipeline.NewManager(nil, nil)

	done := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() {
			_, err := manager.Execute(context.Background(), pipeline.Request{Table: messyTable()})
			done <- err
		}()
	}
	for i := 0; i < 4; i++ {
		assert.NoError(t, <-done)
	}
}
