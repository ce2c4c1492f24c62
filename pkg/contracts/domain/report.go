package domain

import (
	"time"
)

// ExecutionLogEntry records the outcome of a single cleaning step. Entries
// are appended strictly in execution order, one per step, including steps
// that affected zero rows.
type ExecutionLogEntry struct {
	Step     string `json:"step"`
	Summary  string `json:"summary"`
	Affected int    `json:"affected"`
}

// QualityScoreReport is an immutable quality snapshot of one table state.
// Sub-scores and the weighted overall score are percentages in [0, 100],
// rounded to one decimal place.
type QualityScoreReport struct {
	Completeness float64   `json:"completeness"`
	Uniqueness   float64   `json:"uniqueness"`
	Formatting   float64   `json:"formatting"`
	Overall      float64   `json:"overall"`
	Rows         int       `json:"rows"`
	Timestamp    time.Time `json:"timestamp"`
}

// QualityDetail carries the raw counts behind a QualityScoreReport, used by
// the presentation layer for drill-down display.
type QualityDetail struct {
	TotalRecords     int `json:"total_records"`
	TotalCells       int `json:"total_cells"`
	NullCells        int `json:"null_cells"`
	NonNullCells     int `json:"non_null_cells"`
	DuplicateRecords int `json:"duplicate_records"`
	UniqueRecords    int `json:"unique_records"`
}
