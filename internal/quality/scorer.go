package quality

import (
	"log/slog"
	"math"
	"time"

	"communitypulse/internal/validation"
	"communitypulse/pkg/contracts/domain"
)

// Weights defines the contribution of each sub-score to the overall health
// score. The three weights should sum to 1.
type Weights struct {
	Completeness float64 `json:"completeness"`
	Uniqueness   float64 `json:"uniqueness"`
	Formatting   float64 `json:"formatting"`
}

// DefaultWeights returns the standard health-score weighting.
func DefaultWeights() Weights {
	return Weights{
		Completeness: 0.40,
		Uniqueness:   0.30,
		Formatting:   0.30,
	}
}

// Scorer computes quality reports from table snapshots. It is a pure
// function of its input: no hidden state, safe to call repeatedly on raw
// and cleaned snapshots for before/after comparison.
type Scorer struct {
	logger  *slog.Logger
	weights Weights
}

// NewScorer creates a scorer with the given weights. Zero-valued weights
// fall back to the defaults.
func NewScorer(logger *slog.Logger, weights Weights) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}
	return &Scorer{logger: logger, weights: weights}
}

// Score computes the quality report for a table snapshot. All scores are
// percentages in [0, 100], rounded to one decimal place. An empty table
// scores zero on every dimension.
func (s *Scorer) Score(table *domain.Table) domain.QualityScoreReport {
	completeness := s.completeness(table)
	uniqueness := s.uniqueness(table)
	formatting := s.formatting(table)

	overall := completeness*s.weights.Completeness +
		uniqueness*s.weights.Uniqueness +
		formatting*s.weights.Formatting

	report := domain.QualityScoreReport{
		Completeness: round1(completeness),
		Uniqueness:   round1(uniqueness),
		Formatting:   round1(formatting),
		Overall:      round1(overall),
		Rows:         table.Len(),
		Timestamp:    time.Now(),
	}

	s.logger.Debug("scored table snapshot",
		slog.Int("rows", report.Rows),
		slog.Float64("completeness", report.Completeness),
		slog.Float64("uniqueness", report.Uniqueness),
		slog.Float64("formatting", report.Formatting),
		slog.Float64("overall", report.Overall))
	return report
}

// Detail returns the raw counts behind a report, for drill-down display.
func (s *Scorer) Detail(table *domain.Table) domain.QualityDetail {
	totalCells := table.CellCount()
	nonNull := table.NonNullCellCount()
	duplicates := duplicateRowCount(table)

	return domain.QualityDetail{
		TotalRecords:     table.Len(),
		TotalCells:       totalCells,
		NullCells:        totalCells - nonNull,
		NonNullCells:     nonNull,
		DuplicateRecords: duplicates,
		UniqueRecords:    table.Len() - duplicates,
	}
}

// completeness is the percentage of cells holding a value.
func (s *Scorer) completeness(table *domain.Table) float64 {
	total := table.CellCount()
	if total == 0 {
		return 0
	}
	return 100 * float64(table.NonNullCellCount()) / float64(total)
}

// uniqueness is the percentage of rows that survive full-row deduplication.
func (s *Scorer) uniqueness(table *domain.Table) float64 {
	if table.Empty() {
		return 0
	}
	unique := table.Len() - duplicateRowCount(table)
	return 100 * float64(unique) / float64(table.Len())
}

// formatting is the mean of the per-column validity ratios across the
// format-bearing columns present in the table: email syntax, parseable
// dates, and properly shaped names.
func (s *Scorer) formatting(table *domain.Table) float64 {
	if table.Empty() {
		return 0
	}

	checks := []struct {
		col   domain.Column
		valid func(string) bool
	}{
		{domain.ColumnEmail, validation.ValidEmail},
		{domain.ColumnJoinDate, validation.ValidDate},
		{domain.ColumnName, validation.ValidName},
	}

	var scores []float64
	for _, check := range checks {
		if !table.HasColumn(check.col) {
			continue
		}
		valid := 0
		for _, r := range table.Records {
			value, _ := r.Value(check.col)
			if check.valid(value) {
				valid++
			}
		}
		scores = append(scores, 100*float64(valid)/float64(table.Len()))
	}

	if len(scores) == 0 {
		return 100
	}
	sum := 0.0
	for _, score := range scores {
		sum += score
	}
	return sum / float64(len(scores))
}

// duplicateRowCount counts rows that are byte-identical to an earlier row.
func duplicateRowCount(table *domain.Table) int {
	seen := make(map[string]bool, table.Len())
	duplicates := 0
	for _, r := range table.Records {
		fp := r.Fingerprint()
		if seen[fp] {
			duplicates++
			continue
		}
		seen[fp] = true
	}
	return duplicates
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
