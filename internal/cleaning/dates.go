package cleaning

import (
	"log/slog"
	"time"

	"communitypulse/internal/validation"
	"communitypulse/pkg/contracts/domain"
)

// DateOptions controls the date normalization pass.
type DateOptions struct {
	// CoerceFuture clamps future-dated values to the processing date instead
	// of merely counting them as a quality flag.
	CoerceFuture bool

	// Now is the processing time used for future-date detection. The zero
	// value means time.Now().
	Now time.Time
}

// DateCleanResult reports the outcome of a date normalization pass.
type DateCleanResult struct {
	Normalized    int // values rewritten into canonical YYYY-MM-DD form
	Imputed       int // missing or unparseable values filled with the mode
	FutureFlagged int // values dated after the processing time
	Unresolved    int // values left as-is because no mode could be computed
}

// Affected returns the number of rows whose stored value changed.
func (r DateCleanResult) Affected() int {
	return r.Normalized + r.Imputed
}

// CleanDates parses the join date column permissively across the accepted
// input shapes and rewrites every parseable value to canonical YYYY-MM-DD
// text. Missing and unparseable values are imputed with the statistical mode
// of the successfully parsed subset; the mode is computed before any
// imputation so already-imputed rows cannot bias it. Values resolving to a
// future date are counted, and optionally coerced to the processing date.
func (n *Normalizer) CleanDates(table *domain.Table, opts DateOptions) DateCleanResult {
	var result DateCleanResult
	if !table.HasColumn(domain.ColumnJoinDate) {
		return result
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	today := now.Format(validation.CanonicalDateLayout)

	// First pass: parse what parses and tally canonical values for the mode.
	canonical := make([]string, len(table.Records))
	counts := make(map[string]int)
	for i, r := range table.Records {
		if t, ok := validation.ParseDate(r.JoinDate); ok {
			c := t.Format(validation.CanonicalDateLayout)
			canonical[i] = c
			counts[c]++
		}
	}

	mode := dateMode(counts)

	// Second pass: rewrite, impute, and flag.
	for i := range table.Records {
		value := canonical[i]
		switch {
		case value != "":
			if value != table.Records[i].JoinDate {
				table.Records[i].JoinDate = value
				result.Normalized++
			}
		case mode != "":
			table.Records[i].JoinDate = mode
			result.Imputed++
			value = mode
		default:
			result.Unresolved++
			continue
		}

		if value > today {
			result.FutureFlagged++
			if opts.CoerceFuture {
				table.Records[i].JoinDate = today
			}
		}
	}

	if result.Unresolved > 0 {
		n.logger.Warn("no parseable dates available for imputation",
			slog.Int("unresolved", result.Unresolved))
	}
	return result
}

// dateMode returns the most frequent canonical date, breaking ties by the
// earliest date so imputation stays deterministic.
func dateMode(counts map[string]int) string {
	mode := ""
	best := 0
	for date, count := range counts {
		if count > best || (count == best && (mode == "" || date < mode)) {
			mode = date
			best = count
		}
	}
	return mode
}
