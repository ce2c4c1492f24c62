package cleaning

import (
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"communitypulse/internal/validation"
	"communitypulse/pkg/contracts/domain"
)

// Normalizer standardizes individual columns of a member table. Each method
// mutates only its target column(s) on the table it is given and returns a
// count of the rows it actually changed, so that re-running a normalizer on
// already-clean data reports zero.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a column normalizer.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// StandardizeNames rewrites every name to title case, token by token, with
// runs of whitespace collapsed to single spaces. Empty names are left
// untouched and not counted. The operation is idempotent.
func (n *Normalizer) StandardizeNames(table *domain.Table) int {
	if !table.HasColumn(domain.ColumnName) {
		return 0
	}

	// Casers are stateful, so one is built per invocation.
	caser := cases.Title(language.English)

	changed := 0
	for i := range table.Records {
		name := table.Records[i].Name
		if strings.TrimSpace(name) == "" {
			continue
		}
		standardized := caser.String(strings.Join(strings.Fields(name), " "))
		if standardized != name {
			table.Records[i].Name = standardized
			changed++
		}
	}
	return changed
}

// EmailRepairResult reports the outcome of an email repair pass.
type EmailRepairResult struct {
	Repaired int // emails rewritten into valid form
	Removed  int // rows dropped because the email stayed invalid
}

// RepairEmails lower-cases and trims every email and rewrites the known
// " at " malformation to "@". Rows whose email is still invalid afterwards,
// including rows with no email at all, are removed from the table. This is
// the one destructive normalizer; callers must log both counts.
func (n *Normalizer) RepairEmails(table *domain.Table) EmailRepairResult {
	var result EmailRepairResult
	if !table.HasColumn(domain.ColumnEmail) {
		return result
	}

	kept := make([]domain.Record, 0, len(table.Records))
	for _, r := range table.Records {
		email := strings.ToLower(strings.TrimSpace(r.Email))
		email = strings.ReplaceAll(email, " at ", "@")

		if !validation.ValidEmail(email) {
			result.Removed++
			continue
		}
		if email != r.Email {
			r.Email = email
			result.Repaired++
		}
		kept = append(kept, r)
	}
	table.Records = kept
	return result
}

// MissingFillResult reports how many cells each fill rule touched.
type MissingFillResult struct {
	AttendanceFilled int
}

// FillMissingValues applies the column-specific fill rules for nullable
// columns: missing attendance counts become zero. Date imputation is handled
// by CleanDates, and the remaining categorical columns are deliberately left
// alone.
func (n *Normalizer) FillMissingValues(table *domain.Table) MissingFillResult {
	var result MissingFillResult
	if !table.HasColumn(domain.ColumnEventAttendance) {
		return result
	}

	for i := range table.Records {
		if table.Records[i].EventAttendance == nil {
			zero := 0
			table.Records[i].EventAttendance = &zero
			result.AttendanceFilled++
		}
	}
	return result
}
