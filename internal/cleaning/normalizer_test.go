package cleaning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communitypulse/pkg/contracts/domain"
)

func intPtr(v int) *int {
	return &v
}

func TestStandardizeNames(t *testing.T) {
	tests := []struct {
		name        string
		input       []string
		want        []string
		wantChanged int
	}{
		{
			name:        "mixed casing",
			input:       []string{"JOHN SMITH", "jane doe", "Alice Brown"},
			want:        []string{"John Smith", "Jane Doe", "Alice Brown"},
			wantChanged: 2,
		},
		{
			name:        "whitespace collapsed",
			input:       []string{"  john   smith "},
			want:        []string{"John Smith"},
			wantChanged: 1,
		},
		{
			name:        "empty names untouched",
			input:       []string{"", "   "},
			want:        []string{"", "   "},
			wantChanged: 0,
		},
		{
			name:        "already standardized",
			input:       []string{"John Smith"},
			want:        []string{"John Smith"},
			wantChanged: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]domain.Record, len(tt.input))
			for i, name := range tt.input {
				records[i] = domain.Record{Name: name}
			}
			table := domain.NewTable(nil, records)

			normalizer := NewNormalizer(nil)
			changed := normalizer.StandardizeNames(table)

			assert.Equal(t, tt.wantChanged, changed)
			for i, want := range tt.want {
				assert.Equal(t, want, table.Records[i].Name)
			}
		})
	}
}

func TestStandardizeNamesIdempotent(t *testing.T) {
	records := []domain.Record{
		{Name: "JOHN SMITH"},
		{Name: "jane   doe"},
		{Name: ""},
		{Name: "Mixed CASE name"},
	}
	table := domain.NewTable(nil, records)
	normalizer := NewNormalizer(nil)

	normalizer.StandardizeNames(table)
	first := make([]string, len(table.Records))
	for i, r := range table.Records {
		first[i] = r.Name
	}

	changed := normalizer.StandardizeNames(table)
	assert.Equal(t, 0, changed, "second pass must change nothing")
	for i, r := range table.Records {
		assert.Equal(t, first[i], r.Name)
	}
}

func TestStandardizeNamesMissingColumn(t *testing.T) {
	table := domain.NewTable([]domain.Column{domain.ColumnEmail}, []domain.Record{{Name: "JOHN"}})
	changed := NewNormalizer(nil).StandardizeNames(table)
	assert.Equal(t, 0, changed)
	assert.Equal(t, "JOHN", table.Records[0].Name)
}

func TestRepairEmails(t *testing.T) {
	tests := []struct {
		name         string
		emails       []string
		wantKept     []string
		wantRepaired int
		wantRemoved  int
	}{
		{
			name:         "at substitution repaired",
			emails:       []string{"user at example.com", "jane@example.org"},
			wantKept:     []string{"user@example.com", "jane@example.org"},
			wantRepaired: 1,
			wantRemoved:  0,
		},
		{
			name:         "unrepairable removed",
			emails:       []string{"not-an-email", "jane@example.org"},
			wantKept:     []string{"jane@example.org"},
			wantRepaired: 0,
			wantRemoved:  1,
		},
		{
			name:         "case and whitespace normalized",
			emails:       []string{"  John.Smith@Example.COM "},
			wantKept:     []string{"john.smith@example.com"},
			wantRepaired: 1,
			wantRemoved:  0,
		},
		{
			name:         "missing email removed",
			emails:       []string{"", "jane@example.org"},
			wantKept:     []string{"jane@example.org"},
			wantRepaired: 0,
			wantRemoved:  1,
		},
		{
			name:         "all valid untouched",
			emails:       []string{"a@example.com", "b@example.com"},
			wantKept:     []string{"a@example.com", "b@example.com"},
			wantRepaired: 0,
			wantRemoved:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := make([]domain.Record, len(tt.emails))
			for i, email := range tt.emails {
				records[i] = domain.Record{Email: email}
			}
			table := domain.NewTable(nil, records)

			result := NewNormalizer(nil).RepairEmails(table)

			assert.Equal(t, tt.wantRepaired, result.Repaired, "repaired count")
			assert.Equal(t, tt.wantRemoved, result.Removed, "removed count")
			require.Len(t, table.Records, len(tt.wantKept))
			for i, want := range tt.wantKept {
				assert.Equal(t, want, table.Records[i].Email)
			}
		})
	}
}

func TestRepairEmailsIdempotent(t *testing.T) {
	records := []domain.Record{
		{Email: "user at example.com"},
		{Email: "JANE@EXAMPLE.ORG"},
		{Email: "broken"},
	}
	table := domain.NewTable(nil, records)
	normalizer := NewNormalizer(nil)

	normalizer.RepairEmails(table)
	second := normalizer.RepairEmails(table)

	assert.Equal(t, 0, second.Repaired)
	assert.Equal(t, 0, second.Removed)
}

func TestFillMissingValues(t *testing.T) {
	records := []domain.Record{
		{Name: "A", EventAttendance: intPtr(5)},
		{Name: "B"},
		{Name: "C"},
	}
	table := domain.NewTable(nil, records)

	result := NewNormalizer(nil).FillMissingValues(table)

	assert.Equal(t, 2, result.AttendanceFilled)
	require.NotNil(t, table.Records[1].EventAttendance)
	assert.Equal(t, 0, *table.Records[1].EventAttendance)
	assert.Equal(t, 5, *table.Records[0].EventAttendance)

	again := NewNormalizer(nil).FillMissingValues(table)
	assert.Equal(t, 0, again.AttendanceFilled)
}

func TestFillMissingValuesEmptyTable(t *testing.T) {
	table := domain.NewTable(nil, nil)
	result := NewNormalizer(nil).FillMissingValues(table)
	assert.Equal(t, 0, result.AttendanceFilled)
}
