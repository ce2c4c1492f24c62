package domain

// Table is an ordered collection of member records sharing a fixed schema.
// The column set records which fields were actually present in the source
// data; cleaning steps consult it before touching a column. Row order is
// preserved across cleaning so that log output stays reproducible.
type Table struct {
	columns []Column
	present map[Column]bool
	Records []Record
}

// NewTable creates a table over the given columns. A nil or empty column
// list means the full member schema is present.
func NewTable(columns []Column, records []Record) *Table {
	if len(columns) == 0 {
		columns = AllColumns()
	}
	present := make(map[Column]bool, len(columns))
	ordered := make([]Column, 0, len(columns))
	for _, c := range columns {
		if !present[c] {
			present[c] = true
			ordered = append(ordered, c)
		}
	}
	return &Table{
		columns: ordered,
		present: present,
		Records: records,
	}
}

// Columns returns the table's columns in declaration order.
func (t *Table) Columns() []Column {
	cols := make([]Column, len(t.columns))
	copy(cols, t.columns)
	return cols
}

// HasColumn reports whether the column is part of this table's schema.
func (t *Table) HasColumn(col Column) bool {
	return t.present[col]
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Records)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return len(t.Records) == 0
}

// Clone returns a deep copy of the table. Cleaning runs always operate on a
// clone so the caller's original is preserved for before/after comparison.
func (t *Table) Clone() *Table {
	records := make([]Record, len(t.Records))
	for i, r := range t.Records {
		records[i] = r.Clone()
	}
	return NewTable(t.columns, records)
}

// CellCount returns the total number of cells (rows times columns).
func (t *Table) CellCount() int {
	return len(t.Records) * len(t.columns)
}

// NonNullCellCount returns the number of cells holding a value.
func (t *Table) NonNullCellCount() int {
	count := 0
	for _, r := range t.Records {
		for _, c := range t.columns {
			if _, ok := r.Value(c); ok {
				count++
			}
		}
	}
	return count
}
