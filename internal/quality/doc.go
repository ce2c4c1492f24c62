// Package quality computes data-quality scores for member tables.
//
// A table snapshot is measured along three dimensions: completeness (share
// of non-null cells), uniqueness (share of rows with no full-row duplicate),
// and formatting (share of cells passing per-column format checks). The
// weighted combination of the three is the composite health score shown to
// users before and after a cleaning run.
//
// The scorer holds no mutable state; scoring the same snapshot twice yields
// identical reports.
package quality
