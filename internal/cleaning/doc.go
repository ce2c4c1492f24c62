// Package cleaning implements the table transformation steps of the member
// data pipeline: field normalization (names, emails, dates), duplicate
// removal, and missing-value filling.
//
// All transforms operate in place on a working copy of the table owned by a
// single pipeline run and return counts of affected rows for the execution
// log. Order matters for effectiveness, not correctness: duplicate detection
// is far more effective after name and email standardization, which is why
// the default pipeline runs the normalizers first.
//
// Core Components:
//
// Normalizer: single-column standardization. Name title-casing, email syntax
// repair, multi-format date parsing with mode imputation, and numeric
// missing-value filling.
//
// Deduper: two-stage duplicate removal. An exact pass keyed on the
// normalized email, then an approximate pass comparing name similarity
// across the survivors.
package cleaning
