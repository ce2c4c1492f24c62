package domain

import (
	"strconv"
	"strings"
)

// Column identifies a field in the member table schema.
type Column string

const (
	ColumnID               Column = "id"
	ColumnName             Column = "name"
	ColumnEmail            Column = "email"
	ColumnJoinDate         Column = "join_date"
	ColumnLastLogin        Column = "last_login"
	ColumnEventAttendance  Column = "event_attendance"
	ColumnRole             Column = "role"
	ColumnEventRegistered  Column = "event_registered"
	ColumnRegistrationDate Column = "registration_date"
)

// AllColumns returns the full member schema in canonical order.
func AllColumns() []Column {
	return []Column{
		ColumnID,
		ColumnName,
		ColumnEmail,
		ColumnJoinDate,
		ColumnLastLogin,
		ColumnEventAttendance,
		ColumnRole,
		ColumnEventRegistered,
		ColumnRegistrationDate,
	}
}

// Record represents a single member row. Text fields use the empty string
// as the null value; EventAttendance is nil when missing. Date fields are
// carried as text because source data arrives in mixed formats and is only
// canonicalized by the cleaning pipeline.
type Record struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	JoinDate         string `json:"join_date"`
	LastLogin        string `json:"last_login"`
	EventAttendance  *int   `json:"event_attendance"`
	Role             string `json:"role"`
	EventRegistered  string `json:"event_registered"`
	RegistrationDate string `json:"registration_date"`
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	clone := r
	if r.EventAttendance != nil {
		v := *r.EventAttendance
		clone.EventAttendance = &v
	}
	return clone
}

// Value returns the record's value for the given column as text, along with
// a flag reporting whether the cell holds a value at all.
func (r Record) Value(col Column) (string, bool) {
	switch col {
	case ColumnID:
		return r.ID, r.ID != ""
	case ColumnName:
		return r.Name, r.Name != ""
	case ColumnEmail:
		return r.Email, r.Email != ""
	case ColumnJoinDate:
		return r.JoinDate, r.JoinDate != ""
	case ColumnLastLogin:
		return r.LastLogin, r.LastLogin != ""
	case ColumnEventAttendance:
		if r.EventAttendance == nil {
			return "", false
		}
		return strconv.Itoa(*r.EventAttendance), true
	case ColumnRole:
		return r.Role, r.Role != ""
	case ColumnEventRegistered:
		return r.EventRegistered, r.EventRegistered != ""
	case ColumnRegistrationDate:
		return r.RegistrationDate, r.RegistrationDate != ""
	default:
		return "", false
	}
}

// Equal reports whether two records are byte-identical across all columns.
func (r Record) Equal(other Record) bool {
	if r.ID != other.ID ||
		r.Name != other.Name ||
		r.Email != other.Email ||
		r.JoinDate != other.JoinDate ||
		r.LastLogin != other.LastLogin ||
		r.Role != other.Role ||
		r.EventRegistered != other.EventRegistered ||
		r.RegistrationDate != other.RegistrationDate {
		return false
	}
	if (r.EventAttendance == nil) != (other.EventAttendance == nil) {
		return false
	}
	if r.EventAttendance != nil && *r.EventAttendance != *other.EventAttendance {
		return false
	}
	return true
}

// Fingerprint returns a stable key representing the full row, used for
// strict duplicate detection.
func (r Record) Fingerprint() string {
	att := ""
	if r.EventAttendance != nil {
		att = strconv.Itoa(*r.EventAttendance)
	}
	return strings.Join([]string{
		r.ID, r.Name, r.Email, r.JoinDate, r.LastLogin,
		att, r.Role, r.EventRegistered, r.RegistrationDate,
	}, "\x1f")
}
