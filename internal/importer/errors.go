package importer

import (
	"fmt"
	"strings"
)

// maxReportedConflicts bounds the user-facing duplicate summary; the full
// conflict list stays on the error value for structured responses.
const maxReportedConflicts = 5

// ValidationError reports a rejected batch or record before any write occurs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// KeyConflict names a key value occurring on more than one row of a batch.
type KeyConflict struct {
	Field string `json:"field"` // tagNumber or serialNumber
	Value string `json:"value"`
	Rows  []int  `json:"rows"` // 1-based positions in the uploaded batch
}

// DuplicateInBatchError reports key collisions inside the uploaded batch
// itself. It is always raised before the database is consulted.
type DuplicateInBatchError struct {
	Conflicts []KeyConflict
}

func (e *DuplicateInBatchError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for i, c := range e.Conflicts {
		if i == maxReportedConflicts {
			parts = append(parts, "...")
			break
		}
		rows := make([]string, len(c.Rows))
		for j, r := range c.Rows {
			rows[j] = fmt.Sprint(r)
		}
		parts = append(parts, fmt.Sprintf("%s %q on rows %s", c.Field, c.Value, strings.Join(rows, ", ")))
	}
	return "duplicate keys in file: " + strings.Join(parts, "; ")
}

// DuplicateInDatabaseError reports batch keys that already exist in storage.
type DuplicateInDatabaseError struct {
	Tags    []string
	Serials []string
}

func (e *DuplicateInDatabaseError) Error() string {
	var parts []string
	if len(e.Tags) > 0 {
		parts = append(parts, "tags already exist: "+strings.Join(e.Tags, ", "))
	}
	if len(e.Serials) > 0 {
		parts = append(parts, "serials already exist: "+strings.Join(e.Serials, ", "))
	}
	return strings.Join(parts, "; ")
}

// ParseError reports an uploaded file that could not be decoded at all.
// Malformed individual rows are not parse errors; they normalize to
// best-effort defaults instead.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// RowFailure describes a single row the storage layer rejected during a
// best-effort chunk insert.
type RowFailure struct {
	Row       int    `json:"row"` // 1-based position in the batch
	TagNumber string `json:"tagNumber"`
	Reason    string `json:"reason"`
}

// PersistenceError reports a storage failure that aborted an import, carrying
// whatever per-row detail is available.
type PersistenceError struct {
	Reason   string
	Failures []RowFailure
	Err      error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *PersistenceError) Unwrap() error { return e.Err }
