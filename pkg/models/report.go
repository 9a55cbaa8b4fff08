package models

import "fmt"

// Finding is a single validation problem. Index is the position of the
// offending listing in the batch, or -1 for batch-level findings.
type Finding struct {
	Index   int    `json:"index"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (f Finding) String() string {
	if f.Index < 0 {
		return f.Message
	}
	if f.Field == "" {
		return fmt.Sprintf("listing[%d]: %s", f.Index, f.Message)
	}
	return fmt.Sprintf("listing[%d].%s: %s", f.Index, f.Field, f.Message)
}

// BatchReport accumulates validation findings for a listing batch.
// Errors are batch-level problems that make the batch unusable;
// warnings are per-listing problems that never halt processing of the
// remaining records.
type BatchReport struct {
	Errors   []Finding `json:"errors"`
	Warnings []Finding `json:"warnings"`
}

// HasErrors reports whether the batch failed any hard check
func (r *BatchReport) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings reports whether any per-listing check failed
func (r *BatchReport) HasWarnings() bool {
	return len(r.Warnings) > 0
}
