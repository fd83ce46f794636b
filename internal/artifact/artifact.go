// Package artifact defines the analysis result emitted on stdout and its
// serialization. The shape is the stable contract consumed downstream;
// key order is fixed by struct declaration and every collection is
// order-preserving, so identical input yields byte-identical output.
package artifact

import (
	"cobscan/internal/errors"
)

// Status values for the root artifact.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Division reports presence of one top-level division. Presence means
// the division header was located, not that its content was validated.
// An absent division serializes as {}.
type Division struct {
	Present bool `json:"present,omitempty"`
}

// Divisions holds the four independent presence flags.
type Divisions struct {
	Identification Division `json:"identification"`
	Environment    Division `json:"environment"`
	Data           Division `json:"data"`
	Procedure      Division `json:"procedure"`
}

// Call is one CALL reference found in a paragraph body. Dynamic is false
// for a quoted literal target and true for a data-name resolved at
// run time.
type Call struct {
	Target  string `json:"target"`
	Dynamic bool   `json:"dynamic"`
}

// IoOp is one file I/O operation. Fields is always empty: field-level
// detail is out of scope, the key exists for schema stability.
type IoOp struct {
	Op         string   `json:"op"`
	DatasetRef string   `json:"dataset_ref"`
	Fields     []string `json:"fields"`
}

// Paragraph is the per-paragraph fact bundle, in document order.
type Paragraph struct {
	Name     string   `json:"name"`
	Performs []string `json:"performs"`
	Calls    []Call   `json:"calls"`
	IoOps    []IoOp   `json:"io_ops"`
}

// Result is the root artifact for a successful run.
type Result struct {
	Status       string      `json:"status"`
	Engine       string      `json:"engine"`
	ProgramID    string      `json:"programId"`
	SourceFormat string      `json:"sourceFormat"`
	File         string      `json:"file"`
	Divisions    Divisions   `json:"divisions"`
	Paragraphs   []Paragraph `json:"paragraphs"`
	Copybooks    []string    `json:"copybooks_used"`
	Notes        []string    `json:"notes"`
}

// ErrorResult is the root artifact for a failed run. No other keys are
// guaranteed present on error.
type ErrorResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewError builds an error artifact with a single-line, control-free
// message so the artifact stays parseable even when reporting a failure
// about malformed input.
func NewError(msg string) ErrorResult {
	return ErrorResult{
		Status:  StatusError,
		Message: errors.Sanitize(msg),
	}
}

// Normalize replaces nil collections with empty ones so absent facts
// serialize as [] rather than null, and never as a missing key.
func (r *Result) Normalize() {
	if r.Paragraphs == nil {
		r.Paragraphs = []Paragraph{}
	}
	for i := range r.Paragraphs {
		p := &r.Paragraphs[i]
		if p.Performs == nil {
			p.Performs = []string{}
		}
		if p.Calls == nil {
			p.Calls = []Call{}
		}
		if p.IoOps == nil {
			p.IoOps = []IoOp{}
		}
		for j := range p.IoOps {
			if p.IoOps[j].Fields == nil {
				p.IoOps[j].Fields = []string{}
			}
		}
	}
	if r.Copybooks == nil {
		r.Copybooks = []string{}
	}
	if r.Notes == nil {
		r.Notes = []string{}
	}
}
