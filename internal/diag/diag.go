// Package diag provides the structured diagnostic reporting used
// across the analysis core. Grounded on the teacher's
// internal/errors/{report.go,codes.go,json_encoder.go}.
package diag

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wisplang/wisp/internal/ast"
)

// Schema is the versioned schema string stamped on every Report.
const Schema = "wisp.diag/v1"

// Reason enumerates the diagnostic reasons fixed by spec.md §3.
type Reason string

const (
	ReasonNotFunction                Reason = "not_function"
	ReasonNotBoolean                 Reason = "not_boolean"
	ReasonNotNumeric                 Reason = "not_numeric"
	ReasonNotRecord                  Reason = "not_record"
	ReasonMissingField               Reason = "missing_field"
	ReasonDuplicateRecordField       Reason = "duplicate_record_field"
	ReasonBranchMismatch             Reason = "branch_mismatch"
	ReasonTypeMismatch               Reason = "type_mismatch"
	ReasonArityMismatch              Reason = "arity_mismatch"
	ReasonOccursCycle                Reason = "occurs_cycle"
	ReasonNonExhaustiveMatch         Reason = "non_exhaustive_match"
	ReasonFreeVariable               Reason = "free_variable"
	ReasonInfectiousCallResultMismatch Reason = "infectious_call_result_mismatch"
	ReasonDuplicateVariable          Reason = "duplicate_variable"
)

// Phase names the pipeline stage that raised a Report.
type Phase string

const (
	PhaseInfer     Phase = "infer"
	PhaseSolve     Phase = "solve"
	PhasePresent   Phase = "present"
	PhaseCoverage  Phase = "coverage"
	PhaseInfection Phase = "infection"
	PhaseLoader    Phase = "loader"
)

// Error code taxonomy, grouped by phase, matching the teacher's
// XXX### convention (errors/codes.go).
const (
	INF001 = "INF001" // free variable
	INF002 = "INF002" // duplicate record field
	INF003 = "INF003" // duplicate pattern variable
	INF004 = "INF004" // not a function (arity under-application)
	INF005 = "INF005" // duplicate type declaration

	SLV001 = "SLV001" // type mismatch
	SLV002 = "SLV002" // arity mismatch
	SLV003 = "SLV003" // occurs cycle
	SLV004 = "SLV004" // branch mismatch
	SLV005 = "SLV005" // missing field
	SLV006 = "SLV006" // not a record
	SLV007 = "SLV007" // not numeric
	SLV008 = "SLV008" // not boolean
	SLV009 = "SLV009" // not a function

	COV001 = "COV001" // non-exhaustive match

	IFX001 = "IFX001" // infectious call result mismatch

	LDR001 = "LDR001" // module not found
	LDR002 = "LDR002" // circular import
	LDR003 = "LDR003" // duplicate export
)

// Fix is an optional suggested remediation, mirroring the teacher's
// errors.Fix shape.
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// Report is the canonical structured diagnostic.
type Report struct {
	Schema  string         `json:"schema"`
	Code    string         `json:"code"`
	Phase   Phase          `json:"phase"`
	Reason  Reason         `json:"reason"`
	Message string         `json:"message"`
	Span    *ast.Span      `json:"span,omitempty"`
	NodeID  ast.NodeId     `json:"node_id,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Fix     *Fix           `json:"fix,omitempty"`
}

// New builds a Report.
func New(code string, phase Phase, reason Reason, nodeID ast.NodeId, span ast.Span, message string, data map[string]any) *Report {
	return &Report{
		Schema:  Schema,
		Code:    code,
		Phase:   phase,
		Reason:  reason,
		Message: message,
		Span:    &span,
		NodeID:  nodeID,
		Data:    data,
	}
}

// WithFix attaches a suggested fix and returns the same report.
func (r *Report) WithFix(suggestion string, confidence float64) *Report {
	r.Fix = &Fix{Suggestion: suggestion, Confidence: confidence}
	return r
}

// ToJSON renders the report deterministically.
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReportError wraps a Report so it survives errors.As unwrapping —
// used by the loader's hard-error path (spec.md §7).
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown diagnostic"
	}
	return fmt.Sprintf("%s: %s", e.Rep.Code, e.Rep.Message)
}

// AsReport extracts a *Report from an error chain.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// Wrap wraps a Report as an error.
func Wrap(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}
