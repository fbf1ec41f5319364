package harness

import (
	"github.com/roach88/uncurl/internal/grid"
	"github.com/roach88/uncurl/internal/ir"
)

// Trace event types.
const (
	EventStep   = "step"
	EventLookup = "lookup"
)

// TraceEvent is one curve step or one resolved lookup.
// For steps Seq is the sequence index; for lookups it is the log seq.
type TraceEvent struct {
	Type     string   `json:"type"`
	Seq      int64    `json:"seq"`
	Point    ir.Point `json:"point"`
	Position *int     `json:"position,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every assertion held.
	Pass bool `json:"pass"`

	// Curve is the registered name the scenario resolved to.
	Curve ir.CurveType `json:"curve,omitempty"`

	// GrammarHash identifies the grammar, empty for direct curves.
	GrammarHash string `json:"grammar_hash,omitempty"`

	// Dims is the allocated grid; zero when construction failed.
	Dims grid.Dimensions `json:"dims"`

	// ErrorCode is set when curve construction or payload validation failed.
	ErrorCode ir.ErrorCode `json:"error_code,omitempty"`

	// Trace holds every step in order followed by every lookup.
	Trace []TraceEvent `json:"trace"`

	// Unset is the number of cells holding no element.
	Unset int `json:"unset"`

	// Recorded is the number of lookups in the session log.
	Recorded int `json:"recorded"`

	// Errors contains assertion failure messages.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddStepTrace adds a curve step to the trace.
func (r *Result) AddStepTrace(index int, p ir.Point) {
	r.Trace = append(r.Trace, TraceEvent{Type: EventStep, Seq: int64(index), Point: p})
}

// AddLookupTrace adds a resolved lookup to the trace.
func (r *Result) AddLookupTrace(seq int64, p ir.Point, position *int) {
	r.Trace = append(r.Trace, TraceEvent{Type: EventLookup, Seq: seq, Point: p, Position: position})
}

// Steps returns the step events of the trace.
func (r *Result) Steps() []TraceEvent {
	var out []TraceEvent
	for _, e := range r.Trace {
		if e.Type == EventStep {
			out = append(out, e)
		}
	}
	return out
}

// LookupAt returns the last lookup event for p.
func (r *Result) LookupAt(p ir.Point) (TraceEvent, bool) {
	for i := len(r.Trace) - 1; i >= 0; i-- {
		if e := r.Trace[i]; e.Type == EventLookup && e.Point == p {
			return e, true
		}
	}
	return TraceEvent{}, false
}
