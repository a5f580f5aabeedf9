package harness

import "github.com/roach88/snug/internal/ir"

// TraceEvent is one evaluated step as it appears in a trace.
type TraceEvent struct {
	Seq   int64    `json:"seq"`
	Op    string   `json:"op"`
	Type  string   `json:"type"`
	Dst   string   `json:"dst,omitempty"`
	Args  []string `json:"args,omitempty"`
	Value string   `json:"value,omitempty"`
	Error string   `json:"error,omitempty"`
}

// Outcome returns the event's outcome in the engine's form.
func (e TraceEvent) Outcome() ir.Outcome {
	return ir.Outcome{Value: e.Value, Error: e.Error}
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// RunToken identifies the run that produced the trace.
	RunToken string `json:"run_token"`

	// Trace holds the evaluated steps in seq order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Registers holds the final register values in decimal.
	Registers map[string]string `json:"registers"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Trace:     []TraceEvent{},
		Errors:    []string{},
		Registers: make(map[string]string),
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddRecord appends an evaluated step to the trace.
func (r *Result) AddRecord(rec ir.Record) {
	ev := TraceEvent{
		Seq:   rec.Seq,
		Op:    string(rec.Step.Op),
		Type:  rec.Step.Type,
		Dst:   rec.Step.Dst,
		Value: rec.Outcome.Value,
		Error: rec.Outcome.Error,
	}
	for _, a := range rec.Step.Args {
		ev.Args = append(ev.Args, string(a))
	}
	r.Trace = append(r.Trace, ev)
}
