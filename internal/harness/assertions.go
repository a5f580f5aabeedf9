package harness

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/roach88/snug/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Subject  string       // what was checked, e.g. "register x"
	Expected string       // human-readable expected outcome
	Actual   string       // human-readable actual outcome
	Trace    []TraceEvent // full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Subject)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s\n", ev.Seq, FormatEvent(ev))
		}
	}
	return buf.String()
}

// FormatEvent renders a trace event on one line: "add int8 z = x, 5 -> 15".
func FormatEvent(ev TraceEvent) string {
	var b strings.Builder
	b.WriteString(ev.Op)
	b.WriteString(" ")
	b.WriteString(ev.Type)
	if ev.Dst != "" {
		b.WriteString(" ")
		b.WriteString(ev.Dst)
		if len(ev.Args) > 0 {
			b.WriteString(" =")
		}
	}
	if len(ev.Args) > 0 {
		b.WriteString(" ")
		b.WriteString(strings.Join(ev.Args, ", "))
	}
	b.WriteString(" -> ")
	b.WriteString(ev.Outcome().String())
	return b.String()
}

// CheckExpectations compares each step's expect clause with the trace.
// Steps past the end of the trace (after an aborted run) are reported as
// not evaluated.
func CheckExpectations(scenario *Scenario, trace []TraceEvent) []string {
	var errs []string
	for i, st := range scenario.Steps {
		if st.Expect == nil {
			continue
		}
		want := st.Expect.Outcome()
		if i >= len(trace) {
			errs = append(errs, fmt.Sprintf("step %d (%s): expected %s, step was not evaluated", i, st.Op, want))
			continue
		}
		got := trace[i].Outcome()
		if !outcomesEqual(want, got) {
			err := &AssertionError{
				Subject:  fmt.Sprintf("step %d (%s)", i, st.Op),
				Expected: want.String(),
				Actual:   got.String(),
			}
			errs = append(errs, strings.TrimSuffix(err.Error(), "\n"))
		}
	}
	return errs
}

// EvaluateAssertions checks final register values.
// Returns one error message per failed assertion.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		got, ok := result.Registers[a.Register]
		if !ok {
			got = "<undefined>"
		}
		if !ok || !decimalEqual(a.Value, got) {
			err := &AssertionError{
				Subject:  "register " + a.Register,
				Expected: a.Value,
				Actual:   got,
				Trace:    result.Trace,
			}
			errs = append(errs, err.Error())
		}
	}
	return errs
}

// outcomesEqual compares outcomes, treating values as decimals so "+5"
// matches "5". The "lower..upper" form of bounds is compared on both ends.
func outcomesEqual(want, got ir.Outcome) bool {
	if want.Error != "" || got.Error != "" {
		return want.Error == got.Error
	}
	wl, wu, wRange := strings.Cut(want.Value, "..")
	gl, gu, gRange := strings.Cut(got.Value, "..")
	if wRange != gRange {
		return false
	}
	if wRange {
		return decimalEqual(wl, gl) && decimalEqual(wu, gu)
	}
	return decimalEqual(want.Value, got.Value)
}

// decimalEqual compares two decimal integers of any size.
func decimalEqual(a, b string) bool {
	x, ok := new(big.Int).SetString(a, 10)
	if !ok {
		return a == b
	}
	y, ok := new(big.Int).SetString(b, 10)
	if !ok {
		return false
	}
	return x.Cmp(y) == 0
}
