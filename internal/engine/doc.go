// Package engine evaluates snug programs.
//
// A program is an ordered list of steps over named registers (see package
// ir). The engine evaluates the steps in order on a fresh register set,
// stamping each with a seq from a logical clock and a content-addressed ID.
//
// Two kinds of failure are kept apart:
//
//   - A refusal (for example AdditionOverflow) is a normal outcome. It is
//     recorded with the step, the registers stay as they were, and the run
//     continues.
//   - A RuntimeError (unknown op, undefined register, malformed literal) means
//     the program is wrong. The run stops at that step.
//
// Determinism:
// Records are ordered by seq, never by wall-clock time. Given the same run
// token and steps, a run produces the same record IDs and outcomes, which
// is what Replay checks against the store. A replayed run that aborted part
// way reports a program hash mismatch, since only its prefix was stored.
package engine
