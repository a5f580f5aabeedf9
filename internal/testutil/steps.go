// Package testutil holds deterministic fixtures for scenario runs and
// tests: fixed run tokens and step builders. It does not depend on package
// testing, so the harness can use it from the snug binary.
package testutil

import (
	"github.com/roach88/snug/internal/ir"
)

// Step builds a step. Args that are empty are dropped.
func Step(op ir.Op, typ, dst string, args ...string) ir.Step {
	s := ir.Step{Op: op, Type: typ, Dst: dst}
	for _, a := range args {
		if a != "" {
			s.Args = append(s.Args, ir.Operand(a))
		}
	}
	return s
}

// Program builds a named program from steps.
func Program(name string, steps ...ir.Step) ir.Program {
	return ir.Program{Name: name, Steps: steps}
}
