package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/snug/internal/engine"
	"github.com/roach88/snug/internal/ir"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Type string
}

// EvalResult is the outcome of a single evaluated operation.
type EvalResult struct {
	Op      string   `json:"op"`
	Type    string   `json:"type"`
	Args    []string `json:"args,omitempty"`
	Outcome string   `json:"outcome"`
	Value   string   `json:"value,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <op> [operands...]",
		Short: "Evaluate one operation on literal operands",
		Long: `Evaluate one operation and print the value or the failure kind.

Operands are decimal literals. Ops that update a register in place (inc, dec,
postinc, postdec, assign) take the starting value as their first operand.

Exit codes:
  0 - The operation produced a value
  1 - The operation was refused (overflow, underflow, division by zero, ...)
  2 - Command error (unknown op or type, malformed literal, wrong operand count)

Examples:
  snug eval --type int8 add 100 50
  snug eval --type uint8 dec 0
  snug eval --type int16 bounds
  snug eval --type int32 div -- -2147483648 -1`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Type, "type", "t", "int", "integer representation")

	return cmd
}

func runEval(opts *EvalOptions, op string, args []string, cmd *cobra.Command) error {
	prog := evalProgram(ir.Op(op), opts.Type, args)

	regs := engine.NewRegisters()
	var outcome ir.Outcome
	for _, step := range prog {
		var err error
		outcome, err = engine.Eval(regs, step)
		if err != nil {
			return WrapExitError(ExitCommandError, "cannot evaluate", err)
		}
		if outcome.Failed() {
			break
		}
	}

	result := EvalResult{
		Op:      op,
		Type:    opts.Type,
		Args:    args,
		Outcome: outcome.String(),
		Value:   outcome.Value,
		Error:   outcome.Error,
	}

	if opts.Format == "json" {
		var cliErr *CLIError
		if outcome.Failed() {
			cliErr = &CLIError{Code: "E_REFUSED", Message: outcome.Error}
		}
		if err := respond(cmd.OutOrStdout(), result, cliErr); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), outcome.String())
	}

	if outcome.Failed() {
		return NewReportedError(ExitFailure, fmt.Sprintf("%s refused: %s", op, outcome.Error))
	}
	return nil
}

// evalProgram turns a one-line eval into steps over scratch registers.
// In-place ops load their first operand into register "x" first; binary and
// unary ops read their literals directly.
func evalProgram(op ir.Op, typ string, args []string) []ir.Step {
	operands := make([]ir.Operand, len(args))
	for i, a := range args {
		operands[i] = ir.Operand(a)
	}

	switch op {
	case ir.OpInc, ir.OpDec, ir.OpPostInc, ir.OpPostDec, ir.OpAssign:
		if len(operands) == 0 {
			break
		}
		return []ir.Step{
			{Op: ir.OpParse, Type: typ, Dst: "x", Args: operands[:1]},
			{Op: op, Type: typ, Dst: "x", Args: operands[1:]},
		}
	}

	step := ir.Step{Op: op, Type: typ, Args: operands}
	if op.NeedsDst() {
		step.Dst = "x"
	}
	return []ir.Step{step}
}
