package engine

import (
	"errors"
	"strconv"

	"github.com/roach88/snug/internal/ir"
	"github.com/roach88/snug/internal/rep"
	"github.com/roach88/snug/internal/snug"
)

// Eval evaluates one step against regs.
//
// An arithmetic refusal is not an error: it comes back as an Outcome naming
// the failure kind, and regs is left untouched. A non-nil error is always a
// *RuntimeError describing a malformed step.
func Eval(regs *Registers, step ir.Step) (ir.Outcome, error) {
	typ, err := checkStep(step)
	if err != nil {
		return ir.Outcome{}, err
	}

	v, out, err := evalOp(regs, typ, step)
	if err != nil {
		if kind, ok := snug.KindOf(err); ok {
			return ir.Outcome{Error: string(kind)}, nil
		}
		return ir.Outcome{}, err
	}
	if v != nil {
		regs.Set(step.Dst, v)
	}
	return out, nil
}

// checkStep validates the shape of a step before any register is read.
func checkStep(step ir.Step) (rep.Type, error) {
	if !step.Op.Valid() {
		return "", newRuntimeError(ErrCodeUnknownOp, "unknown op %q", string(step.Op))
	}
	typ, err := rep.Lookup(step.Type)
	if err != nil {
		return "", newRuntimeError(ErrCodeUnknownType, "unknown type %q", step.Type)
	}
	lo, hi := step.Op.Arity()
	if n := len(step.Args); n < lo || n > hi {
		if lo == hi {
			return "", newRuntimeError(ErrCodeArity, "%s takes %d operands, got %d", step.Op, lo, n)
		}
		return "", newRuntimeError(ErrCodeArity, "%s takes %d to %d operands, got %d", step.Op, lo, hi, n)
	}
	switch {
	case step.Op.NeedsDst() && step.Dst == "":
		return "", newRuntimeError(ErrCodeArity, "%s needs a dst register", step.Op)
	case !step.Op.NeedsDst() && step.Dst != "":
		return "", newRuntimeError(ErrCodeArity, "%s does not write a register", step.Op)
	}
	return typ, nil
}

// evalOp returns the value to store in dst (nil for none) and the outcome.
func evalOp(regs *Registers, typ rep.Type, step ir.Step) (rep.Value, ir.Outcome, error) {
	switch step.Op {
	case ir.OpNew:
		if len(step.Args) == 0 {
			v, err := rep.New(typ)
			return written(v, err)
		}
		v, err := operand(regs, typ, step.Args[0])
		if err != nil {
			return nil, ir.Outcome{}, err
		}
		if v.Type() != typ {
			return nil, ir.Outcome{}, mismatch("new", typ, v)
		}
		return written(v, nil)

	case ir.OpAssign:
		cur, err := target(regs, typ, step.Dst)
		if err != nil {
			return nil, ir.Outcome{}, err
		}
		arg := step.Args[0]
		if !arg.IsLiteral() {
			src, err := register(regs, arg)
			if err != nil {
				return nil, ir.Outcome{}, err
			}
			if src.Type() != typ {
				return nil, ir.Outcome{}, mismatch("assign", typ, src)
			}
			return written(src, nil)
		}
		v, err := rep.Assign(cur, string(arg))
		if err != nil {
			return nil, ir.Outcome{}, literalError(arg, err)
		}
		return written(v, nil)

	case ir.OpParse:
		arg := step.Args[0]
		if !arg.IsLiteral() {
			return nil, ir.Outcome{}, newRuntimeError(ErrCodeBadOperand, "parse takes a decimal literal, got %q", string(arg))
		}
		v, err := rep.Parse(typ, string(arg))
		if err != nil {
			return nil, ir.Outcome{}, literalError(arg, err)
		}
		return written(v, nil)

	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv:
		left, right, err := operands(regs, typ, step.Args)
		if err != nil {
			return nil, ir.Outcome{}, err
		}
		v, err := rep.Apply(rep.Op(step.Op), left, right)
		return written(v, err)

	case ir.OpInc, ir.OpDec:
		cur, err := target(regs, typ, step.Dst)
		if err != nil {
			return nil, ir.Outcome{}, err
		}
		v, err := rep.Step(rep.Op(step.Op), cur)
		return written(v, err)

	case ir.OpPostInc, ir.OpPostDec:
		cur, err := target(regs, typ, step.Dst)
		if err != nil {
			return nil, ir.Outcome{}, err
		}
		op := rep.OpInc
		if step.Op == ir.OpPostDec {
			op = rep.OpDec
		}
		v, err := rep.Step(op, cur)
		if err != nil {
			return nil, ir.Outcome{}, err
		}
		return v, ir.Outcome{Value: cur.String()}, nil

	case ir.OpCmp:
		left, right, err := operands(regs, typ, step.Args)
		if err != nil {
			return nil, ir.Outcome{}, err
		}
		c, err := rep.Compare(left, right)
		if err != nil {
			return nil, ir.Outcome{}, err
		}
		return nil, ir.Outcome{Value: strconv.Itoa(c)}, nil

	case ir.OpBounds:
		lower, upper, err := typ.Bounds()
		if err != nil {
			return nil, ir.Outcome{}, newRuntimeError(ErrCodeUnknownType, "%v", err)
		}
		return nil, ir.Outcome{Value: lower + ".." + upper}, nil
	}
	return nil, ir.Outcome{}, newRuntimeError(ErrCodeUnknownOp, "unknown op %q", string(step.Op))
}

func written(v rep.Value, err error) (rep.Value, ir.Outcome, error) {
	if err != nil {
		return nil, ir.Outcome{}, err
	}
	return v, ir.Outcome{Value: v.String()}, nil
}

// operand resolves a register reference or parses a literal in typ.
func operand(regs *Registers, typ rep.Type, arg ir.Operand) (rep.Value, error) {
	if !arg.IsLiteral() {
		return register(regs, arg)
	}
	v, err := rep.Parse(typ, string(arg))
	if err != nil {
		return nil, literalError(arg, err)
	}
	return v, nil
}

func operands(regs *Registers, typ rep.Type, args []ir.Operand) (rep.Value, rep.Value, error) {
	left, err := operand(regs, typ, args[0])
	if err != nil {
		return nil, nil, err
	}
	right, err := operand(regs, typ, args[1])
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func register(regs *Registers, arg ir.Operand) (rep.Value, error) {
	if arg == "" {
		return nil, newRuntimeError(ErrCodeBadOperand, "empty operand")
	}
	v, ok := regs.Get(string(arg))
	if !ok {
		return nil, newRuntimeError(ErrCodeUndefinedRegister, "register %q is not defined", string(arg))
	}
	return v, nil
}

// target returns the register a step updates in place.
func target(regs *Registers, typ rep.Type, dst string) (rep.Value, error) {
	v, ok := regs.Get(dst)
	if !ok {
		return nil, newRuntimeError(ErrCodeUndefinedRegister, "register %q is not defined", dst)
	}
	if v.Type() != typ {
		return nil, newRuntimeError(ErrCodeTypeConflict, "register %q holds %s, step declares %s", dst, v.Type(), typ)
	}
	return v, nil
}

// literalError keeps out-of-range literals as refusals and reports
// malformed ones.
func literalError(arg ir.Operand, err error) error {
	if _, ok := snug.KindOf(err); ok {
		return err
	}
	var re *RuntimeError
	if errors.As(err, &re) {
		return err
	}
	return newRuntimeError(ErrCodeBadOperand, "malformed literal %q", string(arg))
}

func mismatch(op string, typ rep.Type, v rep.Value) error {
	return &snug.Error{
		Kind: snug.TypeMismatch,
		Op:   op,
		Type: typ.String() + "/" + v.Type().String(),
		Left: v.String(),
	}
}
