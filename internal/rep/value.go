package rep

import (
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/roach88/snug/internal/snug"
)

// Op is a binary or unary arithmetic operator.
type Op string

const (
	OpAdd Op = "add"
	OpSub Op = "sub"
	OpMul Op = "mul"
	OpDiv Op = "div"
	OpInc Op = "inc"
	OpDec Op = "dec"
)

// Value is a bounded integer whose representation is chosen at runtime.
// Values are immutable; every operation returns a new Value.
//
// Sealed - only this package implements it.
type Value interface {
	// Type returns the representation.
	Type() Type

	// String renders the stored value in decimal.
	String() string

	apply(op Op, right Value) (Value, error)
	step(op Op) (Value, error)
	assign(text string) (Value, error)
	compare(right Value) (int, error)
}

// New returns 0 in representation t.
func New(t Type) (Value, error) {
	e, ok := registry[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, string(t))
	}
	return e.zero()
}

// Parse reads a decimal literal into representation t.
// Out-of-range literals fail with snug.SizeMismatch.
func Parse(t Type, s string) (Value, error) {
	e, ok := registry[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, string(t))
	}
	return e.parse(s)
}

// Apply computes left op right for OpAdd, OpSub, OpMul and OpDiv.
// Operands of different representations fail with snug.TypeMismatch.
func Apply(op Op, left, right Value) (Value, error) {
	return left.apply(op, right)
}

// Step applies OpInc or OpDec to v and returns the new value.
func Step(op Op, v Value) (Value, error) {
	return v.step(op)
}

// Assign returns v holding the decimal literal text, keeping v's bounds.
// Fails with snug.SizeMismatch when text does not fit.
func Assign(v Value, text string) (Value, error) {
	return v.assign(text)
}

// Compare orders two values of the same representation.
func Compare(left, right Value) (int, error) {
	return left.compare(right)
}

// Unwrap returns the typed bounded integer inside v.
// The boolean is false when v does not hold an Int[T].
func Unwrap[T constraints.Integer](v Value) (snug.Int[T], bool) {
	b, ok := v.(boxed[T])
	if !ok {
		return snug.Int[T]{}, false
	}
	return b.n, true
}

type boxed[T constraints.Integer] struct {
	typ Type
	n   snug.Int[T]
}

func (b boxed[T]) Type() Type     { return b.typ }
func (b boxed[T]) String() string { return b.n.String() }

func (b boxed[T]) apply(op Op, right Value) (Value, error) {
	r, ok := right.(boxed[T])
	if !ok {
		return nil, b.mismatch(op, right)
	}
	var (
		out snug.Int[T]
		err error
	)
	switch op {
	case OpAdd:
		out, err = snug.Add(b.n, r.n)
	case OpSub:
		out, err = snug.Sub(b.n, r.n)
	case OpMul:
		out, err = snug.Mul(b.n, r.n)
	case OpDiv:
		out, err = snug.Div(b.n, r.n)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOp, string(op))
	}
	if err != nil {
		return nil, err
	}
	return boxed[T]{typ: b.typ, n: out}, nil
}

func (b boxed[T]) step(op Op) (Value, error) {
	n := b.n
	var err error
	switch op {
	case OpInc:
		err = n.Inc()
	case OpDec:
		err = n.Dec()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOp, string(op))
	}
	if err != nil {
		return nil, err
	}
	return boxed[T]{typ: b.typ, n: n}, nil
}

func (b boxed[T]) assign(text string) (Value, error) {
	n := b.n
	if err := n.UnmarshalText([]byte(text)); err != nil {
		return nil, err
	}
	return boxed[T]{typ: b.typ, n: n}, nil
}

func (b boxed[T]) compare(right Value) (int, error) {
	r, ok := right.(boxed[T])
	if !ok {
		return 0, b.mismatch("cmp", right)
	}
	return snug.Compare(b.n, r.n), nil
}

func (b boxed[T]) mismatch(op Op, right Value) error {
	return &snug.Error{
		Kind:  snug.TypeMismatch,
		Op:    string(op),
		Type:  fmt.Sprintf("%s/%s", b.typ, right.Type()),
		Left:  b.String(),
		Right: right.String(),
	}
}
