package snug

import (
	"errors"
	"fmt"
)

// Kind identifies why an operation was refused.
//
// Kind implements error so callers can match a failure with errors.Is:
//
//	if errors.Is(err, snug.MultiplicationOverflow) { ... }
//
// A bare Kind prints as "Name: message", so fmt output always carries the
// name. Use String for the name alone.
type Kind string

const (
	// AdditionOverflow: the sum would exceed the upper bound.
	AdditionOverflow Kind = "AdditionOverflow"

	// AdditionUnderflow: the sum would fall below the lower bound.
	AdditionUnderflow Kind = "AdditionUnderflow"

	// SubtractionOverflow: the difference would exceed the upper bound.
	SubtractionOverflow Kind = "SubtractionOverflow"

	// SubtractionUnderflow: the difference would fall below the lower bound.
	SubtractionUnderflow Kind = "SubtractionUnderflow"

	// MultiplicationOverflow: the product would exceed the upper bound.
	MultiplicationOverflow Kind = "MultiplicationOverflow"

	// MultiplicationUnderflow: the product would fall below the lower bound.
	MultiplicationUnderflow Kind = "MultiplicationUnderflow"

	// DivisionByZero: the divisor is zero.
	DivisionByZero Kind = "DivisionByZero"

	// DivisionOverflow: lower / -1 on a signed representation.
	DivisionOverflow Kind = "DivisionOverflow"

	// SizeMismatch: a value does not fit inside [lower, upper].
	SizeMismatch Kind = "SizeMismatch"

	// TypeMismatch: the range is degenerate (lower == upper) or the
	// operands do not share the same range.
	TypeMismatch Kind = "TypeMismatch"
)

var kindMessages = map[Kind]string{
	AdditionOverflow:        "addition would overflow",
	AdditionUnderflow:       "addition would underflow",
	SubtractionOverflow:     "subtraction would overflow",
	SubtractionUnderflow:    "subtraction would underflow",
	MultiplicationOverflow:  "multiplication would overflow",
	MultiplicationUnderflow: "multiplication would underflow",
	DivisionByZero:          "division by zero",
	DivisionOverflow:        "division would overflow",
	SizeMismatch:            "value does not fit the representation",
	TypeMismatch:            "unusable or mismatched range",
}

// Kinds lists every failure kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		AdditionOverflow,
		AdditionUnderflow,
		SubtractionOverflow,
		SubtractionUnderflow,
		MultiplicationOverflow,
		MultiplicationUnderflow,
		DivisionByZero,
		DivisionOverflow,
		SizeMismatch,
		TypeMismatch,
	}
}

// ParseKind returns the Kind with the given name.
func ParseKind(name string) (Kind, bool) {
	k := Kind(name)
	_, ok := kindMessages[k]
	return k, ok
}

// Error implements the error interface.
func (k Kind) Error() string {
	if msg, ok := kindMessages[k]; ok {
		return string(k) + ": " + msg
	}
	return string(k)
}

// message is the human description without the name.
func (k Kind) message() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return string(k)
}

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// Error describes a refused operation.
//
// A new Error is built for every failure; Left and Right hold the decimal
// operands as they were when the operation was refused.
type Error struct {
	// Kind is the failure category.
	Kind Kind

	// Op names the operation: "new", "assign", "add", "sub", "mul", "div",
	// "inc", "dec" or "parse".
	Op string

	// Type is the representation name, e.g. "int8".
	Type string

	// Left and Right are the operands in decimal form. Right is empty for
	// unary operations.
	Left  string
	Right string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Left != "" && e.Right != "":
		return fmt.Sprintf("snug: %s %s(%s, %s): %s", e.Type, e.Op, e.Left, e.Right, e.Kind.message())
	case e.Left != "":
		return fmt.Sprintf("snug: %s %s(%s): %s", e.Type, e.Op, e.Left, e.Kind.message())
	default:
		return fmt.Sprintf("snug: %s %s: %s", e.Type, e.Op, e.Kind.message())
	}
}

// Is reports whether target is this error's Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// KindOf extracts the failure kind from err.
// Uses errors.As to handle wrapped errors.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	var k Kind
	if errors.As(err, &k) {
		return k, true
	}
	return "", false
}

// IsOverflow reports whether err is any of the overflow kinds.
func IsOverflow(err error) bool {
	k, ok := KindOf(err)
	if !ok {
		return false
	}
	switch k {
	case AdditionOverflow, SubtractionOverflow, MultiplicationOverflow, DivisionOverflow:
		return true
	}
	return false
}

// IsUnderflow reports whether err is any of the underflow kinds.
func IsUnderflow(err error) bool {
	k, ok := KindOf(err)
	if !ok {
		return false
	}
	switch k {
	case AdditionUnderflow, SubtractionUnderflow, MultiplicationUnderflow:
		return true
	}
	return false
}
