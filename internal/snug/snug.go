package snug

import (
	"fmt"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Int is a bounded integer of representation T.
//
// The zero value is not usable: its range is degenerate and every operation
// on it fails with TypeMismatch.
type Int[T constraints.Integer] struct {
	value T
	lower T
	upper T
}

// Bounds returns the natural range of T.
func Bounds[T constraints.Integer]() (lower, upper T) {
	var zero T
	if !signed[T]() {
		return 0, ^zero
	}
	bits := unsafe.Sizeof(zero) * 8
	upper = T(1)<<(bits-1) - 1
	return ^upper, upper
}

// TypeName returns the representation name of T, e.g. "int8".
func TypeName[T constraints.Integer]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}

// New returns 0 with the natural bounds of T.
func New[T constraints.Integer]() (Int[T], error) {
	lower, upper := Bounds[T]()
	return build("new", 0, lower, upper)
}

// Of wraps v with the natural bounds of T. It cannot fail: every T lies
// inside its own range.
func Of[T constraints.Integer](v T) Int[T] {
	lower, upper := Bounds[T]()
	return Int[T]{value: v, lower: lower, upper: upper}
}

// From converts raw of any integer type into an Int[T].
// Fails with SizeMismatch when raw is outside the natural range of T.
func From[T constraints.Integer, S constraints.Integer](raw S) (Int[T], error) {
	return from[T]("new", raw)
}

// MustFrom is like From but panics on failure.
// Intended for constants in tests and examples.
func MustFrom[T constraints.Integer, S constraints.Integer](raw S) Int[T] {
	v, err := From[T](raw)
	if err != nil {
		panic(err)
	}
	return v
}

// Copy returns a copy of other with its bounds.
// Fails with TypeMismatch when other has a degenerate range.
func Copy[T constraints.Integer](other Int[T]) (Int[T], error) {
	return build("new", other.value, other.lower, other.upper)
}

// Value returns the stored integer.
func (a Int[T]) Value() T { return a.value }

// Min returns the lower bound.
func (a Int[T]) Min() T { return a.lower }

// Max returns the upper bound.
func (a Int[T]) Max() T { return a.upper }

// Valid reports whether a has a usable range.
func (a Int[T]) Valid() bool { return a.lower != a.upper }

// Assign replaces the stored value with raw, keeping the bounds.
// The value is unchanged when Assign fails.
func (a *Int[T]) Assign(raw T) error {
	return AssignFrom(a, raw)
}

// AssignFrom replaces the stored value of dst with raw of any integer type.
// Bounds are never recomputed. Fails with TypeMismatch when dst has a
// degenerate range and SizeMismatch when raw does not fit.
func AssignFrom[T constraints.Integer, S constraints.Integer](dst *Int[T], raw S) error {
	if !dst.Valid() {
		return &Error{Kind: TypeMismatch, Op: "assign", Type: TypeName[T](), Left: formatRaw(raw)}
	}
	v, ok := fit[T](raw)
	if !ok || v < dst.lower || v > dst.upper {
		return &Error{Kind: SizeMismatch, Op: "assign", Type: TypeName[T](), Left: formatRaw(raw)}
	}
	dst.value = v
	return nil
}

func from[T constraints.Integer, S constraints.Integer](op string, raw S) (Int[T], error) {
	lower, upper := Bounds[T]()
	v, ok := fit[T](raw)
	if !ok {
		return Int[T]{}, &Error{Kind: SizeMismatch, Op: op, Type: TypeName[T](), Left: formatRaw(raw)}
	}
	return build(op, v, lower, upper)
}

// build is the single validation point for every value this package hands out.
func build[T constraints.Integer](op string, v, lower, upper T) (Int[T], error) {
	if lower == upper {
		return Int[T]{}, &Error{Kind: TypeMismatch, Op: op, Type: TypeName[T]()}
	}
	if v < lower || v > upper {
		return Int[T]{}, &Error{Kind: SizeMismatch, Op: op, Type: TypeName[T](), Left: formatRaw(v)}
	}
	return Int[T]{value: v, lower: lower, upper: upper}, nil
}

// fit converts raw to T and reports whether the conversion kept its value.
func fit[T constraints.Integer, S constraints.Integer](raw S) (T, bool) {
	v := T(raw)
	if S(v) != raw {
		return v, false
	}
	// Same bits, different sign: e.g. int8(-1) <-> uint8(255).
	if (v < 0) != (raw < 0) {
		return v, false
	}
	return v, true
}

func signed[T constraints.Integer]() bool {
	var zero T
	return ^zero < 0
}

func formatRaw[S constraints.Integer](v S) string {
	return fmt.Sprintf("%d", v)
}
