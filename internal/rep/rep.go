// Package rep names the integer representations snug supports and lets
// callers work with bounded values whose representation is only known at
// runtime (from a flag or a scenario file).
//
// Every Value wraps a snug.Int[T] for one concrete T; all arithmetic is
// delegated to package snug, so the overflow predictions are identical to
// the statically typed API.
package rep

import (
	"errors"
	"fmt"
	"slices"

	"golang.org/x/exp/constraints"

	"github.com/roach88/snug/internal/snug"
)

// Type names an integer representation, e.g. "int8".
type Type string

const (
	Int8   Type = "int8"
	Int16  Type = "int16"
	Int32  Type = "int32"
	Int64  Type = "int64"
	Int    Type = "int"
	Uint8  Type = "uint8"
	Uint16 Type = "uint16"
	Uint32 Type = "uint32"
	Uint64 Type = "uint64"
	Uint   Type = "uint"
)

// ErrUnknownType is returned for representation names that are not registered.
var ErrUnknownType = errors.New("unknown representation")

// ErrUnknownOp is returned for operator names Apply does not handle.
var ErrUnknownOp = errors.New("unknown operator")

// aliases accepted by Lookup in addition to the canonical names.
var aliases = map[string]Type{
	"byte": Uint8,
	"i8":   Int8,
	"i16":  Int16,
	"i32":  Int32,
	"i64":  Int64,
	"u8":   Uint8,
	"u16":  Uint16,
	"u32":  Uint32,
	"u64":  Uint64,
}

// entry holds the generic constructors for one representation.
type entry struct {
	zero   func() (Value, error)
	parse  func(s string) (Value, error)
	bounds func() (lower, upper string)
	signed bool
}

var registry = map[Type]entry{
	Int8:   entryOf[int8](Int8),
	Int16:  entryOf[int16](Int16),
	Int32:  entryOf[int32](Int32),
	Int64:  entryOf[int64](Int64),
	Int:    entryOf[int](Int),
	Uint8:  entryOf[uint8](Uint8),
	Uint16: entryOf[uint16](Uint16),
	Uint32: entryOf[uint32](Uint32),
	Uint64: entryOf[uint64](Uint64),
	Uint:   entryOf[uint](Uint),
}

func entryOf[T constraints.Integer](t Type) entry {
	lower, upper := snug.Bounds[T]()
	return entry{
		zero: func() (Value, error) {
			n, err := snug.New[T]()
			if err != nil {
				return nil, err
			}
			return boxed[T]{typ: t, n: n}, nil
		},
		parse: func(s string) (Value, error) {
			n, err := snug.Parse[T](s)
			if err != nil {
				return nil, err
			}
			return boxed[T]{typ: t, n: n}, nil
		},
		bounds: func() (string, string) {
			return snug.Of(lower).String(), snug.Of(upper).String()
		},
		signed: lower < 0,
	}
}

var ordered = []Type{Int8, Int16, Int32, Int64, Int, Uint8, Uint16, Uint32, Uint64, Uint}

// Types returns every registered representation, signed first, narrowest
// first.
func Types() []Type {
	return slices.Clone(ordered)
}

// Lookup resolves a representation name or alias.
func Lookup(name string) (Type, error) {
	if _, ok := registry[Type(name)]; ok {
		return Type(name), nil
	}
	if t, ok := aliases[name]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Bounds returns the inclusive range of t in decimal.
func (t Type) Bounds() (lower, upper string, err error) {
	e, ok := registry[t]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownType, string(t))
	}
	lower, upper = e.bounds()
	return lower, upper, nil
}

// Signed reports whether t can hold negative values.
func (t Type) Signed() bool {
	return registry[t].signed
}

// String returns the representation name.
func (t Type) String() string {
	return string(t)
}
