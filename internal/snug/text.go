package snug

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"golang.org/x/exp/constraints"
)

// Parse reads a decimal integer into an Int[T].
// Syntax errors wrap *strconv.NumError; values outside the natural range of
// T fail with SizeMismatch.
func Parse[T constraints.Integer](s string) (Int[T], error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return from[T]("parse", n)
	}
	if !errors.Is(err, strconv.ErrRange) {
		return Int[T]{}, fmt.Errorf("snug: %w", err)
	}
	u, err := strconv.ParseUint(s, 10, 64)
	if err == nil {
		return from[T]("parse", u)
	}
	// Beyond 64 bits in either direction.
	return Int[T]{}, &Error{Kind: SizeMismatch, Op: "parse", Type: TypeName[T](), Left: s}
}

// String renders the stored value in decimal.
func (a Int[T]) String() string {
	if signed[T]() {
		return strconv.FormatInt(int64(a.value), 10)
	}
	return strconv.FormatUint(uint64(a.value), 10)
}

// Format renders the stored value with the verb and flags given, as if the
// bare T had been formatted.
func (a Int[T]) Format(f fmt.State, verb rune) {
	fmt.Fprintf(f, fmt.FormatString(f, verb), a.value)
}

// MarshalText implements encoding.TextMarshaler.
func (a Int[T]) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// The text goes through the same validation as Parse. A receiver that was
// already constructed keeps its bounds.
func (a *Int[T]) UnmarshalText(text []byte) error {
	v, err := Parse[T](string(text))
	if err != nil {
		return err
	}
	if !a.Valid() {
		*a = v
		return nil
	}
	return AssignFrom(a, v.value)
}

// MarshalJSON encodes the value as a JSON number.
func (a Int[T]) MarshalJSON() ([]byte, error) {
	return a.MarshalText()
}

// UnmarshalJSON accepts a JSON number or a string holding one.
func (a *Int[T]) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("snug: %w", err)
		}
		s = unq
	}
	return a.UnmarshalText([]byte(s))
}

// Scan implements fmt.Scanner so fmt.Sscan and friends validate input.
func (a *Int[T]) Scan(state fmt.ScanState, verb rune) error {
	switch verb {
	case 'v', 'd':
	default:
		return fmt.Errorf("snug: unsupported scan verb %%%c", verb)
	}
	tok, err := state.Token(true, func(r rune) bool {
		return r == '-' || r == '+' || unicode.IsDigit(r)
	})
	if err != nil {
		return err
	}
	return a.UnmarshalText(tok)
}
