package snug

import (
	"cmp"

	"golang.org/x/exp/constraints"
)

// Compare returns -1, 0 or +1 ordering a and b by stored value.
// Bounds do not participate.
func Compare[T constraints.Integer](a, b Int[T]) int {
	return cmp.Compare(a.value, b.value)
}

// CompareRaw orders a against raw of any integer type without converting
// either side into a type that might not hold it. For raw on the left,
// negate the result.
func CompareRaw[T constraints.Integer, S constraints.Integer](a Int[T], raw S) int {
	v := a.value
	switch {
	case v < 0 && raw >= 0:
		return -1
	case v >= 0 && raw < 0:
		return 1
	case v < 0:
		// Both negative, so both types are signed.
		return cmp.Compare(int64(v), int64(raw))
	default:
		return cmp.Compare(uint64(v), uint64(raw))
	}
}

func (a Int[T]) Equal(b Int[T]) bool        { return a.value == b.value }
func (a Int[T]) NotEqual(b Int[T]) bool     { return a.value != b.value }
func (a Int[T]) Less(b Int[T]) bool         { return a.value < b.value }
func (a Int[T]) LessEqual(b Int[T]) bool    { return a.value <= b.value }
func (a Int[T]) Greater(b Int[T]) bool      { return a.value > b.value }
func (a Int[T]) GreaterEqual(b Int[T]) bool { return a.value >= b.value }
