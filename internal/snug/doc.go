// Package snug provides bounded integers whose arithmetic refuses to wrap.
//
// An Int[T] stores a value of an integer representation T together with the
// inclusive range [lower, upper] that T can hold. Every operator predicts,
// before running the native operation, whether the true mathematical result
// would leave that range. A predicted overflow or underflow is returned as a
// *Error carrying a Kind; the operands are never modified.
//
// The checks are arranged so that they cannot overflow themselves:
//
//	add  a > 0, b > 0   upper - a < b           AdditionOverflow
//	add  a < 0, b < 0   lower - a > b           AdditionUnderflow
//	sub  b < 0          a > upper + b           SubtractionOverflow
//	sub  b > 0          a < lower + b           SubtractionUnderflow
//	mul  +,+            a > upper / b           MultiplicationOverflow
//	mul  +,-            b < lower / a           MultiplicationUnderflow
//	mul  -,+            a < lower / b           MultiplicationUnderflow
//	mul  -,-            b < upper / a           MultiplicationOverflow
//	div  b == 0                                 DivisionByZero
//	div  a == lower, b == -1 (signed)           DivisionOverflow
//
// Raw operands enter through Of (same representation, never fails) or From
// (any integer type, SizeMismatch when it does not fit), so one function per
// operator serves every operand ordering:
//
//	x, _ := snug.From[int8](100)
//	y, err := snug.Add(x, snug.Of[int8](50))
//	if errors.Is(err, snug.AdditionOverflow) {
//	    // 150 does not fit in int8; x is still 100
//	}
//
// The zero Int[T] has a degenerate range and is rejected by every operation
// with TypeMismatch. Construct values with New, Of, From, Copy or Parse.
package snug
