package snug

import "golang.org/x/exp/constraints"

// Add returns left + right.
func Add[T constraints.Integer](left, right Int[T]) (Int[T], error) {
	return add("add", left, right)
}

// Sub returns left - right.
func Sub[T constraints.Integer](left, right Int[T]) (Int[T], error) {
	return sub("sub", left, right)
}

// Mul returns left * right.
func Mul[T constraints.Integer](left, right Int[T]) (Int[T], error) {
	if err := sameRange("mul", left, right); err != nil {
		return Int[T]{}, err
	}
	l, r := left.value, right.value
	switch {
	case l == 0 || r == 0:
	case l > 0 && r > 0:
		if l > left.upper/r {
			return Int[T]{}, refuse(MultiplicationOverflow, "mul", left, right)
		}
	case l > 0 && r < 0:
		if r < left.lower/l {
			return Int[T]{}, refuse(MultiplicationUnderflow, "mul", left, right)
		}
	case l < 0 && r > 0:
		if l < left.lower/r {
			return Int[T]{}, refuse(MultiplicationUnderflow, "mul", left, right)
		}
	default:
		if l != 0 && r < left.upper/l {
			return Int[T]{}, refuse(MultiplicationOverflow, "mul", left, right)
		}
	}
	return build("mul", l*r, left.lower, left.upper)
}

// Div returns left / right truncated toward zero.
func Div[T constraints.Integer](left, right Int[T]) (Int[T], error) {
	if err := sameRange("div", left, right); err != nil {
		return Int[T]{}, err
	}
	l, r := left.value, right.value
	if r == 0 {
		return Int[T]{}, refuse(DivisionByZero, "div", left, right)
	}
	// ^0 is -1 for signed representations.
	if signed[T]() && l == left.lower && r == ^T(0) {
		return Int[T]{}, refuse(DivisionOverflow, "div", left, right)
	}
	return build("div", l/r, left.lower, left.upper)
}

// Add returns a + b.
func (a Int[T]) Add(b Int[T]) (Int[T], error) { return Add(a, b) }

// Sub returns a - b.
func (a Int[T]) Sub(b Int[T]) (Int[T], error) { return Sub(a, b) }

// Mul returns a * b.
func (a Int[T]) Mul(b Int[T]) (Int[T], error) { return Mul(a, b) }

// Div returns a / b.
func (a Int[T]) Div(b Int[T]) (Int[T], error) { return Div(a, b) }

// Inc adds one to a in place. On AdditionOverflow a is unchanged.
func (a *Int[T]) Inc() error {
	next, err := add("inc", *a, a.one())
	if err != nil {
		return err
	}
	*a = next
	return nil
}

// Dec subtracts one from a in place. On SubtractionUnderflow a is unchanged.
func (a *Int[T]) Dec() error {
	next, err := sub("dec", *a, a.one())
	if err != nil {
		return err
	}
	*a = next
	return nil
}

// PostInc increments a and returns its previous value.
func (a *Int[T]) PostInc() (Int[T], error) {
	prev := *a
	if err := a.Inc(); err != nil {
		return Int[T]{}, err
	}
	return prev, nil
}

// PostDec decrements a and returns its previous value.
func (a *Int[T]) PostDec() (Int[T], error) {
	prev := *a
	if err := a.Dec(); err != nil {
		return Int[T]{}, err
	}
	return prev, nil
}

func add[T constraints.Integer](op string, left, right Int[T]) (Int[T], error) {
	if err := sameRange(op, left, right); err != nil {
		return Int[T]{}, err
	}
	l, r := left.value, right.value
	switch {
	case l > 0 && r > 0:
		if left.upper-l < r {
			return Int[T]{}, refuse(AdditionOverflow, op, left, right)
		}
	case l < 0 && r < 0:
		if left.lower-l > r {
			return Int[T]{}, refuse(AdditionUnderflow, op, left, right)
		}
	}
	return build(op, l+r, left.lower, left.upper)
}

func sub[T constraints.Integer](op string, left, right Int[T]) (Int[T], error) {
	if err := sameRange(op, left, right); err != nil {
		return Int[T]{}, err
	}
	l, r := left.value, right.value
	switch {
	case r < 0:
		// upper - l < |r|, written so that |lower| is never formed.
		if l > left.upper+r {
			return Int[T]{}, refuse(SubtractionOverflow, op, left, right)
		}
	case r > 0:
		// Only reachable for l < 0 on signed representations; on unsigned
		// ones this is the l < r case.
		if l < left.lower+r {
			return Int[T]{}, refuse(SubtractionUnderflow, op, left, right)
		}
	}
	return build(op, l-r, left.lower, left.upper)
}

func (a Int[T]) one() Int[T] {
	return Int[T]{value: 1, lower: a.lower, upper: a.upper}
}

// sameRange rejects degenerate ranges and operands whose ranges differ.
func sameRange[T constraints.Integer](op string, left, right Int[T]) error {
	if !left.Valid() || !right.Valid() || left.lower != right.lower || left.upper != right.upper {
		return refuse(TypeMismatch, op, left, right)
	}
	return nil
}

func refuse[T constraints.Integer](kind Kind, op string, left, right Int[T]) *Error {
	e := &Error{Kind: kind, Op: op, Type: TypeName[T](), Left: formatRaw(left.value)}
	if op != "inc" && op != "dec" {
		e.Right = formatRaw(right.value)
	}
	return e
}
