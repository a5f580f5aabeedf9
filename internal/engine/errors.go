package engine

import (
	"errors"
	"fmt"
)

// RuntimeError is a problem with the program itself, as opposed to an
// arithmetic refusal. Refusals are recorded as step outcomes and the run
// continues; a RuntimeError aborts the run.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// RunToken identifies the affected run.
	RunToken string

	// Step is the zero-based index of the offending step, or -1.
	Step int

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeUnknownType indicates a step names an unregistered representation.
	ErrCodeUnknownType RuntimeErrorCode = "UNKNOWN_TYPE"

	// ErrCodeUnknownOp indicates a step names an op the engine does not know.
	ErrCodeUnknownOp RuntimeErrorCode = "UNKNOWN_OP"

	// ErrCodeUndefinedRegister indicates an operand or dst that was never written.
	ErrCodeUndefinedRegister RuntimeErrorCode = "UNDEFINED_REGISTER"

	// ErrCodeBadOperand indicates an operand that is neither a register nor a
	// decimal literal.
	ErrCodeBadOperand RuntimeErrorCode = "BAD_OPERAND"

	// ErrCodeArity indicates the wrong number of operands or a missing dst.
	ErrCodeArity RuntimeErrorCode = "ARITY"

	// ErrCodeTypeConflict indicates a step whose type disagrees with the
	// register it updates in place.
	ErrCodeTypeConflict RuntimeErrorCode = "TYPE_CONFLICT"

	// ErrCodeQuotaExceeded indicates the program is longer than the engine
	// allows.
	ErrCodeQuotaExceeded RuntimeErrorCode = "QUOTA_EXCEEDED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	switch {
	case e.RunToken != "" && e.Step >= 0:
		return fmt.Sprintf("%s: %s (run=%s, step=%d)", e.Code, e.Message, e.RunToken, e.Step)
	case e.RunToken != "":
		return fmt.Sprintf("%s: %s (run=%s)", e.Code, e.Message, e.RunToken)
	case e.Step >= 0:
		return fmt.Sprintf("%s: %s (step=%d)", e.Code, e.Message, e.Step)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// newRuntimeError builds a RuntimeError not yet tied to a run or step.
func newRuntimeError(code RuntimeErrorCode, format string, args ...any) *RuntimeError {
	return &RuntimeError{Code: code, Message: fmt.Sprintf(format, args...), Step: -1}
}

// CodeOf returns the code of the RuntimeError in err's chain.
func CodeOf(err error) (RuntimeErrorCode, bool) {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code, true
	}
	return "", false
}

// IsUndefinedRegisterError returns true if err reports an undefined register.
func IsUndefinedRegisterError(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == ErrCodeUndefinedRegister
}

// IsQuotaError returns true if err reports an oversized program.
func IsQuotaError(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == ErrCodeQuotaExceeded
}

// NewQuotaError creates a RuntimeError for a program over the step limit.
func NewQuotaError(runToken string, steps, maxSteps int) *RuntimeError {
	return &RuntimeError{
		Code:     ErrCodeQuotaExceeded,
		Message:  fmt.Sprintf("program exceeds max steps (%d > %d)", steps, maxSteps),
		RunToken: runToken,
		Step:     -1,
		Details: map[string]string{
			"steps":     fmt.Sprintf("%d", steps),
			"max_steps": fmt.Sprintf("%d", maxSteps),
		},
	}
}
