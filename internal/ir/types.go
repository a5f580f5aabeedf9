package ir

import "strings"

// Op is a step operation.
type Op string

const (
	OpNew     Op = "new"
	OpAssign  Op = "assign"
	OpParse   Op = "parse"
	OpAdd     Op = "add"
	OpSub     Op = "sub"
	OpMul     Op = "mul"
	OpDiv     Op = "div"
	OpInc     Op = "inc"
	OpDec     Op = "dec"
	OpPostInc Op = "postinc"
	OpPostDec Op = "postdec"
	OpCmp     Op = "cmp"
	OpBounds  Op = "bounds"
)

// opShape describes the operands each op takes and whether it writes dst.
var opShape = map[Op]struct {
	minArgs, maxArgs int
	needsDst         bool
}{
	OpNew:     {0, 1, true},
	OpAssign:  {1, 1, true},
	OpParse:   {1, 1, true},
	OpAdd:     {2, 2, true},
	OpSub:     {2, 2, true},
	OpMul:     {2, 2, true},
	OpDiv:     {2, 2, true},
	OpInc:     {0, 0, true},
	OpDec:     {0, 0, true},
	OpPostInc: {0, 0, true},
	OpPostDec: {0, 0, true},
	OpCmp:     {2, 2, false},
	OpBounds:  {0, 0, false},
}

// Ops returns every supported op in a stable order.
func Ops() []Op {
	return []Op{OpNew, OpAssign, OpParse, OpAdd, OpSub, OpMul, OpDiv,
		OpInc, OpDec, OpPostInc, OpPostDec, OpCmp, OpBounds}
}

// Valid reports whether o is a known op.
func (o Op) Valid() bool {
	_, ok := opShape[o]
	return ok
}

// Arity returns the allowed operand count range.
func (o Op) Arity() (min, max int) {
	s := opShape[o]
	return s.minArgs, s.maxArgs
}

// NeedsDst reports whether the op writes a register.
func (o Op) NeedsDst() bool {
	return opShape[o].needsDst
}

// Operand is a register name or a decimal literal.
type Operand string

// IsLiteral reports whether the operand is a decimal literal rather than a
// register reference. Literals start with a digit or a sign.
func (o Operand) IsLiteral() bool {
	if o == "" {
		return false
	}
	return strings.ContainsRune("0123456789+-", rune(o[0]))
}

// Step is one instruction of a program.
type Step struct {
	Op   Op        `json:"op"`
	Type string    `json:"type"`
	Dst  string    `json:"dst,omitempty"`
	Args []Operand `json:"args,omitempty"`
}

// Outcome is the result of evaluating a step: a decimal value or the name
// of the failure kind. Exactly one field is set.
type Outcome struct {
	Value string `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

// Failed reports whether the step was refused.
func (o Outcome) Failed() bool {
	return o.Error != ""
}

// String renders the outcome for humans.
func (o Outcome) String() string {
	if o.Failed() {
		return "error " + o.Error
	}
	return o.Value
}

// Program is a named list of steps.
type Program struct {
	Name  string `json:"name"`
	Steps []Step `json:"steps"`
}

// Record is an evaluated step.
type Record struct {
	ID       string  `json:"id"`
	RunToken string  `json:"run_token"`
	Seq      int64   `json:"seq"`
	Step     Step    `json:"step"`
	Outcome  Outcome `json:"outcome"`
}

// Run identifies one evaluation of a program.
type Run struct {
	Token       string `json:"token"`
	Name        string `json:"name"`
	ProgramHash string `json:"program_hash"`
	StartSeq    int64  `json:"start_seq"`
	IRVersion   string `json:"ir_version"`
}
