package compiler

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/encoding/yaml"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/roach88/snug/internal/ir"
	"github.com/roach88/snug/internal/rep"
)

//go:embed schema.cue
var schemaCUE string

// Validation error codes (E200-E299)
const (
	// Structural errors (E200-E201)
	ErrYAML   = "E200" // file is not valid YAML
	ErrSchema = "E201" // file does not satisfy #Scenario

	// Step errors (E210-E219)
	ErrMissingType   = "E210" // neither the step nor the scenario names a type
	ErrArity         = "E211" // wrong number of operands
	ErrDst           = "E212" // dst missing, or present on an op that does not write
	ErrUndefined     = "E213" // register read before any step writes it
	ErrBadLiteral    = "E214" // parse operand is a register, not a literal
	ErrExpectOutcome = "E215" // expect must name exactly one of value or error
	ErrNotDecimal    = "E216" // unquoted number written in a non-decimal form
)

// ValidationError represents a scenario validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// cueMu serializes use of the schema's CUE context, which is not safe for
// concurrent use.
var cueMu sync.Mutex

var schemaOnce = sync.OnceValues(func() (cue.Value, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("compile schema: %w", err)
	}
	def := v.LookupPath(cue.ParsePath("#Scenario"))
	if err := def.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("lookup #Scenario: %w", err)
	}
	return def, nil
})

// ValidateScenario checks a scenario file against the embedded CUE schema
// and then against the step rules the schema cannot express: operand counts,
// dst usage, registers read before they are written, expectations, and
// unquoted numbers written in a form other than plain decimal.
//
// Returns all errors found (does not fail-fast). filename is only used for
// positions in messages.
func ValidateScenario(filename string, data []byte) []ValidationError {
	cueMu.Lock()
	defer cueMu.Unlock()

	def, err := schemaOnce()
	if err != nil {
		return []ValidationError{{Field: "schema", Message: err.Error(), Code: ErrSchema}}
	}

	file, err := yaml.Extract(filename, data)
	if err != nil {
		return fromCUEError(filename, ErrYAML, err)
	}
	doc := def.Context().BuildFile(file)
	if err := doc.Err(); err != nil {
		return fromCUEError(filename, ErrYAML, err)
	}

	errs := checkLiteralForms(data)

	v := def.Unify(doc)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return append(fromCUEError(filename, ErrSchema, err), errs...)
	}

	return append(errs, validateSteps(v)...)
}

var (
	decimalForm = regexp.MustCompile(`^[+-]?(0|[1-9][0-9]*)$`)
	operandForm = regexp.MustCompile(`^([+-]?(0|[1-9][0-9]*)|[A-Za-z_][A-Za-z0-9_]*)$`)
	expectForm  = regexp.MustCompile(`^[+-]?(0|[1-9][0-9]*)(\.\.[+-]?[0-9]+)?$`)
)

// checkLiteralForms rejects unquoted operands and values that YAML reads
// as numbers in hex, octal, binary, underscore or leading-zero form. The
// schema sees them as plain integers, but the run takes the source text as
// written. Quoted literals are left to the schema.
func checkLiteralForms(data []byte) []ValidationError {
	var doc yamlv3.Node
	if err := yamlv3.Unmarshal(data, &doc); err != nil || len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]

	var errs []ValidationError
	check := func(field string, n *yamlv3.Node, form *regexp.Regexp) {
		if n == nil || n.Kind != yamlv3.ScalarNode || n.Style != 0 || form.MatchString(n.Value) {
			return
		}
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s is not a decimal literal", n.Value),
			Code:    ErrNotDecimal,
			Line:    n.Line,
		})
	}

	for i, step := range items(mapValue(root, "steps")) {
		for j, arg := range items(mapValue(step, "args")) {
			check(fmt.Sprintf("steps[%d].args[%d]", i, j), arg, operandForm)
		}
		check(fmt.Sprintf("steps[%d].expect.value", i), mapValue(mapValue(step, "expect"), "value"), expectForm)
	}
	for i, a := range items(mapValue(root, "assertions")) {
		check(fmt.Sprintf("assertions[%d].value", i), mapValue(a, "value"), decimalForm)
	}
	return errs
}

// mapValue returns the value node for key in a mapping node, or nil.
func mapValue(n *yamlv3.Node, key string) *yamlv3.Node {
	if n == nil || n.Kind != yamlv3.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

// items returns the elements of a sequence node, or nil.
func items(n *yamlv3.Node) []*yamlv3.Node {
	if n == nil || n.Kind != yamlv3.SequenceNode {
		return nil
	}
	return n.Content
}

// fromCUEError flattens a CUE error list, keeping the position that points
// into the scenario file rather than into the schema.
func fromCUEError(filename, code string, err error) []ValidationError {
	var out []ValidationError
	for _, e := range errors.Errors(err) {
		format, args := e.Msg()
		ve := ValidationError{
			Field:   fieldPath(e.Path()),
			Message: fmt.Sprintf(format, args...),
			Code:    code,
		}
		if ve.Field == "" {
			ve.Field = "scenario"
		}
		for _, pos := range errors.Positions(e) {
			if pos.Filename() == filename {
				ve.Line = pos.Line()
				break
			}
		}
		out = append(out, ve)
	}
	if len(out) == 0 {
		out = append(out, ValidationError{Field: "scenario", Message: err.Error(), Code: code})
	}
	return out
}

// fieldPath joins a CUE error path, dropping the leading definition name
// so fields read as they appear in the file.
func fieldPath(path []string) string {
	for len(path) > 0 && strings.HasPrefix(path[0], "#") {
		path = path[1:]
	}
	return strings.Join(path, ".")
}

// validateSteps walks a schema-valid scenario value in step order.
func validateSteps(v cue.Value) []ValidationError {
	var errs []ValidationError

	top := fields(v)
	defaultType := text(top["type"])
	written := make(map[string]bool)

	steps, err := list(top["steps"])
	for i := 0; err == nil && steps.Next(); i++ {
		sv := steps.Value()
		line := sv.Pos().Line()
		field := fmt.Sprintf("steps[%d]", i)
		fail := func(suffix, code, format string, args ...any) {
			errs = append(errs, ValidationError{
				Field:   field + suffix,
				Message: fmt.Sprintf(format, args...),
				Code:    code,
				Line:    line,
			})
		}

		f := fields(sv)
		op := ir.Op(text(f["op"]))
		dst := text(f["dst"])
		args := operands(f["args"])

		typeName := text(f["type"])
		if typeName == "" {
			typeName = defaultType
		}
		if _, terr := rep.Lookup(typeName); terr != nil {
			fail(".type", ErrMissingType, "step has no type and the scenario sets no default")
		}

		lo, hi := op.Arity()
		if n := len(args); n < lo || n > hi {
			if lo == hi {
				fail(".args", ErrArity, "%s takes %d operands, got %d", op, lo, n)
			} else {
				fail(".args", ErrArity, "%s takes %d to %d operands, got %d", op, lo, hi, n)
			}
		}

		switch {
		case op.NeedsDst() && dst == "":
			fail(".dst", ErrDst, "%s needs a dst register", op)
		case !op.NeedsDst() && dst != "":
			fail(".dst", ErrDst, "%s does not write a register", op)
		}

		for j, arg := range args {
			switch {
			case arg.IsLiteral():
			case op == ir.OpParse:
				fail(fmt.Sprintf(".args[%d]", j), ErrBadLiteral, "parse takes a decimal literal, got %q", string(arg))
			case !written[string(arg)]:
				fail(fmt.Sprintf(".args[%d]", j), ErrUndefined, "register %q is read before it is written", string(arg))
			}
		}

		updatesInPlace := op == ir.OpAssign || op == ir.OpInc || op == ir.OpDec ||
			op == ir.OpPostInc || op == ir.OpPostDec
		if updatesInPlace && dst != "" && !written[dst] {
			fail(".dst", ErrUndefined, "register %q is updated before it is written", dst)
		}

		if ev, ok := f["expect"]; ok {
			e := fields(ev)
			_, hasValue := e["value"]
			_, hasError := e["error"]
			if hasValue == hasError {
				fail(".expect", ErrExpectOutcome, "expect must set exactly one of value or error")
			}
		}

		// A refused step does not write, but validation cannot know the
		// outcome; any step naming dst may define it.
		if dst != "" {
			written[dst] = true
		}
	}

	as, err := list(top["assertions"])
	for i := 0; err == nil && as.Next(); i++ {
		av := as.Value()
		reg := text(fields(av)["register"])
		if !written[reg] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("assertions[%d].register", i),
				Message: fmt.Sprintf("register %q is never written", reg),
				Code:    ErrUndefined,
				Line:    av.Pos().Line(),
			})
		}
	}

	return errs
}

// fields returns the regular fields of a struct value by label. Optional
// fields the file did not set are not included.
func fields(v cue.Value) map[string]cue.Value {
	out := make(map[string]cue.Value)
	if !v.Exists() {
		return out
	}
	it, err := v.Fields()
	if err != nil {
		return out
	}
	for it.Next() {
		out[it.Selector().String()] = it.Value()
	}
	return out
}

// list iterates v, treating an absent value as an error.
func list(v cue.Value) (cue.Iterator, error) {
	if !v.Exists() {
		return cue.Iterator{}, fmt.Errorf("not present")
	}
	return v.List()
}

// operands renders a CUE list of strings and integers as step operands.
func operands(v cue.Value) []ir.Operand {
	it, err := list(v)
	if err != nil {
		return nil
	}
	var out []ir.Operand
	for it.Next() {
		out = append(out, ir.Operand(text(it.Value())))
	}
	return out
}

// text renders a CUE string or integer as text, or "" for anything else.
// Scenario authors may write 127 or "127"; both mean the same literal.
func text(v cue.Value) string {
	if !v.Exists() {
		return ""
	}
	switch v.Kind() {
	case cue.IntKind:
		if n, err := v.Int(nil); err == nil {
			return n.String()
		}
	case cue.StringKind:
		s, _ := v.String()
		return s
	}
	return ""
}
