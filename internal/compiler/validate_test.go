package compiler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/snug/internal/rep"
	"github.com/roach88/snug/internal/snug"
)

const validScenario = `
name: int8_increment_at_max
description: incrementing the maximum fails and keeps the value
type: int8
run_token: test-run-1
steps:
  - op: new
    dst: x
    args: ["127"]
    expect: {value: "127"}
  - op: inc
    dst: x
    expect: {error: AdditionOverflow}
  - op: add
    dst: sum
    args: [x, -27]
    expect: {value: 100}
  - op: cmp
    args: [x, sum]
    expect: {value: "1"}
  - op: bounds
    type: uint8
    expect: {value: "0..255"}
assertions:
  - register: x
    value: "127"
  - register: sum
    value: 100
`

func validate(t *testing.T, src string) []ValidationError {
	t.Helper()
	return ValidateScenario("test.yaml", []byte(src))
}

// hasError reports whether errs contains code on a field with the prefix.
func hasError(errs []ValidationError, code, fieldPrefix string) bool {
	for _, e := range errs {
		if e.Code == code && strings.HasPrefix(e.Field, fieldPrefix) {
			return true
		}
	}
	return false
}

func TestValidateScenario_Valid(t *testing.T) {
	errs := validate(t, validScenario)
	assert.Empty(t, errs)
}

func TestValidateScenario_EveryKindAccepted(t *testing.T) {
	for _, k := range snug.Kinds() {
		t.Run(string(k), func(t *testing.T) {
			src := fmt.Sprintf(`
name: kinds
type: int8
steps:
  - op: new
    dst: x
    expect: {error: %s}
`, k.String())
			assert.Empty(t, validate(t, src))
		})
	}
}

func TestValidateScenario_EveryTypeAccepted(t *testing.T) {
	for _, typ := range rep.Types() {
		t.Run(string(typ), func(t *testing.T) {
			src := fmt.Sprintf(`
name: types
steps:
  - op: bounds
    type: %s
`, typ)
			assert.Empty(t, validate(t, src))
		})
	}
}

func TestValidateScenario_SchemaErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{
			name: "unknown top-level field",
			src: `
name: s
type: int8
bogus: true
steps:
  - op: new
    dst: x
`,
			field: "bogus",
		},
		{
			name: "missing name",
			src: `
type: int8
steps:
  - op: new
    dst: x
`,
			field: "name",
		},
		{
			name: "empty steps",
			src: `
name: s
steps: []
`,
			field: "steps",
		},
		{
			name: "unknown op",
			src: `
name: s
type: int8
steps:
  - op: mod
    dst: x
`,
			field: "steps.0",
		},
		{
			name: "unknown type",
			src: `
name: s
type: int128
steps:
  - op: new
    dst: x
`,
			field: "type",
		},
		{
			name: "malformed literal",
			src: `
name: s
type: int8
steps:
  - op: new
    dst: x
    args: ["12abc"]
`,
			field: "steps.0",
		},
		{
			name: "unknown failure kind",
			src: `
name: s
type: int8
steps:
  - op: new
    dst: x
    expect: {error: Overflowish}
`,
			field: "steps.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validate(t, tt.src)
			require.NotEmpty(t, errs)
			assert.True(t, hasError(errs, ErrSchema, tt.field), "want %s on %s, got %v", ErrSchema, tt.field, errs)
			for _, e := range errs {
				assert.NotContains(t, e.Field, "#", "definition names stay out of field paths")
			}
		})
	}
}

func TestFieldPath(t *testing.T) {
	assert.Equal(t, "steps.0.op", fieldPath([]string{"#Scenario", "steps", "0", "op"}))
	assert.Equal(t, "name", fieldPath([]string{"#Scenario", "name"}))
	assert.Equal(t, "", fieldPath([]string{"#Scenario"}))
	assert.Equal(t, "type", fieldPath([]string{"type"}))
}

func TestValidateScenario_NonDecimalNumbers(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{
			name: "hex operand",
			src: `
name: s
type: int8
steps:
  - op: new
    dst: x
    args: [0x7f]
`,
			field: "steps[0].args[0]",
		},
		{
			name: "octal operand",
			src: `
name: s
type: int8
steps:
  - op: new
    dst: x
    args: [0o17]
`,
			field: "steps[0].args[0]",
		},
		{
			name: "underscore operand",
			src: `
name: s
type: int16
steps:
  - op: new
    dst: x
    args: [1_000]
`,
			field: "steps[0].args[0]",
		},
		{
			name: "leading zero operand",
			src: `
name: s
type: int8
steps:
  - op: new
    dst: x
    args: [010]
`,
			field: "steps[0].args[0]",
		},
		{
			name: "hex expect value",
			src: `
name: s
type: int8
steps:
  - op: new
    dst: x
    args: ["16"]
    expect: {value: 0x10}
`,
			field: "steps[0].expect.value",
		},
		{
			name: "hex assertion value",
			src: `
name: s
type: int8
steps:
  - op: new
    dst: x
    args: ["16"]
assertions:
  - register: x
    value: 0x10
`,
			field: "assertions[0].value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validate(t, tt.src)
			require.NotEmpty(t, errs)
			assert.True(t, hasError(errs, ErrNotDecimal, tt.field), "want %s on %s, got %v", ErrNotDecimal, tt.field, errs)
		})
	}
}

func TestValidateScenario_DecimalNumbersAccepted(t *testing.T) {
	src := `
name: s
type: int8
steps:
  - op: new
    dst: x
    args: [127]
  - op: new
    dst: k
    args: [-128]
  - op: add
    dst: s
    args: [x, +0]
    expect: {value: 127}
  - op: bounds
    expect: {value: -128..127}
assertions:
  - register: x
    value: 127
`
	assert.Empty(t, validate(t, src))
}

func TestValidateScenario_StepErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		code  string
		field string
	}{
		{
			name: "no type",
			src: `
name: s
steps:
  - op: new
    dst: x
`,
			code:  ErrMissingType,
			field: "steps[0].type",
		},
		{
			name: "too few operands",
			src: `
name: s
type: int8
steps:
  - op: add
    dst: x
    args: ["1"]
`,
			code:  ErrArity,
			field: "steps[0].args",
		},
		{
			name: "missing dst",
			src: `
name: s
type: int8
steps:
  - op: mul
    args: ["1", "2"]
`,
			code:  ErrDst,
			field: "steps[0].dst",
		},
		{
			name: "dst on bounds",
			src: `
name: s
type: int8
steps:
  - op: bounds
    dst: x
`,
			code:  ErrDst,
			field: "steps[0].dst",
		},
		{
			name: "read before write",
			src: `
name: s
type: int8
steps:
  - op: add
    dst: z
    args: [x, "1"]
`,
			code:  ErrUndefined,
			field: "steps[0].args[0]",
		},
		{
			name: "increment before write",
			src: `
name: s
type: int8
steps:
  - op: inc
    dst: x
`,
			code:  ErrUndefined,
			field: "steps[0].dst",
		},
		{
			name: "assertion on unwritten register",
			src: `
name: s
type: int8
steps:
  - op: new
    dst: x
assertions:
  - register: sum
    value: "0"
`,
			code:  ErrUndefined,
			field: "assertions[0].register",
		},
		{
			name: "parse of register",
			src: `
name: s
type: int8
steps:
  - op: new
    dst: x
  - op: parse
    dst: sum
    args: [x]
`,
			code:  ErrBadLiteral,
			field: "steps[1].args[0]",
		},
		{
			name: "expect both",
			src: `
name: s
type: int8
steps:
  - op: new
    dst: x
    expect: {value: "0", error: SizeMismatch}
`,
			code:  ErrExpectOutcome,
			field: "steps[0].expect",
		},
		{
			name: "expect neither",
			src: `
name: s
type: int8
steps:
  - op: new
    dst: x
    expect: {}
`,
			code:  ErrExpectOutcome,
			field: "steps[0].expect",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validate(t, tt.src)
			require.NotEmpty(t, errs)
			assert.True(t, hasError(errs, tt.code, tt.field), "want %s on %s, got %v", tt.code, tt.field, errs)
		})
	}
}

func TestValidateScenario_CollectsAllErrors(t *testing.T) {
	src := `
name: s
type: int8
steps:
  - op: add
    dst: z
    args: [a, b]
  - op: cmp
    dst: w
    args: ["1"]
`
	errs := validate(t, src)
	assert.True(t, hasError(errs, ErrUndefined, "steps[0].args[0]"))
	assert.True(t, hasError(errs, ErrUndefined, "steps[0].args[1]"))
	assert.True(t, hasError(errs, ErrArity, "steps[1].args"))
	assert.True(t, hasError(errs, ErrDst, "steps[1].dst"))
}

func TestValidateScenario_InvalidYAML(t *testing.T) {
	errs := validate(t, "name: [unclosed\n")
	require.NotEmpty(t, errs)
	assert.Equal(t, ErrYAML, errs[0].Code)
}

func TestValidationError_Error(t *testing.T) {
	e := ValidationError{Field: "steps[0].dst", Message: "add needs a dst register", Code: ErrDst, Line: 7}
	assert.Equal(t, "[E212] line 7: steps[0].dst: add needs a dst register", e.Error())

	e.Line = 0
	assert.Equal(t, "[E212] steps[0].dst: add needs a dst register", e.Error())
}
