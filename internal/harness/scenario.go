package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/snug/internal/compiler"
	"github.com/roach88/snug/internal/ir"
)

// Scenario is a program over named registers together with the outcomes
// its author expects.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description,omitempty"`

	// Type is the representation for steps that do not name one.
	Type string `yaml:"type,omitempty"`

	// RunToken is a fixed run token for deterministic traces.
	// If empty, defaults to "test-run-default".
	RunToken string `yaml:"run_token,omitempty"`

	// Steps are evaluated in order.
	Steps []Step `yaml:"steps"`

	// Assertions check final register values.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one scenario instruction.
type Step struct {
	Op   string   `yaml:"op"`
	Type string   `yaml:"type,omitempty"`
	Dst  string   `yaml:"dst,omitempty"`
	Args []string `yaml:"args,omitempty"`

	// Expect, when set, is compared against the step's outcome.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect names exactly one of a value or a failure kind.
type Expect struct {
	Value string `yaml:"value,omitempty"`
	Error string `yaml:"error,omitempty"`
}

// Outcome converts the expectation to the engine's outcome form.
func (e Expect) Outcome() ir.Outcome {
	return ir.Outcome{Value: e.Value, Error: e.Error}
}

// Assertion checks the final value of a register.
type Assertion struct {
	Register string `yaml:"register"`
	Value    string `yaml:"value"`
}

// Program converts the scenario steps to the engine's form, filling in the
// scenario's default type.
func (s *Scenario) Program() ir.Program {
	p := ir.Program{Name: s.Name, Steps: make([]ir.Step, len(s.Steps))}
	for i, st := range s.Steps {
		typ := st.Type
		if typ == "" {
			typ = s.Type
		}
		step := ir.Step{Op: ir.Op(st.Op), Type: typ, Dst: st.Dst}
		for _, a := range st.Args {
			step.Args = append(step.Args, ir.Operand(a))
		}
		p.Steps[i] = step
	}
	return p
}

// InvalidScenarioError lists everything wrong with a scenario file.
type InvalidScenarioError struct {
	Path   string
	Errors []compiler.ValidationError
}

// Error implements the error interface.
func (e *InvalidScenarioError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		msgs[i] = ve.Error()
	}
	return fmt.Sprintf("invalid scenario %s:\n  %s", e.Path, strings.Join(msgs, "\n  "))
}

// LoadScenario reads, validates and parses a scenario YAML file.
//
// The file is checked against the scenario schema first, so typos and
// malformed steps are reported with every problem at once. The YAML decode
// then rejects unknown fields as a second line.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(path, data)
}

// ParseScenario validates and parses scenario YAML. name is used in error
// positions.
func ParseScenario(name string, data []byte) (*Scenario, error) {
	if errs := compiler.ValidateScenario(name, data); len(errs) > 0 {
		return nil, &InvalidScenarioError{Path: name, Errors: errs}
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// FindScenarios returns the .yaml and .yml files directly under dir, sorted.
// When filter is non-empty only files whose base name matches the glob are
// returned.
func FindScenarios(dir, filter string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenario dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if ext := filepath.Ext(name); ext != ".yaml" && ext != ".yml" {
			continue
		}
		if filter != "" {
			ok, err := filepath.Match(filter, name)
			if err != nil {
				return nil, fmt.Errorf("bad filter %q: %w", filter, err)
			}
			if !ok {
				continue
			}
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	slices.Sort(paths)
	return paths, nil
}

// IsInvalidScenario reports whether err is a validation failure.
func IsInvalidScenario(err error) bool {
	var ise *InvalidScenarioError
	return errors.As(err, &ise)
}
