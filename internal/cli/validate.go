package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/snug/internal/compiler"
)

// FileValidation holds the validation result for one scenario file.
type FileValidation struct {
	Path   string                     `json:"path"`
	Valid  bool                       `json:"valid"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml>...",
		Short: "Validate scenario files without running them",
		Long: `Validate scenario files against the scenario schema.

Checks YAML syntax, field names and types, op and type names, operand counts,
and that every register is written before it is read. All problems in a file
are reported, not just the first.

Exit codes:
  0 - All files are valid
  1 - One or more files are invalid
  2 - Command error (unreadable file)

Examples:
  snug validate ./scenarios/*.yaml
  snug validate ./scenarios/int8_add_overflow.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(paths))}
	invalid := 0
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return outputValidateError(formatter, "E_READ", fmt.Sprintf("cannot read %s: %v", path, err), nil)
		}
		formatter.VerboseLog("Validating %s", path)

		errs := compiler.ValidateScenario(path, data)
		fv := FileValidation{Path: path, Valid: len(errs) == 0, Errors: errs}
		if !fv.Valid {
			result.Valid = false
			invalid++
		}
		result.Files = append(result.Files, fv)
	}

	if formatter.Format == "json" {
		var cliErr *CLIError
		if !result.Valid {
			cliErr = &CLIError{
				Code:    firstCode(result.Files),
				Message: fmt.Sprintf("%d of %d file(s) invalid", invalid, len(paths)),
			}
		}
		if err := respond(formatter.Writer, result, cliErr); err != nil {
			return err
		}
	} else {
		outputValidateText(formatter, result)
	}

	if !result.Valid {
		// Validation failures = exit code 1
		return NewReportedError(ExitFailure, fmt.Sprintf("validation failed for %d file(s)", invalid))
	}
	return nil
}

func firstCode(files []FileValidation) string {
	for _, f := range files {
		if len(f.Errors) > 0 {
			return f.Errors[0].Code
		}
	}
	return ""
}

func outputValidateText(formatter *OutputFormatter, result ValidationResult) {
	w := formatter.Writer
	for _, f := range result.Files {
		if f.Valid {
			fmt.Fprintf(w, "✓ %s\n", f.Path)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", f.Path)
		for _, err := range f.Errors {
			fmt.Fprintf(w, "  %s\n", err.Error())
		}
	}
	if result.Valid {
		fmt.Fprintln(w, "✓ All scenarios valid")
	}
}

// outputValidateError outputs a single command-level error.
func outputValidateError(formatter *OutputFormatter, code, message string, details interface{}) error {
	_ = formatter.Error(code, message, details)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
