package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/relalg/internal/schema"
	"github.com/roach88/relalg/internal/table"
)

// ValidationError is one problem found in a schema directory.
type ValidationError struct {
	Code    string `json:"code"`
	Table   string `json:"table,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// TableSummary describes a table that validated successfully.
type TableSummary struct {
	Name       string   `json:"name"`
	Attributes []string `json:"attributes"`
	Key        []string `json:"key"`
	Rows       int      `json:"rows"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Tables []TableSummary    `json:"tables,omitempty"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <schema-dir>",
		Short: "Validate table definitions without storing them",
		Long: `Validate the CUE table definitions in a directory.

Every table is compiled and built in memory, so schema errors (unknown
key attributes, duplicate attributes) and seed row errors (wrong domains,
duplicate keys) are all reported in one pass.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, schemaDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loadResult, loadErrors := schema.LoadDir(schemaDir, schema.LoadModeCollectAll)

	// Handle load errors (directory not found, no files, etc.)
	if loadResult == nil && len(loadErrors) > 0 {
		code, message := loadErrorCode(loadErrors[0])
		return formatter.Fail(ExitCommandError, code, message, nil)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, schemaDir)

	var result ValidationResult
	for _, err := range loadErrors {
		result.Errors = append(result.Errors, toValidationError(err))
	}
	for _, def := range loadResult.Definitions {
		formatter.VerboseLog("Validating table: %s", def.Schema.Name)
		t, err := schema.Build(def, table.WithNamer(table.NewNamer()))
		if err != nil {
			ve := toValidationError(err)
			ve.Table = def.Schema.Name
			if def.Pos.IsValid() && ve.Line == 0 {
				ve.Line = def.Pos.Line()
			}
			result.Errors = append(result.Errors, ve)
			continue
		}
		result.Tables = append(result.Tables, TableSummary{
			Name:       t.Name(),
			Attributes: t.Attributes(),
			Key:        t.Key(),
			Rows:       t.Len(),
		})
	}

	if len(result.Errors) == 0 && len(result.Tables) == 0 {
		result.Errors = append(result.Errors, ValidationError{
			Code:    schema.ErrCodeGeneric,
			Message: "no tables found in schema",
		})
	}

	if len(result.Errors) > 0 {
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

// loadErrorCode extracts the error code and message of a schema load error.
func loadErrorCode(err error) (string, string) {
	var loadErr *schema.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return schema.ErrCodeGeneric, err.Error()
}

// toValidationError classifies a load or build error.
func toValidationError(err error) ValidationError {
	var loadErr *schema.LoadError
	if errors.As(err, &loadErr) {
		ve := ValidationError{Code: loadErr.Code, Message: loadErr.Message}
		if loadErr.Pos.IsValid() {
			ve.Line = loadErr.Pos.Line()
		}
		return ve
	}
	if code := table.CodeOf(err); code != "" {
		return ValidationError{Code: string(code), Message: err.Error()}
	}
	return ValidationError{Code: schema.ErrCodeGeneric, Message: err.Error()}
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	result.Valid = true
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	for _, t := range result.Tables {
		fmt.Fprintf(formatter.Writer, "  %s (%d rows)\n", t.Name, t.Rows)
	}
	fmt.Fprintf(formatter.Writer, "✓ %d table(s) valid\n", len(result.Tables))
	return nil
}

// outputValidationErrors outputs every validation error.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	first := result.Errors[0]
	exitErr := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))

	if formatter.Format == "json" {
		if err := formatter.encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    first.Code,
				Message: first.Message,
			},
		}); err != nil {
			return err
		}
		// Validation failures = exit code 1 (test/validation failure)
		return exitErr
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range result.Errors {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}

	return exitErr
}
