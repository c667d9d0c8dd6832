package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/modeldoc"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <model-file>",
		Short: "Validate a model file without evaluating it",
		Long: `Validate a model file (JSON or YAML) without evaluating it.

Runs the strict whole-document schema check plus per-entry shape
validation, and reports every issue found.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, modelPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	doc, err := LoadModelFile(modelPath)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return outputCommandError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputCommandError(formatter, ErrCodeGeneric, err.Error())
	}
	formatter.VerboseLog("Validating %d component(s), %d connection(s)",
		len(doc.Components), len(doc.Connections))

	issues := ValidateDocument(doc)
	if len(issues) > 0 {
		return outputValidationIssues(formatter, issues)
	}

	return outputValidateSuccess(formatter)
}

// ValidateDocument runs the strict schema check and the per-entry shape
// check, returning every issue found.
// This is a helper function for external callers.
func ValidateDocument(doc *modeldoc.Document) []string {
	var issues []string

	if err := modeldoc.Validate(doc); err != nil {
		var verr *modeldoc.ValidationError
		if errors.As(err, &verr) {
			issues = append(issues, verr.Issues...)
		} else {
			issues = append(issues, err.Error())
		}
	}

	// Per-entry shape check catches drops the schema check attributes
	// less precisely.
	_, _, report := modeldoc.Import(doc)
	issues = append(issues, report.Reasons...)

	return dedupIssues(issues)
}

func dedupIssues(issues []string) []string {
	seen := make(map[string]bool, len(issues))
	out := issues[:0]
	for _, issue := range issues {
		if seen[issue] {
			continue
		}
		seen[issue] = true
		out = append(out, issue)
	}
	return out
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}

	fmt.Fprintln(formatter.Writer, "✓ Model valid")
	return nil
}

// outputValidationIssues outputs validation failures.
func outputValidationIssues(formatter *OutputFormatter, issues []string) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Issues: issues},
			Error: &CLIError{
				Code:    ErrCodeInvalid,
				Message: issues[0],
			},
		}
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d issue(s)", len(issues)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, issue := range issues {
		fmt.Fprintf(formatter.Writer, "  %s\n", issue)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d issue(s)", len(issues)))
}
