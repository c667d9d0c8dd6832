package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/format"
	"github.com/roach88/tally/internal/model"
	"github.com/roach88/tally/internal/modeldoc"
)

// CalcResult is the JSON payload of the calc command.
type CalcResult struct {
	Results map[string]model.CalculationResult `json:"results"`
	Summary *model.CalculationSummary          `json:"summary,omitempty"`
	Report  modeldoc.Report                    `json:"import"`
}

// NewCalcCommand creates the calc command.
func NewCalcCommand(rootOpts *RootOptions) *cobra.Command {
	var componentID string

	cmd := &cobra.Command{
		Use:   "calc <model-file>",
		Short: "Evaluate a model and print results",
		Long: `Evaluate a financial model file (JSON or YAML) and print every
component's result plus the model-wide summary.

With --component, only the named component and its dependencies are
evaluated and the summary is omitted.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(rootOpts, args[0], componentID, cmd)
		},
	}

	cmd.Flags().StringVar(&componentID, "component", "", "evaluate a single component by id")
	return cmd
}

func runCalc(opts *RootOptions, modelPath, componentID string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	e, report, err := loadEngine(formatter, modelPath)
	if err != nil {
		return err
	}

	if componentID != "" {
		if _, ok := e.Component(componentID); !ok {
			return outputCommandError(formatter, ErrCodeNotFound,
				fmt.Sprintf("component not found: %s", componentID))
		}
		result := CalcResult{
			Results: map[string]model.CalculationResult{
				componentID: e.Calculate(componentID),
			},
			Report: report,
		}
		return outputCalcResult(formatter, result)
	}

	results, summary := e.CalculateAll()
	return outputCalcResult(formatter, CalcResult{
		Results: results,
		Summary: &summary,
		Report:  report,
	})
}

// loadEngine reads a model file and loads it into a fresh engine.
// Import drops are surfaced as verbose diagnostics, not failures; a
// partially importable model still evaluates.
func loadEngine(formatter *OutputFormatter, modelPath string) (*engine.Engine, modeldoc.Report, error) {
	doc, err := LoadModelFile(modelPath)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return nil, modeldoc.Report{}, outputCommandError(formatter, loadErr.Code, loadErr.Message)
		}
		return nil, modeldoc.Report{}, outputCommandError(formatter, ErrCodeGeneric, err.Error())
	}
	formatter.VerboseLog("Loaded %d component(s), %d connection(s) from %s",
		len(doc.Components), len(doc.Connections), modelPath)

	e := engine.New()
	report := modeldoc.Load(e, doc)
	if report.Dropped > 0 {
		formatter.VerboseLog("Import dropped %d entries: %s",
			report.Dropped, strings.Join(report.Reasons, "; "))
	}
	return e, report, nil
}

// outputCalcResult renders results in the configured format.
func outputCalcResult(formatter *OutputFormatter, result CalcResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	// Text format, ids sorted for stable output
	ids := make([]string, 0, len(result.Results))
	for id := range result.Results {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		r := result.Results[id]
		fmt.Fprintf(formatter.Writer, "%s = %s [confidence %.2f]\n", id, r.FormattedValue, r.Confidence)
	}

	if result.Summary != nil {
		s := result.Summary
		fmt.Fprintln(formatter.Writer)
		fmt.Fprintf(formatter.Writer, "total revenue = %s\n", format.Format(s.TotalRevenue, model.SemanticCurrency))
		fmt.Fprintf(formatter.Writer, "total costs = %s\n", format.Format(s.TotalCosts, model.SemanticCurrency))
		fmt.Fprintf(formatter.Writer, "net value = %s\n", format.Format(s.NetValue, model.SemanticCurrency))
		fmt.Fprintf(formatter.Writer, "roi = %s\n", format.Format(s.ROI, model.SemanticPercentage))
		fmt.Fprintf(formatter.Writer, "payback period = %s\n", format.Format(s.PaybackPeriod, model.SemanticDuration))
		fmt.Fprintf(formatter.Writer, "npv = %s\n", format.Format(s.NPV, model.SemanticCurrency))
		fmt.Fprintf(formatter.Writer, "irr = %s\n", format.Format(s.IRR, model.SemanticPercentage))
		fmt.Fprintf(formatter.Writer, "confidence = %.2f\n", s.Confidence)
	}
	return nil
}

// outputCommandError outputs an error and wraps it as a command-level
// failure (exit code 2).
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
