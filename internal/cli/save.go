package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/modeldoc"
)

// SaveResult is the JSON payload of the save command.
type SaveResult struct {
	Name       string `json:"name"`
	Components int    `json:"components"`
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "save <name> <model-file>",
		Short: "Save a model file to the model store",
		Long: `Save a model file (JSON or YAML) under a name in the model store.

Saving an existing name replaces the stored document.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(rootOpts, args[0], args[1], dbPath, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", DefaultDBPath, "model store path")
	return cmd
}

func runSave(opts *RootOptions, name, modelPath, dbPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
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

	// Strict check before anything lands in the store.
	if issues := ValidateDocument(doc); len(issues) > 0 {
		return outputValidationIssues(formatter, issues)
	}

	// Normalize through an engine round trip: components come back in id
	// order, connections get ids, metadata gets stamped.
	e := engine.New()
	modeldoc.Load(e, doc)
	normalized := modeldoc.Export(e, name)
	normalized.Metadata.CreatedAt = doc.Metadata.CreatedAt
	if doc.Metadata.Name != "" {
		normalized.Metadata.Name = doc.Metadata.Name
	}

	s, err := openStore(formatter, dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.SaveModel(cmd.Context(), name, normalized); err != nil {
		return outputCommandError(formatter, ErrCodeStoreError, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(SaveResult{Name: name, Components: len(doc.Components)})
	}
	fmt.Fprintf(formatter.Writer, "Saved model %q (%d components)\n", name, len(doc.Components))
	return nil
}
