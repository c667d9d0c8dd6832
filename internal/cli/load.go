package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/store"
)

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		dbPath  string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "load <name>",
		Short: "Load a stored model and print or write it",
		Long: `Load a named model from the model store and print it as JSON,
or write it to a file with --out.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(rootOpts, args[0], dbPath, outPath, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", DefaultDBPath, "model store path")
	cmd.Flags().StringVar(&outPath, "out", "", "write the document to a file instead of stdout")
	return cmd
}

func runLoad(opts *RootOptions, name, dbPath, outPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	s, err := openStore(formatter, dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	doc, err := s.LoadModel(cmd.Context(), name)
	if err != nil {
		if errors.Is(err, store.ErrModelNotFound) {
			return outputCommandError(formatter, ErrCodeNotFound,
				fmt.Sprintf("model not found: %s", name))
		}
		return outputCommandError(formatter, ErrCodeStoreError, err.Error())
	}

	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return outputCommandError(formatter, ErrCodeGeneric,
				fmt.Sprintf("creating %s: %v", outPath, err))
		}
		defer f.Close()
		if err := doc.EncodeJSON(f); err != nil {
			return outputCommandError(formatter, ErrCodeGeneric, err.Error())
		}
		if formatter.Format == "json" {
			return formatter.Success(map[string]string{"name": name, "written": outPath})
		}
		fmt.Fprintf(formatter.Writer, "Wrote model %q to %s\n", name, outPath)
		return nil
	}

	if formatter.Format == "json" {
		return formatter.Success(doc)
	}
	return doc.EncodeJSON(formatter.Writer)
}
