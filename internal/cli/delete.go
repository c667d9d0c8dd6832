package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/store"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:           "delete <name>",
		Short:         "Delete a stored model",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(rootOpts, args[0], dbPath, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", DefaultDBPath, "model store path")
	return cmd
}

func runDelete(opts *RootOptions, name, dbPath string, cmd *cobra.Command) error {
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

	if err := s.DeleteModel(cmd.Context(), name); err != nil {
		if errors.Is(err, store.ErrModelNotFound) {
			return outputCommandError(formatter, ErrCodeNotFound,
				fmt.Sprintf("model not found: %s", name))
		}
		return outputCommandError(formatter, ErrCodeStoreError, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]string{"deleted": name})
	}
	fmt.Fprintf(formatter.Writer, "Deleted model %q\n", name)
	return nil
}
