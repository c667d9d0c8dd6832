package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/tally/internal/store"
)

// NewModelsCommand creates the models command.
func NewModelsCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:           "models",
		Short:         "List stored models",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModels(rootOpts, dbPath, cmd)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", DefaultDBPath, "model store path")
	return cmd
}

func runModels(opts *RootOptions, dbPath string, cmd *cobra.Command) error {
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

	infos, err := s.ListModels(cmd.Context())
	if err != nil {
		return outputCommandError(formatter, ErrCodeStoreError, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(modelList(infos))
	}

	if len(infos) == 0 {
		fmt.Fprintln(formatter.Writer, "No stored models")
		return nil
	}
	for _, info := range infos {
		fmt.Fprintf(formatter.Writer, "%s\tupdated %s\n",
			info.Name, info.UpdatedAt.Format(time.RFC3339))
	}
	return nil
}

// modelList shapes store listings for JSON output.
func modelList(infos []store.ModelInfo) []map[string]string {
	out := make([]map[string]string, 0, len(infos))
	for _, info := range infos {
		out = append(out, map[string]string{
			"name":      info.Name,
			"createdAt": info.CreatedAt.Format(time.RFC3339),
			"updatedAt": info.UpdatedAt.Format(time.RFC3339),
		})
	}
	return out
}
