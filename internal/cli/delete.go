package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// DeleteOptions holds flags for the delete command.
type DeleteOptions struct {
	*RootOptions
	DBPath string
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "delete <relation>...",
		Short:         "Delete saved relations",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to the database")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runDelete(opts *DeleteOptions, names []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := openStore(opts.DBPath, false)
	if err != nil {
		return err
	}
	defer st.Close()

	for _, name := range names {
		if err := st.Delete(cmd.Context(), name); err != nil {
			return formatter.Fail(ExitFailure, storeErrorCode(err), fmt.Sprintf("failed to delete relation %s", name), err)
		}
		formatter.VerboseLog("Deleted %s", name)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string][]string{"deleted": names})
	}
	for _, name := range names {
		fmt.Fprintf(formatter.Writer, "✓ deleted %s\n", name)
	}
	return nil
}
