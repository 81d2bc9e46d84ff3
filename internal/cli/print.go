package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/relalg/internal/render"
	"github.com/roach88/relalg/internal/table"
)

// PrintOptions holds flags for the print command.
type PrintOptions struct {
	*RootOptions
	DBPath   string
	Snapshot string // select the relation by snapshot id instead of name
	Index    bool   // also print the key index
	Style    bool   // render with borders and a header instead of the plain layout
}

// NewPrintCommand creates the print command.
func NewPrintCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PrintOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "print [relation]",
		Short: "Print a saved relation",
		Long: `Print a saved relation in store order.

With --format json the relation is written as its canonical snapshot.
--snapshot selects the relation by the snapshot id load or query --save
reported; an id that has since been replaced is not found.

Examples:
  relalg print Movie --db movies.db
  relalg print --snapshot 0192f0c4-... --db movies.db
  relalg print Movie --db movies.db --index
  relalg print Movie --db movies.db --style`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrint(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to the database")
	cmd.Flags().StringVar(&opts.Snapshot, "snapshot", "", "snapshot id of the relation")
	cmd.Flags().BoolVar(&opts.Index, "index", false, "print the key index after the tuples")
	cmd.Flags().BoolVar(&opts.Style, "style", false, "render a bordered table")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runPrint(opts *PrintOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if (len(args) == 1) == (opts.Snapshot != "") {
		return NewExitError(ExitCommandError, "give either a relation name or --snapshot")
	}

	st, err := openStore(opts.DBPath, false)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	var name string
	if opts.Snapshot != "" {
		info, err := st.Snapshot(ctx, opts.Snapshot)
		if err != nil {
			return formatter.Fail(ExitCommandError, storeErrorCode(err), fmt.Sprintf("failed to find snapshot %s", opts.Snapshot), err)
		}
		name = info.Schema.Name
	} else {
		name = args[0]
	}

	t, err := st.Load(ctx, name)
	if err != nil {
		return formatter.Fail(ExitCommandError, storeErrorCode(err), fmt.Sprintf("failed to load relation %s", name), err)
	}
	return writeTable(formatter, t, opts.Index, opts.Style)
}

// writeTable outputs t in the formatter's format: the canonical snapshot
// for JSON, otherwise the plain or styled layout, optionally followed by
// the index listing.
func writeTable(formatter *OutputFormatter, t *table.Table, index, style bool) error {
	if formatter.Format == "json" {
		snap, err := render.Snapshot(t)
		if err != nil {
			return err
		}
		return formatter.Success(json.RawMessage(snap))
	}

	if style {
		fmt.Fprintln(formatter.Writer, render.Styled(t))
	} else if err := render.Print(formatter.Writer, t); err != nil {
		return err
	}
	if index {
		return render.PrintIndex(formatter.Writer, t)
	}
	return nil
}
