package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/relalg/internal/algebra"
	"github.com/roach88/relalg/internal/harness"
	"github.com/roach88/relalg/internal/table"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	DBPath  string
	Expr    string // inline expression, instead of a file
	Save    bool   // save the result relation
	Replace bool   // allow --save to overwrite a saved relation
	Index   bool
	Style   bool
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query [expr.yaml]",
		Short: "Evaluate a relational algebra expression",
		Long: `Evaluate a relational algebra expression against the relations saved
in a database and print the result.

The expression is read from a YAML file or given inline with --expr.
Derived relations are named after the leftmost operand with a counter
appended (Movie0, Movie01, ...). With --save the result is written back
to the database under that name; a relation already saved under it is
only overwritten with --replace.

Exit codes:
  0 - Expression evaluated
  1 - Expression is invalid or evaluation failed
  2 - Command error (missing database, unreadable file, etc.)

Examples:
  relalg query fox.yaml --db movies.db
  relalg query --db movies.db --expr '{project: {attributes: [title], from: {scan: Movie}}}'
  relalg query fox.yaml --db movies.db --save`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to the database")
	cmd.Flags().StringVarP(&opts.Expr, "expr", "e", "", "inline YAML expression")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "save the result relation")
	cmd.Flags().BoolVar(&opts.Replace, "replace", false, "let --save overwrite a saved relation")
	cmd.Flags().BoolVar(&opts.Index, "index", false, "print the key index of the result")
	cmd.Flags().BoolVar(&opts.Style, "style", false, "render a bordered table")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runQuery(opts *QueryOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	src, err := querySource(opts, args)
	if err != nil {
		return err
	}

	expr, err := algebra.ParseYAML(src)
	if err != nil {
		return formatter.Fail(ExitFailure, harness.CodeInvalidExpression, "failed to parse expression", err)
	}
	formatter.VerboseLog("Expression: %s", algebra.Format(expr))

	st, err := openStore(opts.DBPath, false)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	catalog, err := loadCatalog(ctx, st, table.NewNamer())
	if err != nil {
		return formatter.Fail(ExitCommandError, storeErrorCode(err), "failed to load relations", err)
	}

	result, err := algebra.Eval(ctx, catalog, expr)
	if err != nil {
		return formatter.Fail(ExitFailure, harness.ErrorCode(err), "evaluation failed", err)
	}

	if opts.Save {
		if _, ok := catalog[result.Name()]; ok && !opts.Replace {
			return formatter.Fail(ExitFailure, "ALREADY_EXISTS",
				fmt.Sprintf("relation %s is already saved (use --replace to overwrite)", result.Name()), nil)
		}
		id, err := st.Save(ctx, result)
		if err != nil {
			return formatter.Fail(ExitCommandError, storeErrorCode(err), fmt.Sprintf("failed to save relation %s", result.Name()), err)
		}
		formatter.VerboseLog("Saved %s as snapshot %s", result.Name(), id)
	}

	return writeTable(formatter, result, opts.Index, opts.Style)
}

// querySource returns the expression text from --expr or the file argument.
func querySource(opts *QueryOptions, args []string) ([]byte, error) {
	switch {
	case opts.Expr != "" && len(args) > 0:
		return nil, NewExitError(ExitCommandError, "give either an expression file or --expr, not both")
	case opts.Expr != "":
		return []byte(opts.Expr), nil
	case len(args) == 0:
		return nil, NewExitError(ExitCommandError, "an expression file or --expr is required")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read expression file", err)
	}
	return data, nil
}
