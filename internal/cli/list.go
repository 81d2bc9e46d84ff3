package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/relalg/internal/store"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	DBPath string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List the relations saved in a database",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to the database")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := openStore(opts.DBPath, false)
	if err != nil {
		return err
	}
	defer st.Close()

	infos, err := st.List(cmd.Context())
	if err != nil {
		return formatter.Fail(ExitCommandError, storeErrorCode(err), "failed to list relations", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(infos)
	}
	if len(infos) == 0 {
		fmt.Fprintln(formatter.Writer, "No relations saved.")
		return nil
	}
	for _, info := range infos {
		fmt.Fprintln(formatter.Writer, describe(info))
	}
	return nil
}

// describe renders a relation as
//
//	Movie(title:Text, year:Integer) key [title, year] 3 tuples
func describe(info store.RelationInfo) string {
	s := info.Schema
	cols := make([]string, len(s.Attributes))
	for i, a := range s.Attributes {
		cols[i] = a + ":" + s.Domains[i].String()
	}
	return fmt.Sprintf("%s(%s) key [%s] %d tuples",
		s.Name, strings.Join(cols, ", "), strings.Join(s.Key, ", "), info.Tuples)
}
