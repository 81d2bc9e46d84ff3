package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/relalg/internal/algebra"
	"github.com/roach88/relalg/internal/store"
	"github.com/roach88/relalg/internal/table"
)

// newFormatter builds the formatter for cmd's output streams.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// openStore opens the database at path. Unless create is set the file
// must already exist, so a mistyped --db does not silently yield an empty
// store.
func openStore(path string, create bool) (*store.Store, error) {
	if !create {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", path))
		}
	}
	st, err := store.Open(path, store.WithLogger(slog.Default()))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// loadCatalog loads every relation of st into a catalog whose tables share
// one namer, so names derived by a query are unique across its operands.
func loadCatalog(ctx context.Context, st *store.Store, namer *table.Namer) (algebra.Tables, error) {
	infos, err := st.List(ctx)
	if err != nil {
		return nil, err
	}
	cat := make(algebra.Tables, len(infos))
	for _, info := range infos {
		t, err := st.Load(ctx, info.Schema.Name, table.WithNamer(namer), table.WithLogger(slog.Default()))
		if err != nil {
			return nil, err
		}
		cat[t.Name()] = t
	}
	return cat, nil
}

// storeErrorCode maps a store error to the code shown to the user.
func storeErrorCode(err error) string {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, store.ErrCorruptFormat):
		return "CORRUPT_FORMAT"
	case errors.Is(err, store.ErrIO):
		return "IO_ERROR"
	}
	if code := table.CodeOf(err); code != "" {
		return string(code)
	}
	return "ERROR"
}
