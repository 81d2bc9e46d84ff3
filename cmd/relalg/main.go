// Command relalg loads CUE table definitions into a SQLite store and
// evaluates relational algebra expressions over them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/roach88/relalg/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
