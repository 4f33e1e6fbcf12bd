// Command tyunify solves type equality constraints by first-order unification.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/tyunify/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "tyunify: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
