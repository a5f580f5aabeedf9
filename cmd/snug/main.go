// Command snug evaluates bounded integer arithmetic that refuses to overflow.
package main

import (
	"os"

	"github.com/roach88/snug/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		cli.PrintError(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
