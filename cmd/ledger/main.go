// Command ledger runs scripted sessions against an in-memory account ledger.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/ledger/internal/cli"
	"github.com/roach88/ledger/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ledger: %v\n", err)
		os.Exit(cli.ExitCommandError)
	}

	if err := cli.NewRootCommand(cfg).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ledger: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
