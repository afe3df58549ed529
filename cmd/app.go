// Package cmd implements the CLI application to manage the ledger and
// networth datasets.
package cmd

import (
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/odraude/ledger"
	"github.com/odraude/ledger/config"
)

// Commands lists every subcommand. A main package registers each of them on
// its commander.
var Commands = []subcommands.Command{
	&configureCmd{},
	&createCmd{},
	&bookCmd{},
	&showCmd{},
	&convertCmd{},
	&sortCmd{},
	&editCmd{},
	&pushCmd{},
}

// mode maps the shared -networth flag to a dataset.
func mode(networth bool) ledger.Mode {
	if networth {
		return ledger.ModeNetworth
	}
	return ledger.ModeLedger
}

// fail prints the error and returns the failure status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}

// openResource loads the configuration and opens the dataset of the mode.
func openResource(networth bool) (*config.Config, *ledger.Resource, error) {
	c, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	res, err := c.Open(mode(networth))
	if err != nil {
		return nil, nil, err
	}
	return c, res, nil
}
