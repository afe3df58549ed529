package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type createCmd struct {
	networth bool
	force    bool
}

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "create a new dataset file" }
func (*createCmd) Usage() string {
	return `lgr create [-networth] [-force]

  Creates the dataset file configured for the ledger (or, with -networth,
  the networth snapshots), containing only the header row.
`
}

func (c *createCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.networth, "networth", false, "Create the networth file instead of the ledger.")
	f.BoolVar(&c.force, "force", false, "Overwrite an existing file.")
}

func (c *createCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, res, err := openResource(c.networth)
	if err != nil {
		return fail(err)
	}
	defer res.Close()

	if _, err := os.Stat(res.Filepath()); err == nil && !c.force {
		return fail(fmt.Errorf("file %s already exists, use -force to overwrite it", res.Filepath()))
	}
	if err := res.Create(); err != nil {
		return fail(err)
	}
	fmt.Println("Generated default file on", res.Filepath())
	return subcommands.ExitSuccess
}
