package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/odraude/ledger/config"
)

type configureCmd struct {
	force bool
}

func (*configureCmd) Name() string     { return "configure" }
func (*configureCmd) Synopsis() string { return "write a default configuration file" }
func (*configureCmd) Usage() string {
	return `lgr configure [-force]

  Generates the default configuration file, with a fresh random passphrase
  and placeholder values to fill in.
`
}

func (c *configureCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "Overwrite an existing configuration file.")
}

func (c *configureCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path, err := config.Path()
	if err != nil {
		return fail(err)
	}
	if _, err := os.Stat(path); err == nil && !c.force {
		return fail(fmt.Errorf("configuration file already exists, use -force to overwrite it"))
	}

	def, err := config.Default()
	if err != nil {
		return fail(err)
	}
	if err := def.Write(path); err != nil {
		return fail(err)
	}
	fmt.Println("Generated default configuration file on", path)
	return subcommands.ExitSuccess
}
