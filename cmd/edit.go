package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"

	"github.com/google/subcommands"

	"github.com/odraude/ledger"
)

type editCmd struct {
	networth bool
	line     int
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "edit a dataset in $EDITOR" }
func (*editCmd) Usage() string {
	return `lgr edit [-networth] [-line <n>]

  Opens a working copy of the file in $EDITOR and validates every record
  after the editor exits, so mistakes surface before anything is persisted.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.networth, "networth", false, "Edit the networth file instead of the ledger.")
	f.IntVar(&c.line, "line", 0, "Line at which to open the file.")
}

func (c *editCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		return fail(fmt.Errorf("EDITOR variable is not set"))
	}

	_, res, err := openResource(c.networth)
	if err != nil {
		return fail(err)
	}
	defer res.Close()

	err = res.Apply(func(scratch string) error {
		arg := scratch
		if c.line > 0 {
			arg = fmt.Sprintf("%s:%d", scratch, c.line)
		}
		command := exec.Command(editor, arg)
		command.Stdin = os.Stdin
		command.Stdout = os.Stdout
		command.Stderr = os.Stderr
		return command.Run()
	})
	if err != nil {
		return fail(err)
	}

	// Validation pass over the edited records.
	err = res.Line(func(ledger.Line) error { return nil })
	if err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
