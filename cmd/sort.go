package cmd

import (
	"context"
	"flag"
	"sort"

	"github.com/google/subcommands"

	"github.com/odraude/ledger"
)

type sortCmd struct {
	networth bool
}

func (*sortCmd) Name() string     { return "sort" }
func (*sortCmd) Synopsis() string { return "sort a dataset by date" }
func (*sortCmd) Usage() string {
	return `lgr sort [-networth]

  Rewrites the file with its records date-sorted. Records sharing a date
  keep their relative order.
`
}

func (c *sortCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.networth, "networth", false, "Sort the networth file instead of the ledger.")
}

func (c *sortCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, res, err := openResource(c.networth)
	if err != nil {
		return fail(err)
	}
	defer res.Close()

	var lines []ledger.Line
	err = res.Line(func(record ledger.Line) error {
		lines = append(lines, record)
		return nil
	})
	if err != nil {
		return fail(err)
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Date().Before(lines[j].Date())
	})

	if err := res.CreateWith(lines); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
