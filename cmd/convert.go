package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/odraude/ledger"
)

type convertCmd struct {
	networth bool
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "re-denominate records into their account's currency" }
func (*convertCmd) Usage() string {
	return `lgr convert [-networth]

  Rewrites every record into its account's main currency, taken to be the
  currency of the account's first record in the file.
`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.networth, "networth", false, "Convert the networth file instead of the ledger.")
}

func (c *convertCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	conf, res, err := openResource(c.networth)
	if err != nil {
		return fail(err)
	}
	defer res.Close()

	rates, err := ledger.OpenExchange(conf.ExchangeKey)
	if err != nil {
		return fail(err)
	}

	currencies := make(map[string]ledger.Currency)
	err = res.Rewrite(func(record ledger.Line) ([]ledger.Line, error) {
		currency, ok := currencies[record.Account()]
		if !ok {
			currency = record.Currency()
			currencies[record.Account()] = currency
		}
		line, err := record.Converted(currency, rates)
		if err != nil {
			return nil, err
		}
		return []ledger.Line{line}, nil
	})
	if err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
