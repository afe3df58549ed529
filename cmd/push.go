package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/google/subcommands"

	"github.com/odraude/ledger"
	"github.com/odraude/ledger/config"
	"github.com/odraude/ledger/firefly"
	"github.com/odraude/ledger/push"
)

type pushCmd struct{}

func (*pushCmd) Name() string     { return "push" }
func (*pushCmd) Synopsis() string { return "reconcile the datasets with the accounting service" }
func (*pushCmd) Usage() string {
	return `lgr push

  Creates the missing accounts and transactions on the configured Firefly III
  server and writes the returned ids back into the local files. Records that
  already carry an id are never submitted again, so the command is safe to
  re-run after a partial failure.
`
}

func (*pushCmd) SetFlags(*flag.FlagSet) {}

func (c *pushCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	conf, err := config.Load()
	if err != nil {
		return fail(err)
	}
	if conf.Firefly == nil {
		return fail(fmt.Errorf("there is no firefly service set up"))
	}

	client := firefly.NewClient(firefly.ClientConfig{
		BasePath: conf.Firefly.BasePath,
		Token:    conf.Firefly.Token,
	})
	options := push.Options{
		Currency:       conf.Currency,
		Transfer:       conf.Transfer,
		OpeningBalance: conf.Firefly.OpeningBalance,
	}

	pusher := push.New(client, options, conf.Filter())
	if err := pusher.Seed(); err != nil {
		return fail(err)
	}
	log.Printf("reconciling as user %s", pusher.User())

	if err := c.perform(conf, pusher, ledger.ModeLedger, push.NewLedger(options)); err != nil {
		return fail(err)
	}
	if err := c.perform(conf, pusher, ledger.ModeNetworth, push.NewNetworth()); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

func (c *pushCmd) perform(conf *config.Config, pusher *push.Pusher, m ledger.Mode, s push.Syncable) error {
	res, err := conf.Open(m)
	if err != nil {
		return err
	}
	defer res.Close()
	return pusher.Perform(res, s)
}
