package cmd

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/odraude/ledger"
	"github.com/odraude/ledger/date"
)

type showCmd struct {
	networth   bool
	year       int
	month      int
	from       string
	till       string
	categories string
	currency   string
	output     string
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "list the records that match the filters" }
func (*showCmd) Usage() string {
	return `lgr show [-networth] [-year <y>] [-month <m>] [-from <date>] [-till <date>]
         [-categories <c,...>] [-currency <code>] [-output <file>]

  Prints the matching records as CSV. Categories are excluded, not selected.
  With -currency, amounts are re-denominated using current exchange rates.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.networth, "networth", false, "Show the networth file instead of the ledger.")
	f.IntVar(&c.year, "year", 0, "Select records of the year.")
	f.IntVar(&c.month, "month", 0, "Select records of the month.")
	f.StringVar(&c.from, "from", "", "Select records on or after the date.")
	f.StringVar(&c.till, "till", "", "Select records on or before the date.")
	f.StringVar(&c.categories, "categories", "", "Comma-separated categories to exclude.")
	f.StringVar(&c.currency, "currency", "", "Display amounts in the currency.")
	f.StringVar(&c.output, "output", "/dev/stdout", "Write the listing to the file.")
}

func (c *showCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	conf, res, err := openResource(c.networth)
	if err != nil {
		return fail(err)
	}
	defer res.Close()

	filter, err := c.filter()
	if err != nil {
		return fail(err)
	}

	var currency ledger.Currency
	var rates *ledger.Exchange
	if c.currency != "" {
		currency, err = ledger.ParseCurrency(strings.ToUpper(c.currency))
		if err != nil {
			return fail(err)
		}
		rates, err = ledger.OpenExchange(conf.ExchangeKey)
		if err != nil {
			return fail(err)
		}
	}

	var selected []ledger.Line
	err = res.Line(func(record ledger.Line) error {
		if !filter.Match(record) {
			return nil
		}
		line, err := record.Converted(currency, rates)
		if err != nil {
			return err
		}
		selected = append(selected, line)
		return nil
	})
	if err != nil {
		return fail(err)
	}

	out, err := os.Create(c.output)
	if err != nil {
		return fail(err)
	}
	defer out.Close()
	if err := ledger.EncodeLines(out, mode(c.networth), selected); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

func (c *showCmd) filter() (*ledger.Filter, error) {
	filter := &ledger.Filter{Year: c.year, Month: time.Month(c.month)}
	if c.from != "" {
		from, err := date.Parse(c.from)
		if err != nil {
			return nil, err
		}
		filter.From = from
	}
	if c.till != "" {
		till, err := date.Parse(c.till)
		if err != nil {
			return nil, err
		}
		filter.Till = till
	}
	if c.categories != "" {
		filter.Categories = strings.Split(c.categories, ",")
	}
	return filter, nil
}
