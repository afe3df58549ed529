package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/odraude/ledger"
)

type bookCmd struct {
	networth   bool
	attributes multiFlag
}

func (*bookCmd) Name() string     { return "book" }
func (*bookCmd) Synopsis() string { return "append one record to a dataset" }
func (*bookCmd) Usage() string {
	return `lgr book [-networth] [-attribute <value> ...]

  Appends one record. Attribute values follow the file's column order; when
  none are given, each column is prompted for on standard input.
`
}

func (c *bookCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.networth, "networth", false, "Book into the networth file instead of the ledger.")
	f.Var(&c.attributes, "attribute", "Column value, repeatable, in header order.")
}

func (c *bookCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, res, err := openResource(c.networth)
	if err != nil {
		return fail(err)
	}
	defer res.Close()

	values := []string(c.attributes)
	if len(values) == 0 {
		values, err = collectAttributes(res.Headers())
		if err != nil {
			return fail(err)
		}
	}

	line, err := ledger.ParseRecord(mode(c.networth), values)
	if err != nil {
		return fail(err)
	}
	if err := res.Book([]ledger.Line{line}); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

// collectAttributes prompts for one value per column.
func collectAttributes(headers []string) ([]string, error) {
	reader := bufio.NewReader(os.Stdin)
	values := make([]string, 0, len(headers))
	for _, name := range headers {
		fmt.Printf("%s: ", name)
		value, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		values = append(values, strings.TrimRight(value, "\n"))
	}
	return values, nil
}

// multiFlag collects repeated occurrences of a string flag.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(value string) error {
	*m = append(*m, value)
	return nil
}
