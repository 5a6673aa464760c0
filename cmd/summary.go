package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	capgain "github.com/franklinshe/cap-gain-fifo"
	"github.com/franklinshe/cap-gain-fifo/renderer"
	"github.com/google/subcommands"
)

type summaryCmd struct {
	ledgerFile string
	plain      bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "per-year short/long-term gain and loss summary" }
func (*summaryCmd) Usage() string {
	return `cgc summary [-l <ledger>] [-plain]

  Prints the year-by-year summary of realized short/long-term capital gains
  and losses, with a grand total row.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ledgerFile, "l", "", "Ledger file to report on (JSONL).")
	f.BoolVar(&c.plain, "plain", false, "Print raw markdown instead of rendering for the terminal.")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := decodeLedgerFile(c.ledgerFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	report, err := capgain.Calculate(ledger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error matching lots: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.SummaryMarkdown(report.Years), c.plain)
	return subcommands.ExitSuccess
}
