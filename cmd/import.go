package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	capgain "github.com/franklinshe/cap-gain-fifo"
	"github.com/google/subcommands"
)

type importCmd struct {
	csvFile    string
	ledgerFile string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import a CSV transaction log into the ledger" }
func (*importCmd) Usage() string {
	return `cgc import -csv <file> [-l <ledger>]

  Validates a CSV transaction log (columns Timestamp, Asset, Type, Units,
  Total Amount, IRS ID) and writes it as a canonical JSONL ledger.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.csvFile, "csv", "", "CSV transaction log to import.")
	f.StringVar(&c.ledgerFile, "l", "", "Ledger file to write (JSONL).")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.csvFile == "" {
		fmt.Fprintln(os.Stderr, "the -csv flag is required")
		return subcommands.ExitUsageError
	}

	logger.Info().Str("file", c.csvFile).Msg("validating transaction log")
	in, err := os.Open(c.csvFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", c.csvFile, err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	ledger, err := capgain.ImportTransactionsCSV(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation of %q failed: %v\n", c.csvFile, err)
		return subcommands.ExitFailure
	}

	if err := encodeLedgerFile(c.ledgerFile, ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Imported %d transactions.\n", ledger.Len())
	return subcommands.ExitSuccess
}
