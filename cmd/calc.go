package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	capgain "github.com/franklinshe/cap-gain-fifo"
	"github.com/franklinshe/cap-gain-fifo/renderer"
	"github.com/google/subcommands"
)

// calcCmd holds the flags for the 'calc' subcommand.
type calcCmd struct {
	ledgerFile string
	csvFile    string
	outDir     string
	plain      bool
	workers    int
}

func (*calcCmd) Name() string     { return "calc" }
func (*calcCmd) Synopsis() string { return "FIFO matching of the ledger and the full gains report" }
func (*calcCmd) Usage() string {
	return `cgc calc [-l <ledger>] [-csv <file>] [-o <dir>] [-workers <n>] [-plain]

  Matches every sale against the oldest purchases of the same asset and
  prints the per-asset detail tables, the margin table, and the year summary.
`
}

func (c *calcCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ledgerFile, "l", "", "Ledger file to report on (JSONL).")
	f.StringVar(&c.csvFile, "csv", "", "Read the transaction log from this CSV file instead of the ledger.")
	f.StringVar(&c.outDir, "o", "", "Also write the result tables as CSV files into this directory.")
	f.BoolVar(&c.plain, "plain", false, "Print raw markdown instead of rendering for the terminal.")
	f.IntVar(&c.workers, "workers", 0, "Match assets concurrently on this many workers (0 = sequential).")
}

func (c *calcCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := c.loadLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	logger.Info().Int("transactions", ledger.Len()).Msg("running FIFO matching algorithm")
	report, err := c.calculate(ledger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error matching lots: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.outDir != "" {
		if err := writeReportCSV(c.outDir, report); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing CSV tables: %v\n", err)
			return subcommands.ExitFailure
		}
		logger.Info().Str("dir", c.outDir).Msg("wrote CSV tables")
	}

	printMarkdown(renderer.ReportMarkdown(report), c.plain)
	return subcommands.ExitSuccess
}

func (c *calcCmd) loadLedger() (*capgain.Ledger, error) {
	if c.csvFile == "" {
		logger.Info().Str("file", firstNonEmpty(c.ledgerFile, defaultLedgerFile)).Msg("reading ledger")
		return decodeLedgerFile(c.ledgerFile)
	}

	logger.Info().Str("file", c.csvFile).Msg("reading transaction log")
	f, err := os.Open(c.csvFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open transaction log %q: %w", c.csvFile, err)
	}
	defer f.Close()
	return capgain.ImportTransactionsCSV(f)
}

func (c *calcCmd) calculate(ledger *capgain.Ledger) (*capgain.Report, error) {
	if c.workers > 0 {
		return capgain.CalculateConcurrent(ledger, c.workers)
	}
	return capgain.Calculate(ledger)
}

// writeReportCSV writes one CSV file per result table: <asset>_fifo.csv for
// each asset, margin.csv, and summary.csv.
func writeReportCSV(dir string, report *capgain.Report) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	write := func(name string, fill func(f *os.File) error) error {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		defer f.Close()
		return fill(f)
	}

	for _, res := range report.Assets {
		name := strings.ToLower(res.Asset) + "_fifo.csv"
		if err := write(name, func(f *os.File) error {
			return capgain.ExportAssetCSV(f, res)
		}); err != nil {
			return err
		}
	}
	if err := write("margin.csv", func(f *os.File) error {
		return capgain.ExportMarginCSV(f, report.Margins)
	}); err != nil {
		return err
	}
	return write("summary.csv", func(f *os.File) error {
		return capgain.ExportSummaryCSV(f, report.Years)
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
