// Package cmd implements the CLI application to compute FIFO capital gains.
package cmd

import (
	"fmt"
	"os"

	capgain "github.com/franklinshe/cap-gain-fifo"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Commands lists the subcommands a main package registers.
var Commands = []subcommands.Command{
	&calcCmd{},
	&summaryCmd{},
	&importCmd{},
	&fmtCmd{},
	&buyCmd{},
	&sellCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to
// use a global logger. Progress goes to stderr so reports can be piped.
var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"}).
	With().Timestamp().Logger()

// defaultLedgerFile is the ledger a command reads when -l is not given.
const defaultLedgerFile = "transactions.jsonl"

// decodeLedgerFile loads and validates the ledger from a JSONL file.
func decodeLedgerFile(path string) (*capgain.Ledger, error) {
	if path == "" {
		path = defaultLedgerFile
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open ledger %q: %w", path, err)
	}
	defer f.Close()

	ledger, err := capgain.DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("cannot decode ledger %q: %w", path, err)
	}
	return ledger, nil
}

// encodeLedgerFile writes the ledger back in canonical JSONL form.
func encodeLedgerFile(path string, ledger *capgain.Ledger) error {
	if path == "" {
		path = defaultLedgerFile
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("cannot open ledger %q for writing: %w", path, err)
	}
	defer f.Close()

	return capgain.EncodeLedger(f, ledger)
}

// appendTransactionFile appends a single transaction to the ledger file.
func appendTransactionFile(path string, tx capgain.Transaction) error {
	if path == "" {
		path = defaultLedgerFile
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot open ledger %q: %w", path, err)
	}
	defer f.Close()

	return capgain.EncodeTransaction(f, tx)
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// document when rendering fails or -plain is requested.
func printMarkdown(md string, plain bool) {
	if !plain {
		if out, err := glamour.Render(md, "auto"); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}
