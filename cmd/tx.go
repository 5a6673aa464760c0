package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	capgain "github.com/franklinshe/cap-gain-fifo"
	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// txFlags are the fields shared by the buy and sell subcommands.
type txFlags struct {
	ledgerFile string
	asset      string
	units      string
	amount     string
	timestamp  string
	lotID      string
}

func (c *txFlags) setFlags(f *flag.FlagSet) {
	f.StringVar(&c.ledgerFile, "l", "", "Ledger file to append to (JSONL).")
	f.StringVar(&c.asset, "asset", "", "Asset identifier (e.g. BTC).")
	f.StringVar(&c.units, "units", "", "Number of units traded.")
	f.StringVar(&c.amount, "amount", "", "Total amount of the trade.")
	f.StringVar(&c.timestamp, "time", "", "Timestamp of the trade (defaults to now).")
	f.StringVar(&c.lotID, "lot", "", "Lot identifier (defaults to a generated id).")
}

// transaction builds the validated transaction described by the flags.
func (c *txFlags) transaction(kind capgain.TxKind) (capgain.Transaction, error) {
	var zero capgain.Transaction

	units, err := decimal.NewFromString(c.units)
	if err != nil {
		return zero, fmt.Errorf("invalid -units %q: %w", c.units, err)
	}
	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		return zero, fmt.Errorf("invalid -amount %q: %w", c.amount, err)
	}

	timestamp := time.Now()
	if c.timestamp != "" {
		timestamp, err = capgain.ParseTimestamp(c.timestamp)
		if err != nil {
			return zero, fmt.Errorf("invalid -time: %w", err)
		}
	}

	lotID := c.lotID
	if lotID == "" {
		lotID = uuid.NewString()
	}

	var tx capgain.Transaction
	if kind == capgain.Purchase {
		tx = capgain.NewPurchase(timestamp, c.asset, capgain.Q(units), capgain.M(amount, capgain.DefaultCurrency), lotID)
	} else {
		tx = capgain.NewSale(timestamp, c.asset, capgain.Q(units), capgain.M(amount, capgain.DefaultCurrency), lotID)
	}
	if err := tx.Validate(time.Now()); err != nil {
		return zero, err
	}
	return tx, nil
}

func (c *txFlags) execute(kind capgain.TxKind) subcommands.ExitStatus {
	tx, err := c.transaction(kind)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	if err := appendTransactionFile(c.ledgerFile, tx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Recorded %s of %s %s (lot %s).\n", tx.Kind, tx.Units.Abs(), tx.Asset, tx.LotID)
	return subcommands.ExitSuccess
}

type buyCmd struct{ txFlags }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a purchase in the ledger" }
func (*buyCmd) Usage() string {
	return `cgc buy -asset <id> -units <n> -amount <total> [-time <ts>] [-lot <id>] [-l <ledger>]

  Appends a purchase transaction to the ledger.
`
}
func (c *buyCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }
func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.execute(capgain.Purchase)
}

type sellCmd struct{ txFlags }

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a sale in the ledger" }
func (*sellCmd) Usage() string {
	return `cgc sell -asset <id> -units <n> -amount <total> [-time <ts>] [-lot <id>] [-l <ledger>]

  Appends a sale transaction to the ledger. Units may be given as a positive
  magnitude; they are stored negated.
`
}
func (c *sellCmd) SetFlags(f *flag.FlagSet) { c.setFlags(f) }
func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.execute(capgain.Sale)
}
