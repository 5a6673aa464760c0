package capgain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Ledger represents a list of transactions.
//
// In a Ledger transactions are always in chronological order, ties broken by
// lot id, matching the order the external validator guarantees.
type Ledger struct {
	transactions []Transaction
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{transactions: make([]Transaction, 0)}
}

// Append adds transactions to the ledger and restores chronological order.
func (l *Ledger) Append(txs ...Transaction) {
	l.transactions = append(l.transactions, txs...)
	l.stableSort()
}

// Len returns the number of transactions in the ledger.
func (l *Ledger) Len() int { return len(l.transactions) }

// Transactions returns the ledger entries in (timestamp, lot id) order.
func (l *Ledger) Transactions() []Transaction { return l.transactions }

// Assets returns the asset identifiers in order of first appearance.
func (l *Ledger) Assets() []string {
	seen := make(map[string]bool)
	var assets []string
	for _, tx := range l.transactions {
		if !seen[tx.Asset] {
			seen[tx.Asset] = true
			assets = append(assets, tx.Asset)
		}
	}
	return assets
}

// Validate checks every entry against the input contract (see
// Transaction.Validate). The first failure is reported with its position.
func (l *Ledger) Validate(now time.Time) error {
	for i, tx := range l.transactions {
		if err := tx.Validate(now); err != nil {
			return fmt.Errorf("transaction %d (lot %q): %w", i+1, tx.LotID, err)
		}
	}
	return nil
}

// stableSort sorts by timestamp, then lot id. The sort is stable so entries
// sharing both keep their insertion order.
func (l *Ledger) stableSort() {
	slices.SortStableFunc(l.transactions, func(a, b Transaction) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return strings.Compare(a.LotID, b.LotID)
	})
}
