package capgain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TxKind is a typed string identifying the side of a ledger entry.
type TxKind string

const (
	// Purchase acquires units of an asset; its units are positive.
	Purchase TxKind = "purchase"
	// Sale disposes units of an asset; its units are negative.
	Sale TxKind = "sale"
)

// DatetimeFormat is the format used to represent transaction timestamps as
// strings in the ledger file.
const DatetimeFormat = time.RFC3339

// Transaction is a single validated ledger entry.
//
// Units are signed: positive for a purchase, negative for a sale, and never
// zero while the transaction sits in a matching queue. Amount is the total
// consideration of the trade (always non-negative). LotID is an opaque
// provenance identifier carried through to the matched-lot output.
type Transaction struct {
	Timestamp time.Time
	Asset     string
	Kind      TxKind
	Units     Quantity
	Amount    Money
	LotID     string
}

// NewPurchase creates a purchase transaction; units must be positive.
func NewPurchase(timestamp time.Time, asset string, units Quantity, amount Money, lotID string) Transaction {
	return Transaction{Timestamp: timestamp, Asset: asset, Kind: Purchase, Units: units, Amount: amount, LotID: lotID}
}

// NewSale creates a sale transaction. Units may be given as a positive
// magnitude; they are stored negated, matching the ledger convention.
func NewSale(timestamp time.Time, asset string, units Quantity, amount Money, lotID string) Transaction {
	if units.IsPositive() {
		units = units.Neg()
	}
	return Transaction{Timestamp: timestamp, Asset: asset, Kind: Sale, Units: units, Amount: amount, LotID: lotID}
}

// Validate checks the input contract the matching core relies on: required
// fields present, a positive total amount, a timestamp not in the future,
// and a units sign consistent with the kind. The matcher itself performs no
// re-validation.
func (t Transaction) Validate(now time.Time) error {
	if t.Asset == "" {
		return errors.New("asset is empty")
	}
	if t.LotID == "" {
		return errors.New("lot id is empty")
	}
	if t.Timestamp.IsZero() {
		return errors.New("timestamp is empty")
	}
	if t.Timestamp.After(now) {
		return fmt.Errorf("timestamp %s is in the future", t.Timestamp.Format(DatetimeFormat))
	}
	if !t.Amount.IsPositive() {
		return errors.New("total amount is empty or negative")
	}
	switch t.Kind {
	case Purchase:
		if !t.Units.IsPositive() {
			return errors.New("units must be positive on a purchase")
		}
	case Sale:
		if !t.Units.IsNegative() {
			return errors.New("units must be negative on a sale")
		}
	default:
		return fmt.Errorf("kind is empty or neither %q nor %q", Purchase, Sale)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Transaction,
// producing the canonical field order of the ledger file.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", t.Kind)
	w.Append("timestamp", t.Timestamp.Format(DatetimeFormat))
	w.Append("asset", t.Asset)
	w.Append("units", t.Units)
	w.Append("amount", t.Amount.value)
	w.Optional("currency", t.Amount.cur)
	w.Append("lot", t.LotID)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Transaction.
// It handles the custom structure where amount and currency are separate fields.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		Kind      TxKind          `json:"kind"`
		Timestamp string          `json:"timestamp"`
		Asset     string          `json:"asset"`
		Units     Quantity        `json:"units"`
		Amount    decimal.Decimal `json:"amount"`
		Currency  string          `json:"currency"`
		Lot       string          `json:"lot"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}

	ts, err := time.Parse(DatetimeFormat, temp.Timestamp)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", temp.Timestamp, err)
	}
	if temp.Currency == "" {
		temp.Currency = DefaultCurrency
	}

	*t = Transaction{
		Timestamp: ts,
		Asset:     temp.Asset,
		Kind:      temp.Kind,
		Units:     temp.Units,
		Amount:    M(temp.Amount, temp.Currency),
		LotID:     temp.Lot,
	}
	return nil
}

// DefaultCurrency is assumed when a ledger entry carries no currency.
const DefaultCurrency = "USD"
