package capgain

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

const sampleJSONL = `{"kind":"purchase","timestamp":"2023-01-10T12:00:00Z","asset":"BTC","units":1.5,"amount":30000,"currency":"USD","lot":"Gemi 1"}
{"kind":"sale","timestamp":"2023-06-10T12:00:00Z","asset":"BTC","units":-0.5,"amount":12000,"currency":"USD","lot":"Gemi 2"}
`

func TestDecodeLedger(t *testing.T) {
	ledger, err := DecodeLedger(strings.NewReader(sampleJSONL))
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}
	if ledger.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ledger.Len())
	}

	tx := ledger.Transactions()[0]
	if tx.Kind != Purchase || tx.Asset != "BTC" || tx.LotID != "Gemi 1" {
		t.Errorf("decoded transaction = %+v", tx)
	}
	if !tx.Units.Equal(Q(1.5)) {
		t.Errorf("Units = %s, want 1.5", tx.Units)
	}
	if !tx.Amount.Equal(M(30000, "USD")) {
		t.Errorf("Amount = %s, want 30000 USD", tx.Amount.StringFixed(2))
	}
	if want := time.Date(2023, time.January, 10, 12, 0, 0, 0, time.UTC); !tx.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %s, want %s", tx.Timestamp, want)
	}
}

func TestDecodeLedger_SkipsEmptyLinesAndSorts(t *testing.T) {
	shuffled := `{"kind":"sale","timestamp":"2023-06-10T12:00:00Z","asset":"BTC","units":-0.5,"amount":12000,"lot":"Gemi 2"}

{"kind":"purchase","timestamp":"2023-01-10T12:00:00Z","asset":"BTC","units":1.5,"amount":30000,"lot":"Gemi 1"}
`
	ledger, err := DecodeLedger(strings.NewReader(shuffled))
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}
	if got := ledger.Transactions()[0].LotID; got != "Gemi 1" {
		t.Errorf("first transaction = %q, want the chronologically earliest", got)
	}
	// A missing currency falls back to the default.
	if got := ledger.Transactions()[0].Amount.Currency(); got != DefaultCurrency {
		t.Errorf("Currency = %q, want %q", got, DefaultCurrency)
	}
}

func TestDecodeLedger_RejectsInvalidEntries(t *testing.T) {
	testCases := []struct {
		name string
		line string
	}{
		{"garbage", `not json`},
		{"bad timestamp", `{"kind":"purchase","timestamp":"yesterday","asset":"BTC","units":1,"amount":10,"lot":"L1"}`},
		{"future timestamp", `{"kind":"purchase","timestamp":"2999-01-01T00:00:00Z","asset":"BTC","units":1,"amount":10,"lot":"L1"}`},
		{"sign mismatch", `{"kind":"sale","timestamp":"2023-01-10T12:00:00Z","asset":"BTC","units":1,"amount":10,"lot":"L1"}`},
		{"zero amount", `{"kind":"purchase","timestamp":"2023-01-10T12:00:00Z","asset":"BTC","units":1,"amount":0,"lot":"L1"}`},
		{"missing lot", `{"kind":"purchase","timestamp":"2023-01-10T12:00:00Z","asset":"BTC","units":1,"amount":10}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeLedger(strings.NewReader(tc.line + "\n")); err == nil {
				t.Error("DecodeLedger() expected an error")
			}
		})
	}
}

func TestEncodeLedger_Canonical(t *testing.T) {
	ledger, err := DecodeLedger(strings.NewReader(sampleJSONL))
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, ledger); err != nil {
		t.Fatalf("EncodeLedger() error = %v", err)
	}
	if buf.String() != sampleJSONL {
		t.Errorf("canonical encoding differs:\n got: %q\nwant: %q", buf.String(), sampleJSONL)
	}
}

func TestEncodeTransaction_RoundTrip(t *testing.T) {
	tx := NewSale(time.Date(2023, time.June, 10, 12, 0, 0, 0, time.UTC), "ETH", Q(2.25), M(4000.50, "USD"), "Gemi 9")

	var buf bytes.Buffer
	if err := EncodeTransaction(&buf, tx); err != nil {
		t.Fatalf("EncodeTransaction() error = %v", err)
	}

	ledger, err := DecodeLedger(&buf)
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}
	got := ledger.Transactions()[0]
	if got.Kind != Sale || !got.Units.Equal(Q(-2.25)) || !got.Amount.Equal(tx.Amount) || got.LotID != "Gemi 9" {
		t.Errorf("round-tripped transaction = %+v, want %+v", got, tx)
	}
}
