package capgain

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// this file contains functions to handle the spreadsheet import/export
// format: the transaction log comes in as CSV with the original column
// layout, and the result tables go out as CSV, one file per table.

// csvTimestampLayouts are the accepted timestamp spellings, most specific
// first.
var csvTimestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// csvDatetime is the layout used when writing timestamps to result tables.
const csvDatetime = "2006-01-02 15:04:05"

// ParseTimestamp parses a timestamp in any of the accepted spellings.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range csvTimestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ImportTransactionsCSV reads a transaction log in the spreadsheet layout
// (columns Timestamp, Asset, Type, Units, Total Amount, IRS ID), validates
// every row, and returns a sorted Ledger. Errors are reported with the
// spreadsheet row number (the header is row 1).
func ImportTransactionsCSV(r io.Reader) (*Ledger, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read header: %w", err)
	}
	col := make(map[string]int)
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"timestamp", "asset", "type", "units", "total amount", "irs id"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	ledger := NewLedger()
	now := time.Now()
	row := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		units, err := decimal.NewFromString(strings.TrimSpace(record[col["units"]]))
		if err != nil {
			return nil, fmt.Errorf("row %d: units is empty or invalid: %w", row, err)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(record[col["total amount"]]))
		if err != nil {
			return nil, fmt.Errorf("row %d: total amount is empty or invalid: %w", row, err)
		}
		ts, err := ParseTimestamp(record[col["timestamp"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		var kind TxKind
		switch strings.ToLower(strings.TrimSpace(record[col["type"]])) {
		case "buy", "purchase":
			kind = Purchase
		case "sell", "sale":
			kind = Sale
		default:
			return nil, fmt.Errorf("row %d: type is empty or neither Buy nor Sell", row)
		}

		tx := Transaction{
			Timestamp: ts,
			Asset:     strings.TrimSpace(record[col["asset"]]),
			Kind:      kind,
			Units:     Q(units),
			Amount:    M(amount, DefaultCurrency),
			LotID:     strings.TrimSpace(record[col["irs id"]]),
		}
		if err := tx.Validate(now); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		ledger.transactions = append(ledger.transactions, tx)
	}

	ledger.stableSort()
	return ledger, nil
}

// detailHeader is the column layout shared by the per-asset and margin
// tables, inherited from the original report.
var detailHeader = []string{
	"Asset", "Date Purchased", "Date Sold", "Units", "Sale Price", "Basis",
	"Gain / Loss", "Remainder Units", "Remainder Basis", "Lot ID Buy", "Lot ID Sell",
}

func detailRecord(lot MatchedLot) []string {
	if lot.Carryover {
		return []string{
			lot.Asset,
			lot.PurchaseDate.Format(csvDatetime),
			"-", "-", "-", "-", "-",
			lot.RemainderUnits.StringFixed(8),
			lot.RemainderBasis.StringFixed(2),
			lot.BuyLotID,
			"-",
		}
	}
	return []string{
		lot.Asset,
		lot.PurchaseDate.Format(csvDatetime),
		lot.SaleDate.Format(csvDatetime),
		lot.Units.StringFixed(8),
		lot.SalePrice.StringFixed(2),
		lot.Basis.StringFixed(2),
		lot.GainLoss.StringFixed(2),
		"-", "-",
		lot.BuyLotID,
		lot.SellLotID,
	}
}

// ExportAssetCSV writes one asset's detail table, closed by its volume
// summary row.
func ExportAssetCSV(w io.Writer, res *AssetResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(detailHeader); err != nil {
		return err
	}
	for _, lot := range res.Lots {
		if err := cw.Write(detailRecord(lot)); err != nil {
			return err
		}
	}
	v := res.Volume
	if err := cw.Write([]string{
		v.Asset, "", "", "",
		v.SalePrice.StringFixed(2),
		v.Basis.StringFixed(2),
		v.GainLoss.StringFixed(2),
		v.RemainderUnits.StringFixed(8),
		v.RemainderBasis.StringFixed(2),
		"", "",
	}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// ExportMarginCSV writes the cross-asset margin table.
func ExportMarginCSV(w io.Writer, lots []MatchedLot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(detailHeader); err != nil {
		return err
	}
	for _, lot := range lots {
		if err := cw.Write(detailRecord(lot)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportSummaryCSV writes the year summary table, totals row included.
func ExportSummaryCSV(w io.Writer, years *YearSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Year", "STCG", "STCL", "LTCG", "LTCL", "Net CG"}); err != nil {
		return err
	}
	for _, row := range years.Rows() {
		if err := cw.Write([]string{
			row.Year,
			row.ShortTermGain.StringFixed(2),
			row.ShortTermLoss.StringFixed(2),
			row.LongTermGain.StringFixed(2),
			row.LongTermLoss.StringFixed(2),
			row.Net.StringFixed(2),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
