package capgain

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

const sampleCSV = `Timestamp,Asset,Type,Units,Total Amount,IRS ID
2023-01-10 12:00:00,BTC,Buy,1.5,30000,Gemi 1
2023-06-10 12:00:00,BTC,Sell,-0.5,12000,Gemi 2
2023-02-01,ETH,Buy,10,15000,Gemi 3
`

func TestImportTransactionsCSV(t *testing.T) {
	ledger, err := ImportTransactionsCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ImportTransactionsCSV() error = %v", err)
	}
	if ledger.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", ledger.Len())
	}

	first := ledger.Transactions()[0]
	if first.Kind != Purchase || first.Asset != "BTC" || first.LotID != "Gemi 1" {
		t.Errorf("first transaction = %+v", first)
	}
	if !first.Units.Equal(Q(1.5)) || !first.Amount.Equal(M(30000, "USD")) {
		t.Errorf("first transaction units/amount = %s / %s", first.Units, first.Amount.StringFixed(2))
	}
	if want := time.Date(2023, time.January, 10, 12, 0, 0, 0, time.UTC); !first.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %s, want %s", first.Timestamp, want)
	}

	// The date-only spelling midnights out, so the ETH buy sorts second.
	if got := ledger.Transactions()[1].LotID; got != "Gemi 3" {
		t.Errorf("second transaction = %q, want Gemi 3", got)
	}
}

func TestImportTransactionsCSV_HeaderIsCaseInsensitive(t *testing.T) {
	csvData := strings.Replace(sampleCSV, "Timestamp,Asset,Type,Units,Total Amount,IRS ID",
		"TIMESTAMP,asset,TYPE,units,TOTAL AMOUNT,irs id", 1)
	if _, err := ImportTransactionsCSV(strings.NewReader(csvData)); err != nil {
		t.Errorf("ImportTransactionsCSV() error = %v", err)
	}
}

func TestImportTransactionsCSV_Errors(t *testing.T) {
	const header = "Timestamp,Asset,Type,Units,Total Amount,IRS ID\n"

	testCases := []struct {
		name    string
		csvData string
		wantIn  string
	}{
		{
			"missing column",
			"Timestamp,Asset,Type,Units,IRS ID\n",
			`missing column "total amount"`,
		},
		{
			"bad units",
			header + "2023-01-10,BTC,Buy,lots,100,Gemi 1\n",
			"row 2",
		},
		{
			"bad timestamp",
			header + "2023-01-10,BTC,Buy,1,100,Gemi 1\nsomeday,BTC,Buy,1,100,Gemi 2\n",
			"row 3",
		},
		{
			"unknown type",
			header + "2023-01-10,BTC,Transfer,1,100,Gemi 1\n",
			"neither Buy nor Sell",
		},
		{
			"sign mismatch",
			header + "2023-01-10,BTC,Sell,1,100,Gemi 1\n",
			"row 2",
		},
		{
			"missing lot id",
			header + "2023-01-10,BTC,Buy,1,100,\n",
			"row 2",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ImportTransactionsCSV(strings.NewReader(tc.csvData))
			if err == nil {
				t.Fatal("ImportTransactionsCSV() expected an error")
			}
			if !strings.Contains(err.Error(), tc.wantIn) {
				t.Errorf("error %q does not mention %q", err, tc.wantIn)
			}
		})
	}
}

func TestExportAssetCSV(t *testing.T) {
	report := mustCalculate(t,
		buy(t0, "BTC", 1, 10000, "Gemi 1"),
		sell(t0.Add(400*24*time.Hour), "BTC", 1, 12000, "Gemi 2"),
	)

	var buf bytes.Buffer
	if err := ExportAssetCSV(&buf, report.Assets[0]); err != nil {
		t.Fatalf("ExportAssetCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 { // header, matched lot, volume row
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if lines[0] != strings.Join(detailHeader, ",") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "Gemi 1") || !strings.Contains(lines[1], "Gemi 2") {
		t.Errorf("detail row lacks lot ids: %q", lines[1])
	}
	if !strings.Contains(lines[1], "2000.00") {
		t.Errorf("detail row lacks the gain: %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "BTC,,,") || !strings.Contains(lines[2], "12000.00") {
		t.Errorf("volume row = %q", lines[2])
	}
}

func TestExportSummaryCSV(t *testing.T) {
	report := mustCalculate(t,
		buy(t0, "BTC", 1, 10000, "Gemi 1"),
		sell(t0.Add(24*time.Hour), "BTC", 1, 12000, "Gemi 2"),
	)

	var buf bytes.Buffer
	if err := ExportSummaryCSV(&buf, report.Years); err != nil {
		t.Fatalf("ExportSummaryCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 { // header, 2023, totals
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Year,STCG,STCL,LTCG,LTCL,Net CG" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2023,2000.00,") {
		t.Errorf("year row = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], TotalsLabel+",") {
		t.Errorf("totals row = %q", lines[2])
	}
}

func TestParseTimestamp(t *testing.T) {
	testCases := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2023-01-10T12:00:00Z", time.Date(2023, 1, 10, 12, 0, 0, 0, time.UTC), false},
		{"2023-01-10 12:00:00", time.Date(2023, 1, 10, 12, 0, 0, 0, time.UTC), false},
		{"2023-01-10", time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC), false},
		{" 2023-01-10 ", time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC), false},
		{"10/01/2023", time.Time{}, true},
		{"", time.Time{}, true},
	}
	for _, tc := range testCases {
		got, err := ParseTimestamp(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseTimestamp(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && !got.Equal(tc.want) {
			t.Errorf("ParseTimestamp(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
