package renderer

import (
	"time"

	capgain "github.com/franklinshe/cap-gain-fifo"
)

const datetimeFormat = "2006-01-02 15:04:05"

// lotRow is one preformatted detail-table row.
type lotRow struct {
	Asset     string
	Purchased string
	Sold      string
	Units     string
	SalePrice string
	Basis     string
	GainLoss  string
	RemUnits  string
	RemBasis  string
	BuyLot    string
	SellLot   string
}

type assetTable struct {
	Asset  string
	Rows   []lotRow
	Volume lotRow
}

type yearRow struct {
	Year string
	STCG string
	STCL string
	LTCG string
	LTCL string
	Net  string
}

type reportView struct {
	Assets  []assetTable
	Margins []lotRow
	Years   []yearRow
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(datetimeFormat)
}

func newLotRow(lot capgain.MatchedLot) lotRow {
	if lot.Carryover {
		return lotRow{
			Asset:     lot.Asset,
			Purchased: fmtTime(lot.PurchaseDate),
			Sold:      "-",
			Units:     "-",
			SalePrice: "-",
			Basis:     "-",
			GainLoss:  "-",
			RemUnits:  lot.RemainderUnits.StringFixed(8),
			RemBasis:  lot.RemainderBasis.String(),
			BuyLot:    lot.BuyLotID,
			SellLot:   "-",
		}
	}
	return lotRow{
		Asset:     lot.Asset,
		Purchased: fmtTime(lot.PurchaseDate),
		Sold:      fmtTime(lot.SaleDate),
		Units:     lot.Units.StringFixed(8),
		SalePrice: lot.SalePrice.String(),
		Basis:     lot.Basis.String(),
		GainLoss:  lot.GainLoss.SignedString(),
		RemUnits:  "-",
		RemBasis:  "-",
		BuyLot:    lot.BuyLotID,
		SellLot:   lot.SellLotID,
	}
}

func newAssetTable(res *capgain.AssetResult) assetTable {
	table := assetTable{Asset: res.Asset}
	for _, lot := range res.Lots {
		table.Rows = append(table.Rows, newLotRow(lot))
	}
	v := res.Volume
	table.Volume = lotRow{
		Purchased: "**Total**",
		Sold:      "",
		Units:     "",
		SalePrice: v.SalePrice.String(),
		Basis:     v.Basis.String(),
		GainLoss:  v.GainLoss.SignedString(),
		RemUnits:  v.RemainderUnits.StringFixed(8),
		RemBasis:  v.RemainderBasis.String(),
	}
	return table
}

func newYearRows(years *capgain.YearSummary) []yearRow {
	var rows []yearRow
	for _, b := range years.Rows() {
		rows = append(rows, yearRow{
			Year: b.Year,
			STCG: b.ShortTermGain.String(),
			STCL: b.ShortTermLoss.String(),
			LTCG: b.LongTermGain.String(),
			LTCL: b.LongTermLoss.String(),
			Net:  b.Net.String(),
		})
	}
	return rows
}

// ReportMarkdown renders the full report: one detail table per asset, the
// margin table, and the year summary.
func ReportMarkdown(r *capgain.Report) string {
	view := reportView{Years: newYearRows(r.Years)}
	for _, res := range r.Assets {
		view.Assets = append(view.Assets, newAssetTable(res))
	}
	for _, lot := range r.Margins {
		view.Margins = append(view.Margins, newLotRow(lot))
	}

	partials := map[string]string{
		"asset_table":  "asset_table.md",
		"margin_table": "margin_table.md",
		"year_summary": "year_summary.md",
	}
	return renderTemplate("report", "report.md", partials, view)
}

// AssetMarkdown renders a single asset's detail table.
func AssetMarkdown(res *capgain.AssetResult) string {
	return renderTemplate("asset_table", "asset_table.md", nil, newAssetTable(res))
}

// MarginMarkdown renders the cross-asset margin table.
func MarginMarkdown(lots []capgain.MatchedLot) string {
	var rows []lotRow
	for _, lot := range lots {
		rows = append(rows, newLotRow(lot))
	}
	return renderTemplate("margin_table", "margin_table.md", nil, rows)
}

// SummaryMarkdown renders the year summary table.
func SummaryMarkdown(years *capgain.YearSummary) string {
	return renderTemplate("year_summary", "year_summary.md", nil, newYearRows(years))
}
