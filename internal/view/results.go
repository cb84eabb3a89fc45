// Package view turns analysis results and submission outcomes into
// descriptions of the page. Nothing here touches HTTP or HTML directly;
// the Renderer and the browser script apply the descriptions.
package view

import (
	"strconv"

	"github.com/bobmcallan/hedge-portal/internal/common"
	"github.com/bobmcallan/hedge-portal/internal/models"
)

// NoResultsText is shown when a result carries no portfolio.
const NoResultsText = "No results available"

// NoPositionsText fills the placeholder row of an empty positions table.
const NoPositionsText = "No positions"

// Notice levels.
const (
	NoticeWarning = "warning"
	NoticeInfo    = "info"
)

// PositionColumns are the positions table headings, in display order.
var PositionColumns = []string{"Ticker", "Shares", "Entry Price", "Current Price", "P&L", "Signal"}

// Notice is a single alert replacing the results body.
type Notice struct {
	Level string
	Text  string
}

// Summary holds the formatted portfolio totals.
type Summary struct {
	Cash       string
	TotalValue string
}

// PositionRow is one formatted table row.
type PositionRow struct {
	Ticker       string
	Shares       string
	EntryPrice   string
	CurrentPrice string
	PnL          string
	PnLClass     string
	Signal       string
	SignalClass  string
}

// Placeholder is a single row spanning Colspan columns.
type Placeholder struct {
	Text    string
	Colspan int
}

// PositionsTable is the positions section. Exactly one of Rows or
// Placeholder is populated.
type PositionsTable struct {
	Columns     []string
	Rows        []PositionRow
	Placeholder *Placeholder
}

// RowCount returns the number of body rows, counting the placeholder.
func (t *PositionsTable) RowCount() int {
	if t == nil {
		return 0
	}
	if t.Placeholder != nil {
		return 1
	}
	return len(t.Rows)
}

// ResultsView describes the results container. A view with a Notice has
// neither Summary nor Positions.
type ResultsView struct {
	Notice    *Notice
	Summary   *Summary
	Positions *PositionsTable
}

// Render builds the results view for result. It never reads past a missing
// portfolio, and applies position defaults for absent optional fields.
func Render(result *models.AnalysisResult) ResultsView {
	if result == nil || result.Portfolio == nil {
		return ResultsView{Notice: &Notice{Level: NoticeWarning, Text: NoResultsText}}
	}

	p := result.Portfolio
	table := &PositionsTable{Columns: PositionColumns}

	if p.Len() == 0 {
		table.Placeholder = &Placeholder{Text: NoPositionsText, Colspan: len(PositionColumns)}
	} else {
		table.Rows = make([]PositionRow, 0, p.Len())
		for pair := p.Positions.Oldest(); pair != nil; pair = pair.Next() {
			table.Rows = append(table.Rows, renderRow(pair.Key, pair.Value))
		}
	}

	return ResultsView{
		Summary: &Summary{
			Cash:       common.FormatMoney(p.Cash),
			TotalValue: common.FormatMoney(p.TotalValue),
		},
		Positions: table,
	}
}

func renderRow(ticker string, pos models.Position) PositionRow {
	pos = pos.WithDefaults()

	pnlClass := "positive"
	if pos.UnrealizedPnLPercent < 0 {
		pnlClass = "negative"
	}

	return PositionRow{
		Ticker:       ticker,
		Shares:       common.FormatNumber(pos.Shares),
		EntryPrice:   price(pos.EntryPrice),
		CurrentPrice: price(pos.CurrentPrice),
		PnL:          common.FormatPercentage(pos.UnrealizedPnLPercent),
		PnLClass:     pnlClass,
		Signal:       pos.Signal,
		SignalClass:  common.SignalClass(pos.Signal),
	}
}

// price formats a per-share price with two decimals and no grouping.
func price(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}
