// Package renderer turns performance reports into markdown documents for
// terminal display.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/averauld/twr"
	md "github.com/nao1215/markdown"
)

// SummaryMarkdown renders the window summary of a performance report: the
// window figures and a per-day history table.
func SummaryMarkdown(r *twr.PerformanceReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Performance for %s", r.Account))

	if r.IsEmpty() {
		doc.PlainText("No data points in the selected window.")
		return doc.String()
	}

	endLabel := "End Equity"
	if r.Live {
		endLabel = "End Equity (live)"
	}
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{
			md.Bold("Time-Weighted Return"),
			md.Bold(r.CumulativeTWR().SignedString()),
		},
		Rows: [][]string{
			{"Start Equity", r.StartEquity().String()},
			{endLabel, r.EndEquity().String()},
			{"Net External Flow", r.NetExternalFlow().SignedString()},
		},
	})

	return doc.String()
}

// HistoryMarkdown renders the full daily series of a performance report.
func HistoryMarkdown(r *twr.PerformanceReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("History for %s", r.Account))

	if r.IsEmpty() {
		doc.PlainText("No data points in the selected window.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "Equity", "Net Flow", "Daily Return", "Cumulative TWR"},
		Rows:   [][]string{},
	}
	last := r.Points[len(r.Points)-1].Date
	for _, p := range r.Points {
		day := p.Date.String()
		if r.Live && p.Date == last {
			day += " (live)"
		}
		table.Rows = append(table.Rows, []string{
			day,
			twr.M(p.Equity, r.Currency).String(),
			twr.M(p.NetCashFlow, r.Currency).SignedString(),
			twr.FractionAsPercent(p.DailyReturn).SignedString(),
			twr.FractionAsPercent(p.CumulativeTWR).SignedString(),
		})
	}
	doc.Table(table)

	return doc.String()
}

// AccountsMarkdown renders the account list with first-trade dates.
func AccountsMarkdown(accounts []twr.Account) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Accounts")

	if len(accounts) == 0 {
		doc.PlainText("No accounts.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
		},
		Header: []string{"ID", "Name", "Currency", "First Trade"},
		Rows:   [][]string{},
	}
	for _, a := range accounts {
		first := ""
		if !a.FirstTrade.IsZero() {
			first = a.FirstTrade.String()
		}
		table.Rows = append(table.Rows, []string{a.ID, a.Name, a.Currency, first})
	}
	doc.Table(table)

	return doc.String()
}
