package twr

import (
	"sort"

	"github.com/averauld/twr/date"
)

// EquitySnapshot is one account's total value at the close of a calendar
// day, as reported by the historical feed. PnL, PnLPct and BaseValue are
// informational pass-through fields; the engine never recomputes them.
type EquitySnapshot struct {
	Date      date.Date
	Equity    float64
	PnL       float64
	PnLPct    float64
	BaseValue float64
}

// EquitySeries is a chronological series of snapshots for one account or
// for a synthetic aggregate.
type EquitySeries []EquitySnapshot

// Normalize returns the series sorted ascending with duplicate days
// collapsed, the last value winning. The receiver is not modified.
func (s EquitySeries) Normalize() EquitySeries {
	seen := make(map[date.Date]int, len(s))
	out := make(EquitySeries, 0, len(s))
	for _, snap := range s {
		if i, ok := seen[snap.Date]; ok {
			out[i] = snap
			continue
		}
		seen[snap.Date] = len(out)
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Last returns the final snapshot of the series.
func (s EquitySeries) Last() (EquitySnapshot, bool) {
	if len(s) == 0 {
		return EquitySnapshot{}, false
	}
	return s[len(s)-1], true
}

// TWRPoint is one day of the computed performance series.
type TWRPoint struct {
	Date   date.Date
	Equity float64
	PnL    float64 // pass-through from the feed
	PnLPct float64 // pass-through from the feed

	Deposits    float64 // aggregated magnitude attributed to this point's interval
	Withdrawals float64
	NetCashFlow float64 // Deposits - Withdrawals

	DailyReturn   float64 // cash-flow-adjusted fractional return of the day
	CumulativeTWR float64 // compounded return since series start, 0.0 = unchanged
}

// BuildSeries walks the equity series in order and produces one TWRPoint
// per day, compounding the cash-flow-adjusted daily returns into a
// cumulative factor. The first point of any series carries a cumulative
// TWR of exactly 0.
//
// A zero-equity day before the series has started is treated as "not yet
// started": it contributes no compounding and resets the cumulative
// factor, matching the behavior for brand-new or fully liquidated
// accounts. Negative equities pass through arithmetically.
//
// The series must be normalized (sorted ascending, unique days); flows may
// be nil when the account had no external movements.
func BuildSeries(equities EquitySeries, flows *FlowLedger) []TWRPoint {
	if len(equities) == 0 {
		return nil
	}

	points := make([]TWRPoint, 0, len(equities))
	cumulativeFactor := 1.0
	previousEquity := 0.0
	previousDay := 0
	started := false

	for i, snap := range equities {
		day := snap.Date.DayNumber()

		var flow DayFlow
		if i > 0 {
			flow = flows.Between(previousDay, day)
		}

		var dailyReturn float64
		switch {
		case i == 0 || previousEquity == 0:
			// No prior basis for a return. A nonzero equity starts (or
			// restarts) the compounding from here.
			dailyReturn = 0
			if snap.Equity > 0 {
				started = true
				cumulativeFactor = 1.0
			}
		case started:
			dailyReturn = DailyReturn(previousEquity, snap.Equity, flow.Net)
			cumulativeFactor *= 1 + dailyReturn
		}

		points = append(points, TWRPoint{
			Date:          snap.Date,
			Equity:        snap.Equity,
			PnL:           snap.PnL,
			PnLPct:        snap.PnLPct,
			Deposits:      flow.Deposits,
			Withdrawals:   flow.Withdrawals,
			NetCashFlow:   flow.Net,
			DailyReturn:   dailyReturn,
			CumulativeTWR: cumulativeFactor - 1,
		})

		previousEquity = snap.Equity
		previousDay = day
	}
	return points
}
