package twr

import (
	"sync"

	"github.com/averauld/twr/date"
)

// AccountInput is one constituent account of a "Total Accounts" aggregate:
// its equity history, its cash flows, and the day of its first trade.
type AccountInput struct {
	AccountID  string
	FirstTrade date.Date
	Equities   EquitySeries
	Flows      *FlowLedger
}

// AggregateAccounts combines several accounts' equity and cash-flow data
// into one synthetic series, ready to feed to BuildSeries unchanged.
//
// The aggregate starts no earlier than the latest of the accounts'
// first-trade dates, so that every constituent exists over the whole
// aggregate history. For each calendar day present in the union of all
// accounts' days, the aggregate equity is the sum of the equities of the
// accounts that have a snapshot that day; an account with no snapshot is
// excluded from that day's sum, not treated as zero. Flows are summed
// across accounts day by day.
func AggregateAccounts(accounts []AccountInput) (EquitySeries, *FlowLedger) {
	if len(accounts) == 0 {
		return nil, AggregateCashFlows(nil)
	}

	// The synthetic series begins at the latest first-trade date; an
	// account without one falls back to its earliest snapshot.
	var start date.Date
	for _, a := range accounts {
		first := a.FirstTrade
		if first.IsZero() && len(a.Equities) > 0 {
			first = a.Equities.Normalize()[0].Date
		}
		if first.After(start) {
			start = first
		}
	}

	histories := make([]*date.History[float64], 0, len(accounts))
	pnls := make([]*date.History[float64], 0, len(accounts))
	ledgers := make([]*FlowLedger, 0, len(accounts))
	for _, a := range accounts {
		var equity, pnl date.History[float64]
		for _, snap := range a.Equities.Normalize() {
			if snap.Date.Before(start) {
				continue
			}
			equity.Append(snap.Date, snap.Equity)
			pnl.Append(snap.Date, snap.PnL)
		}
		histories = append(histories, &equity)
		pnls = append(pnls, &pnl)
		ledgers = append(ledgers, a.Flows)
	}

	var series EquitySeries
	for _, day := range date.Union(histories...) {
		var point EquitySnapshot
		point.Date = day
		for i, h := range histories {
			v, ok := h.Get(day)
			if !ok {
				continue
			}
			point.Equity += v
			if p, ok := pnls[i].Get(day); ok {
				point.PnL += p
			}
		}
		series = append(series, point)
	}

	return series, MergeFlowLedgers(ledgers...)
}

// DailyChangeGate collects per-account daily-change figures and releases
// the aggregate sum only once every required account has reported its own.
// Until then the aggregate is "not ready" rather than a partial,
// misleading sum of whichever accounts happened to respond first.
//
// The gate is safe for concurrent use; it is the only shared mutable
// object in this package, by contract with the asynchronous fetch layer.
type DailyChangeGate struct {
	mu       sync.Mutex
	required map[string]struct{}
	reported map[string]float64
}

// NewDailyChangeGate creates a gate requiring a report from each listed account.
func NewDailyChangeGate(accountIDs []string) *DailyChangeGate {
	required := make(map[string]struct{}, len(accountIDs))
	for _, id := range accountIDs {
		required[id] = struct{}{}
	}
	return &DailyChangeGate{
		required: required,
		reported: make(map[string]float64, len(accountIDs)),
	}
}

// Report records one account's daily change. Reports from accounts that
// are not part of the gate are ignored; a second report from the same
// account overwrites the first.
func (g *DailyChangeGate) Report(accountID string, change float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.required[accountID]; !ok {
		return
	}
	g.reported[accountID] = change
}

// Value returns the aggregate daily change and true once every required
// account has reported, zero and false before that.
func (g *DailyChangeGate) Value() (float64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.reported) < len(g.required) {
		return 0, false
	}
	var sum float64
	for _, change := range g.reported {
		sum += change
	}
	return sum, true
}

// Reset clears all reports, typically at the start of a new refresh cycle.
func (g *DailyChangeGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reported = make(map[string]float64, len(g.required))
}
