package twr

import "github.com/averauld/twr/date"

// TotalAccountsName is the display name of the synthetic aggregate account.
const TotalAccountsName = "Total Accounts"

// PerformanceReport is the windowed TWR series of one account or of the
// synthetic aggregate, plus the summary figures a caller typically renders
// next to the chart. Reports are value objects: each computation produces
// a fresh one owned by its caller.
type PerformanceReport struct {
	Account  string // account display name, or TotalAccountsName
	Currency string
	Window   date.Range
	Points   []TWRPoint
	Live     bool // the last point is a same-day live estimate
}

// IsEmpty reports whether the computation produced no points (missing or
// empty inputs are not errors; callers render an empty state).
func (r *PerformanceReport) IsEmpty() bool { return len(r.Points) == 0 }

// StartEquity returns the equity at the first point of the window.
func (r *PerformanceReport) StartEquity() Money {
	if r.IsEmpty() {
		return M(0, r.Currency)
	}
	return M(r.Points[0].Equity, r.Currency)
}

// EndEquity returns the equity at the last point (live balance when Live).
func (r *PerformanceReport) EndEquity() Money {
	if r.IsEmpty() {
		return M(0, r.Currency)
	}
	return M(r.Points[len(r.Points)-1].Equity, r.Currency)
}

// NetExternalFlow sums the net external cash movement attributed to the window.
func (r *PerformanceReport) NetExternalFlow() Money {
	var net float64
	for _, p := range r.Points {
		net += p.NetCashFlow
	}
	return M(net, r.Currency)
}

// CumulativeTWR returns the compounded return over the window.
func (r *PerformanceReport) CumulativeTWR() Percent {
	if r.IsEmpty() {
		return 0
	}
	return FractionAsPercent(r.Points[len(r.Points)-1].CumulativeTWR)
}

// DailyChange returns the equity change of the report's final day, net of
// that day's external flows. This is the figure a constituent account
// feeds into a DailyChangeGate.
func (r *PerformanceReport) DailyChange() float64 {
	n := len(r.Points)
	if n < 2 {
		return 0
	}
	last, prev := r.Points[n-1], r.Points[n-2]
	return last.Equity - prev.Equity - last.NetCashFlow
}

// LastDay returns the calendar day of the final point.
func (r *PerformanceReport) LastDay() (date.Date, bool) {
	if r.IsEmpty() {
		return date.Date{}, false
	}
	return r.Points[len(r.Points)-1].Date, true
}
