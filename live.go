package twr

import (
	"math"

	"github.com/averauld/twr/date"
)

// Materiality thresholds for replacing an existing live point. Refreshing
// a balance every few seconds produces negligible float noise; replacing
// the point for it only makes charts flicker.
const (
	liveEquityEpsilon = 0.01 // one minor currency unit
	liveTWREpsilon    = 1e-6
)

// ExtendWithToday appends or overwrites a "today" point on an already
// built series, using a live current balance instead of a historical
// snapshot. The historical series is not recomputed.
//
// lastDate and lastEquity identify the final *historical* snapshot the
// series was built from; flows since that day (exclusive) through today
// (inclusive) neutralize any cash movement that happened in between.
//
// Rules, in order:
//   - empty series, or today before the last point's day (stale feed):
//     the series is returned unchanged.
//   - today strictly after the last point's day: a new point is appended.
//   - today equals the last point's day: the point is overwritten in
//     place, but only when the equity or cumulative value moved beyond a
//     small materiality threshold.
func ExtendWithToday(points []TWRPoint, lastDate date.Date, lastEquity, currentBalance float64, flows *FlowLedger, today date.Date) []TWRPoint {
	if len(points) == 0 {
		return points
	}
	last := points[len(points)-1]
	if today.Before(last.Date) {
		return points
	}

	flow := flows.Between(lastDate.DayNumber(), today.DayNumber())
	todayReturn := DailyReturn(lastEquity, currentBalance, flow.Net)

	// The compounding anchor is the point at the last historical day, not
	// necessarily the series' last point: on a refresh the last point is
	// the previous live estimate and must not compound into itself.
	anchorTWR := last.CumulativeTWR
	for i := len(points) - 1; i >= 0; i-- {
		if points[i].Date == lastDate {
			anchorTWR = points[i].CumulativeTWR
			break
		}
		if points[i].Date.Before(lastDate) {
			break
		}
	}

	live := TWRPoint{
		Date:          today,
		Equity:        currentBalance,
		Deposits:      flow.Deposits,
		Withdrawals:   flow.Withdrawals,
		NetCashFlow:   flow.Net,
		DailyReturn:   todayReturn,
		CumulativeTWR: (1+anchorTWR)*(1+todayReturn) - 1,
	}

	if today.After(last.Date) {
		return append(points, live)
	}

	// Same day: replace only a material change.
	if math.Abs(live.Equity-last.Equity) < liveEquityEpsilon &&
		math.Abs(live.CumulativeTWR-last.CumulativeTWR) < liveTWREpsilon {
		return points
	}
	points[len(points)-1] = live
	return points
}
