package twr

import "github.com/averauld/twr/date"

// ClampAndRebase restricts a finalized series to the visible window
// [window.From, window.To] (inclusive, open sides unconstrained) and
// re-anchors the cumulative return at 0 on the first retained point.
//
// Only the compounding is restarted: each point's already-computed
// DailyReturn is left untouched, and the first retained point's own daily
// return belongs to the interval before the window, so it does not
// compound. The displayed series therefore always starts at 0% no matter
// how much history was fetched behind the scenes.
//
// A series holding a full liquidation keeps its -100% day: recompounding
// pins the factor at zero from that point on, so the rebased series does
// not reproduce the restart that BuildSeries applies when the account is
// funded again. Windows are expected to start inside one funded stretch.
//
// The result is a fresh slice; the input is never modified.
func ClampAndRebase(points []TWRPoint, window date.Range) []TWRPoint {
	var out []TWRPoint
	for _, p := range points {
		if window.Contains(p.Date) {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}

	factor := 1.0
	out[0].CumulativeTWR = 0
	for i := 1; i < len(out); i++ {
		factor *= 1 + out[i].DailyReturn
		out[i].CumulativeTWR = factor - 1
	}
	return out
}
