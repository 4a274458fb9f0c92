package twr

// DailyReturn computes the cash-flow-adjusted fractional return of one
// valuation interval.
//
// netFlow is the net external cash that entered (positive) or left
// (negative) the account strictly after the previous valuation and up to
// and including the current one. Subtracting it from the current equity
// removes the step-change caused by money moving, isolating the
// market-driven return: a withdrawal would otherwise inflate the naive
// return and a deposit deflate it.
//
// With no prior basis (previousEquity == 0) the return is 0, not an error.
func DailyReturn(previousEquity, currentEquity, netFlow float64) float64 {
	if previousEquity == 0 {
		return 0
	}
	adjusted := currentEquity - netFlow
	return adjusted/previousEquity - 1
}
