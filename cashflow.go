package twr

import (
	"sort"
	"strings"

	"github.com/averauld/twr/date"
	"github.com/shopspring/decimal"
)

// Activity is one raw record from the brokerage activity feed. Only cash
// deposits and withdrawals contribute to TWR; every other activity type
// (trades, dividends, fees...) is ignored by this engine.
type Activity struct {
	Date      string // calendar day, e.g. "2025-03-07"
	Type      string // activity type code from the feed
	NetAmount string // signed or unsigned decimal amount
}

// FlowKind classifies an activity record for the engine.
type FlowKind int

const (
	OtherActivity FlowKind = iota
	Deposit
	Withdrawal
)

// ClassifyActivity maps a feed activity type to a FlowKind. Both the long
// names and the CSD/CSW wire codes are recognized; anything else is
// OtherActivity, which is not an error.
func ClassifyActivity(activityType string) FlowKind {
	switch strings.ToLower(strings.TrimSpace(activityType)) {
	case "deposit", "csd":
		return Deposit
	case "withdrawal", "csw":
		return Withdrawal
	default:
		return OtherActivity
	}
}

// DayFlow is the aggregated external cash movement for one calendar day.
// Deposits and Withdrawals are magnitudes; Net is Deposits - Withdrawals.
type DayFlow struct {
	Day         int // date encoded as YYYYMMDD
	Deposits    float64
	Withdrawals float64
	Net         float64
}

// FlowLedger holds the per-day aggregated cash flows of one account (or of
// a synthetic aggregate), sorted by day. It is the single owner of the
// flow-attribution interval convention: every consumer sums flows over the
// half-open interval (afterDay, throughDay] via NetBetween, so the
// convention cannot drift between the series builder, the live extender
// and the aggregate path.
type FlowLedger struct {
	entries []DayFlow
}

// AggregateCashFlows classifies and sums the deposit/withdrawal activities
// per calendar day. Records with an unparseable amount or date contribute
// zero; the result is deterministic regardless of input order.
func AggregateCashFlows(activities []Activity) *FlowLedger {
	type accum struct{ dep, wd decimal.Decimal }
	byDay := make(map[int]*accum)

	for _, a := range activities {
		kind := ClassifyActivity(a.Type)
		if kind == OtherActivity {
			continue
		}
		on, err := date.Parse(a.Date)
		if err != nil {
			// Upstream feeds occasionally emit partial records; a record
			// we cannot place on a day contributes nothing.
			continue
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(a.NetAmount))
		if err != nil {
			amount = decimal.Zero
		}
		amount = amount.Abs()

		day := on.DayNumber()
		acc := byDay[day]
		if acc == nil {
			acc = &accum{}
			byDay[day] = acc
		}
		switch kind {
		case Deposit:
			acc.dep = acc.dep.Add(amount)
		case Withdrawal:
			acc.wd = acc.wd.Add(amount)
		}
	}

	ledger := &FlowLedger{entries: make([]DayFlow, 0, len(byDay))}
	for day, acc := range byDay {
		ledger.entries = append(ledger.entries, DayFlow{
			Day:         day,
			Deposits:    acc.dep.InexactFloat64(),
			Withdrawals: acc.wd.InexactFloat64(),
			Net:         acc.dep.Sub(acc.wd).InexactFloat64(),
		})
	}
	sort.Slice(ledger.entries, func(i, j int) bool { return ledger.entries[i].Day < ledger.entries[j].Day })
	return ledger
}

// MergeFlowLedgers sums several accounts' ledgers into one, day by day.
func MergeFlowLedgers(ledgers ...*FlowLedger) *FlowLedger {
	byDay := make(map[int]DayFlow)
	for _, l := range ledgers {
		if l == nil {
			continue
		}
		for _, e := range l.entries {
			f := byDay[e.Day]
			f.Day = e.Day
			f.Deposits += e.Deposits
			f.Withdrawals += e.Withdrawals
			f.Net += e.Net
			byDay[e.Day] = f
		}
	}
	merged := &FlowLedger{entries: make([]DayFlow, 0, len(byDay))}
	for _, f := range byDay {
		merged.entries = append(merged.entries, f)
	}
	sort.Slice(merged.entries, func(i, j int) bool { return merged.entries[i].Day < merged.entries[j].Day })
	return merged
}

// Len returns the number of days carrying a flow.
func (l *FlowLedger) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Entries returns the aggregated flows in ascending day order.
func (l *FlowLedger) Entries() []DayFlow {
	if l == nil {
		return nil
	}
	out := make([]DayFlow, len(l.entries))
	copy(out, l.entries)
	return out
}

// Net returns the net flow recorded on the given day (YYYYMMDD), zero if none.
func (l *FlowLedger) Net(day int) float64 {
	if f, ok := l.On(day); ok {
		return f.Net
	}
	return 0
}

// On returns the aggregated flow of one day.
func (l *FlowLedger) On(day int) (DayFlow, bool) {
	if l == nil {
		return DayFlow{}, false
	}
	i := sort.Search(len(l.entries), func(i int) bool { return l.entries[i].Day >= day })
	if i < len(l.entries) && l.entries[i].Day == day {
		return l.entries[i], true
	}
	return DayFlow{}, false
}

// Between aggregates all flows with afterDay < day <= throughDay.
//
// The interval is strictly half-open: flows dated exactly on afterDay are
// excluded, flows dated on throughDay are included. Shifting this
// convention by one day silently corrupts every subsequent compounded
// value, so all interval sums in this module go through here.
func (l *FlowLedger) Between(afterDay, throughDay int) DayFlow {
	agg := DayFlow{Day: throughDay}
	if l == nil {
		return agg
	}
	i := sort.Search(len(l.entries), func(i int) bool { return l.entries[i].Day > afterDay })
	for ; i < len(l.entries) && l.entries[i].Day <= throughDay; i++ {
		agg.Deposits += l.entries[i].Deposits
		agg.Withdrawals += l.entries[i].Withdrawals
		agg.Net += l.entries[i].Net
	}
	return agg
}

// NetBetween is a shorthand for Between(afterDay, throughDay).Net.
func (l *FlowLedger) NetBetween(afterDay, throughDay int) float64 {
	return l.Between(afterDay, throughDay).Net
}
