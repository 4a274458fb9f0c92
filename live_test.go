package twr

import (
	"testing"
	"time"

	"github.com/averauld/twr/date"
)

func builtSeries(t *testing.T) ([]TWRPoint, EquitySeries) {
	t.Helper()
	equities := EquitySeries{
		{Date: date.New(2025, time.March, 3), Equity: 10000},
		{Date: date.New(2025, time.March, 4), Equity: 10100},
	}
	return BuildSeries(equities, nil), equities
}

func TestExtendWithToday_Appends(t *testing.T) {
	points, equities := builtSeries(t)
	last := equities[len(equities)-1]
	today := date.New(2025, time.March, 5)

	got := ExtendWithToday(points, last.Date, last.Equity, 10201, nil, today)
	if len(got) != 3 {
		t.Fatalf("got %d points, want 3", len(got))
	}
	livePoint := got[2]
	if livePoint.Date != today {
		t.Errorf("live point date = %v, want %v", livePoint.Date, today)
	}
	approx(t, "live daily return", livePoint.DailyReturn, 0.01)
	// (1 + 0.01) * (1 + 0.01) - 1
	approx(t, "live cumulative", livePoint.CumulativeTWR, 1.01*1.01-1)
}

func TestExtendWithToday_NeutralizesFlowSinceLastClose(t *testing.T) {
	points, equities := builtSeries(t)
	last := equities[len(equities)-1]
	today := date.New(2025, time.March, 5)
	flows := AggregateCashFlows([]Activity{
		{Date: today.String(), Type: "CSD", NetAmount: "1000"},
	})

	got := ExtendWithToday(points, last.Date, last.Equity, 11100, flows, today)
	livePoint := got[len(got)-1]
	// adjusted = 11100 - 1000 = 10100: flat day.
	approx(t, "live daily return", livePoint.DailyReturn, 0)
	approx(t, "live cumulative", livePoint.CumulativeTWR, points[1].CumulativeTWR)
}

// A today date before the last historical point must leave the series unchanged.
func TestExtendWithToday_StaleTodayIsNoop(t *testing.T) {
	points, equities := builtSeries(t)
	last := equities[len(equities)-1]
	stale := date.New(2025, time.March, 1)

	got := ExtendWithToday(points, last.Date, last.Equity, 99999, nil, stale)
	if len(got) != len(points) {
		t.Fatalf("got %d points, want %d", len(got), len(points))
	}
	for i := range points {
		if got[i] != points[i] {
			t.Errorf("point %d modified: %+v != %+v", i, got[i], points[i])
		}
	}
}

func TestExtendWithToday_RefreshReplacesLivePoint(t *testing.T) {
	points, equities := builtSeries(t)
	last := equities[len(equities)-1]
	today := date.New(2025, time.March, 5)

	got := ExtendWithToday(points, last.Date, last.Equity, 10201, nil, today)
	// Second refresh, same day, materially different balance: replaced in
	// place, still anchored on the historical close, not the old estimate.
	got = ExtendWithToday(got, last.Date, last.Equity, 10302, nil, today)
	if len(got) != 3 {
		t.Fatalf("got %d points, want 3 (replace, not append)", len(got))
	}
	livePoint := got[2]
	approx(t, "refreshed daily return", livePoint.DailyReturn, 0.02)
	approx(t, "refreshed cumulative", livePoint.CumulativeTWR, 1.01*1.02-1)
}

func TestExtendWithToday_ImmaterialRefreshIgnored(t *testing.T) {
	points, equities := builtSeries(t)
	last := equities[len(equities)-1]
	today := date.New(2025, time.March, 5)

	got := ExtendWithToday(points, last.Date, last.Equity, 10201, nil, today)
	before := got[2]
	// Sub-cent wiggle: not material, the point stays put.
	got = ExtendWithToday(got, last.Date, last.Equity, 10201.001, nil, today)
	if got[2] != before {
		t.Errorf("immaterial refresh replaced the live point: %+v -> %+v", before, got[2])
	}
}

func TestExtendWithToday_EmptySeries(t *testing.T) {
	got := ExtendWithToday(nil, date.New(2025, time.March, 4), 0, 1000, nil, date.New(2025, time.March, 5))
	if got != nil {
		t.Errorf("extending an empty series = %v, want nil", got)
	}
}

func TestExtendWithToday_ZeroLastEquityGuard(t *testing.T) {
	equities := EquitySeries{{Date: date.New(2025, time.March, 4), Equity: 0}}
	points := BuildSeries(equities, nil)
	today := date.New(2025, time.March, 5)

	got := ExtendWithToday(points, equities[0].Date, 0, 500, nil, today)
	livePoint := got[len(got)-1]
	approx(t, "guarded daily return", livePoint.DailyReturn, 0)
	approx(t, "guarded cumulative", livePoint.CumulativeTWR, 0)
}
