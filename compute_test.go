package twr

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/averauld/twr/date"
)

// fakeFeed serves canned per-account data and can be told to fail or
// delay individual fetches.
type fakeFeed struct {
	mu         sync.Mutex
	equities   map[string]EquitySeries
	activities map[string][]Activity
	balances   map[string]float64
	fail       map[string]error      // per-account fetch failure
	delay      map[string]time.Duration
	calls      int
}

func (f *fakeFeed) wait(accountID string) {
	if d, ok := f.delay[accountID]; ok {
		time.Sleep(d)
	}
}

func (f *fakeFeed) Accounts(ctx context.Context) ([]Account, error) { return nil, nil }

func (f *fakeFeed) EquityHistory(ctx context.Context, accountID string, r date.Range) (EquitySeries, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	f.wait(accountID)
	if err := f.fail[accountID]; err != nil {
		return nil, err
	}
	return f.equities[accountID], nil
}

func (f *fakeFeed) Activities(ctx context.Context, accountID string, r date.Range) ([]Activity, error) {
	return f.activities[accountID], nil
}

func (f *fakeFeed) Balance(ctx context.Context, accountID string) (float64, error) {
	return f.balances[accountID], nil
}

func feedFixture() *fakeFeed {
	d := date.New(2025, time.March, 3)
	return &fakeFeed{
		equities: map[string]EquitySeries{
			"a1": {
				{Date: d, Equity: 10000},
				{Date: d.Add(1), Equity: 10100},
				{Date: d.Add(2), Equity: 10000},
			},
			"a2": {
				{Date: d, Equity: 5000},
				{Date: d.Add(1), Equity: 5050},
				{Date: d.Add(2), Equity: 5100},
			},
		},
		activities: map[string][]Activity{},
		balances:   map[string]float64{"a1": 10200, "a2": 5100},
		fail:       map[string]error{},
		delay:      map[string]time.Duration{},
	}
}

func account(id string) Account {
	return Account{ID: id, Name: id, Currency: "USD", FirstTrade: date.New(2025, time.March, 3)}
}

func TestComputer_AccountPerformance(t *testing.T) {
	c := NewComputer(feedFixture(), nil)

	report, err := c.AccountPerformance(context.Background(), account("a1"), ComputeOptions{})
	if err != nil {
		t.Fatalf("AccountPerformance() error = %v", err)
	}
	if len(report.Points) != 3 {
		t.Fatalf("got %d points, want 3", len(report.Points))
	}
	approx(t, "first cumulative", report.Points[0].CumulativeTWR, 0)
	approx(t, "second cumulative", report.Points[1].CumulativeTWR, 0.01)
	if report.Account != "a1" {
		t.Errorf("report.Account = %q, want a1", report.Account)
	}
}

func TestComputer_AccountPerformanceLive(t *testing.T) {
	feed := feedFixture()
	c := NewComputer(feed, nil)
	today := date.New(2025, time.March, 6)

	report, err := c.AccountPerformance(context.Background(), account("a1"), ComputeOptions{Live: true, Today: today})
	if err != nil {
		t.Fatalf("AccountPerformance() error = %v", err)
	}
	if len(report.Points) != 4 {
		t.Fatalf("got %d points, want 4 (live point appended)", len(report.Points))
	}
	livePoint := report.Points[3]
	if livePoint.Date != today {
		t.Errorf("live point date = %v, want %v", livePoint.Date, today)
	}
	approx(t, "live return", livePoint.DailyReturn, 0.02)
	if !report.Live {
		t.Error("report.Live = false, want true")
	}
}

func TestComputer_FailureIsAtomic(t *testing.T) {
	feed := feedFixture()
	feed.fail["a1"] = errors.New("gateway timeout")
	c := NewComputer(feed, nil)

	if _, err := c.AccountPerformance(context.Background(), account("a1"), ComputeOptions{}); err == nil {
		t.Fatal("expected an error when a required fetch fails")
	}

	// Other independent accounts proceed normally.
	report, err := c.AccountPerformance(context.Background(), account("a2"), ComputeOptions{})
	if err != nil {
		t.Fatalf("independent account failed too: %v", err)
	}
	if len(report.Points) != 3 {
		t.Errorf("got %d points, want 3", len(report.Points))
	}
}

func TestComputer_TotalPerformance(t *testing.T) {
	c := NewComputer(feedFixture(), nil)
	accounts := []Account{account("a1"), account("a2")}

	report, err := c.TotalPerformance(context.Background(), accounts, ComputeOptions{})
	if err != nil {
		t.Fatalf("TotalPerformance() error = %v", err)
	}
	if report.Account != TotalAccountsName {
		t.Errorf("report.Account = %q, want %q", report.Account, TotalAccountsName)
	}
	if len(report.Points) != 3 {
		t.Fatalf("got %d points, want 3", len(report.Points))
	}
	approx(t, "aggregate day 1 equity", report.Points[0].Equity, 15000)
	// day 2: (10100+5050)/(10000+5000) - 1
	approx(t, "aggregate day 2 return", report.Points[1].DailyReturn, 15150.0/15000.0-1)
}

// A failed constituent must fail the whole aggregate, never under-count it.
func TestComputer_TotalPerformanceFailClosed(t *testing.T) {
	feed := feedFixture()
	feed.fail["a2"] = errors.New("account feed down")
	c := NewComputer(feed, nil)

	_, err := c.TotalPerformance(context.Background(), []Account{account("a1"), account("a2")}, ComputeOptions{})
	if err == nil {
		t.Fatal("expected the aggregate to be unavailable when a constituent fails")
	}
}

func TestComputer_EmptyInputsAreNotErrors(t *testing.T) {
	feed := &fakeFeed{
		equities:   map[string]EquitySeries{},
		activities: map[string][]Activity{},
		balances:   map[string]float64{},
		fail:       map[string]error{},
		delay:      map[string]time.Duration{},
	}
	c := NewComputer(feed, nil)

	report, err := c.AccountPerformance(context.Background(), account("empty"), ComputeOptions{})
	if err != nil {
		t.Fatalf("AccountPerformance() error = %v, want empty report", err)
	}
	if !report.IsEmpty() {
		t.Errorf("report = %+v, want empty", report)
	}
}

// An older computation that finishes after a newer trigger must be dropped.
func TestRefresher_DropsStaleResults(t *testing.T) {
	var mu sync.Mutex
	var applied []string

	r := &Refresher{
		Apply: func(rep *PerformanceReport) {
			mu.Lock()
			applied = append(applied, rep.Account)
			mu.Unlock()
		},
	}

	slowStarted := make(chan struct{})
	release := make(chan struct{})
	r.Trigger(context.Background(), func(ctx context.Context) (*PerformanceReport, error) {
		close(slowStarted)
		<-release // finishes only after the second trigger completed
		return &PerformanceReport{Account: "stale"}, nil
	})
	<-slowStarted

	r.Trigger(context.Background(), func(ctx context.Context) (*PerformanceReport, error) {
		return &PerformanceReport{Account: "fresh"}, nil
	})

	// Let the fresh one land, then release the stale one.
	deadline := time.After(time.Second)
	for {
		mu.Lock()
		n := len(applied)
		mu.Unlock()
		if n == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("fresh result never applied")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	close(release)
	r.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(applied) != 1 || applied[0] != "fresh" {
		t.Errorf("applied = %v, want [fresh] only", applied)
	}
}

func TestRefresher_ErrorsOfStaleRunsAreDropped(t *testing.T) {
	var mu sync.Mutex
	var errs int

	r := &Refresher{
		Apply: func(*PerformanceReport) {},
		OnError: func(error) {
			mu.Lock()
			errs++
			mu.Unlock()
		},
	}

	started := make(chan struct{})
	release := make(chan struct{})
	r.Trigger(context.Background(), func(ctx context.Context) (*PerformanceReport, error) {
		close(started)
		<-release
		return nil, errors.New("stale failure")
	})
	<-started
	r.Trigger(context.Background(), func(ctx context.Context) (*PerformanceReport, error) {
		return &PerformanceReport{Account: "ok"}, nil
	})
	close(release)
	r.Wait()

	mu.Lock()
	defer mu.Unlock()
	if errs != 0 {
		t.Errorf("stale error reported %d times, want 0", errs)
	}
}
